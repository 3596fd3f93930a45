package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Elasticsearch fakes
// ==========================

func newFakeES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestJobRepository_Get(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/_doc/job-1", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"_id": "job-1", "found": true,
			"_source": {
				"title": "Frontend Intern", "employer_id": "emp-1", "type": "Internship",
				"mode": "Remote", "required_skills": ["react", "css"], "status": "active",
				"posted_at": "2025-01-10T09:00:00Z"
			}
		}`)
	})
	repo := NewJobRepository(client, "jobs", logger.NewTestLogger(t))

	job, err := repo.Get(context.Background(), "job-1")

	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, models.JobTypeInternship, job.Type)
	assert.Equal(t, models.JobModeRemote, job.Mode)
	assert.Equal(t, []string{"react", "css"}, job.RequiredSkills)
	assert.Equal(t, "emp-1", job.EmployerID)
}

func TestJobRepository_GetNotFound(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"_id": "missing", "found": false}`)
	})
	repo := NewJobRepository(client, "jobs", logger.NewTestLogger(t))

	_, err := repo.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobRepository_Search(t *testing.T) {
	var captured map[string]interface{}
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/_search", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("size"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = io.WriteString(w, `{
			"hits": {"total": {"value": 2}, "hits": [
				{"_id": "a", "_source": {"title": "Backend", "type": "full_time", "required_skills": ["go"]}},
				{"_id": "b", "_source": {"title": "Odd", "type": "apprenticeship"}}
			]}
		}`)
	})
	repo := NewJobRepository(client, "", logger.NewTestLogger(t))

	jobs, err := repo.Search(context.Background(), JobQuery{
		Types:  []models.JobType{models.JobTypeFullTime},
		Skills: []string{"go"},
		Size:   500,
	})

	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, models.JobTypeFullTime, jobs[0].Type)
	assert.Equal(t, models.JobType(""), jobs[1].Type)
	assert.Equal(t, []string{}, jobs[1].RequiredSkills)

	boolQuery := captured["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["filter"], 2)
	assert.Len(t, boolQuery["should"], 1)
}

func TestJobRepository_SearchMissingIndex(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error": {"type": "index_not_found_exception"}}`)
	})
	repo := NewJobRepository(client, "jobs", logger.NewTestLogger(t))

	_, err := repo.Search(context.Background(), JobQuery{})

	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestBuildSearchQuery_DefaultsToActive(t *testing.T) {
	q := buildSearchQuery(JobQuery{})
	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})

	assert.Equal(t, []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"status": "active"}},
	}, boolQuery["filter"])
	assert.NotContains(t, boolQuery, "should")
}

// ==========================
// Profiles
// ==========================

func setupProfileRepo(t *testing.T) (*ProfileRepository, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewProfileRepository(db, rdb, time.Minute, logger.NewTestLogger(t)), mock, mr
}

const profileQuery = `SELECT user_id, full_name, email, skills FROM profiles WHERE user_id = \$1`

func TestProfileRepository_ReadThrough(t *testing.T) {
	repo, mock, mr := setupProfileRepo(t)

	mock.ExpectQuery(profileQuery).WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "email", "skills"}).
			AddRow("user-1", "Ada", "ada@example.com", "{React,Node.js}"))

	first, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"React", "Node.js"}, first.Skills)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("profile:skills:user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, repo.Invalidate(context.Background(), "user-1"))
	assert.False(t, mr.Exists("profile:skills:user-1"))
}

func TestProfileRepository_NotFound(t *testing.T) {
	repo, mock, _ := setupProfileRepo(t)
	mock.ExpectQuery(profileQuery).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "email", "skills"}))

	_, err := repo.Get(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepository_QueryFailure(t *testing.T) {
	repo, mock, _ := setupProfileRepo(t)
	mock.ExpectQuery(profileQuery).WithArgs("user-1").WillReturnError(errors.New("connection reset"))

	_, err := repo.Get(context.Background(), "user-1")

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}

func TestProfileRepository_CorruptCacheEntry(t *testing.T) {
	repo, mock, mr := setupProfileRepo(t)
	require.NoError(t, mr.Set("profile:skills:user-1", "{not json"))
	mock.ExpectQuery(profileQuery).WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "email", "skills"}).
			AddRow("user-1", "", "", "{}"))

	p, err := repo.Get(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Skills)
}

// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-workers/internal/catalog"
	"jobmatch-workers/internal/common/config"
	"jobmatch-workers/internal/common/database"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/matching/orchestrator"
	"jobmatch-workers/internal/models"
	"jobmatch-workers/internal/recruiting/application"
	"jobmatch-workers/internal/recruiting/candidate"
	"jobmatch-workers/internal/recruiting/statussync"
	"jobmatch-workers/internal/recruiting/store"
	scorejoblistings "jobmatch-workers/internal/workers/matching/score-job-listings"
	getcandidate "jobmatch-workers/internal/workers/recruiting/get-candidate"
	submitapplication "jobmatch-workers/internal/workers/recruiting/submit-application"
	updatecandidatestatus "jobmatch-workers/internal/workers/recruiting/update-candidate-status"
)

// env runs the flow against live Postgres, Redis and Elasticsearch.
type env struct {
	pg      *database.PostgresClient
	rdb     *database.RedisClient
	es      *database.ElasticsearchClient
	index   string
	matcher *orchestrator.Orchestrator
	jobs    *catalog.JobRepository
	profile *catalog.ProfileRepository
	cands   *candidate.Service
	apps    *application.Service
	log     logger.Logger
}

func setup(t *testing.T) *env {
	t.Helper()
	if os.Getenv("JOBMATCH_E2E") != "1" {
		t.Skip("set JOBMATCH_E2E=1 to run against live services")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	// Force localhost for e2e runs.
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}

	ctx := context.Background()
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")
	t.Cleanup(func() { pg.Close() })

	_, err = database.Migrate(ctx, pg.DB, log)
	require.NoError(t, err)

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "Redis client creation failed")
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
	t.Cleanup(func() { rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err, "Elasticsearch client creation failed")
	require.NoError(t, es.Ping(), "Elasticsearch ping failed")

	e := &env{pg: pg, rdb: rdb, es: es, index: "jobs_e2e_" + uuid.NewString()[:8], log: log}
	createJobsIndex(t, e)

	cfg.Matching.Oracle.Provider = "none"
	e.matcher = orchestrator.New(nil, orchestrator.NewRedisCache(rdb.Client), orchestrator.OptionsFromConfig(cfg.Matching), log)
	e.jobs = catalog.NewJobRepository(es.Client, e.index, log)
	e.profile = catalog.NewProfileRepository(pg.DB, rdb.Client, time.Minute, log)

	st := store.New(pg.DB)
	e.cands = candidate.NewService(st, statussync.New(st, nil, log), log)
	e.apps = application.NewService(st, e.profile, e.jobs, log)
	return e
}

// ==========================
// Seed data
// ==========================

func createJobsIndex(t *testing.T, e *env) {
	t.Helper()
	mapping := `{"mappings":{"properties":{
		"title":{"type":"text"},
		"employer_id":{"type":"keyword"},
		"type":{"type":"keyword"},
		"mode":{"type":"keyword"},
		"required_skills":{"type":"keyword"},
		"location":{"type":"keyword"},
		"status":{"type":"keyword"},
		"posted_at":{"type":"date"}}}}`

	res, err := e.es.Client.Indices.Create(e.index, e.es.Client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))))
	require.NoError(t, err)
	res.Body.Close()
	require.False(t, res.IsError(), res.String())

	t.Cleanup(func() {
		if res, err := e.es.Client.Indices.Delete([]string{e.index}); err == nil {
			res.Body.Close()
		}
	})
}

func seedJob(t *testing.T, e *env, id, employerID string, requiredSkills []string) {
	t.Helper()
	doc, err := json.Marshal(map[string]interface{}{
		"title":           "Fullstack Engineer",
		"employer_id":     employerID,
		"type":            "full_time",
		"mode":            "remote",
		"required_skills": requiredSkills,
		"status":          "active",
		"posted_at":       time.Now().UTC(),
	})
	require.NoError(t, err)

	res, err := e.es.Client.Index(e.index, bytes.NewReader(doc),
		e.es.Client.Index.WithDocumentID(id),
		e.es.Client.Index.WithRefresh("true"))
	require.NoError(t, err)
	res.Body.Close()
	require.False(t, res.IsError(), res.String())
}

func seedProfile(t *testing.T, e *env, userID string, skills []string) {
	t.Helper()
	_, err := e.pg.DB.Exec(`INSERT INTO profiles (user_id, full_name, email, skills) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET skills = EXCLUDED.skills`,
		userID, "E2E Applicant", userID+"@example.com", pq.Array(skills))
	require.NoError(t, err)
	require.NoError(t, e.profile.Invalidate(context.Background(), userID))

	t.Cleanup(func() {
		e.pg.DB.Exec(`DELETE FROM applications WHERE user_id = $1`, userID)
		e.pg.DB.Exec(`DELETE FROM profiles WHERE user_id = $1`, userID)
	})
}

// ==========================
// Flow
// ==========================

func TestRecruitingFlow(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	userID := "e2e-user-" + uuid.NewString()[:8]
	jobID := "e2e-job-" + uuid.NewString()[:8]
	seedProfile(t, e, userID, []string{"React", "Node.js"})
	seedJob(t, e, jobID, "emp-e2e", []string{"react", "node.js", "mongodb"})

	// Listings are scored against the stored profile.
	scorer := scorejoblistings.NewHandler(scorejoblistings.LoadConfig(config.WorkerConfig{}), e.matcher, e.jobs, e.profile, e.log)
	listings, err := scorer.Execute(ctx, &scorejoblistings.Input{UserID: userID})
	require.NoError(t, err)
	require.Len(t, listings.Jobs, 1)
	assert.Equal(t, jobID, listings.Jobs[0].JobID)
	assert.Equal(t, 52, listings.Jobs[0].MatchPercentage)

	// Applying creates the application and its candidate.
	submit := submitapplication.NewHandler(submitapplication.LoadConfig(config.WorkerConfig{}), e.apps, e.log)
	applied, err := submit.Execute(ctx, &submitapplication.Input{UserID: userID, JobID: jobID})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationApplied), applied.ApplicationStatus)
	assert.Equal(t, string(models.CandidateNew), applied.CandidateStatus)
	assert.Equal(t, 52, applied.MatchScore)

	_, err = submit.Execute(ctx, &submitapplication.Input{UserID: userID, JobID: jobID})
	assert.ErrorIs(t, err, store.ErrDuplicateApplication)

	// The employer opens the candidate.
	get := getcandidate.NewHandler(getcandidate.LoadConfig(config.WorkerConfig{}), e.cands, e.matcher, e.profile, e.jobs, e.log)
	viewed, err := get.Execute(ctx, &getcandidate.Input{CandidateID: applied.CandidateID})
	require.NoError(t, err)
	assert.True(t, viewed.Candidate.Viewed)
	assert.Equal(t, 52, viewed.Candidate.MatchScore)

	// Moving the candidate to reviewing shows the applicant "screening".
	update := updatecandidatestatus.NewHandler(updatecandidatestatus.LoadConfig(config.WorkerConfig{}), e.cands, e.log)
	moved, err := update.Execute(ctx, &updatecandidatestatus.Input{CandidateID: applied.CandidateID, Status: "reviewing"})
	require.NoError(t, err)
	assert.Equal(t, statussync.SyncedOk, moved.ApplicationSync.Kind)

	app, err := e.apps.Get(ctx, applied.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationScreening, app.Status)
	require.NotEmpty(t, app.Timeline)
	assert.Equal(t, statussync.TimelineEvent, app.Timeline[len(app.Timeline)-1].Event)
}

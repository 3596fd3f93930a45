// Package catalog reads the job listings and applicant profiles the matcher
// scores against.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

var (
	ErrJobNotFound       = errors.New("JOB_NOT_FOUND")
	ErrIndexNotFound     = errors.New("INDEX_NOT_FOUND")
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout     = errors.New("SEARCH_TIMEOUT")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// JobQuery filters active listings. Empty slices match everything.
type JobQuery struct {
	Types  []models.JobType
	Modes  []models.JobMode
	Skills []string
	From   int
	Size   int
}

// jobDocument is the stored shape of a listing in the jobs index.
type jobDocument struct {
	Title          string    `json:"title"`
	EmployerID     string    `json:"employer_id"`
	Type           string    `json:"type"`
	Mode           string    `json:"mode"`
	RequiredSkills []string  `json:"required_skills"`
	Location       string    `json:"location"`
	Status         string    `json:"status"`
	PostedAt       time.Time `json:"posted_at"`
}

func (d jobDocument) toModel(id string) models.Job {
	job := models.Job{
		ID:             id,
		Title:          d.Title,
		EmployerID:     d.EmployerID,
		RequiredSkills: d.RequiredSkills,
		Location:       d.Location,
		Status:         d.Status,
		PostedAt:       d.PostedAt,
	}
	// Unknown spellings leave the zero value, which earns no type modifier.
	if t, err := models.ParseJobType(d.Type); err == nil {
		job.Type = t
	}
	if m, err := models.ParseJobMode(d.Mode); err == nil {
		job.Mode = m
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	return job
}

type JobRepository struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewJobRepository(client *elasticsearch.Client, index string, log logger.Logger) *JobRepository {
	if index == "" {
		index = "jobs"
	}
	return &JobRepository{client: client, index: index, logger: log}
}

func (r *JobRepository) Get(ctx context.Context, id string) (models.Job, error) {
	req := esapi.GetRequest{Index: r.index, DocumentID: id}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return models.Job{}, r.transportError(ctx, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return models.Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if res.IsError() {
		return models.Job{}, fmt.Errorf("%w: get %s: %s", ErrSearchQueryFailed, id, res.Status())
	}

	var body struct {
		ID     string      `json:"_id"`
		Found  bool        `json:"found"`
		Source jobDocument `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return models.Job{}, fmt.Errorf("%w: decode job: %v", ErrSearchQueryFailed, err)
	}
	if !body.Found {
		return models.Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return body.Source.toModel(body.ID), nil
}

func (r *JobRepository) Search(ctx context.Context, q JobQuery) ([]models.Job, error) {
	from, size := q.From, q.Size
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	body, err := json.Marshal(buildSearchQuery(q))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchQueryFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	start := time.Now()
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, r.transportError(ctx, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, r.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string      `json:"_id"`
				Source jobDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode hits: %v", ErrSearchQueryFailed, err)
	}

	jobs := make([]models.Job, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		jobs = append(jobs, hit.Source.toModel(hit.ID))
	}

	r.logger.Debug("job search completed", map[string]interface{}{
		"index":     r.index,
		"totalHits": parsed.Hits.Total.Value,
		"returned":  len(jobs),
		"tookMs":    time.Since(start).Milliseconds(),
	})
	return jobs, nil
}

func (r *JobRepository) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrSearchTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
}

func buildSearchQuery(q JobQuery) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"status": "active"}},
	}

	if len(q.Types) > 0 {
		types := make([]string, 0, len(q.Types))
		for _, t := range q.Types {
			types = append(types, string(t))
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"type": types},
		})
	}
	if len(q.Modes) > 0 {
		modes := make([]string, 0, len(q.Modes))
		for _, m := range q.Modes {
			modes = append(modes, string(m))
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"mode": modes},
		})
	}

	boolQuery := map[string]interface{}{"filter": filterClauses}

	// Skills only rank; a listing with none of them is still returned.
	if len(q.Skills) > 0 {
		boolQuery["should"] = []interface{}{
			map[string]interface{}{"terms": map[string]interface{}{"required_skills": q.Skills}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"posted_at": map[string]interface{}{"order": "desc"}},
		},
	}
}

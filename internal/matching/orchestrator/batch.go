package orchestrator

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"jobmatch-workers/internal/models"
)

type ScoredJob struct {
	Job    JobView            `json:"job"`
	Result models.MatchResult `json:"result"`
}

// ComputeBatch scores one profile against many jobs in parallel. The whole
// batch runs under the batch ceiling; once it passes, the remaining jobs get
// deterministic scores. Results are sorted by percentage, highest first, with
// ties ordered by job ID.
func (o *Orchestrator) ComputeBatch(ctx context.Context, candidateSkills []string, jobs []JobView) []ScoredJob {
	batchCtx, cancel := context.WithTimeout(ctx, o.opts.BatchCeiling)
	defer cancel()

	results := make([]ScoredJob, len(jobs))
	sem := make(chan struct{}, o.opts.BatchConcurrency)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-batchCtx.Done():
				// Only the deterministic path remains; it needs no slot.
			}
			results[i] = ScoredJob{
				Job:    job,
				Result: o.ComputeMatch(batchCtx, candidateSkills, job, ModePercentage),
			}
		}()
	}
	wg.Wait()

	slices.SortFunc(results, func(a, b ScoredJob) int {
		if c := cmp.Compare(b.Result.Percentage, a.Result.Percentage); c != 0 {
			return c
		}
		return cmp.Compare(a.Job.ID, b.Job.ID)
	})
	return results
}

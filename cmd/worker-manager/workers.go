package main

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"jobmatch-workers/internal/catalog"
	"jobmatch-workers/internal/common/aws"
	"jobmatch-workers/internal/common/camunda"
	"jobmatch-workers/internal/common/config"
	"jobmatch-workers/internal/common/database"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/observability"
	"jobmatch-workers/internal/matching/oracle"
	"jobmatch-workers/internal/matching/orchestrator"
	"jobmatch-workers/internal/notify"
	"jobmatch-workers/internal/recruiting/application"
	"jobmatch-workers/internal/recruiting/candidate"
	"jobmatch-workers/internal/recruiting/statussync"
	"jobmatch-workers/internal/recruiting/store"
	computejobmatch "jobmatch-workers/internal/workers/matching/compute-job-match"
	scorejoblistings "jobmatch-workers/internal/workers/matching/score-job-listings"
	getcandidate "jobmatch-workers/internal/workers/recruiting/get-candidate"
	scheduleinterview "jobmatch-workers/internal/workers/recruiting/schedule-interview"
	submitapplication "jobmatch-workers/internal/workers/recruiting/submit-application"
	updateapplication "jobmatch-workers/internal/workers/recruiting/update-application"
	updatecandidatedetails "jobmatch-workers/internal/workers/recruiting/update-candidate-details"
	updatecandidatestatus "jobmatch-workers/internal/workers/recruiting/update-candidate-status"
	withdrawapplication "jobmatch-workers/internal/workers/recruiting/withdraw-application"
)

type dependencies struct {
	matcher      *orchestrator.Orchestrator
	jobs         *catalog.JobRepository
	profiles     *catalog.ProfileRepository
	candidates   *candidate.Service
	applications *application.Service
}

func buildDependencies(ctx context.Context, cfg *config.Config, pg *database.PostgresClient,
	rdb *database.RedisClient, es *database.ElasticsearchClient, log logger.Logger) (*dependencies, error) {
	scoringOracle, err := oracle.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("scoring oracle: %w", err)
	}
	if scoringOracle == nil {
		log.Info("no scoring oracle configured, deterministic scoring only", nil)
	} else {
		log.Info("scoring oracle enabled", map[string]interface{}{"provider": cfg.Matching.Oracle.Provider})
	}

	matcher := orchestrator.New(scoringOracle, orchestrator.NewRedisCache(rdb.Client),
		orchestrator.OptionsFromConfig(cfg.Matching), log)

	jobs := catalog.NewJobRepository(es.Client, cfg.Database.Elasticsearch.JobsIndex, log)
	profiles := catalog.NewProfileRepository(pg.DB, rdb.Client,
		config.GetDuration(cfg.Matching.ProfileCacheTTL), log)

	st := store.New(pg.DB)

	region := cfg.Notifications.AWS.Region

	var drift statussync.DriftReporter
	if cfg.Notifications.Drift.TopicARN != "" {
		snsClient, err := aws.NewSNSClient(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		drift = notify.NewDriftPublisher(snsClient, cfg.Notifications.Drift.TopicARN, log)
	}
	sync := statussync.New(st, drift, log)

	var opts []candidate.Option
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		opts = append(opts, candidate.WithInterviewNotifier(notify.NewInterviewNotifier(sesClient, log), profiles, jobs))
	}

	return &dependencies{
		matcher:      matcher,
		jobs:         jobs,
		profiles:     profiles,
		candidates:   candidate.NewService(st, sync, log, opts...),
		applications: application.NewService(st, profiles, jobs, log),
	}, nil
}

func registerWorkers(zeebe *camunda.Client, cfg *config.Config, deps *dependencies,
	obs *observability.Observability, log logger.Logger) []worker.JobWorker {
	var workers []worker.JobWorker

	start := func(taskType string, handler worker.JobHandler) {
		w := camunda.StartWorker(zeebe.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType),
			obs.Instrument(taskType, handler), log)
		if w != nil {
			workers = append(workers, w)
		}
	}

	// ==========================================
	// MATCHING WORKERS
	// ==========================================

	{
		wcfg := config.GetWorkerConfig(cfg, computejobmatch.TaskType)
		h := computejobmatch.NewHandler(computejobmatch.LoadConfig(wcfg), deps.matcher,
			deps.profiles, deps.jobs, deps.candidates, log)
		start(computejobmatch.TaskType, h.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, scorejoblistings.TaskType)
		h := scorejoblistings.NewHandler(scorejoblistings.LoadConfig(wcfg), deps.matcher,
			deps.jobs, deps.profiles, log)
		start(scorejoblistings.TaskType, h.Handle)
	}

	// ==========================================
	// RECRUITING WORKERS
	// ==========================================

	{
		wcfg := config.GetWorkerConfig(cfg, submitapplication.TaskType)
		h := submitapplication.NewHandler(submitapplication.LoadConfig(wcfg), deps.applications, log)
		start(submitapplication.TaskType, h.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, withdrawapplication.TaskType)
		h := withdrawapplication.NewHandler(withdrawapplication.LoadConfig(wcfg), deps.applications, log)
		start(withdrawapplication.TaskType, h.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, updateapplication.TaskType)
		h := updateapplication.NewHandler(updateapplication.LoadConfig(wcfg), deps.applications, log)
		start(updateapplication.TaskType, h.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, updatecandidatestatus.TaskType)
		h := updatecandidatestatus.NewHandler(updatecandidatestatus.LoadConfig(wcfg), deps.candidates, log)
		start(updatecandidatestatus.TaskType, h.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, scheduleinterview.TaskType)
		h := scheduleinterview.NewHandler(scheduleinterview.LoadConfig(wcfg), deps.candidates, log)
		start(scheduleinterview.TaskType, h.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, getcandidate.TaskType)
		h := getcandidate.NewHandler(getcandidate.LoadConfig(wcfg), deps.candidates, deps.matcher,
			deps.profiles, deps.jobs, log)
		start(getcandidate.TaskType, h.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, updatecandidatedetails.TaskType)
		h := updatecandidatedetails.NewHandler(updatecandidatedetails.LoadConfig(wcfg), deps.candidates, log)
		start(updatecandidatedetails.TaskType, h.Handle)
	}

	return workers
}

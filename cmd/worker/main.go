package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/cache"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/jobs"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	financeRepo := postgres.NewFinanceRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)

	metricsUC := finance.NewMetricsUseCase(financeRepo, settingsRepo, cache.NewFinanceCache(redisClient, cfg.Redis.CacheTTL), finance.MetricsOptions{
		Targets:  cfg.Finance.Targets,
		Location: cfg.App.Location(),
		Language: finance.DefaultLanguage,
		Logger:   log,
	})
	segmentationUC := finance.NewSegmentationUseCase(financeRepo, settingsRepo, cfg.Finance.InactivityMonths)
	alerts := finance.NewAlerts(postgres.NewNotificationRepository(pool))

	financeJobs := jobs.NewFinanceJobs(metricsUC, segmentationUC, alerts, postgres.NewCompanyRepository(pool), log, cfg.Worker.TaskTimeout)

	warmupAll, err := jobs.NewFinanceWarmupAllTask()
	if err != nil {
		log.Fatal().Err(err).Msg("tarea warmup_all")
	}
	segmentAll, err := jobs.NewClientsSegmentTask("")
	if err != nil {
		log.Fatal().Err(err).Msg("tarea clients:segment")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   jobs.RedisOpts(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
		Concurrency: cfg.Worker.Concurrency,
		Location:    cfg.App.Location(),
		Logger:      log,
		Handlers:    financeJobs.Handlers(),
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.WarmupCron, Task: warmupAll},
			{Spec: cfg.Worker.SegmentCron, Task: segmentAll},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar worker")
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado")
	}
}

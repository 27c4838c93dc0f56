package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"

	_ "github.com/jhoicas/Estoque-api/docs"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/cache"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/jobs"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Estoque-api/internal/interfaces/http"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// @title                      Estoque API
// @version                    1.0
// @description                API multi-tenant de inventario y KPIs financieros.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
// @description                Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Location().String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
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

	taskClient := asynq.NewClient(jobs.RedisOpts(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	defer taskClient.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	entryRepo := postgres.NewStockEntryRepository(pool)
	exitRepo := postgres.NewStockExitRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	financeRepo := postgres.NewFinanceRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Métricas: caché por tenant en Redis; cada escritura la invalida y programa un warmup.
	financeCache := cache.NewFinanceCache(redisClient, cfg.Redis.CacheTTL)
	invalidator := jobs.NewEnqueuer(taskClient, financeCache, log)

	metricsUC := finance.NewMetricsUseCase(financeRepo, settingsRepo, financeCache, finance.MetricsOptions{
		Targets:  cfg.Finance.Targets,
		Location: cfg.App.Location(),
		Language: finance.DefaultLanguage,
		Logger:   log,
	})
	segmentationUC := finance.NewSegmentationUseCase(financeRepo, settingsRepo, cfg.Finance.InactivityMonths)

	docDeps := usecase.DocumentDeps{
		Tx:          txRunner,
		Stock:       inventory.NewStockService(),
		Products:    productRepo,
		Invalidator: invalidator,
		Logger:      log,
	}

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      usecase.NewProductUseCase(productRepo),
		ClientUC:       usecase.NewClientUseCase(clientRepo, segmentationUC),
		SupplierUC:     usecase.NewSupplierUseCase(supplierRepo),
		SaleUC:         usecase.NewSaleUseCase(docDeps, saleRepo, clientRepo),
		StockEntryUC:   usecase.NewStockEntryUseCase(docDeps, entryRepo, supplierRepo),
		StockExitUC:    usecase.NewStockExitUseCase(docDeps, exitRepo),
		ExpenseUC:      usecase.NewExpenseUseCase(docDeps, expenseRepo, supplierRepo),
		Metrics:        metricsUC,
		Segmentation:   segmentationUC,
		NotificationUC: usecase.NewNotificationUseCase(notificationRepo),
		SettingsUC:     usecase.NewSettingsUseCase(settingsRepo, cfg.Finance.Targets, cfg.Finance.InactivityMonths, invalidator, log),
		UserUC:         usecase.NewUserUseCase(userRepo),
		JWTSecret:      cfg.JWT.Secret,
		ServiceName:    cfg.App.Name,
		Health: map[string]httpRouter.HealthCheck{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
		Logger: log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

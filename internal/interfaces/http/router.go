package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// HealthCheck comprobación de una dependencia para /health.
type HealthCheck func(ctx context.Context) error

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	ClientUC       *usecase.ClientUseCase
	SupplierUC     *usecase.SupplierUseCase
	SaleUC         *usecase.SaleUseCase
	StockEntryUC   *usecase.StockEntryUseCase
	StockExitUC    *usecase.StockExitUseCase
	ExpenseUC      *usecase.ExpenseUseCase
	Metrics        *finance.MetricsUseCase
	Segmentation   *finance.SegmentationUseCase
	NotificationUC *usecase.NotificationUseCase
	SettingsUC     *usecase.SettingsUseCase
	UserUC         *usecase.UserUseCase
	JWTSecret      string
	ServiceName    string
	Health         map[string]HealthCheck
	Logger         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	app.Get("/health", healthHandler(deps.ServiceName, deps.Health))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(entity.RoleAdmin, entity.RoleGerente)
	admins := RequireRole(entity.RoleAdmin)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", managers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", managers, productHandler.Update)
	products.Delete("/:id", managers, productHandler.Delete)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, log)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", managers, clientHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC, log)
	suppliers.Post("/", managers, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", managers, supplierHandler.Update)
	suppliers.Delete("/:id", managers, supplierHandler.Delete)

	// Documentos: borrar y restaurar quedan para admin/gerente
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, log)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/complete", saleHandler.Complete)
	sales.Post("/:id/cancel", saleHandler.Cancel)
	sales.Delete("/:id", managers, saleHandler.Delete)
	sales.Post("/:id/restore", managers, saleHandler.Restore)

	entries := protected.Group("/stock-entries", managers)
	entryHandler := NewStockEntryHandler(deps.StockEntryUC, log)
	entries.Post("/", entryHandler.Create)
	entries.Get("/", entryHandler.List)
	entries.Get("/:id", entryHandler.GetByID)
	entries.Delete("/:id", entryHandler.Delete)
	entries.Post("/:id/restore", entryHandler.Restore)

	exits := protected.Group("/stock-exits", managers)
	exitHandler := NewStockExitHandler(deps.StockExitUC, log)
	exits.Post("/", exitHandler.Create)
	exits.Get("/", exitHandler.List)
	exits.Get("/:id", exitHandler.GetByID)
	exits.Delete("/:id", exitHandler.Delete)
	exits.Post("/:id/restore", exitHandler.Restore)

	expenses := protected.Group("/expenses", managers)
	expenseHandler := NewExpenseHandler(deps.ExpenseUC, log)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Delete("/:id", expenseHandler.Delete)
	expenses.Post("/:id/restore", expenseHandler.Restore)

	fin := protected.Group("/finance")
	financeHandler := NewFinanceHandler(deps.Metrics, deps.Segmentation, log)
	fin.Get("/summary", financeHandler.Summary)
	fin.Get("/kpis", financeHandler.KPIs)
	fin.Get("/comparisons", financeHandler.Comparisons)
	fin.Get("/dashboard", financeHandler.Dashboard)
	fin.Get("/segments", financeHandler.Segments)
	fin.Get("/segments/:clientId", financeHandler.SegmentClient)

	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC, log)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	settings := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC, log)
	settings.Get("/", settingsHandler.Get)
	settings.Put("/", admins, settingsHandler.Update)

	users := protected.Group("/admin/users", admins)
	userHandler := NewUserHandler(deps.UserUC, log)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/:id/suspend", userHandler.Suspend)
	users.Post("/:id/reactivate", userHandler.Reactivate)
}

// healthHandler 200 si todas las dependencias responden; 503 con el detalle si alguna falla.
func healthHandler(service string, checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		status, code := "ok", fiber.StatusOK
		deps := make(fiber.Map, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = err.Error()
				status, code = "degraded", fiber.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}
		return c.Status(code).JSON(fiber.Map{"status": status, "service": service, "dependencies": deps})
	}
}

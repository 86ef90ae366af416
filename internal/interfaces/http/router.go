package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/ledger"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecordSale  *sales.RecordSaleUseCase
	SaleQuery   *sales.SaleQueryUseCase
	ProductUC   *catalog.ProductUseCase
	LedgerUC    *ledger.LedgerUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleOwner, jwt.RoleStaff)
	ownerOnly := RequireRole(jwt.RoleOwner)

	// Ventas (cajeros y dueños)
	salesGroup := api.Group("/sales", anyRole)
	saleHandler := NewSaleHandler(deps.RecordSale, deps.SaleQuery)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Catálogo: lectura para todos, alta solo owner
	products := api.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", ownerOnly, productHandler.Create)

	// Libro financiero (owner)
	ledgerGroup := api.Group("/ledger", ownerOnly)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup.Get("/", ledgerHandler.List)
	ledgerGroup.Post("/", ledgerHandler.Create)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/stats", anyRole, dashboardHandler.GetStats)
}

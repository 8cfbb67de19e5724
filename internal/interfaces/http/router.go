package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/bulk"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *usecase.ItemUseCase
	AdjustUC   *ledger.AdjustUseCase
	AuditUC    *ledger.AuditUseCase
	SupplierUC *usecase.SupplierUseCase
	ReportUC   *usecase.ReportUseCase
	LowStockUC *usecase.LowStockReportUseCase
	ImportUC   *bulk.ImportUseCase
	ExportUC   *bulk.ExportUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleOperator)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	bulkHandler := NewBulkHandler(deps.ImportUC, deps.ExportUC)
	items.Post("/", anyRole, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/export", bulkHandler.Export)
	items.Post("/import", adminOnly, bulkHandler.Import)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", anyRole, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	// Inventory: movimientos del libro + auditoría (protegido)
	invGroup := protected.Group("/inventory")
	ledgerHandler := NewLedgerHandler(deps.AdjustUC, deps.AuditUC)
	invGroup.Post("/movements", anyRole, ledgerHandler.Adjust)
	invGroup.Get("/movements", ledgerHandler.History)
	invGroup.Get("/audit", adminOnly, ledgerHandler.Audit)
	invGroup.Post("/audit/:itemID/repair", adminOnly, ledgerHandler.Repair)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.LowStockUC)
	reports.Get("/daily-dispatch", reportHandler.DailyDispatch)
	reports.Get("/purchases-by-party", reportHandler.PurchasesByParty)
	reports.Get("/inventory-value", reportHandler.InventoryValue)
	reports.Get("/low-stock.pdf", reportHandler.LowStockPDF)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", anyRole, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", anyRole, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)
}

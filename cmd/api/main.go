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
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/bulk"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// backend agrupa los adaptadores de persistencia de un driver concreto.
type backend struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	supplierRepo repository.SupplierRepository
	userRepo     repository.UserRepository
	reportRepo   repository.ReportRepository
	txRunner     ledger.TxRunner
	close        func()
}

func buildBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &backend{
			itemRepo:     postgres.NewItemRepository(pool),
			movementRepo: postgres.NewMovementRepository(pool),
			supplierRepo: postgres.NewSupplierRepository(pool),
			userRepo:     postgres.NewUserRepository(pool),
			reportRepo:   postgres.NewReportRepository(pool),
			txRunner:     postgres.NewTxRunner(pool),
			close:        pool.Close,
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{
			itemRepo:     sqlite.NewItemRepository(store),
			movementRepo: sqlite.NewMovementRepository(store),
			supplierRepo: sqlite.NewSupplierRepository(store),
			userRepo:     sqlite.NewUserRepository(store),
			reportRepo:   sqlite.NewReportRepository(store),
			txRunner:     sqlite.NewTxRunner(store),
			close:        func() { _ = store.Close() },
		}, nil
	default: // memory
		log.Warn().Msg("driver memory: los datos se pierden al apagar el proceso")
		store := memory.NewStore()
		return &backend{
			itemRepo:     memory.NewItemRepository(store),
			movementRepo: memory.NewMovementRepository(store),
			supplierRepo: memory.NewSupplierRepository(store),
			userRepo:     memory.NewUserRepository(store),
			reportRepo:   memory.NewReportRepository(store),
			txRunner:     memory.NewTxRunner(store),
			close:        func() {},
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := buildBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("inicializar almacenamiento")
	}
	defer be.close()

	itemUC := usecase.NewItemUseCase(be.itemRepo, be.txRunner)
	adjustUC := ledger.NewAdjustUseCase(be.txRunner, be.movementRepo)
	auditUC := ledger.NewAuditUseCase(be.txRunner, be.itemRepo, be.movementRepo)
	supplierUC := usecase.NewSupplierUseCase(be.supplierRepo)
	reportUC := usecase.NewReportUseCase(be.reportRepo)
	lowStockUC := usecase.NewLowStockReportUseCase(be.itemRepo, infrapdf.NewMarotoReportGenerator())
	importUC := bulk.NewImportUseCase(be.txRunner)
	exportUC := bulk.NewExportUseCase(be.itemRepo)
	authUC := auth.NewAuthUseCase(be.userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:     itemUC,
		AdjustUC:   adjustUC,
		AuditUC:    auditUC,
		SupplierUC: supplierUC,
		ReportUC:   reportUC,
		LowStockUC: lowStockUC,
		ImportUC:   importUC,
		ExportUC:   exportUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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

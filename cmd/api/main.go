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
	"github.com/jhoicas/Maquila-api/internal/application/auth"
	"github.com/jhoicas/Maquila-api/internal/application/cascade"
	"github.com/jhoicas/Maquila-api/internal/application/issuance"
	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/application/returns"
	appsettlement "github.com/jhoicas/Maquila-api/internal/application/settlement"
	"github.com/jhoicas/Maquila-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Maquila-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Maquila-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Maquila-api/internal/interfaces/http"
	"github.com/jhoicas/Maquila-api/pkg/config"
	"github.com/jhoicas/Maquila-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	styleRepo := postgres.NewStyleRepository(pool)
	factoryRepo := postgres.NewFactoryRepository(pool)
	lotRepo := postgres.NewMaterialLotRepository(pool)
	movementRepo := postgres.NewLotMovementRepository(pool)
	issueRepo := postgres.NewIssueOrderRepository(pool)
	returnRepo := postgres.NewReturnOrderRepository(pool)
	settlementRepo := postgres.NewSettlementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	res := resolver.New(styleRepo, factoryRepo, lotRepo, issueRepo, returnRepo, settlementRepo)
	statusEngine := issuance.NewStatusEngine(issueRepo, returnRepo)
	ledger := appsettlement.NewLedger(settlementRepo, returnRepo, log)
	coordinator := cascade.NewCoordinator(
		res, issueRepo, returnRepo, ledger, statusEngine,
		cascade.Limits{
			PageSize: cfg.Engine.CascadePageSize,
			MaxPages: cfg.Engine.CascadeMaxPages,
		},
		log,
	)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	styleUC := usecase.NewStyleUseCase(styleRepo, lotRepo)
	factoryUC := usecase.NewFactoryUseCase(factoryRepo)
	lotUC := usecase.NewMaterialLotUseCase(lotRepo, movementRepo)
	createIssueUC := issuance.NewCreateIssueUseCase(txRunner, res, issueRepo, log)
	createReturnUC := returns.NewCreateReturnUseCase(res, returnRepo, statusEngine)
	createSettlementUC := appsettlement.NewCreateSettlementUseCase(res, settlementRepo, ledger)

	// PDF: estado de cuenta imprimible de la liquidación
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	statementUC := appsettlement.NewStatementUseCase(res, companyRepo, returnRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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
		Title:    "Maquila API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:        companyUC,
		StyleUC:          styleUC,
		FactoryUC:        factoryUC,
		MaterialLotUC:    lotUC,
		CreateIssue:      createIssueUC,
		CreateReturn:     createReturnUC,
		CreateSettlement: createSettlementUC,
		Statement:        statementUC,
		Coordinator:      coordinator,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
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

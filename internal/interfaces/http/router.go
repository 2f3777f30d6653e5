package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquila-api/internal/application/auth"
	"github.com/jhoicas/Maquila-api/internal/application/cascade"
	"github.com/jhoicas/Maquila-api/internal/application/issuance"
	"github.com/jhoicas/Maquila-api/internal/application/returns"
	appsettlement "github.com/jhoicas/Maquila-api/internal/application/settlement"
	"github.com/jhoicas/Maquila-api/internal/application/usecase"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC        *usecase.CompanyUseCase
	StyleUC          *usecase.StyleUseCase
	FactoryUC        *usecase.FactoryUseCase
	MaterialLotUC    *usecase.MaterialLotUseCase
	CreateIssue      *issuance.CreateIssueUseCase
	CreateReturn     *returns.CreateReturnUseCase
	CreateSettlement *appsettlement.CreateSettlementUseCase
	Statement        *appsettlement.StatementUseCase
	Coordinator      *cascade.Coordinator
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
//
// RBAC: produccion opera catálogo, entregas y devoluciones; contable opera
// liquidaciones y reparación; admin todo. Las anulaciones (cascada) son de
// admin: tocan los derivados de toda la cadena.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	produccion := RequireRole(entity.RoleAdmin, entity.RoleProduccion)
	contable := RequireRole(entity.RoleAdmin, entity.RoleContable)
	admin := RequireRole(entity.RoleAdmin)

	// Styles (protegido)
	styles := protected.Group("/styles")
	styleHandler := NewStyleHandler(deps.StyleUC)
	styles.Post("/", produccion, styleHandler.Create)
	styles.Get("/", styleHandler.List)
	styles.Get("/:id", styleHandler.GetByID)
	styles.Put("/:id/disabled", admin, styleHandler.SetDisabled)

	// Factories (protegido)
	factories := protected.Group("/factories")
	factoryHandler := NewFactoryHandler(deps.FactoryUC)
	factories.Post("/", produccion, factoryHandler.Create)
	factories.Get("/", factoryHandler.List)
	factories.Get("/:id", factoryHandler.GetByID)
	factories.Put("/:id/disabled", admin, factoryHandler.SetDisabled)

	// Material lots (protegido)
	lots := protected.Group("/lots")
	lotHandler := NewMaterialLotHandler(deps.MaterialLotUC)
	lots.Post("/", produccion, lotHandler.Create)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", lotHandler.GetByID)

	// Issue orders (protegido)
	issues := protected.Group("/issues")
	issueHandler := NewIssueHandler(deps.CreateIssue, deps.Coordinator)
	issues.Post("/", produccion, issueHandler.Create)
	issues.Get("/", issueHandler.List)
	issues.Get("/:id", issueHandler.GetByID)
	issues.Put("/:id/void", admin, issueHandler.ToggleVoid)

	// Return orders (protegido)
	returnsGroup := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.CreateReturn, deps.Coordinator)
	returnsGroup.Post("/", produccion, returnHandler.Create)
	returnsGroup.Get("/", returnHandler.ListByIssue)
	returnsGroup.Put("/:id/void", admin, returnHandler.ToggleVoid)

	// Settlements (protegido, contable)
	settlements := protected.Group("/settlements")
	settlementHandler := NewSettlementHandler(deps.CreateSettlement, deps.Statement)
	settlements.Post("/", contable, settlementHandler.Create)
	settlements.Get("/", contable, settlementHandler.ListByFactory)
	settlements.Get("/:id", contable, settlementHandler.GetByID)
	settlements.Get("/:id/statement", contable, settlementHandler.Statement)

	// Repair (protegido, contable)
	repair := protected.Group("/repair")
	repairHandler := NewRepairHandler(deps.Coordinator)
	repair.Post("/voided-returns", contable, repairHandler.Run)
}

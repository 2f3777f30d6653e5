// Package cascade orquesta la anulación/restauración de entregas y
// devoluciones: recalcula estado dependiente, propaga a los hijos y tolera el
// fallo de cualquier paso downstream sin abortar la operación completa.
package cascade

import (
	"time"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/issuance"
	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/application/settlement"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
	"github.com/jhoicas/Maquila-api/pkg/logger"
)

// Limits acota el trabajo por invocación: una cascada sobre muchas
// devoluciones procesa páginas de tamaño fijo hasta un máximo de páginas y
// reporta punto de continuación en lugar de intentar trabajo sin cota.
type Limits struct {
	PageSize int
	MaxPages int
}

// DefaultLimits valores razonables si el caller no configura nada.
func DefaultLimits() Limits {
	return Limits{PageSize: 50, MaxPages: 20}
}

// Coordinator es la máquina de estados Active<->Voided por agregado.
// Los registros borrados (deleted=true) son terminales: ningún camino de
// lectura los ve y esta máquina no los alcanza.
type Coordinator struct {
	resolver     *resolver.Resolver
	issueRepo    repository.IssueOrderRepository
	returnRepo   repository.ReturnOrderRepository
	ledger       *settlement.Ledger
	statusEngine *issuance.StatusEngine
	limits       Limits
	log          *logger.Logger
}

// NewCoordinator construye el coordinador de cascadas.
func NewCoordinator(
	res *resolver.Resolver,
	issueRepo repository.IssueOrderRepository,
	returnRepo repository.ReturnOrderRepository,
	ledger *settlement.Ledger,
	statusEngine *issuance.StatusEngine,
	limits Limits,
	log *logger.Logger,
) *Coordinator {
	if limits.PageSize <= 0 {
		limits.PageSize = DefaultLimits().PageSize
	}
	if limits.MaxPages <= 0 {
		limits.MaxPages = DefaultLimits().MaxPages
	}
	return &Coordinator{
		resolver:     res,
		issueRepo:    issueRepo,
		returnRepo:   returnRepo,
		ledger:       ledger,
		statusEngine: statusEngine,
		limits:       limits,
		log:          log,
	}
}

// ToggleIssueVoid anula o restaura una entrega.
//
// Anular: marca la entrega y anula secuencialmente cada devolución activa
// debajo de ella (el fallo en una hija se registra y se salta, no es fatal
// para la cascada). El estado de la entrega queda congelado al anular.
//
// Restaurar: des-marca y recalcula su propio estado desde las devoluciones
// actualmente activas. Política explícita: restaurar una entrega jamás
// resucita sus devoluciones anuladas.
func (c *Coordinator) ToggleIssueVoid(companyID, anyID string, voided bool) (*dto.CascadeResult, error) {
	issue, err := c.resolver.ResolveIssueOrder(companyID, anyID)
	if err != nil {
		return nil, err
	}
	if issue.Voided == voided {
		// Ya está en el estado objetivo: no-op.
		return &dto.CascadeResult{IssueStatus: issue.Status}, nil
	}

	now := time.Now()
	result := &dto.CascadeResult{}

	if voided {
		if err := c.issueRepo.SetVoided(issue.ID, true, &now); err != nil {
			return nil, err
		}
		c.cascadeVoidChildren(companyID, issue, result)
		result.IssueStatus = issue.Status // congelado al momento de anular
		return result, nil
	}

	if err := c.issueRepo.SetVoided(issue.ID, false, nil); err != nil {
		return nil, err
	}
	status, err := c.statusEngine.Recompute(companyID, issue.ID)
	if err != nil {
		c.log.Error().Err(err).Str("issue_order_id", issue.ID).Msg("recalcular estado al restaurar entrega")
		result.Failures = append(result.Failures, dto.CascadeItemFailure{Kind: "issue_status", ID: issue.ID, Error: err.Error()})
	} else {
		result.IssueStatus = status
	}
	return result, nil
}

// cascadeVoidChildren anula las devoluciones activas de la entrega por páginas
// acotadas. Las hijas que fallan se recuerdan para no reintentar en el mismo
// llamado (siguen activas y reaparecerían en la página siguiente).
func (c *Coordinator) cascadeVoidChildren(companyID string, issue *entity.IssueOrder, result *dto.CascadeResult) {
	failed := make(map[string]bool)
	for page := 0; page < c.limits.MaxPages; page++ {
		children, err := c.returnRepo.ListActivePageByIssue(companyID, issue.ID, issue.Code, c.limits.PageSize, len(failed))
		if err != nil {
			c.log.Error().Err(err).Str("issue_order_id", issue.ID).Msg("paginar devoluciones activas")
			result.Failures = append(result.Failures, dto.CascadeItemFailure{Kind: "return_order", ID: issue.ID, Error: err.Error()})
			return
		}
		if len(children) == 0 {
			return
		}
		progressed := false
		for _, child := range children {
			if failed[child.ID] {
				continue
			}
			updated, failures, err := c.applyReturnVoid(companyID, child, true)
			result.SettlementsUpdated += updated
			result.Failures = append(result.Failures, failures...)
			if err != nil {
				c.log.Error().Err(err).
					Str("issue_order_id", issue.ID).
					Str("return_order_id", child.ID).
					Msg("anular devolución hija, se continúa con las demás")
				result.Failures = append(result.Failures, dto.CascadeItemFailure{Kind: "return_order", ID: child.ID, Error: err.Error()})
				failed[child.ID] = true
				continue
			}
			result.ReturnOrdersAffected++
			progressed = true
		}
		if !progressed {
			// Solo quedaron hijas fallidas: reintentarlas aquí sería un bucle.
			return
		}
	}
	// Presupuesto de páginas agotado: reportar continuación.
	result.Remaining = true
}

// ToggleReturnVoid anula o restaura una devolución: marca el registro, retrae o
// reinstala sus aportes en el libro de liquidaciones, re-deriva su monto
// liquidado y recalcula el estado de la entrega padre.
func (c *Coordinator) ToggleReturnVoid(companyID, anyID string, voided bool) (*dto.CascadeResult, error) {
	ret, err := c.resolver.ResolveReturnOrder(companyID, anyID)
	if err != nil {
		return nil, err
	}
	result := &dto.CascadeResult{}
	if ret.Voided == voided {
		return result, nil
	}

	updated, failures, err := c.applyReturnVoid(companyID, ret, voided)
	result.SettlementsUpdated = updated
	result.Failures = append(result.Failures, failures...)
	if err != nil {
		return nil, err
	}
	result.ReturnOrdersAffected = 1

	status, failure, ok := c.recomputeParent(companyID, ret)
	if failure != nil {
		result.Failures = append(result.Failures, *failure)
	}
	if ok {
		result.IssueStatus = status
	}
	return result, nil
}

// applyReturnVoid es el camino compartido de anulación/restauración de una
// devolución: marcar, libro de liquidaciones, re-derivar monto liquidado.
// El recálculo del padre corre aparte (la cascada de entrega lo omite: el
// padre recién anulado está congelado).
func (c *Coordinator) applyReturnVoid(companyID string, ret *entity.ReturnOrder, voided bool) (int, []dto.CascadeItemFailure, error) {
	now := time.Now()
	var at *time.Time
	if voided {
		at = &now
	}
	if err := c.returnRepo.SetVoided(ret.ID, voided, at); err != nil {
		return 0, nil, err
	}
	ret.Voided = voided
	ret.VoidedAt = at

	updated, failures := c.ledger.ApplyVoid(companyID, ret, voided)

	if err := c.ledger.RecomputeSettled(companyID, ret.ID); err != nil {
		c.log.Error().Err(err).Str("return_order_id", ret.ID).Msg("re-derivar monto liquidado")
		failures = append(failures, dto.CascadeItemFailure{Kind: "settlement", ID: ret.ID, Error: err.Error()})
	}
	return updated, failures, nil
}

// recomputeParent localiza la entrega padre (vínculo canónico o legado) y
// recalcula su estado. Una devolución huérfana (padre inexistente en datos
// legados) no es fallo; cualquier otro error se reporta como parcial, nunca
// aborta.
func (c *Coordinator) recomputeParent(companyID string, ret *entity.ReturnOrder) (status string, failure *dto.CascadeItemFailure, ok bool) {
	parent, err := c.parentIssue(companyID, ret)
	if err != nil || parent == nil {
		if err != nil && err != domain.ErrNotFound {
			c.log.Error().Err(err).Str("return_order_id", ret.ID).Msg("resolver entrega padre")
			return "", &dto.CascadeItemFailure{Kind: "issue_status", ID: ret.ID, Error: err.Error()}, false
		}
		return "", nil, false
	}
	status, err = c.statusEngine.Recompute(companyID, parent.ID)
	if err != nil {
		c.log.Error().Err(err).Str("issue_order_id", parent.ID).Msg("recalcular estado de la entrega padre")
		return "", &dto.CascadeItemFailure{Kind: "issue_status", ID: parent.ID, Error: err.Error()}, false
	}
	return status, nil, true
}

// parentIssue resuelve la entrega padre de una devolución por ID canónico o,
// en datos legados, por código numérico.
func (c *Coordinator) parentIssue(companyID string, ret *entity.ReturnOrder) (*entity.IssueOrder, error) {
	if ret.IssueOrderID != "" {
		issue, err := c.issueRepo.GetByID(ret.IssueOrderID)
		if err != nil {
			return nil, err
		}
		if issue != nil && issue.CompanyID == companyID && !issue.Deleted {
			return issue, nil
		}
	}
	if ret.LegacyIssueCode > 0 {
		return c.issueRepo.GetByCode(companyID, ret.LegacyIssueCode)
	}
	return nil, domain.ErrNotFound
}

package issuance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/reconcile"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// StatusEngine recalcula el estado derivado de una entrega a partir de sus
// devoluciones activas. Idempotente: puede invocarse cuantas veces se quiera y
// siempre converge al mismo resultado para el mismo conjunto activo, lo que
// sustituye cualquier bloqueo entre llamadas concurrentes.
type StatusEngine struct {
	issueRepo  repository.IssueOrderRepository
	returnRepo repository.ReturnOrderRepository
}

// NewStatusEngine construye el motor de estado.
func NewStatusEngine(issueRepo repository.IssueOrderRepository, returnRepo repository.ReturnOrderRepository) *StatusEngine {
	return &StatusEngine{issueRepo: issueRepo, returnRepo: returnRepo}
}

// Recompute deriva y persiste el estado de la entrega. Una entrega anulada no
// se recalcula: su estado queda congelado al momento de la anulación.
func (e *StatusEngine) Recompute(companyID, issueOrderID string) (string, error) {
	issue, err := e.issueRepo.GetByID(issueOrderID)
	if err != nil {
		return "", err
	}
	if issue == nil || issue.CompanyID != companyID || issue.Deleted {
		return "", domain.ErrNotFound
	}
	if issue.Voided {
		return issue.Status, nil
	}

	total, err := e.totalReturned(companyID, issue)
	if err != nil {
		return "", err
	}
	status := reconcile.IssueStatus(issue.IssueWeight, total)
	if status != issue.Status {
		if err := e.issueRepo.UpdateStatus(issue.ID, status); err != nil {
			return "", err
		}
	}
	return status, nil
}

// totalReturned suma el insumo consumido por las devoluciones activas de la
// entrega. El repo ya fusiona el vínculo canónico y el legado y deduplica.
func (e *StatusEngine) totalReturned(companyID string, issue *entity.IssueOrder) (decimal.Decimal, error) {
	returns, err := e.returnRepo.ListByIssue(companyID, issue.ID, issue.Code)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range returns {
		if !r.Active() {
			continue
		}
		total = total.Add(r.ActualMaterialUsage)
	}
	return total, nil
}

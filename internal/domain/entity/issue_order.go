package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de una entrega de insumo. Nunca los fija el caller:
// siempre los recalcula el motor a partir de las devoluciones activas.
const (
	IssueStatusNotReturned       = "NOT_RETURNED"
	IssueStatusPartiallyReturned = "PARTIALLY_RETURNED"
	IssueStatusCompleted         = "COMPLETED"
)

// IssueOrder representa una entrega de materia prima a un taller para una
// referencia. No se elimina físicamente nunca; Voided la saca del cómputo
// conservándola para auditoría.
type IssueOrder struct {
	ID          string
	CompanyID   string
	Code        int64 // código de negocio legado
	StyleID     string
	FactoryID   string
	IssueWeight decimal.Decimal // kg de insumo entregado
	Status      string          // derivado de las devoluciones activas
	Voided      bool
	VoidedAt    *time.Time
	Deleted     bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active indica si la entrega participa en cómputos (ni borrada ni anulada).
func (o *IssueOrder) Active() bool {
	return !o.Deleted && !o.Voided
}

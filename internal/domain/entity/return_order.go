package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de liquidación de una devolución. Derivados del aporte de las
// liquidaciones activas, nunca fijados por el caller.
const (
	SettlementStatusUnsettled        = "UNSETTLED"
	SettlementStatusPartiallySettled = "PARTIALLY_SETTLED"
	SettlementStatusSettled          = "SETTLED"
)

// ReturnOrder representa una devolución de prenda terminada contra una entrega:
// cuánto insumo consumió el taller y cuánto fee de proceso se le debe.
//
// El vínculo a la entrega puede venir por ID canónico (IssueOrderID) o por el
// código numérico legado (LegacyIssueCode); los lectores consultan ambos y
// deduplican.
type ReturnOrder struct {
	ID                  string
	CompanyID           string
	Code                int64 // código de negocio legado
	IssueOrderID        string
	LegacyIssueCode     int64 // 0 = sin vínculo legado
	FactoryID           string
	StyleID             string
	Quantity            decimal.Decimal // prendas devueltas
	ActualMaterialUsage decimal.Decimal // kg de insumo consumido
	ProcessingFee       decimal.Decimal // fee adeudado por este lote
	SettledAmount       decimal.Decimal // derivado: Σ aportes no anulados, acotado por ProcessingFee
	SettlementStatus    string
	Voided              bool
	VoidedAt            *time.Time
	Deleted             bool
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Active indica si la devolución participa en cómputos (ni borrada ni anulada).
func (o *ReturnOrder) Active() bool {
	return !o.Deleted && !o.Voided
}

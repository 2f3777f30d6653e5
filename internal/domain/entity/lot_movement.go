package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento sobre lotes de materia prima.
const (
	LotMovementIssueDeduct = "ISSUE_DEDUCT" // descuento proporcional al crear una entrega
	LotMovementSeedIn      = "SEED_IN"      // carga inicial (importación legada)
)

// LotMovement es el rastro de auditoría de cada mutación de existencia de un lote.
// TransactionID agrupa los descuentos de una misma entrega de insumo.
type LotMovement struct {
	ID            string
	CompanyID     string
	TransactionID string // ID de la IssueOrder que originó el descuento
	LotID         string
	Type          string
	Quantity      decimal.Decimal // negativo para descuentos
	CreatedAt     time.Time
	CreatedBy     string
}

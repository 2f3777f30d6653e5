package entity

import "time"

// Métodos de liquidación de un taller.
const (
	SettlementMethodPeriodic = "PERIODIC"  // liquidación periódica (varias devoluciones por lote de pago)
	SettlementMethodPerBatch = "PER_BATCH" // liquidación por devolución
)

// Factory representa un taller de confección (contraparte de maquila).
// Recibe insumo vía IssueOrder, devuelve prenda terminada vía ReturnOrder y
// cobra el fee de proceso vía Settlement.
type Factory struct {
	ID               string
	CompanyID        string
	Code             int64 // código de negocio legado
	Name             string
	Contact          string
	Phone            string
	SettlementMethod string // ver constantes SettlementMethod*
	Disabled         bool   // bloquea nuevas entregas mientras tenga entregas incompletas
	Deleted          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

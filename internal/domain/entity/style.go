package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Style representa una referencia de prenda: define cuánto insumo consume cada
// unidad y de qué lotes de materia prima se descuenta al entregar a un taller.
type Style struct {
	ID               string
	CompanyID        string
	Code             int64  // código de negocio legado (numérico, único por empresa)
	Name             string
	SKU              string
	MaterialPerPiece decimal.Decimal // gramos de insumo por prenda
	LossRate         decimal.Decimal // % de merma estimada
	MaterialLotIDs   []string        // lotes vinculados; el asignador reparte entre ellos
	Disabled         bool            // bloquea nuevas entregas de insumo
	Deleted          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

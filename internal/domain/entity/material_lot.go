package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialLot representa un lote de materia prima (hilaza) con existencia mutable.
// CurrentStock solo lo muta el asignador de inventario dentro de la creación de
// una entrega; ningún otro componente escribe sobre él.
type MaterialLot struct {
	ID           string
	CompanyID    string
	Code         int64 // código de negocio legado
	Name         string
	CurrentStock decimal.Decimal // kg
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStyleRequest entrada para crear una referencia de prenda.
type CreateStyleRequest struct {
	Code             int64           `json:"code" validate:"required,gt=0"`
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	SKU              string          `json:"sku"`
	MaterialPerPiece decimal.Decimal `json:"material_per_piece"` // gramos por prenda
	LossRate         decimal.Decimal `json:"loss_rate"`          // % de merma
	MaterialLotIDs   []string        `json:"material_lot_ids"`
}

// StyleResponse salida de una referencia.
type StyleResponse struct {
	ID               string          `json:"id"`
	Code             int64           `json:"code"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	MaterialPerPiece decimal.Decimal `json:"material_per_piece"`
	LossRate         decimal.Decimal `json:"loss_rate"`
	MaterialLotIDs   []string        `json:"material_lot_ids"`
	Disabled         bool            `json:"disabled"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateFactoryRequest entrada para crear un taller.
type CreateFactoryRequest struct {
	Code             int64  `json:"code" validate:"required,gt=0"`
	Name             string `json:"name" validate:"required,min=1,max=200"`
	Contact          string `json:"contact"`
	Phone            string `json:"phone"`
	SettlementMethod string `json:"settlement_method" validate:"omitempty,oneof=PERIODIC PER_BATCH"`
}

// FactoryResponse salida de un taller.
type FactoryResponse struct {
	ID               string    `json:"id"`
	Code             int64     `json:"code"`
	Name             string    `json:"name"`
	Contact          string    `json:"contact"`
	Phone            string    `json:"phone"`
	SettlementMethod string    `json:"settlement_method"`
	Disabled         bool      `json:"disabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SetDisabledRequest entrada para habilitar/deshabilitar referencia o taller.
type SetDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// CreateMaterialLotRequest entrada para crear un lote de materia prima.
type CreateMaterialLotRequest struct {
	Code         int64           `json:"code" validate:"required,gt=0"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// MaterialLotResponse salida de un lote.
type MaterialLotResponse struct {
	ID           string          `json:"id"`
	Code         int64           `json:"code"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

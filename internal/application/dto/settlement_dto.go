package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementItemRequest renglón de una liquidación moderna.
type SettlementItemRequest struct {
	ReturnOrderID string          `json:"return_order_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// CreateSettlementRequest entrada para registrar un lote de pago.
// Se envían Items (representación moderna) o ReturnOrderIDs (legada), nunca ambos.
type CreateSettlementRequest struct {
	Code           int64                   `json:"code" validate:"required,gt=0"`
	FactoryID      string                  `json:"factory_id" validate:"required"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	Items          []SettlementItemRequest `json:"items"`
	ReturnOrderIDs []string                `json:"return_order_ids"`
}

// SettlementItemResponse renglón en salida.
type SettlementItemResponse struct {
	ID            string          `json:"id"`
	ReturnOrderID string          `json:"return_order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Voided        bool            `json:"voided"`
}

// SettlementResponse salida de una liquidación.
type SettlementResponse struct {
	ID                   string                   `json:"id"`
	Code                 int64                    `json:"code"`
	FactoryID            string                   `json:"factory_id"`
	TotalAmount          decimal.Decimal          `json:"total_amount"`
	Items                []SettlementItemResponse `json:"items,omitempty"`
	ReturnOrderIDs       []string                 `json:"return_order_ids,omitempty"`
	VoidedReturnOrderIDs []string                 `json:"voided_return_order_ids,omitempty"`
	Deleted              bool                     `json:"deleted"`
	DeleteReason         string                   `json:"delete_reason,omitempty"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateIssueOrderRequest entrada para registrar una entrega de insumo.
// StyleID y FactoryID aceptan UUID canónico o código numérico legado.
type CreateIssueOrderRequest struct {
	Code        int64           `json:"code" validate:"required,gt=0"`
	StyleID     string          `json:"style_id" validate:"required"`
	FactoryID   string          `json:"factory_id" validate:"required"`
	IssueWeight decimal.Decimal `json:"issue_weight"`
}

// LotDeductionDTO descuento aplicado a un lote durante la asignación.
type LotDeductionDTO struct {
	LotID    string          `json:"lot_id"`
	Deducted decimal.Decimal `json:"deducted"`
}

// IssueOrderResponse salida de una entrega.
type IssueOrderResponse struct {
	ID          string            `json:"id"`
	Code        int64             `json:"code"`
	StyleID     string            `json:"style_id"`
	FactoryID   string            `json:"factory_id"`
	IssueWeight decimal.Decimal   `json:"issue_weight"`
	Status      string            `json:"status"`
	Voided      bool              `json:"voided"`
	Deductions  []LotDeductionDTO `json:"deductions,omitempty"` // solo al crear
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CreateReturnOrderRequest entrada para registrar una devolución.
// IssueOrderID acepta UUID canónico o código numérico legado de la entrega.
type CreateReturnOrderRequest struct {
	Code                int64           `json:"code" validate:"required,gt=0"`
	IssueOrderID        string          `json:"issue_order_id" validate:"required"`
	Quantity            decimal.Decimal `json:"quantity"`
	ActualMaterialUsage decimal.Decimal `json:"actual_material_usage"`
	ProcessingFee       decimal.Decimal `json:"processing_fee"`
}

// ReturnOrderResponse salida de una devolución.
type ReturnOrderResponse struct {
	ID                  string          `json:"id"`
	Code                int64           `json:"code"`
	IssueOrderID        string          `json:"issue_order_id"`
	FactoryID           string          `json:"factory_id"`
	StyleID             string          `json:"style_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	ActualMaterialUsage decimal.Decimal `json:"actual_material_usage"`
	ProcessingFee       decimal.Decimal `json:"processing_fee"`
	SettledAmount       decimal.Decimal `json:"settled_amount"`
	SettlementStatus    string          `json:"settlement_status"`
	Voided              bool            `json:"voided"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	// IssueStatus: estado de la entrega padre recalculado tras crear la devolución.
	IssueStatus string `json:"issue_status,omitempty"`
}

// ToggleVoidRequest entrada para anular o restaurar una entrega/devolución.
type ToggleVoidRequest struct {
	Voided bool `json:"voided"`
}

// CascadeItemFailure describe un paso downstream de la cascada que no terminó.
type CascadeItemFailure struct {
	Kind  string `json:"kind"` // return_order | settlement | issue_status
	ID    string `json:"id"`
	Error string `json:"error"`
}

// CascadeResult resultado de una anulación/restauración en cascada.
// La operación reporta éxito con conteos aunque pasos individuales fallen
// (consistencia eventual en lugar de anulación todo-o-nada); Failures permite
// al caller detectar y reintentar una cascada parcial.
type CascadeResult struct {
	ReturnOrdersAffected int                  `json:"return_orders_affected"`
	SettlementsUpdated   int                  `json:"settlements_updated"`
	IssueStatus          string               `json:"issue_status,omitempty"`
	Failures             []CascadeItemFailure `json:"failures,omitempty"`
	// Remaining indica que la cascada alcanzó su presupuesto de páginas y debe
	// reinvocarse para continuar.
	Remaining bool `json:"remaining,omitempty"`
}

// RepairRequest entrada para el escaneo de reparación de devoluciones anuladas.
type RepairRequest struct {
	FactoryID string `json:"factory_id"`
	PageSize  int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	Skip      int    `json:"skip" validate:"omitempty,min=0"`
}

// RepairResult resultado de una página del escaneo de reparación.
type RepairResult struct {
	Scanned            int                  `json:"scanned"`
	SettlementsUpdated int                  `json:"settlements_updated"`
	IssueRecalc        int                  `json:"issue_recalc"`
	NextSkip           int                  `json:"next_skip"`
	Failures           []CascadeItemFailure `json:"failures,omitempty"`
}

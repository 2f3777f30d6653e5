package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeleteReasonAllVoided es el motivo con el que se marca borrada una liquidación
// cuando todas sus devoluciones referenciadas quedaron anuladas. Una liquidación
// borrada es inmutable.
const DeleteReasonAllVoided = "all_return_orders_voided"

// SettlementItem es el renglón moderno de una liquidación: aporte anulable por
// devolución.
type SettlementItem struct {
	ID            string
	SettlementID  string
	ReturnOrderID string
	Amount        decimal.Decimal
	Voided        bool
	VoidedAt      *time.Time
}

// Settlement representa un lote de pago a un taller contra una o más devoluciones.
//
// Conviven dos representaciones en disco y nunca se mezclan en un mismo registro:
//   - moderna: Items, con monto y bandera de anulación por devolución;
//   - legada: ReturnOrderIDs plano, donde el aporte de cada devolución activa es
//     TotalAmount / número de referencias activas, y las anulaciones se llevan en
//     la lista lateral VoidedReturnOrderIDs.
//
// La resolución entre las dos variantes ocurre una sola vez, en
// reconcile.Contribution; ningún otro call site la reimplementa.
type Settlement struct {
	ID                   string
	CompanyID            string
	Code                 int64 // código de negocio legado
	FactoryID            string
	TotalAmount          decimal.Decimal
	Items                []SettlementItem
	ReturnOrderIDs       []string // referencias legadas (vacío si hay Items)
	VoidedReturnOrderIDs []string // lista lateral de anulaciones legadas
	Deleted              bool
	DeleteReason         string
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasItems indica si la liquidación usa la representación moderna por renglones.
func (s *Settlement) HasItems() bool {
	return len(s.Items) > 0
}

// References indica si la liquidación referencia la devolución dada, en
// cualquiera de las dos representaciones.
func (s *Settlement) References(returnOrderID string) bool {
	if s.HasItems() {
		for _, it := range s.Items {
			if it.ReturnOrderID == returnOrderID {
				return true
			}
		}
		return false
	}
	for _, id := range s.ReturnOrderIDs {
		if id == returnOrderID {
			return true
		}
	}
	return false
}

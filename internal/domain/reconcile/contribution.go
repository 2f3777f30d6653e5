package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

// Contribution resuelve cuánto aporta una liquidación a una devolución. Es el
// único punto del sistema que distingue entre las dos representaciones:
//
//   - renglones: suma de los SettlementItem no anulados de esa devolución;
//   - legada: TotalAmount repartido en partes iguales entre las referencias
//     activas (las que no figuran en la lista lateral de anuladas).
//
// Una liquidación borrada no aporta nada.
func Contribution(s *entity.Settlement, returnOrderID string) decimal.Decimal {
	if s == nil || s.Deleted {
		return decimal.Zero
	}
	if s.HasItems() {
		sum := decimal.Zero
		for _, it := range s.Items {
			if it.ReturnOrderID == returnOrderID && !it.Voided {
				sum = sum.Add(it.Amount)
			}
		}
		return sum
	}
	return legacyContribution(s, returnOrderID)
}

// legacyContribution: reparto en partes iguales entre referencias activas.
func legacyContribution(s *entity.Settlement, returnOrderID string) decimal.Decimal {
	voided := make(map[string]bool, len(s.VoidedReturnOrderIDs))
	for _, id := range s.VoidedReturnOrderIDs {
		voided[id] = true
	}

	active := 0
	found := false
	for _, id := range s.ReturnOrderIDs {
		if voided[id] {
			continue
		}
		active++
		if id == returnOrderID {
			found = true
		}
	}
	if !found || active == 0 {
		return decimal.Zero
	}
	return s.TotalAmount.Div(decimal.NewFromInt(int64(active)))
}

// AllVoided indica si toda referencia de la liquidación quedó anulada; en ese
// caso la liquidación debe borrarse lógicamente con DeleteReasonAllVoided.
func AllVoided(s *entity.Settlement) bool {
	if s.HasItems() {
		for _, it := range s.Items {
			if !it.Voided {
				return false
			}
		}
		return len(s.Items) > 0
	}
	if len(s.ReturnOrderIDs) == 0 {
		return false
	}
	voided := make(map[string]bool, len(s.VoidedReturnOrderIDs))
	for _, id := range s.VoidedReturnOrderIDs {
		voided[id] = true
	}
	for _, id := range s.ReturnOrderIDs {
		if !voided[id] {
			return false
		}
	}
	return true
}

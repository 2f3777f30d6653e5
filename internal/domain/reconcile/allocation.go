package reconcile

import "github.com/shopspring/decimal"

// LotStock es la existencia actual de un lote elegible para reparto.
type LotStock struct {
	LotID string
	Stock decimal.Decimal
}

// Deduction es el descuento calculado para un lote.
type Deduction struct {
	LotID    string
	Deducted decimal.Decimal
}

// AllocateProportional reparte issueWeight entre los lotes en proporción a su
// existencia actual. Mejor esfuerzo por política de negocio: si la existencia
// total es cero no se descuenta nada, y ningún lote baja de cero aunque el
// total descontado quede por debajo de issueWeight. Nunca falla por faltante.
func AllocateProportional(lots []LotStock, issueWeight decimal.Decimal) []Deduction {
	totalStock := decimal.Zero
	for _, l := range lots {
		if l.Stock.GreaterThan(decimal.Zero) {
			totalStock = totalStock.Add(l.Stock)
		}
	}
	if totalStock.LessThanOrEqual(decimal.Zero) || issueWeight.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	deductions := make([]Deduction, 0, len(lots))
	for _, l := range lots {
		if l.Stock.LessThanOrEqual(decimal.Zero) {
			continue
		}
		share := l.Stock.Div(totalStock).Mul(issueWeight)
		// Clamp: el lote nunca queda negativo.
		if share.GreaterThan(l.Stock) {
			share = l.Stock
		}
		deductions = append(deductions, Deduction{LotID: l.LotID, Deducted: share})
	}
	return deductions
}

// Package reconcile contiene los servicios puros del motor de conciliación:
// derivación de estados, reparto proporcional de inventario y resolución del
// aporte de liquidaciones. Sin I/O; los casos de uso aplican estos cómputos
// sobre el estado leído del store.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

// issueTolerance absorbe el redondeo flotante del reparto proporcional:
// una entrega se considera completa cuando falta 0.01 kg o menos.
var issueTolerance = decimal.NewFromFloat(0.01)

// feeTolerance es la tolerancia del lado de liquidación. La colocación de la
// tolerancia difiere entre ambos caminos (resta en uno, comparación desplazada
// en el otro) y se conserva tal cual; unificarlas cambiaría la dirección del
// redondeo.
var feeTolerance = decimal.NewFromFloat(0.01)

// IssueStatus deriva el estado de una entrega a partir del insumo devuelto por
// sus devoluciones activas. Puro e idempotente: mismo insumo, mismo estado.
func IssueStatus(issueWeight, totalReturned decimal.Decimal) string {
	if totalReturned.LessThanOrEqual(decimal.Zero) {
		return entity.IssueStatusNotReturned
	}
	if issueWeight.Sub(totalReturned).LessThanOrEqual(issueTolerance) {
		return entity.IssueStatusCompleted
	}
	return entity.IssueStatusPartiallyReturned
}

// SettlementStatus deriva el estado de liquidación de una devolución a partir
// del monto liquidado ya acotado por el fee.
func SettlementStatus(settledAmount, processingFee decimal.Decimal) string {
	if settledAmount.GreaterThanOrEqual(processingFee.Sub(feeTolerance)) && processingFee.GreaterThan(decimal.Zero) {
		return entity.SettlementStatusSettled
	}
	if settledAmount.GreaterThan(decimal.Zero) {
		return entity.SettlementStatusPartiallySettled
	}
	return entity.SettlementStatusUnsettled
}

// ClampSettled acota el monto liquidado al fee de proceso: la suma de aportes
// puede exceder el fee (lotes de pago generosos) pero el derivado nunca.
func ClampSettled(rawSum, processingFee decimal.Decimal) decimal.Decimal {
	if rawSum.GreaterThan(processingFee) {
		return processingFee
	}
	if rawSum.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return rawSum
}

package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/reconcile"
)

func legacySettlement(total string, refs []string, voidedRefs []string) *entity.Settlement {
	return &entity.Settlement{
		ID:                   "s1",
		TotalAmount:          d(total),
		ReturnOrderIDs:       refs,
		VoidedReturnOrderIDs: voidedRefs,
	}
}

func itemSettlement(items ...entity.SettlementItem) *entity.Settlement {
	return &entity.Settlement{ID: "s1", Items: items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Representación legada: reparto en partes iguales
// ──────────────────────────────────────────────────────────────────────────────

func TestContribution_LegadaRepartoIgual(t *testing.T) {
	s := legacySettlement("90", []string{"A", "B", "C"}, nil)
	assert.True(t, d("30").Equal(reconcile.Contribution(s, "A")))
	assert.True(t, d("30").Equal(reconcile.Contribution(s, "B")))
	assert.True(t, d("30").Equal(reconcile.Contribution(s, "C")))
}

// Al anular B, el total se reparte entre las dos referencias que siguen activas:
// el aporte de A y C sube de 30 a 45.
func TestContribution_LegadaRedistribuyeTrasAnulacion(t *testing.T) {
	s := legacySettlement("90", []string{"A", "B", "C"}, []string{"B"})
	assert.True(t, d("45").Equal(reconcile.Contribution(s, "A")))
	assert.True(t, decimal.Zero.Equal(reconcile.Contribution(s, "B")), "una referencia anulada no aporta")
	assert.True(t, d("45").Equal(reconcile.Contribution(s, "C")))
}

func TestContribution_LegadaReferenciaAjena(t *testing.T) {
	s := legacySettlement("90", []string{"A", "B"}, nil)
	assert.True(t, decimal.Zero.Equal(reconcile.Contribution(s, "X")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Representación moderna: renglones
// ──────────────────────────────────────────────────────────────────────────────

func TestContribution_RenglonesSumaNoAnulados(t *testing.T) {
	s := itemSettlement(
		entity.SettlementItem{ReturnOrderID: "A", Amount: d("100")},
		entity.SettlementItem{ReturnOrderID: "A", Amount: d("50")},
		entity.SettlementItem{ReturnOrderID: "B", Amount: d("70")},
	)
	assert.True(t, d("150").Equal(reconcile.Contribution(s, "A")))
	assert.True(t, d("70").Equal(reconcile.Contribution(s, "B")))
}

func TestContribution_RenglonAnuladoNoAporta(t *testing.T) {
	s := itemSettlement(
		entity.SettlementItem{ReturnOrderID: "A", Amount: d("100"), Voided: true},
		entity.SettlementItem{ReturnOrderID: "A", Amount: d("50")},
	)
	assert.True(t, d("50").Equal(reconcile.Contribution(s, "A")))
}

// Con renglones presentes la lista legada se ignora por completo: las dos
// representaciones nunca se mezclan.
func TestContribution_RenglonesExcluyenVariante(t *testing.T) {
	s := itemSettlement(entity.SettlementItem{ReturnOrderID: "A", Amount: d("60")})
	s.ReturnOrderIDs = []string{"A", "B"}
	s.TotalAmount = d("999")
	assert.True(t, d("60").Equal(reconcile.Contribution(s, "A")))
	assert.True(t, decimal.Zero.Equal(reconcile.Contribution(s, "B")))
}

func TestContribution_BorradaNoAporta(t *testing.T) {
	s := legacySettlement("90", []string{"A"}, nil)
	s.Deleted = true
	assert.True(t, decimal.Zero.Equal(reconcile.Contribution(s, "A")))
	assert.True(t, decimal.Zero.Equal(reconcile.Contribution(nil, "A")))
}

// ──────────────────────────────────────────────────────────────────────────────
// AllVoided
// ──────────────────────────────────────────────────────────────────────────────

func TestAllVoided_Legada(t *testing.T) {
	assert.False(t, reconcile.AllVoided(legacySettlement("90", []string{"A", "B"}, []string{"A"})))
	assert.True(t, reconcile.AllVoided(legacySettlement("90", []string{"A", "B"}, []string{"A", "B"})))
	// sin referencias no hay nada que anular
	assert.False(t, reconcile.AllVoided(legacySettlement("90", nil, nil)))
}

func TestAllVoided_Renglones(t *testing.T) {
	assert.False(t, reconcile.AllVoided(itemSettlement(
		entity.SettlementItem{ReturnOrderID: "A", Voided: true},
		entity.SettlementItem{ReturnOrderID: "B"},
	)))
	assert.True(t, reconcile.AllVoided(itemSettlement(
		entity.SettlementItem{ReturnOrderID: "A", Voided: true},
		entity.SettlementItem{ReturnOrderID: "B", Voided: true},
	)))
}

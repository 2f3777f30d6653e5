package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquila-api/internal/domain/reconcile"
)

func TestAllocateProportional_RepartoProporcional(t *testing.T) {
	lots := []reconcile.LotStock{
		{LotID: "a", Stock: d("30")},
		{LotID: "b", Stock: d("70")},
	}
	deds := reconcile.AllocateProportional(lots, d("50"))
	require.Len(t, deds, 2)

	// 30/100 y 70/100 del peso entregado
	assert.True(t, d("15").Equal(deds[0].Deducted), "lote a: esperaba 15, obtuvo %s", deds[0].Deducted)
	assert.True(t, d("35").Equal(deds[1].Deducted), "lote b: esperaba 35, obtuvo %s", deds[1].Deducted)
}

// Entrega que consume exactamente toda la existencia: cada lote queda en cero.
func TestAllocateProportional_ConsumoTotal(t *testing.T) {
	lots := []reconcile.LotStock{
		{LotID: "a", Stock: d("30")},
		{LotID: "b", Stock: d("70")},
	}
	deds := reconcile.AllocateProportional(lots, d("100"))
	require.Len(t, deds, 2)
	assert.True(t, d("30").Equal(deds[0].Deducted))
	assert.True(t, d("70").Equal(deds[1].Deducted))
}

// Existencia total en cero: no se descuenta nada pero tampoco es error; la
// entrega se crea igual por política de negocio.
func TestAllocateProportional_SinExistencia(t *testing.T) {
	lots := []reconcile.LotStock{
		{LotID: "a", Stock: decimal.Zero},
		{LotID: "b", Stock: decimal.Zero},
	}
	deds := reconcile.AllocateProportional(lots, d("50"))
	assert.Empty(t, deds)
}

// Lotes con existencia negativa (datos legados sucios) no participan del reparto.
func TestAllocateProportional_IgnoraNegativos(t *testing.T) {
	lots := []reconcile.LotStock{
		{LotID: "a", Stock: d("-5")},
		{LotID: "b", Stock: d("40")},
	}
	deds := reconcile.AllocateProportional(lots, d("20"))
	require.Len(t, deds, 1)
	assert.Equal(t, "b", deds[0].LotID)
	assert.True(t, d("20").Equal(deds[0].Deducted))
}

// Ningún lote baja de cero: si el peso excede la existencia, el descuento total
// queda por debajo de lo entregado y eso es aceptable.
func TestAllocateProportional_NuncaNegativo(t *testing.T) {
	lots := []reconcile.LotStock{
		{LotID: "a", Stock: d("10")},
	}
	deds := reconcile.AllocateProportional(lots, d("100"))
	require.Len(t, deds, 1)
	assert.True(t, d("10").Equal(deds[0].Deducted), "el lote no puede quedar negativo")
}

func TestAllocateProportional_PesoCero(t *testing.T) {
	lots := []reconcile.LotStock{{LotID: "a", Stock: d("10")}}
	assert.Empty(t, reconcile.AllocateProportional(lots, decimal.Zero))
	assert.Empty(t, reconcile.AllocateProportional(nil, d("10")))
}

// La suma de descuentos nunca excede el peso entregado ni la existencia total.
func TestAllocateProportional_SumaAcotada(t *testing.T) {
	lots := []reconcile.LotStock{
		{LotID: "a", Stock: d("33.33")},
		{LotID: "b", Stock: d("66.67")},
		{LotID: "c", Stock: d("0.5")},
	}
	weight := d("75")
	total := decimal.Zero
	for _, ded := range reconcile.AllocateProportional(lots, weight) {
		total = total.Add(ded.Deducted)
	}
	assert.True(t, total.LessThanOrEqual(weight.Add(d("0.01"))),
		"la suma de descuentos (%s) no debe exceder el peso (%s)", total, weight)
}

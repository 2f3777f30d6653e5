package settlement_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquila-api/internal/application/settlement"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeSettlementRepo struct {
	settlements map[string]*entity.Settlement
	failItemID  string // SetItemVoided falla para este renglón
}

func newFakeSettlementRepo(ss ...*entity.Settlement) *fakeSettlementRepo {
	m := make(map[string]*entity.Settlement, len(ss))
	for _, s := range ss {
		m[s.ID] = s
	}
	return &fakeSettlementRepo{settlements: m}
}

func (f *fakeSettlementRepo) Create(s *entity.Settlement) error {
	f.settlements[s.ID] = s
	return nil
}

func (f *fakeSettlementRepo) GetByID(id string) (*entity.Settlement, error) {
	return f.settlements[id], nil
}

func (f *fakeSettlementRepo) GetByCode(companyID string, code int64) (*entity.Settlement, error) {
	for _, s := range f.settlements {
		if s.CompanyID == companyID && s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSettlementRepo) ListByReturnOrder(companyID, returnOrderID string) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, s := range f.settlements {
		if s.CompanyID == companyID && s.References(returnOrderID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSettlementRepo) ListByFactory(companyID, factoryID string, limit, offset int) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, s := range f.settlements {
		if s.CompanyID == companyID && s.FactoryID == factoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSettlementRepo) SetItemVoided(itemID string, voided bool, at *time.Time) error {
	if itemID == f.failItemID {
		return errors.New("fallo simulado de store")
	}
	for _, s := range f.settlements {
		for i := range s.Items {
			if s.Items[i].ID == itemID {
				s.Items[i].Voided = voided
				s.Items[i].VoidedAt = at
				return nil
			}
		}
	}
	return errors.New("renglón no encontrado")
}

func (f *fakeSettlementRepo) UpdateLegacyVoidedRefs(settlementID string, refs []string) error {
	s, ok := f.settlements[settlementID]
	if !ok {
		return errors.New("liquidación no encontrada")
	}
	s.VoidedReturnOrderIDs = refs
	return nil
}

func (f *fakeSettlementRepo) SoftDelete(id, reason string) error {
	s, ok := f.settlements[id]
	if !ok {
		return errors.New("liquidación no encontrada")
	}
	if !s.Deleted {
		s.Deleted = true
		s.DeleteReason = reason
	}
	return nil
}

type fakeReturnRepo struct {
	returns map[string]*entity.ReturnOrder
}

func newFakeReturnRepo(rs ...*entity.ReturnOrder) *fakeReturnRepo {
	m := make(map[string]*entity.ReturnOrder, len(rs))
	for _, r := range rs {
		m[r.ID] = r
	}
	return &fakeReturnRepo{returns: m}
}

func (f *fakeReturnRepo) Create(r *entity.ReturnOrder) error {
	f.returns[r.ID] = r
	return nil
}

func (f *fakeReturnRepo) GetByID(id string) (*entity.ReturnOrder, error) {
	return f.returns[id], nil
}

func (f *fakeReturnRepo) GetByCode(companyID string, code int64) (*entity.ReturnOrder, error) {
	for _, r := range f.returns {
		if r.CompanyID == companyID && r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReturnRepo) ListByIssue(companyID, issueOrderID string, legacyIssueCode int64) ([]*entity.ReturnOrder, error) {
	var out []*entity.ReturnOrder
	for _, r := range f.returns {
		if r.CompanyID != companyID || r.Deleted {
			continue
		}
		if r.IssueOrderID == issueOrderID || (legacyIssueCode != 0 && r.LegacyIssueCode == legacyIssueCode) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReturnRepo) ListActivePageByIssue(companyID, issueOrderID string, legacyIssueCode int64, limit, offset int) ([]*entity.ReturnOrder, error) {
	all, _ := f.ListByIssue(companyID, issueOrderID, legacyIssueCode)
	var active []*entity.ReturnOrder
	for _, r := range all {
		if !r.Voided {
			active = append(active, r)
		}
	}
	if offset >= len(active) {
		return nil, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], nil
}

func (f *fakeReturnRepo) ListVoidedPage(companyID, factoryID string, limit, offset int) ([]*entity.ReturnOrder, error) {
	var voided []*entity.ReturnOrder
	for _, r := range f.returns {
		if r.CompanyID != companyID || r.Deleted || !r.Voided {
			continue
		}
		if factoryID != "" && r.FactoryID != factoryID {
			continue
		}
		voided = append(voided, r)
	}
	if offset >= len(voided) {
		return nil, nil
	}
	end := offset + limit
	if end > len(voided) {
		end = len(voided)
	}
	return voided[offset:end], nil
}

func (f *fakeReturnRepo) SetVoided(id string, voided bool, at *time.Time) error {
	r, ok := f.returns[id]
	if !ok {
		return errors.New("devolución no encontrada")
	}
	r.Voided = voided
	r.VoidedAt = at
	return nil
}

func (f *fakeReturnRepo) UpdateSettled(id string, settled decimal.Decimal, status string) error {
	r, ok := f.returns[id]
	if !ok {
		return errors.New("devolución no encontrada")
	}
	r.SettledAmount = settled
	r.SettlementStatus = status
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyVoid
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyVoid_AnulaRenglonModerno(t *testing.T) {
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1",
		Items: []entity.SettlementItem{
			{ID: "i1", SettlementID: "s1", ReturnOrderID: "r1", Amount: d("100")},
			{ID: "i2", SettlementID: "s1", ReturnOrderID: "r2", Amount: d("80")},
		},
	}
	repo := newFakeSettlementRepo(s)
	ledger := settlement.NewLedger(repo, newFakeReturnRepo(), testLogger())

	updated, failures := ledger.ApplyVoid("c1", &entity.ReturnOrder{ID: "r1", CompanyID: "c1"}, true)

	assert.Equal(t, 1, updated)
	assert.Empty(t, failures)
	assert.True(t, s.Items[0].Voided, "el renglón de r1 debe quedar anulado")
	assert.False(t, s.Items[1].Voided, "el renglón de r2 no debe tocarse")
	assert.False(t, s.Deleted, "queda un renglón activo; la liquidación sigue viva")
}

func TestApplyVoid_ListaLateralLegada(t *testing.T) {
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1", TotalAmount: d("90"),
		ReturnOrderIDs: []string{"r1", "r2", "r3"},
	}
	repo := newFakeSettlementRepo(s)
	ledger := settlement.NewLedger(repo, newFakeReturnRepo(), testLogger())

	updated, failures := ledger.ApplyVoid("c1", &entity.ReturnOrder{ID: "r2", CompanyID: "c1"}, true)

	assert.Equal(t, 1, updated)
	assert.Empty(t, failures)
	assert.Equal(t, []string{"r2"}, s.VoidedReturnOrderIDs)

	// Restaurar la saca de la lista lateral.
	updated, failures = ledger.ApplyVoid("c1", &entity.ReturnOrder{ID: "r2", CompanyID: "c1"}, false)
	assert.Equal(t, 1, updated)
	assert.Empty(t, failures)
	assert.Empty(t, s.VoidedReturnOrderIDs)
}

// Idempotencia: repetir la anulación no cuenta como actualización nueva.
func TestApplyVoid_Idempotente(t *testing.T) {
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1", TotalAmount: d("90"),
		ReturnOrderIDs: []string{"r1", "r2"},
	}
	repo := newFakeSettlementRepo(s)
	ledger := settlement.NewLedger(repo, newFakeReturnRepo(), testLogger())
	ret := &entity.ReturnOrder{ID: "r1", CompanyID: "c1"}

	updated, _ := ledger.ApplyVoid("c1", ret, true)
	assert.Equal(t, 1, updated)

	updated, failures := ledger.ApplyVoid("c1", ret, true)
	assert.Equal(t, 0, updated, "re-ejecutar no debe contar actualizaciones")
	assert.Empty(t, failures)
	assert.Equal(t, []string{"r1"}, s.VoidedReturnOrderIDs, "sin duplicados en la lista lateral")
}

// Al anular la última referencia viva, la liquidación se borra lógicamente con
// el motivo all_return_orders_voided y queda inmutable.
func TestApplyVoid_BorraCuandoTodoAnulado(t *testing.T) {
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1",
		Items: []entity.SettlementItem{
			{ID: "i1", SettlementID: "s1", ReturnOrderID: "r1", Amount: d("100"), Voided: true},
			{ID: "i2", SettlementID: "s1", ReturnOrderID: "r2", Amount: d("80")},
		},
	}
	repo := newFakeSettlementRepo(s)
	ledger := settlement.NewLedger(repo, newFakeReturnRepo(), testLogger())

	updated, failures := ledger.ApplyVoid("c1", &entity.ReturnOrder{ID: "r2", CompanyID: "c1"}, true)

	require.Empty(t, failures)
	assert.Equal(t, 1, updated)
	assert.True(t, s.Deleted)
	assert.Equal(t, entity.DeleteReasonAllVoided, s.DeleteReason)

	// Borrada = terminal: restaurar r2 ya no la toca.
	updated, _ = ledger.ApplyVoid("c1", &entity.ReturnOrder{ID: "r2", CompanyID: "c1"}, false)
	assert.Equal(t, 0, updated, "una liquidación borrada es inmutable")
	assert.True(t, s.Items[1].Voided, "el renglón no debe reinstalarse")
}

// Mejor esfuerzo: el fallo de una liquidación se reporta y no aborta a las demás.
func TestApplyVoid_FalloParcialNoAborta(t *testing.T) {
	bad := &entity.Settlement{
		ID: "s-bad", CompanyID: "c1",
		Items: []entity.SettlementItem{{ID: "i-bad", SettlementID: "s-bad", ReturnOrderID: "r1", Amount: d("10")}},
	}
	good := &entity.Settlement{
		ID: "s-good", CompanyID: "c1",
		Items: []entity.SettlementItem{
			{ID: "i-good", SettlementID: "s-good", ReturnOrderID: "r1", Amount: d("20")},
			{ID: "i-other", SettlementID: "s-good", ReturnOrderID: "r2", Amount: d("5")},
		},
	}
	repo := newFakeSettlementRepo(bad, good)
	repo.failItemID = "i-bad"
	ledger := settlement.NewLedger(repo, newFakeReturnRepo(), testLogger())

	updated, failures := ledger.ApplyVoid("c1", &entity.ReturnOrder{ID: "r1", CompanyID: "c1"}, true)

	assert.Equal(t, 1, updated, "la liquidación sana debe actualizarse")
	require.Len(t, failures, 1)
	assert.Equal(t, "settlement", failures[0].Kind)
	assert.Equal(t, "s-bad", failures[0].ID)
	assert.True(t, good.Items[0].Voided)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecomputeSettled
// ──────────────────────────────────────────────────────────────────────────────

func TestRecomputeSettled_SumaYAcota(t *testing.T) {
	ret := &entity.ReturnOrder{
		ID: "r1", CompanyID: "c1",
		ProcessingFee:    d("500"),
		SettlementStatus: entity.SettlementStatusUnsettled,
	}
	// Dos liquidaciones aportan 300 + 300 = 600, acotado al fee de 500.
	s1 := &entity.Settlement{
		ID: "s1", CompanyID: "c1",
		Items: []entity.SettlementItem{{ID: "i1", SettlementID: "s1", ReturnOrderID: "r1", Amount: d("300")}},
	}
	s2 := &entity.Settlement{
		ID: "s2", CompanyID: "c1", TotalAmount: d("300"),
		ReturnOrderIDs: []string{"r1"},
	}
	returnRepo := newFakeReturnRepo(ret)
	ledger := settlement.NewLedger(newFakeSettlementRepo(s1, s2), returnRepo, testLogger())

	require.NoError(t, ledger.RecomputeSettled("c1", "r1"))

	assert.True(t, d("500").Equal(ret.SettledAmount), "el monto se acota al fee: esperaba 500, obtuvo %s", ret.SettledAmount)
	assert.Equal(t, entity.SettlementStatusSettled, ret.SettlementStatus)
}

func TestRecomputeSettled_LiquidacionBorradaNoAporta(t *testing.T) {
	ret := &entity.ReturnOrder{
		ID: "r1", CompanyID: "c1",
		ProcessingFee:    d("500"),
		SettledAmount:    d("300"),
		SettlementStatus: entity.SettlementStatusPartiallySettled,
	}
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1", Deleted: true, TotalAmount: d("300"),
		ReturnOrderIDs: []string{"r1"},
	}
	returnRepo := newFakeReturnRepo(ret)
	ledger := settlement.NewLedger(newFakeSettlementRepo(s), returnRepo, testLogger())

	require.NoError(t, ledger.RecomputeSettled("c1", "r1"))

	assert.True(t, ret.SettledAmount.IsZero(), "esperaba 0, obtuvo %s", ret.SettledAmount)
	assert.Equal(t, entity.SettlementStatusUnsettled, ret.SettlementStatus)
}

func TestRecomputeSettled_DevolucionAjena(t *testing.T) {
	ledger := settlement.NewLedger(newFakeSettlementRepo(), newFakeReturnRepo(
		&entity.ReturnOrder{ID: "r1", CompanyID: "otra-empresa"},
	), testLogger())

	err := ledger.RecomputeSettled("c1", "r1")
	assert.Error(t, err, "una devolución de otra empresa no debe recomputarse")
}

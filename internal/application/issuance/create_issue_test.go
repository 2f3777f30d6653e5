package issuance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/issuance"
	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
	"github.com/jhoicas/Maquila-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStyleRepo struct{ styles map[string]*entity.Style }

func (f *fakeStyleRepo) Create(s *entity.Style) error { f.styles[s.ID] = s; return nil }
func (f *fakeStyleRepo) GetByID(id string) (*entity.Style, error) {
	return f.styles[id], nil
}
func (f *fakeStyleRepo) GetByCode(companyID string, code int64) (*entity.Style, error) {
	for _, s := range f.styles {
		if s.CompanyID == companyID && s.Code == code && !s.Deleted {
			return s, nil
		}
	}
	return nil, nil
}
func (f *fakeStyleRepo) Update(s *entity.Style) error              { return nil }
func (f *fakeStyleRepo) SetDisabled(id string, disabled bool) error { return nil }
func (f *fakeStyleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Style, error) {
	return nil, nil
}

type fakeFactoryRepo struct{ factories map[string]*entity.Factory }

func (f *fakeFactoryRepo) Create(x *entity.Factory) error { f.factories[x.ID] = x; return nil }
func (f *fakeFactoryRepo) GetByID(id string) (*entity.Factory, error) {
	return f.factories[id], nil
}
func (f *fakeFactoryRepo) GetByCode(companyID string, code int64) (*entity.Factory, error) {
	for _, x := range f.factories {
		if x.CompanyID == companyID && x.Code == code && !x.Deleted {
			return x, nil
		}
	}
	return nil, nil
}
func (f *fakeFactoryRepo) Update(x *entity.Factory) error             { return nil }
func (f *fakeFactoryRepo) SetDisabled(id string, disabled bool) error { return nil }
func (f *fakeFactoryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Factory, error) {
	return nil, nil
}

type fakeLotRepo struct{ lots map[string]*entity.MaterialLot }

func (f *fakeLotRepo) Create(l *entity.MaterialLot) error { f.lots[l.ID] = l; return nil }
func (f *fakeLotRepo) GetByID(id string) (*entity.MaterialLot, error) {
	return f.lots[id], nil
}
func (f *fakeLotRepo) GetByCode(companyID string, code int64) (*entity.MaterialLot, error) {
	for _, l := range f.lots {
		if l.CompanyID == companyID && l.Code == code && !l.Deleted {
			return l, nil
		}
	}
	return nil, nil
}
func (f *fakeLotRepo) GetForUpdate(id string) (*entity.MaterialLot, error) {
	return f.lots[id], nil
}
func (f *fakeLotRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	l, ok := f.lots[id]
	if !ok {
		return errors.New("lote no encontrado")
	}
	l.CurrentStock = newStock
	return nil
}
func (f *fakeLotRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.MaterialLot, error) {
	return nil, nil
}

type fakeMovementRepo struct{ movements []*entity.LotMovement }

func (f *fakeMovementRepo) Create(m *entity.LotMovement) error {
	f.movements = append(f.movements, m)
	return nil
}
func (f *fakeMovementRepo) ListByTransaction(transactionID string) ([]*entity.LotMovement, error) {
	var out []*entity.LotMovement
	for _, m := range f.movements {
		if m.TransactionID == transactionID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeIssueRepo struct{ issues map[string]*entity.IssueOrder }

func (f *fakeIssueRepo) Create(o *entity.IssueOrder) error { f.issues[o.ID] = o; return nil }
func (f *fakeIssueRepo) GetByID(id string) (*entity.IssueOrder, error) {
	return f.issues[id], nil
}
func (f *fakeIssueRepo) GetByCode(companyID string, code int64) (*entity.IssueOrder, error) {
	for _, o := range f.issues {
		if o.CompanyID == companyID && o.Code == code && !o.Deleted {
			return o, nil
		}
	}
	return nil, nil
}
func (f *fakeIssueRepo) UpdateStatus(id, status string) error { return nil }
func (f *fakeIssueRepo) SetVoided(id string, voided bool, at *time.Time) error {
	return nil
}
func (f *fakeIssueRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.IssueOrder, error) {
	var out []*entity.IssueOrder
	for _, o := range f.issues {
		if o.CompanyID == companyID && !o.Deleted {
			out = append(out, o)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback directamente sobre los fakes; la
// transaccionalidad real la prueba el adaptador de PostgreSQL.
type fakeTxRunner struct {
	issueRepo repository.IssueOrderRepository
	lotRepo   repository.MaterialLotRepository
	movRepo   repository.LotMovementRepository
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	issueRepo repository.IssueOrderRepository,
	lotRepo repository.MaterialLotRepository,
	movRepo repository.LotMovementRepository,
) error) error {
	return fn(f.issueRepo, f.lotRepo, f.movRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "c1"

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type world struct {
	styles    *fakeStyleRepo
	factories *fakeFactoryRepo
	lots      *fakeLotRepo
	movements *fakeMovementRepo
	issues    *fakeIssueRepo
	uc        *issuance.CreateIssueUseCase
}

func buildWorld() *world {
	w := &world{
		styles:    &fakeStyleRepo{styles: map[string]*entity.Style{}},
		factories: &fakeFactoryRepo{factories: map[string]*entity.Factory{}},
		lots:      &fakeLotRepo{lots: map[string]*entity.MaterialLot{}},
		movements: &fakeMovementRepo{},
		issues:    &fakeIssueRepo{issues: map[string]*entity.IssueOrder{}},
	}
	res := resolver.New(w.styles, w.factories, w.lots, w.issues, nil, nil)
	tx := &fakeTxRunner{issueRepo: w.issues, lotRepo: w.lots, movRepo: w.movements}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	w.uc = issuance.NewCreateIssueUseCase(tx, res, w.issues, log)
	return w
}

func (w *world) addStyle(id string, code int64, lotIDs []string, disabled bool) {
	w.styles.styles[id] = &entity.Style{ID: id, CompanyID: companyID, Code: code, Name: "Camiseta", MaterialLotIDs: lotIDs, Disabled: disabled}
}

func (w *world) addFactory(id string, code int64, disabled bool) {
	w.factories.factories[id] = &entity.Factory{ID: id, CompanyID: companyID, Code: code, Name: "Taller Norte", Disabled: disabled}
}

func (w *world) addLot(id string, stock string) {
	w.lots.lots[id] = &entity.MaterialLot{ID: id, CompanyID: companyID, Name: "Hilaza 30/1", CurrentStock: d(stock)}
}

func validRequest() dto.CreateIssueOrderRequest {
	return dto.CreateIssueOrderRequest{
		Code:        100,
		StyleID:     "st1",
		FactoryID:   "f1",
		IssueWeight: d("50"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateIssue_DescuentoProporcional(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 1, []string{"l1", "l2"}, false)
	w.addFactory("f1", 1, false)
	w.addLot("l1", "30")
	w.addLot("l2", "70")

	resp, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.IssueStatusNotReturned, resp.Status)
	require.Len(t, resp.Deductions, 2)

	// 30/100 y 70/100 de 50 kg
	assert.True(t, d("15").Equal(w.lots.lots["l1"].CurrentStock), "l1: esperaba 15, quedó %s", w.lots.lots["l1"].CurrentStock)
	assert.True(t, d("35").Equal(w.lots.lots["l2"].CurrentStock), "l2: esperaba 35, quedó %s", w.lots.lots["l2"].CurrentStock)

	// Un movimiento de auditoría por lote descontado, con cantidad negativa.
	movs, _ := w.movements.ListByTransaction(resp.ID)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.LotMovementIssueDeduct, m.Type)
		assert.True(t, m.Quantity.IsNegative(), "el descuento se registra en negativo")
	}
}

// Existencia en cero: no bloquea la creación, solo no descuenta nada.
func TestCreateIssue_SinExistenciaCreaIgual(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 1, []string{"l1"}, false)
	w.addFactory("f1", 1, false)
	w.addLot("l1", "0")

	resp, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	require.NoError(t, err)

	assert.Empty(t, resp.Deductions)
	assert.True(t, w.lots.lots["l1"].CurrentStock.IsZero())
	movs, _ := w.movements.ListByTransaction(resp.ID)
	assert.Empty(t, movs, "sin descuento no hay movimientos")
}

// Un lote vinculado que ya no existe se omite del reparto sin fallar.
func TestCreateIssue_LoteAusenteSeOmite(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 1, []string{"l-fantasma", "l1"}, false)
	w.addFactory("f1", 1, false)
	w.addLot("l1", "100")

	resp, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Deductions, 1)
	assert.Equal(t, "l1", resp.Deductions[0].LotID)
	assert.True(t, d("50").Equal(w.lots.lots["l1"].CurrentStock))
}

func TestCreateIssue_ReferenciaDeshabilitada(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 1, nil, true) // deshabilitada
	w.addFactory("f1", 1, false)

	_, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)
}

func TestCreateIssue_TallerDeshabilitado(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 1, nil, false)
	w.addFactory("f1", 1, true) // deshabilitado

	_, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)
}

func TestCreateIssue_CodigoDuplicado(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 1, nil, false)
	w.addFactory("f1", 1, false)

	_, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	require.NoError(t, err)

	_, err = w.uc.Create(context.Background(), companyID, "u1", validRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateIssue_EntradaInvalida(t *testing.T) {
	w := buildWorld()

	in := validRequest()
	in.IssueWeight = decimal.Zero
	_, err := w.uc.Create(context.Background(), companyID, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validRequest()
	in.Code = 0
	_, err = w.uc.Create(context.Background(), companyID, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La referencia de prenda y el taller aceptan código legado además de UUID.
func TestCreateIssue_ReferenciasPorCodigoLegado(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 55, nil, false)
	w.addFactory("f1", 7, false)

	in := validRequest()
	in.StyleID = "55"
	in.FactoryID = "7"
	resp, err := w.uc.Create(context.Background(), companyID, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "st1", resp.StyleID, "debe persistir el UUID canónico, no el código")
	assert.Equal(t, "f1", resp.FactoryID)
}

func TestCreateIssue_ReferenciaDeOtraEmpresa(t *testing.T) {
	w := buildWorld()
	w.styles.styles["st1"] = &entity.Style{ID: "st1", CompanyID: "otra", Code: 1}
	w.addFactory("f1", 1, false)

	_, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / List
// ──────────────────────────────────────────────────────────────────────────────

func TestGetIssue_PorUUIDYPorCodigo(t *testing.T) {
	w := buildWorld()
	w.addStyle("st1", 1, nil, false)
	w.addFactory("f1", 1, false)

	created, err := w.uc.Create(context.Background(), companyID, "u1", validRequest())
	require.NoError(t, err)

	byID, err := w.uc.Get(companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	byCode, err := w.uc.Get(companyID, "100")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
}

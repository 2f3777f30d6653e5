package settlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/application/settlement"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

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

func buildCreateUC(factories []*entity.Factory, rets []*entity.ReturnOrder, ss []*entity.Settlement) (*settlement.CreateSettlementUseCase, *fakeSettlementRepo, *fakeReturnRepo) {
	factoryRepo := &fakeFactoryRepo{factories: map[string]*entity.Factory{}}
	for _, f := range factories {
		factoryRepo.factories[f.ID] = f
	}
	returnRepo := newFakeReturnRepo(rets...)
	settlementRepo := newFakeSettlementRepo(ss...)
	res := resolver.New(nil, factoryRepo, nil, nil, returnRepo, settlementRepo)
	ledger := settlement.NewLedger(settlementRepo, returnRepo, testLogger())
	return settlement.NewCreateSettlementUseCase(res, settlementRepo, ledger), settlementRepo, returnRepo
}

func activeReturn(id string, fee string) *entity.ReturnOrder {
	return &entity.ReturnOrder{
		ID: id, CompanyID: "c1", FactoryID: "f1",
		ProcessingFee:    d(fee),
		SettlementStatus: entity.SettlementStatusUnsettled,
	}
}

func testFactory() *entity.Factory {
	return &entity.Factory{ID: "f1", CompanyID: "c1", Code: 7, Name: "Taller Norte"}
}

func TestCreateSettlement_ConRenglones(t *testing.T) {
	r1 := activeReturn("r1", "300")
	r2 := activeReturn("r2", "200")
	uc, _, _ := buildCreateUC([]*entity.Factory{testFactory()}, []*entity.ReturnOrder{r1, r2}, nil)

	resp, err := uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("500"),
		Items: []dto.SettlementItemRequest{
			{ReturnOrderID: "r1", Amount: d("300")},
			{ReturnOrderID: "r2", Amount: d("200")},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	// El derivado de cada devolución tocada se recalcula en el acto.
	assert.True(t, d("300").Equal(r1.SettledAmount))
	assert.Equal(t, entity.SettlementStatusSettled, r1.SettlementStatus)
	assert.True(t, d("200").Equal(r2.SettledAmount))
	assert.Equal(t, entity.SettlementStatusSettled, r2.SettlementStatus)
}

func TestCreateSettlement_RepresentacionLegada(t *testing.T) {
	r1 := activeReturn("r1", "100")
	r2 := activeReturn("r2", "100")
	uc, _, _ := buildCreateUC([]*entity.Factory{testFactory()}, []*entity.ReturnOrder{r1, r2}, nil)

	resp, err := uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("90"),
		ReturnOrderIDs: []string{"r1", "r2"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, []string{"r1", "r2"}, resp.ReturnOrderIDs)

	// Reparto en partes iguales: 45 a cada devolución.
	assert.True(t, d("45").Equal(r1.SettledAmount), "esperaba 45, obtuvo %s", r1.SettledAmount)
	assert.Equal(t, entity.SettlementStatusPartiallySettled, r1.SettlementStatus)
}

// Las dos representaciones jamás se mezclan: ambas (o ninguna) es entrada inválida.
func TestCreateSettlement_RepresentacionesExcluyentes(t *testing.T) {
	r1 := activeReturn("r1", "100")
	uc, _, _ := buildCreateUC([]*entity.Factory{testFactory()}, []*entity.ReturnOrder{r1}, nil)

	_, err := uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("90"),
		Items:          []dto.SettlementItemRequest{{ReturnOrderID: "r1", Amount: d("90")}},
		ReturnOrderIDs: []string{"r1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("90"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSettlement_DevolucionAnulada(t *testing.T) {
	r1 := activeReturn("r1", "100")
	r1.Voided = true
	uc, _, _ := buildCreateUC([]*entity.Factory{testFactory()}, []*entity.ReturnOrder{r1}, nil)

	_, err := uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("90"),
		ReturnOrderIDs: []string{"r1"},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "no se liquida contra una devolución anulada")
}

func TestCreateSettlement_DevolucionInexistente(t *testing.T) {
	uc, _, _ := buildCreateUC([]*entity.Factory{testFactory()}, nil, nil)

	_, err := uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("90"),
		ReturnOrderIDs: []string{"no-existe"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El fee ya cubierto por una liquidación anterior acota el derivado de la nueva.
func TestCreateSettlement_SumaAcotadaAlFee(t *testing.T) {
	r1 := activeReturn("r1", "100")
	prev := &entity.Settlement{ID: "s0", CompanyID: "c1", TotalAmount: d("80"), ReturnOrderIDs: []string{"r1"}}
	uc, _, _ := buildCreateUC([]*entity.Factory{testFactory()}, []*entity.ReturnOrder{r1}, []*entity.Settlement{prev})

	_, err := uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("80"),
		ReturnOrderIDs: []string{"r1"},
	})
	require.NoError(t, err)

	// 80 + 80 = 160 crudo, acotado al fee de 100.
	assert.True(t, d("100").Equal(r1.SettledAmount), "esperaba 100, obtuvo %s", r1.SettledAmount)
	assert.Equal(t, entity.SettlementStatusSettled, r1.SettlementStatus)
}

func TestCreateSettlement_TallerPorCodigoLegado(t *testing.T) {
	r1 := activeReturn("r1", "100")
	uc, repo, _ := buildCreateUC([]*entity.Factory{testFactory()}, []*entity.ReturnOrder{r1}, nil)

	resp, err := uc.Create("c1", "u1", dto.CreateSettlementRequest{
		Code: 1, FactoryID: "7", TotalAmount: d("50"),
		ReturnOrderIDs: []string{"r1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "f1", resp.FactoryID, "debe persistir el UUID canónico del taller")

	stored, _ := repo.GetByID(resp.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "f1", stored.FactoryID)
}

func TestCreateSettlement_CodigoDuplicado(t *testing.T) {
	r1 := activeReturn("r1", "100")
	uc, _, _ := buildCreateUC([]*entity.Factory{testFactory()}, []*entity.ReturnOrder{r1}, nil)

	req := dto.CreateSettlementRequest{
		Code: 1, FactoryID: "f1", TotalAmount: d("50"),
		ReturnOrderIDs: []string{"r1"},
	}
	_, err := uc.Create("c1", "u1", req)
	require.NoError(t, err)

	_, err = uc.Create("c1", "u1", req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

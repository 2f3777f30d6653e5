package settlement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/application/settlement"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

type fakeCompanyRepo struct{ companies map[string]*entity.Company }

func (f *fakeCompanyRepo) Create(c *entity.Company) error { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return f.companies[id], nil
}
func (f *fakeCompanyRepo) GetByNIT(nit string) (*entity.Company, error) { return nil, nil }
func (f *fakeCompanyRepo) Update(c *entity.Company) error               { return nil }
func (f *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}

// capturingGenerator guarda lo que el caso de uso le entrega, para inspección.
type capturingGenerator struct {
	settlement *entity.Settlement
	company    *entity.Company
	factory    *entity.Factory
	lines      []settlement.StatementLine
}

func (g *capturingGenerator) GenerateStatementPDF(
	ctx context.Context,
	s *entity.Settlement,
	company *entity.Company,
	factory *entity.Factory,
	lines []settlement.StatementLine,
) ([]byte, error) {
	g.settlement = s
	g.company = company
	g.factory = factory
	g.lines = lines
	return []byte("%PDF-fake"), nil
}

func buildStatementUC(s *entity.Settlement, rets []*entity.ReturnOrder) (*settlement.StatementUseCase, *capturingGenerator) {
	companyRepo := &fakeCompanyRepo{companies: map[string]*entity.Company{
		"c1": {ID: "c1", Name: "Confecciones Andinas", NIT: "900123456-1"},
	}}
	factoryRepo := &fakeFactoryRepo{factories: map[string]*entity.Factory{
		"f1": {ID: "f1", CompanyID: "c1", Code: 7, Name: "Taller Norte"},
	}}
	returnRepo := newFakeReturnRepo(rets...)
	settlementRepo := newFakeSettlementRepo(s)
	res := resolver.New(nil, factoryRepo, nil, nil, returnRepo, settlementRepo)
	gen := &capturingGenerator{}
	return settlement.NewStatementUseCase(res, companyRepo, returnRepo, gen), gen
}

func TestStatement_ResuelveLineasConAporte(t *testing.T) {
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1", Code: 3, FactoryID: "f1",
		TotalAmount:    d("90"),
		ReturnOrderIDs: []string{"r1", "r2"},
	}
	rets := []*entity.ReturnOrder{
		{ID: "r1", CompanyID: "c1", Code: 201, Quantity: d("120"), ProcessingFee: d("60")},
		{ID: "r2", CompanyID: "c1", Code: 202, Quantity: d("80"), ProcessingFee: d("45")},
	}
	uc, gen := buildStatementUC(s, rets)

	pdf, err := uc.Generate(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	require.Len(t, gen.lines, 2)
	assert.Equal(t, int64(201), gen.lines[0].ReturnCode)
	assert.True(t, d("45").Equal(gen.lines[0].Contribution), "90 repartido entre 2 referencias activas")
	assert.Equal(t, "Taller Norte", gen.factory.Name)
	assert.Equal(t, "Confecciones Andinas", gen.company.Name)
}

// Una liquidación borrada sigue siendo imprimible (soporte de auditoría); sus
// referencias anuladas salen con aporte cero y bandera de anulación.
func TestStatement_LiquidacionBorradaImprimible(t *testing.T) {
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1", Code: 3, FactoryID: "f1",
		TotalAmount:          d("90"),
		ReturnOrderIDs:       []string{"r1"},
		VoidedReturnOrderIDs: []string{"r1"},
		Deleted:              true,
		DeleteReason:         entity.DeleteReasonAllVoided,
	}
	rets := []*entity.ReturnOrder{
		{ID: "r1", CompanyID: "c1", Code: 201, Quantity: d("120"), ProcessingFee: d("60"), Voided: true},
	}
	uc, gen := buildStatementUC(s, rets)

	_, err := uc.Generate(context.Background(), "c1", "s1")
	require.NoError(t, err)

	require.Len(t, gen.lines, 1)
	assert.True(t, gen.lines[0].Contribution.IsZero(), "una liquidación borrada no aporta")
	assert.True(t, gen.lines[0].Voided)
	assert.True(t, gen.settlement.Deleted)
}

// Una referencia a devolución que ya no existe (datos legados) no tumba el
// documento: la línea sale con el aporte y sin metadatos.
func TestStatement_ReferenciaHuerfanaTolerada(t *testing.T) {
	s := &entity.Settlement{
		ID: "s1", CompanyID: "c1", Code: 3, FactoryID: "f1",
		TotalAmount:    d("90"),
		ReturnOrderIDs: []string{"r-fantasma"},
	}
	uc, gen := buildStatementUC(s, nil)

	_, err := uc.Generate(context.Background(), "c1", "s1")
	require.NoError(t, err)

	require.Len(t, gen.lines, 1)
	assert.Zero(t, gen.lines[0].ReturnCode)
	assert.True(t, d("90").Equal(gen.lines[0].Contribution))
}

func TestStatement_LiquidacionInexistente(t *testing.T) {
	s := &entity.Settlement{ID: "s1", CompanyID: "otra", FactoryID: "f1"}
	uc, _ := buildStatementUC(s, nil)

	_, err := uc.Generate(context.Background(), "c1", "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

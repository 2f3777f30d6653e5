package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

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
func (f *fakeStyleRepo) Update(s *entity.Style) error               { return nil }
func (f *fakeStyleRepo) SetDisabled(id string, disabled bool) error { return nil }
func (f *fakeStyleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Style, error) {
	return nil, nil
}

func buildResolver(styles ...*entity.Style) *resolver.Resolver {
	repo := &fakeStyleRepo{styles: map[string]*entity.Style{}}
	for _, s := range styles {
		repo.styles[s.ID] = s
	}
	return resolver.New(repo, nil, nil, nil, nil, nil)
}

func TestResolveStyle_PorUUIDCanonico(t *testing.T) {
	r := buildResolver(&entity.Style{ID: "st1", CompanyID: "c1", Code: 10})

	s, err := r.ResolveStyle("c1", "st1")
	require.NoError(t, err)
	assert.Equal(t, "st1", s.ID)
}

// Camino legado: el identificador es el código numérico del sistema anterior.
func TestResolveStyle_PorCodigoLegado(t *testing.T) {
	r := buildResolver(&entity.Style{ID: "st1", CompanyID: "c1", Code: 742})

	s, err := r.ResolveStyle("c1", "742")
	require.NoError(t, err)
	assert.Equal(t, "st1", s.ID)
}

// Prioridad canónica: si un UUID colisiona textualmente con un código, gana el
// hit por UUID. Con identificadores UUID reales no hay ambigüedad posible,
// porque un UUID nunca parsea como entero.
func TestResolveStyle_CanonicoPrimero(t *testing.T) {
	byID := &entity.Style{ID: "77", CompanyID: "c1", Code: 1}
	byCode := &entity.Style{ID: "st2", CompanyID: "c1", Code: 77}
	r := buildResolver(byID, byCode)

	s, err := r.ResolveStyle("c1", "77")
	require.NoError(t, err)
	assert.Equal(t, "77", s.ID, "el hit canónico tiene prioridad sobre el código")
}

// Un hit de otra empresa se trata exactamente igual que inexistente: ErrNotFound,
// sin revelar que el registro existe.
func TestResolveStyle_OtraEmpresaEsNotFound(t *testing.T) {
	r := buildResolver(&entity.Style{ID: "st1", CompanyID: "otra", Code: 10})

	_, err := r.ResolveStyle("c1", "st1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.ResolveStyle("c1", "10")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveStyle_BorradoEsNotFound(t *testing.T) {
	r := buildResolver(&entity.Style{ID: "st1", CompanyID: "c1", Code: 10, Deleted: true})

	_, err := r.ResolveStyle("c1", "st1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveStyle_CodigoNoNumericoEsNotFound(t *testing.T) {
	r := buildResolver()

	_, err := r.ResolveStyle("c1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Código negativo o cero jamás es un código legado válido.
	_, err = r.ResolveStyle("c1", "-5")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

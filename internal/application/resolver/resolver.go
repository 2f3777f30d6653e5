// Package resolver centraliza la resolución de identidad con doble esquema:
// clave canónica (UUID) o código de negocio numérico legado. Todos los demás
// componentes del motor resuelven referencias por aquí en lugar de repartir
// chequeos "si es numérico" por la lógica de negocio.
package resolver

import (
	"strconv"

	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// Resolver busca registros por UUID canónico y, si no aplica, por código legado
// dentro de la empresa. Solo lectura: nunca muta.
//
// Regla de aislamiento: un hit canónico de otra empresa se reporta como
// ErrNotFound, nunca se filtra el registro ajeno.
type Resolver struct {
	styles      repository.StyleRepository
	factories   repository.FactoryRepository
	lots        repository.MaterialLotRepository
	issues      repository.IssueOrderRepository
	returns     repository.ReturnOrderRepository
	settlements repository.SettlementRepository
}

// New construye el resolver con los puertos de lectura.
func New(
	styles repository.StyleRepository,
	factories repository.FactoryRepository,
	lots repository.MaterialLotRepository,
	issues repository.IssueOrderRepository,
	returns repository.ReturnOrderRepository,
	settlements repository.SettlementRepository,
) *Resolver {
	return &Resolver{
		styles:      styles,
		factories:   factories,
		lots:        lots,
		issues:      issues,
		returns:     returns,
		settlements: settlements,
	}
}

// parseCode interpreta anyID como código de negocio legado (entero positivo).
func parseCode(anyID string) (int64, bool) {
	code, err := strconv.ParseInt(anyID, 10, 64)
	if err != nil || code <= 0 {
		return 0, false
	}
	return code, true
}

// ResolveStyle resuelve una referencia de prenda por UUID o código legado.
func (r *Resolver) ResolveStyle(companyID, anyID string) (*entity.Style, error) {
	if s, err := r.styles.GetByID(anyID); err == nil && s != nil {
		if s.CompanyID == companyID && !s.Deleted {
			return s, nil
		}
		// Hit de otra empresa o borrado: mismo trato que inexistente.
	}
	if code, ok := parseCode(anyID); ok {
		s, err := r.styles.GetByCode(companyID, code)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ResolveFactory resuelve un taller por UUID o código legado.
func (r *Resolver) ResolveFactory(companyID, anyID string) (*entity.Factory, error) {
	if f, err := r.factories.GetByID(anyID); err == nil && f != nil {
		if f.CompanyID == companyID && !f.Deleted {
			return f, nil
		}
	}
	if code, ok := parseCode(anyID); ok {
		f, err := r.factories.GetByCode(companyID, code)
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ResolveMaterialLot resuelve un lote por UUID o código legado.
func (r *Resolver) ResolveMaterialLot(companyID, anyID string) (*entity.MaterialLot, error) {
	if l, err := r.lots.GetByID(anyID); err == nil && l != nil {
		if l.CompanyID == companyID && !l.Deleted {
			return l, nil
		}
	}
	if code, ok := parseCode(anyID); ok {
		l, err := r.lots.GetByCode(companyID, code)
		if err != nil {
			return nil, err
		}
		if l != nil {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ResolveIssueOrder resuelve una entrega por UUID o código legado.
func (r *Resolver) ResolveIssueOrder(companyID, anyID string) (*entity.IssueOrder, error) {
	if o, err := r.issues.GetByID(anyID); err == nil && o != nil {
		if o.CompanyID == companyID && !o.Deleted {
			return o, nil
		}
	}
	if code, ok := parseCode(anyID); ok {
		o, err := r.issues.GetByCode(companyID, code)
		if err != nil {
			return nil, err
		}
		if o != nil {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ResolveReturnOrder resuelve una devolución por UUID o código legado.
func (r *Resolver) ResolveReturnOrder(companyID, anyID string) (*entity.ReturnOrder, error) {
	if o, err := r.returns.GetByID(anyID); err == nil && o != nil {
		if o.CompanyID == companyID && !o.Deleted {
			return o, nil
		}
	}
	if code, ok := parseCode(anyID); ok {
		o, err := r.returns.GetByCode(companyID, code)
		if err != nil {
			return nil, err
		}
		if o != nil {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ResolveSettlement resuelve una liquidación por UUID o código legado.
func (r *Resolver) ResolveSettlement(companyID, anyID string) (*entity.Settlement, error) {
	if s, err := r.settlements.GetByID(anyID); err == nil && s != nil {
		if s.CompanyID == companyID {
			// Las liquidaciones borradas se devuelven: el caller decide; los
			// listados las excluyen, pero una consulta directa por ID debe
			// poder mostrar el motivo del borrado.
			return s, nil
		}
	}
	if code, ok := parseCode(anyID); ok {
		s, err := r.settlements.GetByCode(companyID, code)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

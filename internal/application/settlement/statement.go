package settlement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/reconcile"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// StatementLine es una línea del estado de cuenta: una devolución referenciada
// por la liquidación con su aporte resuelto.
type StatementLine struct {
	ReturnCode    int64
	Quantity      decimal.Decimal
	ProcessingFee decimal.Decimal
	Contribution  decimal.Decimal
	Voided        bool
}

// StatementPDFGenerator puerto de salida para el render del estado de cuenta.
type StatementPDFGenerator interface {
	GenerateStatementPDF(
		ctx context.Context,
		settlement *entity.Settlement,
		company *entity.Company,
		factory *entity.Factory,
		lines []StatementLine,
	) ([]byte, error)
}

// StatementUseCase arma el estado de cuenta de una liquidación: resuelve cada
// devolución referenciada y su aporte, y delega el render al generador.
type StatementUseCase struct {
	resolver    *resolver.Resolver
	companyRepo repository.CompanyRepository
	returnRepo  repository.ReturnOrderRepository
	gen         StatementPDFGenerator
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(
	res *resolver.Resolver,
	companyRepo repository.CompanyRepository,
	returnRepo repository.ReturnOrderRepository,
	gen StatementPDFGenerator,
) *StatementUseCase {
	return &StatementUseCase{resolver: res, companyRepo: companyRepo, returnRepo: returnRepo, gen: gen}
}

// Generate produce el PDF del estado de cuenta. Las liquidaciones borradas
// también se imprimen: el documento es soporte de auditoría.
func (uc *StatementUseCase) Generate(ctx context.Context, companyID, anyID string) ([]byte, error) {
	s, err := uc.resolver.ResolveSettlement(companyID, anyID)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	factory, err := uc.resolver.ResolveFactory(companyID, s.FactoryID)
	if err != nil {
		return nil, err
	}

	var refs []string
	if s.HasItems() {
		for _, it := range s.Items {
			refs = append(refs, it.ReturnOrderID)
		}
	} else {
		refs = s.ReturnOrderIDs
	}

	lines := make([]StatementLine, 0, len(refs))
	for _, retID := range refs {
		line := StatementLine{Contribution: reconcile.Contribution(s, retID)}
		ret, retErr := uc.returnRepo.GetByID(retID)
		if retErr == nil && ret != nil {
			line.ReturnCode = ret.Code
			line.Quantity = ret.Quantity
			line.ProcessingFee = ret.ProcessingFee
			line.Voided = ret.Voided
		}
		lines = append(lines, line)
	}

	return uc.gen.GenerateStatementPDF(ctx, s, company, factory, lines)
}

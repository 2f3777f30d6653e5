// Package returns implementa los casos de uso de devoluciones de prenda
// terminada contra una entrega de insumo.
package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/issuance"
	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// CreateReturnUseCase registra una devolución y recalcula el estado de la
// entrega padre en la misma operación.
type CreateReturnUseCase struct {
	resolver     *resolver.Resolver
	returnRepo   repository.ReturnOrderRepository
	statusEngine *issuance.StatusEngine
}

// NewCreateReturnUseCase construye el caso de uso.
func NewCreateReturnUseCase(
	res *resolver.Resolver,
	returnRepo repository.ReturnOrderRepository,
	statusEngine *issuance.StatusEngine,
) *CreateReturnUseCase {
	return &CreateReturnUseCase{resolver: res, returnRepo: returnRepo, statusEngine: statusEngine}
}

// Create valida la referencia a la entrega (UUID o código legado), persiste la
// devolución y devuelve el estado recalculado de la entrega padre.
func (uc *CreateReturnUseCase) Create(companyID, userID string, in dto.CreateReturnOrderRequest) (*dto.ReturnOrderResponse, error) {
	if in.IssueOrderID == "" || in.Code <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ActualMaterialUsage.LessThan(decimal.Zero) || in.ProcessingFee.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	issue, err := uc.resolver.ResolveIssueOrder(companyID, in.IssueOrderID)
	if err != nil {
		return nil, err
	}
	if issue.Voided {
		return nil, domain.ErrConflict // no se devuelve contra una entrega anulada
	}

	if existing, _ := uc.returnRepo.GetByCode(companyID, in.Code); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	order := &entity.ReturnOrder{
		ID:                  uuid.New().String(),
		CompanyID:           companyID,
		Code:                in.Code,
		IssueOrderID:        issue.ID,
		FactoryID:           issue.FactoryID,
		StyleID:             issue.StyleID,
		Quantity:            in.Quantity,
		ActualMaterialUsage: in.ActualMaterialUsage,
		ProcessingFee:       in.ProcessingFee,
		SettledAmount:       decimal.Zero,
		SettlementStatus:    entity.SettlementStatusUnsettled,
		CreatedBy:           userID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.returnRepo.Create(order); err != nil {
		return nil, err
	}

	issueStatus, err := uc.statusEngine.Recompute(companyID, issue.ID)
	if err != nil {
		// La devolución ya quedó persistida; el estado converge en el próximo
		// recálculo (idempotente), así que no se revierte la creación.
		issueStatus = ""
	}

	resp := ToReturnResponse(order)
	resp.IssueStatus = issueStatus
	return resp, nil
}

// ListByIssue devuelve las devoluciones no borradas de una entrega (anuladas
// incluidas, con su bandera), resolviendo la entrega por UUID o código legado.
func (uc *CreateReturnUseCase) ListByIssue(companyID, anyIssueID string) ([]dto.ReturnOrderResponse, error) {
	issue, err := uc.resolver.ResolveIssueOrder(companyID, anyIssueID)
	if err != nil {
		return nil, err
	}
	list, err := uc.returnRepo.ListByIssue(companyID, issue.ID, issue.Code)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReturnOrderResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *ToReturnResponse(r))
	}
	return items, nil
}

// ToReturnResponse mapea la entidad a su DTO de salida.
func ToReturnResponse(o *entity.ReturnOrder) *dto.ReturnOrderResponse {
	if o == nil {
		return nil
	}
	return &dto.ReturnOrderResponse{
		ID:                  o.ID,
		Code:                o.Code,
		IssueOrderID:        o.IssueOrderID,
		FactoryID:           o.FactoryID,
		StyleID:             o.StyleID,
		Quantity:            o.Quantity,
		ActualMaterialUsage: o.ActualMaterialUsage,
		ProcessingFee:       o.ProcessingFee,
		SettledAmount:       o.SettledAmount,
		SettlementStatus:    o.SettlementStatus,
		Voided:              o.Voided,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// CreateSettlementUseCase registra un lote de pago y recalcula el monto
// liquidado de cada devolución referenciada.
type CreateSettlementUseCase struct {
	resolver       *resolver.Resolver
	settlementRepo repository.SettlementRepository
	ledger         *Ledger
}

// NewCreateSettlementUseCase construye el caso de uso.
func NewCreateSettlementUseCase(res *resolver.Resolver, settlementRepo repository.SettlementRepository, ledger *Ledger) *CreateSettlementUseCase {
	return &CreateSettlementUseCase{resolver: res, settlementRepo: settlementRepo, ledger: ledger}
}

// Create valida y persiste la liquidación. Una liquidación usa renglones o
// referencias legadas; recibir ambas (o ninguna) es entrada inválida: las dos
// representaciones jamás se mezclan en un registro.
func (uc *CreateSettlementUseCase) Create(companyID, userID string, in dto.CreateSettlementRequest) (*dto.SettlementResponse, error) {
	if in.FactoryID == "" || in.Code <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if !in.TotalAmount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	hasItems := len(in.Items) > 0
	hasLegacy := len(in.ReturnOrderIDs) > 0
	if hasItems == hasLegacy { // ambas o ninguna
		return nil, domain.ErrInvalidInput
	}

	factory, err := uc.resolver.ResolveFactory(companyID, in.FactoryID)
	if err != nil {
		return nil, err
	}
	if existing, _ := uc.settlementRepo.GetByCode(companyID, in.Code); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	s := &entity.Settlement{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        in.Code,
		FactoryID:   factory.ID,
		TotalAmount: in.TotalAmount,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Toda devolución referenciada debe existir en la empresa y estar activa.
	var touched []string
	if hasItems {
		for _, it := range in.Items {
			ret, err := uc.resolver.ResolveReturnOrder(companyID, it.ReturnOrderID)
			if err != nil {
				return nil, err
			}
			if ret.Voided {
				return nil, domain.ErrConflict
			}
			if it.Amount.LessThan(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
			s.Items = append(s.Items, entity.SettlementItem{
				ID:            uuid.New().String(),
				SettlementID:  s.ID,
				ReturnOrderID: ret.ID,
				Amount:        it.Amount,
			})
			touched = append(touched, ret.ID)
		}
	} else {
		for _, anyID := range in.ReturnOrderIDs {
			ret, err := uc.resolver.ResolveReturnOrder(companyID, anyID)
			if err != nil {
				return nil, err
			}
			if ret.Voided {
				return nil, domain.ErrConflict
			}
			s.ReturnOrderIDs = append(s.ReturnOrderIDs, ret.ID)
			touched = append(touched, ret.ID)
		}
	}

	if err := uc.settlementRepo.Create(s); err != nil {
		return nil, err
	}

	// Recalcular el derivado de cada devolución tocada. Un fallo aquí no
	// deshace la liquidación: el recálculo converge al re-ejecutarse.
	for _, retID := range touched {
		_ = uc.ledger.RecomputeSettled(companyID, retID)
	}

	return ToSettlementResponse(s), nil
}

// Get devuelve una liquidación por UUID o código legado.
func (uc *CreateSettlementUseCase) Get(companyID, anyID string) (*dto.SettlementResponse, error) {
	s, err := uc.resolver.ResolveSettlement(companyID, anyID)
	if err != nil {
		return nil, err
	}
	return ToSettlementResponse(s), nil
}

// ListByFactory lista liquidaciones de un taller (borradas incluidas, para auditoría).
func (uc *CreateSettlementUseCase) ListByFactory(companyID, factoryID string, limit, offset int) ([]dto.SettlementResponse, error) {
	factory, err := uc.resolver.ResolveFactory(companyID, factoryID)
	if err != nil {
		return nil, err
	}
	list, err := uc.settlementRepo.ListByFactory(companyID, factory.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettlementResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *ToSettlementResponse(s))
	}
	return out, nil
}

// ToSettlementResponse mapea la entidad a su DTO de salida.
func ToSettlementResponse(s *entity.Settlement) *dto.SettlementResponse {
	if s == nil {
		return nil
	}
	resp := &dto.SettlementResponse{
		ID:                   s.ID,
		Code:                 s.Code,
		FactoryID:            s.FactoryID,
		TotalAmount:          s.TotalAmount,
		ReturnOrderIDs:       s.ReturnOrderIDs,
		VoidedReturnOrderIDs: s.VoidedReturnOrderIDs,
		Deleted:              s.Deleted,
		DeleteReason:         s.DeleteReason,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SettlementItemResponse{
			ID:            it.ID,
			ReturnOrderID: it.ReturnOrderID,
			Amount:        it.Amount,
			Voided:        it.Voided,
		})
	}
	return resp
}

package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// MaterialLotUseCase aplica reglas de negocio para lotes de materia prima.
// El stock solo se muta aquí en la carga inicial; los descuentos por entrega
// los hace el asignador dentro de su propia transacción.
type MaterialLotUseCase struct {
	repo    repository.MaterialLotRepository
	movRepo repository.LotMovementRepository
}

func NewMaterialLotUseCase(repo repository.MaterialLotRepository, movRepo repository.LotMovementRepository) *MaterialLotUseCase {
	return &MaterialLotUseCase{repo: repo, movRepo: movRepo}
}

// Create crea un lote con su existencia inicial y registra el movimiento de
// entrada para el rastro de auditoría.
func (uc *MaterialLotUseCase) Create(companyID string, in dto.CreateMaterialLotRequest) (*dto.MaterialLotResponse, error) {
	if in.Code <= 0 || in.Name == "" || in.CurrentStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(companyID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	lot := &entity.MaterialLot{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Code:         in.Code,
		Name:         in.Name,
		CurrentStock: in.CurrentStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(lot); err != nil {
		return nil, err
	}
	if in.CurrentStock.IsPositive() {
		mov := &entity.LotMovement{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			LotID:     lot.ID,
			Type:      entity.LotMovementSeedIn,
			Quantity:  in.CurrentStock,
			CreatedAt: now,
		}
		if err := uc.movRepo.Create(mov); err != nil {
			return nil, err
		}
	}
	return MaterialLotToResponse(lot), nil
}

func (uc *MaterialLotUseCase) GetByID(companyID, id string) (*dto.MaterialLotResponse, error) {
	lot, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil || lot.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return MaterialLotToResponse(lot), nil
}

func (uc *MaterialLotUseCase) List(companyID string, limit, offset int) ([]dto.MaterialLotResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialLotResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *MaterialLotToResponse(l))
	}
	return out, nil
}

// MaterialLotToResponse convierte la entidad a DTO de salida.
func MaterialLotToResponse(l *entity.MaterialLot) *dto.MaterialLotResponse {
	if l == nil {
		return nil
	}
	return &dto.MaterialLotResponse{
		ID:           l.ID,
		Code:         l.Code,
		Name:         l.Name,
		CurrentStock: l.CurrentStock,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

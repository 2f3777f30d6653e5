package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// StyleUseCase aplica reglas de negocio para referencias de prenda.
type StyleUseCase struct {
	repo    repository.StyleRepository
	lotRepo repository.MaterialLotRepository
}

func NewStyleUseCase(repo repository.StyleRepository, lotRepo repository.MaterialLotRepository) *StyleUseCase {
	return &StyleUseCase{repo: repo, lotRepo: lotRepo}
}

// Create crea una referencia. El código numérico es único por empresa;
// los lotes vinculados deben existir y pertenecer a la misma empresa.
func (uc *StyleUseCase) Create(companyID string, in dto.CreateStyleRequest) (*dto.StyleResponse, error) {
	if in.Code <= 0 || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(companyID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	for _, lotID := range in.MaterialLotIDs {
		lot, err := uc.lotRepo.GetByID(lotID)
		if err != nil {
			return nil, err
		}
		if lot == nil || lot.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	style := &entity.Style{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Code:             in.Code,
		Name:             in.Name,
		SKU:              in.SKU,
		MaterialPerPiece: in.MaterialPerPiece,
		LossRate:         in.LossRate,
		MaterialLotIDs:   in.MaterialLotIDs,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(style); err != nil {
		return nil, err
	}
	return StyleToResponse(style), nil
}

// SetDisabled habilita o deshabilita la referencia. Deshabilitar no toca
// entregas existentes, solo bloquea entregas nuevas.
func (uc *StyleUseCase) SetDisabled(companyID, id string, disabled bool) error {
	style, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if style == nil || style.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if style.Disabled == disabled {
		return nil
	}
	return uc.repo.SetDisabled(id, disabled)
}

func (uc *StyleUseCase) GetByID(companyID, id string) (*dto.StyleResponse, error) {
	style, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if style == nil || style.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return StyleToResponse(style), nil
}

func (uc *StyleUseCase) List(companyID string, limit, offset int) ([]dto.StyleResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StyleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *StyleToResponse(s))
	}
	return out, nil
}

// StyleToResponse convierte la entidad a DTO de salida.
func StyleToResponse(s *entity.Style) *dto.StyleResponse {
	if s == nil {
		return nil
	}
	return &dto.StyleResponse{
		ID:               s.ID,
		Code:             s.Code,
		Name:             s.Name,
		SKU:              s.SKU,
		MaterialPerPiece: s.MaterialPerPiece,
		LossRate:         s.LossRate,
		MaterialLotIDs:   s.MaterialLotIDs,
		Disabled:         s.Disabled,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

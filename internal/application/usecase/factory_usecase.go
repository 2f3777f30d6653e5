package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// FactoryUseCase aplica reglas de negocio para talleres.
type FactoryUseCase struct {
	repo repository.FactoryRepository
}

func NewFactoryUseCase(repo repository.FactoryRepository) *FactoryUseCase {
	return &FactoryUseCase{repo: repo}
}

func (uc *FactoryUseCase) Create(companyID string, in dto.CreateFactoryRequest) (*dto.FactoryResponse, error) {
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
	method := in.SettlementMethod
	if method == "" {
		method = entity.SettlementMethodPeriodic
	}
	if method != entity.SettlementMethodPeriodic && method != entity.SettlementMethodPerBatch {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	factory := &entity.Factory{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Code:             in.Code,
		Name:             in.Name,
		Contact:          in.Contact,
		Phone:            in.Phone,
		SettlementMethod: method,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(factory); err != nil {
		return nil, err
	}
	return FactoryToResponse(factory), nil
}

// SetDisabled habilita o deshabilita el taller para entregas nuevas.
func (uc *FactoryUseCase) SetDisabled(companyID, id string, disabled bool) error {
	factory, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if factory == nil || factory.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if factory.Disabled == disabled {
		return nil
	}
	return uc.repo.SetDisabled(id, disabled)
}

func (uc *FactoryUseCase) GetByID(companyID, id string) (*dto.FactoryResponse, error) {
	factory, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if factory == nil || factory.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return FactoryToResponse(factory), nil
}

func (uc *FactoryUseCase) List(companyID string, limit, offset int) ([]dto.FactoryResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FactoryResponse, 0, len(list))
	for _, f := range list {
		out = append(out, *FactoryToResponse(f))
	}
	return out, nil
}

// FactoryToResponse convierte la entidad a DTO de salida.
func FactoryToResponse(f *entity.Factory) *dto.FactoryResponse {
	if f == nil {
		return nil
	}
	return &dto.FactoryResponse{
		ID:               f.ID,
		Code:             f.Code,
		Name:             f.Name,
		Contact:          f.Contact,
		Phone:            f.Phone,
		SettlementMethod: f.SettlementMethod,
		Disabled:         f.Disabled,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

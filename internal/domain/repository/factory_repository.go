package repository

import "github.com/jhoicas/Maquila-api/internal/domain/entity"

// FactoryRepository define el puerto de persistencia para Factory (taller).
type FactoryRepository interface {
	Create(factory *entity.Factory) error
	GetByID(id string) (*entity.Factory, error)
	GetByCode(companyID string, code int64) (*entity.Factory, error)
	Update(factory *entity.Factory) error
	SetDisabled(id string, disabled bool) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Factory, error)
}

package repository

import "github.com/jhoicas/Maquila-api/internal/domain/entity"

// StyleRepository define el puerto de persistencia para Style.
// GetByCode es el camino legado: búsqueda por código numérico dentro de la
// empresa, excluyendo borrados.
type StyleRepository interface {
	Create(style *entity.Style) error
	GetByID(id string) (*entity.Style, error)
	GetByCode(companyID string, code int64) (*entity.Style, error)
	Update(style *entity.Style) error
	SetDisabled(id string, disabled bool) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Style, error)
}

package repository

import (
	"time"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

// IssueOrderRepository define el puerto de persistencia para IssueOrder.
// Las entregas nunca se eliminan físicamente; UpdateStatus y SetVoided son las
// únicas mutaciones después de la creación.
type IssueOrderRepository interface {
	Create(order *entity.IssueOrder) error
	GetByID(id string) (*entity.IssueOrder, error)
	GetByCode(companyID string, code int64) (*entity.IssueOrder, error)
	UpdateStatus(id, status string) error
	SetVoided(id string, voided bool, at *time.Time) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.IssueOrder, error)
}

package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

// ReturnOrderRepository define el puerto de persistencia para ReturnOrder.
//
// ListByIssue debe resolver el doble esquema de vínculo: devoluciones atadas por
// IssueOrderID canónico y devoluciones legadas atadas por código numérico; el
// adaptador consulta ambos caminos y deduplica por ID.
type ReturnOrderRepository interface {
	Create(order *entity.ReturnOrder) error
	GetByID(id string) (*entity.ReturnOrder, error)
	GetByCode(companyID string, code int64) (*entity.ReturnOrder, error)
	// ListByIssue devuelve todas las devoluciones no borradas de una entrega
	// (anuladas incluidas; el caller filtra según el cómputo).
	ListByIssue(companyID, issueOrderID string, legacyIssueCode int64) ([]*entity.ReturnOrder, error)
	// ListActivePageByIssue pagina solo las devoluciones activas, para cascadas acotadas.
	ListActivePageByIssue(companyID, issueOrderID string, legacyIssueCode int64, limit, offset int) ([]*entity.ReturnOrder, error)
	// ListVoidedPage pagina devoluciones anuladas (escaneo de reparación); factoryID vacío = todas.
	ListVoidedPage(companyID, factoryID string, limit, offset int) ([]*entity.ReturnOrder, error)
	SetVoided(id string, voided bool, at *time.Time) error
	UpdateSettled(id string, settledAmount decimal.Decimal, settlementStatus string) error
}

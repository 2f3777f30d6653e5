package repository

import (
	"time"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

// SettlementRepository define el puerto de persistencia para Settlement.
//
// ListByReturnOrder localiza toda liquidación que referencia una devolución, en
// cualquiera de las dos representaciones (renglones o lista legada). Las
// mutaciones son granulares: el coordinador de cascada anula/reinstala renglones
// o ajusta la lista lateral legada, nunca reescribe la liquidación completa.
type SettlementRepository interface {
	Create(settlement *entity.Settlement) error
	GetByID(id string) (*entity.Settlement, error)
	GetByCode(companyID string, code int64) (*entity.Settlement, error)
	ListByReturnOrder(companyID, returnOrderID string) ([]*entity.Settlement, error)
	ListByFactory(companyID, factoryID string, limit, offset int) ([]*entity.Settlement, error)
	SetItemVoided(itemID string, voided bool, at *time.Time) error
	UpdateLegacyVoidedRefs(settlementID string, voidedReturnOrderIDs []string) error
	SoftDelete(id, reason string) error
}

package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
)

// MaterialLotRepository define el puerto de persistencia para MaterialLot.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para el descuento
// proporcional dentro de la transacción de creación de entrega.
type MaterialLotRepository interface {
	Create(lot *entity.MaterialLot) error
	GetByID(id string) (*entity.MaterialLot, error)
	GetByCode(companyID string, code int64) (*entity.MaterialLot, error)
	GetForUpdate(id string) (*entity.MaterialLot, error)
	UpdateStock(id string, newStock decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.MaterialLot, error)
}

// LotMovementRepository define el puerto para el rastro de auditoría de lotes.
type LotMovementRepository interface {
	Create(mov *entity.LotMovement) error
	ListByTransaction(transactionID string) ([]*entity.LotMovement, error)
}

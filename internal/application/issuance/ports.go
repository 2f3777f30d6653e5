package issuance

import (
	"context"

	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la creación de la entrega y el
// descuento proporcional de lotes queden en un solo commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		issueRepo repository.IssueOrderRepository,
		lotRepo repository.MaterialLotRepository,
		movRepo repository.LotMovementRepository,
	) error) error
}

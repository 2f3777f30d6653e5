package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Maquila-api/internal/application/issuance"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

// Ensure TxRunner implements issuance.TxRunner.
var _ issuance.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Es la envoltura de la creación de entregas: alta de la entrega, descuento
// proporcional de lotes y rastro de movimientos en un solo commit.
func (r *TxRunner) Run(ctx context.Context, fn func(
	issueRepo repository.IssueOrderRepository,
	lotRepo repository.MaterialLotRepository,
	movRepo repository.LotMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	issueRepo := NewIssueOrderRepository(tx)
	lotRepo := NewMaterialLotRepository(tx)
	movRepo := NewLotMovementRepository(tx)

	if err := fn(issueRepo, lotRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

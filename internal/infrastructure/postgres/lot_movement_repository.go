package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

var _ repository.LotMovementRepository = (*LotMovementRepo)(nil)

// LotMovementRepo implementación del rastro de auditoría de lotes sobre
// PostgreSQL (usable con pool o tx). Los movimientos son append-only.
type LotMovementRepo struct {
	q Querier
}

// NewLotMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotMovementRepository(q Querier) *LotMovementRepo {
	return &LotMovementRepo{q: q}
}

// Create persiste un movimiento de lote.
func (r *LotMovementRepo) Create(mov *entity.LotMovement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lot_movements (id, company_id, transaction_id, lot_id, type, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.CompanyID, mov.TransactionID, mov.LotID,
		mov.Type, mov.Quantity, mov.CreatedAt, mov.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert lot movement: %w", err)
	}
	return nil
}

// ListByTransaction devuelve los movimientos de una entrega (misma transaction_id).
func (r *LotMovementRepo) ListByTransaction(transactionID string) ([]*entity.LotMovement, error) {
	query := `
		SELECT id, company_id, transaction_id, lot_id, type, quantity, created_at, created_by
		FROM lot_movements WHERE transaction_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list lot movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.LotMovement
	for rows.Next() {
		var m entity.LotMovement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.TransactionID, &m.LotID,
			&m.Type, &m.Quantity, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan lot movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

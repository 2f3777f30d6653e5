package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

const settlementColumns = `id, company_id, code, factory_id, total_amount,
		return_order_ids, voided_return_order_ids, deleted, delete_reason,
		created_by, created_at, updated_at`

// SettlementRepo implementación de SettlementRepository sobre PostgreSQL.
//
// La representación moderna vive en la tabla settlement_items (un renglón por
// devolución); la legada en las columnas TEXT[] return_order_ids y
// voided_return_order_ids de la propia liquidación. Los lectores devuelven
// liquidaciones borradas: el que escribe decide si las salta.
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador de liquidaciones. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

// Create persiste una liquidación con sus renglones (si los tiene).
func (r *SettlementRepo) Create(settlement *entity.Settlement) error {
	ctx := context.Background()
	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		settlement.ID, settlement.CompanyID, settlement.Code, settlement.FactoryID,
		settlement.TotalAmount, settlement.ReturnOrderIDs, settlement.VoidedReturnOrderIDs,
		settlement.Deleted, settlement.DeleteReason, settlement.CreatedBy,
		settlement.CreatedAt, settlement.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert settlement: %w", err)
	}
	for i := range settlement.Items {
		it := &settlement.Items[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO settlement_items (id, settlement_id, return_order_id, amount, voided, voided_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.SettlementID, it.ReturnOrderID, it.Amount, it.Voided, it.VoidedAt,
		)
		if err != nil {
			return fmt.Errorf("insert settlement item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una liquidación por ID, renglones incluidos. Devuelve también
// las borradas.
func (r *SettlementRepo) GetByID(id string) (*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`
	s, err := r.scanOne(r.q.QueryRow(context.Background(), query, id), "get settlement")
	if err != nil || s == nil {
		return s, err
	}
	if err := r.loadItems(s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByCode obtiene una liquidación por código numérico legado dentro de la empresa.
func (r *SettlementRepo) GetByCode(companyID string, code int64) (*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + `
		FROM settlements WHERE company_id = $1 AND code = $2`
	s, err := r.scanOne(r.q.QueryRow(context.Background(), query, companyID, code), "get settlement by code")
	if err != nil || s == nil {
		return s, err
	}
	if err := r.loadItems(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByReturnOrder localiza toda liquidación que referencia la devolución, en
// cualquiera de las dos representaciones (borradas incluidas).
func (r *SettlementRepo) ListByReturnOrder(companyID, returnOrderID string) ([]*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + `
		FROM settlements s
		WHERE s.company_id = $1
		  AND ($2 = ANY(s.return_order_ids)
		       OR EXISTS (SELECT 1 FROM settlement_items i WHERE i.settlement_id = s.id AND i.return_order_id = $2))
		ORDER BY s.created_at ASC`
	return r.listWithItems(query, "list settlements by return order", companyID, returnOrderID)
}

// ListByFactory lista liquidaciones de un taller con paginación (borradas incluidas).
func (r *SettlementRepo) ListByFactory(companyID, factoryID string, limit, offset int) ([]*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + `
		FROM settlements
		WHERE company_id = $1 AND factory_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.listWithItems(query, "list settlements by factory", companyID, factoryID, limit, offset)
}

// SetItemVoided anula o reinstala un renglón moderno.
func (r *SettlementRepo) SetItemVoided(itemID string, voided bool, at *time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE settlement_items SET voided = $2, voided_at = $3 WHERE id = $1`,
		itemID, voided, at,
	)
	if err != nil {
		return fmt.Errorf("set settlement item voided: %w", err)
	}
	return nil
}

// UpdateLegacyVoidedRefs reescribe la lista lateral de anulaciones legadas.
func (r *SettlementRepo) UpdateLegacyVoidedRefs(settlementID string, voidedReturnOrderIDs []string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE settlements SET voided_return_order_ids = $2, updated_at = now() WHERE id = $1`,
		settlementID, voidedReturnOrderIDs,
	)
	if err != nil {
		return fmt.Errorf("update settlement voided refs: %w", err)
	}
	return nil
}

// SoftDelete marca la liquidación como borrada con su motivo. Una vez borrada
// es inmutable: el predicado deleted = false hace el borrado idempotente.
func (r *SettlementRepo) SoftDelete(id, reason string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE settlements SET deleted = true, delete_reason = $2, updated_at = now() WHERE id = $1 AND deleted = false`,
		id, reason,
	)
	if err != nil {
		return fmt.Errorf("soft delete settlement: %w", err)
	}
	return nil
}

func (r *SettlementRepo) listWithItems(query, op string, args ...any) ([]*entity.Settlement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []*entity.Settlement
	for rows.Next() {
		var s entity.Settlement
		if err := scanSettlement(rows, &s); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadItems(s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *SettlementRepo) loadItems(s *entity.Settlement) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, settlement_id, return_order_id, amount, voided, voided_at
		FROM settlement_items WHERE settlement_id = $1 ORDER BY id ASC`, s.ID)
	if err != nil {
		return fmt.Errorf("list settlement items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.SettlementItem
		if err := rows.Scan(&it.ID, &it.SettlementID, &it.ReturnOrderID, &it.Amount, &it.Voided, &it.VoidedAt); err != nil {
			return fmt.Errorf("scan settlement item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return rows.Err()
}

func (r *SettlementRepo) scanOne(row pgx.Row, op string) (*entity.Settlement, error) {
	var s entity.Settlement
	if err := scanSettlement(row, &s); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

func scanSettlement(row pgx.Row, s *entity.Settlement) error {
	return row.Scan(&s.ID, &s.CompanyID, &s.Code, &s.FactoryID, &s.TotalAmount,
		&s.ReturnOrderIDs, &s.VoidedReturnOrderIDs, &s.Deleted, &s.DeleteReason,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
}

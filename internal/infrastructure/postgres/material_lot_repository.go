package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

var _ repository.MaterialLotRepository = (*MaterialLotRepo)(nil)

// MaterialLotRepo implementación de MaterialLotRepository sobre PostgreSQL
// (usable con pool o tx). El descuento proporcional corre dentro de una tx, así
// que todo el adaptador acepta Querier.
type MaterialLotRepo struct {
	q Querier
}

// NewMaterialLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewMaterialLotRepository(q Querier) *MaterialLotRepo {
	return &MaterialLotRepo{q: q}
}

// Create persiste un nuevo lote de materia prima.
func (r *MaterialLotRepo) Create(lot *entity.MaterialLot) error {
	query := `
		INSERT INTO material_lots (id, company_id, code, name, current_stock, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.CompanyID, lot.Code, lot.Name, lot.CurrentStock,
		lot.Deleted, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID (excluye borrados).
func (r *MaterialLotRepo) GetByID(id string) (*entity.MaterialLot, error) {
	query := `
		SELECT id, company_id, code, name, current_stock, deleted, created_at, updated_at
		FROM material_lots WHERE id = $1 AND deleted = false`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get material lot")
}

// GetByCode obtiene un lote por código numérico legado dentro de la empresa.
func (r *MaterialLotRepo) GetByCode(companyID string, code int64) (*entity.MaterialLot, error) {
	query := `
		SELECT id, company_id, code, name, current_stock, deleted, created_at, updated_at
		FROM material_lots WHERE company_id = $1 AND code = $2 AND deleted = false`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, code), "get material lot by code")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE) para el
// descuento proporcional dentro de la transacción de creación de entrega.
func (r *MaterialLotRepo) GetForUpdate(id string) (*entity.MaterialLot, error) {
	query := `
		SELECT id, company_id, code, name, current_stock, deleted, created_at, updated_at
		FROM material_lots WHERE id = $1 AND deleted = false
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get material lot for update")
}

// UpdateStock fija la existencia del lote. Solo lo llama el asignador dentro de
// la tx que bloqueó la fila.
func (r *MaterialLotRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE material_lots SET current_stock = $2, updated_at = now() WHERE id = $1`,
		id, newStock,
	)
	if err != nil {
		return fmt.Errorf("update lot stock: %w", err)
	}
	return nil
}

// ListByCompany lista lotes por empresa con paginación.
func (r *MaterialLotRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.MaterialLot, error) {
	query := `
		SELECT id, company_id, code, name, current_stock, deleted, created_at, updated_at
		FROM material_lots WHERE company_id = $1 AND deleted = false
		ORDER BY code ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list material lots: %w", err)
	}
	defer rows.Close()

	var list []*entity.MaterialLot
	for rows.Next() {
		var l entity.MaterialLot
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Code, &l.Name, &l.CurrentStock,
			&l.Deleted, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *MaterialLotRepo) scanOne(row pgx.Row, op string) (*entity.MaterialLot, error) {
	var l entity.MaterialLot
	err := row.Scan(&l.ID, &l.CompanyID, &l.Code, &l.Name, &l.CurrentStock,
		&l.Deleted, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}

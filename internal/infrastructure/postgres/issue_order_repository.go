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

var _ repository.IssueOrderRepository = (*IssueOrderRepo)(nil)

// IssueOrderRepo implementación de IssueOrderRepository sobre PostgreSQL
// (usable con pool o tx). Las entregas nunca se eliminan físicamente.
type IssueOrderRepo struct {
	q Querier
}

// NewIssueOrderRepository construye el adaptador de entregas. Pasar pool o tx (Querier).
func NewIssueOrderRepository(q Querier) *IssueOrderRepo {
	return &IssueOrderRepo{q: q}
}

// Create persiste una nueva entrega de insumo.
func (r *IssueOrderRepo) Create(order *entity.IssueOrder) error {
	query := `
		INSERT INTO issue_orders (id, company_id, code, style_id, factory_id, issue_weight, status, voided, voided_at, deleted, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.Code, order.StyleID, order.FactoryID,
		order.IssueWeight, order.Status, order.Voided, order.VoidedAt,
		order.Deleted, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert issue order: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID (excluye borradas).
func (r *IssueOrderRepo) GetByID(id string) (*entity.IssueOrder, error) {
	query := `
		SELECT id, company_id, code, style_id, factory_id, issue_weight, status, voided, voided_at, deleted, created_by, created_at, updated_at
		FROM issue_orders WHERE id = $1 AND deleted = false`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get issue order")
}

// GetByCode obtiene una entrega por código numérico legado dentro de la empresa.
func (r *IssueOrderRepo) GetByCode(companyID string, code int64) (*entity.IssueOrder, error) {
	query := `
		SELECT id, company_id, code, style_id, factory_id, issue_weight, status, voided, voided_at, deleted, created_by, created_at, updated_at
		FROM issue_orders WHERE company_id = $1 AND code = $2 AND deleted = false`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, code), "get issue order by code")
}

// UpdateStatus fija el estado derivado de la entrega. Solo lo llama el motor de
// estados después de recalcular.
func (r *IssueOrderRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE issue_orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update issue order status: %w", err)
	}
	return nil
}

// SetVoided anula o reinstala una entrega. El estado derivado no se toca aquí:
// anulada queda congelado, reinstalada lo recalcula el motor.
func (r *IssueOrderRepo) SetVoided(id string, voided bool, at *time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE issue_orders SET voided = $2, voided_at = $3, updated_at = now() WHERE id = $1`,
		id, voided, at,
	)
	if err != nil {
		return fmt.Errorf("set issue order voided: %w", err)
	}
	return nil
}

// ListByCompany lista entregas por empresa con paginación.
func (r *IssueOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.IssueOrder, error) {
	query := `
		SELECT id, company_id, code, style_id, factory_id, issue_weight, status, voided, voided_at, deleted, created_by, created_at, updated_at
		FROM issue_orders WHERE company_id = $1 AND deleted = false
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list issue orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.IssueOrder
	for rows.Next() {
		var o entity.IssueOrder
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Code, &o.StyleID, &o.FactoryID, &o.IssueWeight,
			&o.Status, &o.Voided, &o.VoidedAt, &o.Deleted, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan issue order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

func (r *IssueOrderRepo) scanOne(row pgx.Row, op string) (*entity.IssueOrder, error) {
	var o entity.IssueOrder
	err := row.Scan(&o.ID, &o.CompanyID, &o.Code, &o.StyleID, &o.FactoryID, &o.IssueWeight,
		&o.Status, &o.Voided, &o.VoidedAt, &o.Deleted, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

var _ repository.StyleRepository = (*StyleRepo)(nil)

// StyleRepo implementación del puerto StyleRepository sobre PostgreSQL.
// MaterialLotIDs se guarda como TEXT[] en la columna material_lot_ids.
type StyleRepo struct {
	pool *pgxpool.Pool
}

// NewStyleRepository construye el adaptador de persistencia para referencias.
func NewStyleRepository(pool *pgxpool.Pool) *StyleRepo {
	return &StyleRepo{pool: pool}
}

// Create persiste una nueva referencia de prenda.
func (r *StyleRepo) Create(style *entity.Style) error {
	query := `
		INSERT INTO styles (id, company_id, code, name, sku, material_per_piece, loss_rate, material_lot_ids, disabled, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.pool.Exec(context.Background(), query,
		style.ID, style.CompanyID, style.Code, style.Name, style.SKU,
		style.MaterialPerPiece, style.LossRate, style.MaterialLotIDs,
		style.Disabled, style.Deleted, style.CreatedAt, style.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert style: %w", err)
	}
	return nil
}

// GetByID obtiene una referencia por ID (excluye borradas).
func (r *StyleRepo) GetByID(id string) (*entity.Style, error) {
	query := `
		SELECT id, company_id, code, name, sku, material_per_piece, loss_rate, material_lot_ids, disabled, deleted, created_at, updated_at
		FROM styles WHERE id = $1 AND deleted = false`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, id), "get style")
}

// GetByCode obtiene una referencia por código numérico legado dentro de la empresa.
func (r *StyleRepo) GetByCode(companyID string, code int64) (*entity.Style, error) {
	query := `
		SELECT id, company_id, code, name, sku, material_per_piece, loss_rate, material_lot_ids, disabled, deleted, created_at, updated_at
		FROM styles WHERE company_id = $1 AND code = $2 AND deleted = false`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, companyID, code), "get style by code")
}

// Update actualiza una referencia existente. El código de negocio no se toca.
func (r *StyleRepo) Update(style *entity.Style) error {
	query := `
		UPDATE styles SET name = $2, sku = $3, material_per_piece = $4, loss_rate = $5, material_lot_ids = $6, updated_at = $7
		WHERE id = $1 AND deleted = false`
	_, err := r.pool.Exec(context.Background(), query,
		style.ID, style.Name, style.SKU, style.MaterialPerPiece,
		style.LossRate, style.MaterialLotIDs, style.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update style: %w", err)
	}
	return nil
}

// SetDisabled habilita o deshabilita la referencia.
func (r *StyleRepo) SetDisabled(id string, disabled bool) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE styles SET disabled = $2, updated_at = now() WHERE id = $1 AND deleted = false`,
		id, disabled,
	)
	if err != nil {
		return fmt.Errorf("set style disabled: %w", err)
	}
	return nil
}

// ListByCompany lista referencias por empresa con paginación.
func (r *StyleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Style, error) {
	query := `
		SELECT id, company_id, code, name, sku, material_per_piece, loss_rate, material_lot_ids, disabled, deleted, created_at, updated_at
		FROM styles WHERE company_id = $1 AND deleted = false
		ORDER BY code ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Style
	for rows.Next() {
		var s entity.Style
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.SKU, &s.MaterialPerPiece, &s.LossRate,
			&s.MaterialLotIDs, &s.Disabled, &s.Deleted, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan style: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *StyleRepo) scanOne(row pgx.Row, op string) (*entity.Style, error) {
	var s entity.Style
	err := row.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.SKU, &s.MaterialPerPiece, &s.LossRate,
		&s.MaterialLotIDs, &s.Disabled, &s.Deleted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

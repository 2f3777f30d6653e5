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

var _ repository.FactoryRepository = (*FactoryRepo)(nil)

// FactoryRepo implementación del puerto FactoryRepository sobre PostgreSQL.
type FactoryRepo struct {
	pool *pgxpool.Pool
}

// NewFactoryRepository construye el adaptador de persistencia para talleres.
func NewFactoryRepository(pool *pgxpool.Pool) *FactoryRepo {
	return &FactoryRepo{pool: pool}
}

// Create persiste un nuevo taller.
func (r *FactoryRepo) Create(factory *entity.Factory) error {
	query := `
		INSERT INTO factories (id, company_id, code, name, contact, phone, settlement_method, disabled, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(context.Background(), query,
		factory.ID, factory.CompanyID, factory.Code, factory.Name, factory.Contact,
		factory.Phone, factory.SettlementMethod, factory.Disabled, factory.Deleted,
		factory.CreatedAt, factory.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert factory: %w", err)
	}
	return nil
}

// GetByID obtiene un taller por ID (excluye borrados).
func (r *FactoryRepo) GetByID(id string) (*entity.Factory, error) {
	query := `
		SELECT id, company_id, code, name, contact, phone, settlement_method, disabled, deleted, created_at, updated_at
		FROM factories WHERE id = $1 AND deleted = false`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, id), "get factory")
}

// GetByCode obtiene un taller por código numérico legado dentro de la empresa.
func (r *FactoryRepo) GetByCode(companyID string, code int64) (*entity.Factory, error) {
	query := `
		SELECT id, company_id, code, name, contact, phone, settlement_method, disabled, deleted, created_at, updated_at
		FROM factories WHERE company_id = $1 AND code = $2 AND deleted = false`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, companyID, code), "get factory by code")
}

// Update actualiza un taller existente. El código de negocio no se toca.
func (r *FactoryRepo) Update(factory *entity.Factory) error {
	query := `
		UPDATE factories SET name = $2, contact = $3, phone = $4, settlement_method = $5, updated_at = $6
		WHERE id = $1 AND deleted = false`
	_, err := r.pool.Exec(context.Background(), query,
		factory.ID, factory.Name, factory.Contact, factory.Phone,
		factory.SettlementMethod, factory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update factory: %w", err)
	}
	return nil
}

// SetDisabled habilita o deshabilita el taller para entregas nuevas.
func (r *FactoryRepo) SetDisabled(id string, disabled bool) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE factories SET disabled = $2, updated_at = now() WHERE id = $1 AND deleted = false`,
		id, disabled,
	)
	if err != nil {
		return fmt.Errorf("set factory disabled: %w", err)
	}
	return nil
}

// ListByCompany lista talleres por empresa con paginación.
func (r *FactoryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Factory, error) {
	query := `
		SELECT id, company_id, code, name, contact, phone, settlement_method, disabled, deleted, created_at, updated_at
		FROM factories WHERE company_id = $1 AND deleted = false
		ORDER BY code ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list factories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Factory
	for rows.Next() {
		var f entity.Factory
		if err := rows.Scan(&f.ID, &f.CompanyID, &f.Code, &f.Name, &f.Contact, &f.Phone,
			&f.SettlementMethod, &f.Disabled, &f.Deleted, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan factory: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

func (r *FactoryRepo) scanOne(row pgx.Row, op string) (*entity.Factory, error) {
	var f entity.Factory
	err := row.Scan(&f.ID, &f.CompanyID, &f.Code, &f.Name, &f.Contact, &f.Phone,
		&f.SettlementMethod, &f.Disabled, &f.Deleted, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &f, nil
}

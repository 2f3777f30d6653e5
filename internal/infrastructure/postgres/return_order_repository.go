package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
)

var _ repository.ReturnOrderRepository = (*ReturnOrderRepo)(nil)

const returnOrderColumns = `id, company_id, code, issue_order_id, legacy_issue_code, factory_id, style_id,
		quantity, actual_material_usage, processing_fee, settled_amount, settlement_status,
		voided, voided_at, deleted, created_by, created_at, updated_at`

// ReturnOrderRepo implementación de ReturnOrderRepository sobre PostgreSQL
// (usable con pool o tx).
//
// El doble esquema de vínculo con la entrega (issue_order_id canónico o
// legacy_issue_code numérico) se resuelve en una sola consulta con OR; el
// predicado descarta legacy_issue_code = 0 (sin vínculo legado).
type ReturnOrderRepo struct {
	q Querier
}

// NewReturnOrderRepository construye el adaptador de devoluciones. Pasar pool o tx (Querier).
func NewReturnOrderRepository(q Querier) *ReturnOrderRepo {
	return &ReturnOrderRepo{q: q}
}

// Create persiste una nueva devolución.
func (r *ReturnOrderRepo) Create(order *entity.ReturnOrder) error {
	query := `
		INSERT INTO return_orders (` + returnOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.Code, order.IssueOrderID, order.LegacyIssueCode,
		order.FactoryID, order.StyleID, order.Quantity, order.ActualMaterialUsage,
		order.ProcessingFee, order.SettledAmount, order.SettlementStatus,
		order.Voided, order.VoidedAt, order.Deleted, order.CreatedBy,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert return order: %w", err)
	}
	return nil
}

// GetByID obtiene una devolución por ID (excluye borradas).
func (r *ReturnOrderRepo) GetByID(id string) (*entity.ReturnOrder, error) {
	query := `SELECT ` + returnOrderColumns + ` FROM return_orders WHERE id = $1 AND deleted = false`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get return order")
}

// GetByCode obtiene una devolución por código numérico legado dentro de la empresa.
func (r *ReturnOrderRepo) GetByCode(companyID string, code int64) (*entity.ReturnOrder, error) {
	query := `SELECT ` + returnOrderColumns + `
		FROM return_orders WHERE company_id = $1 AND code = $2 AND deleted = false`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, code), "get return order by code")
}

// ListByIssue devuelve todas las devoluciones no borradas de una entrega,
// anuladas incluidas, vía cualquiera de los dos vínculos.
func (r *ReturnOrderRepo) ListByIssue(companyID, issueOrderID string, legacyIssueCode int64) ([]*entity.ReturnOrder, error) {
	query := `SELECT ` + returnOrderColumns + `
		FROM return_orders
		WHERE company_id = $1 AND deleted = false
		  AND (issue_order_id = $2 OR ($3 <> 0 AND legacy_issue_code = $3))
		ORDER BY created_at ASC`
	return r.list(query, "list returns by issue", companyID, issueOrderID, legacyIssueCode)
}

// ListActivePageByIssue pagina solo las devoluciones activas de una entrega
// (para la cascada acotada de anulación).
func (r *ReturnOrderRepo) ListActivePageByIssue(companyID, issueOrderID string, legacyIssueCode int64, limit, offset int) ([]*entity.ReturnOrder, error) {
	query := `SELECT ` + returnOrderColumns + `
		FROM return_orders
		WHERE company_id = $1 AND deleted = false AND voided = false
		  AND (issue_order_id = $2 OR ($3 <> 0 AND legacy_issue_code = $3))
		ORDER BY created_at ASC LIMIT $4 OFFSET $5`
	return r.list(query, "list active returns page", companyID, issueOrderID, legacyIssueCode, limit, offset)
}

// ListVoidedPage pagina devoluciones anuladas de la empresa (escaneo de
// reparación); factoryID vacío escanea todos los talleres.
func (r *ReturnOrderRepo) ListVoidedPage(companyID, factoryID string, limit, offset int) ([]*entity.ReturnOrder, error) {
	query := `SELECT ` + returnOrderColumns + `
		FROM return_orders
		WHERE company_id = $1 AND deleted = false AND voided = true
		  AND ($2 = '' OR factory_id = $2)
		ORDER BY created_at ASC LIMIT $3 OFFSET $4`
	return r.list(query, "list voided returns page", companyID, factoryID, limit, offset)
}

// SetVoided anula o reinstala una devolución.
func (r *ReturnOrderRepo) SetVoided(id string, voided bool, at *time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE return_orders SET voided = $2, voided_at = $3, updated_at = now() WHERE id = $1`,
		id, voided, at,
	)
	if err != nil {
		return fmt.Errorf("set return order voided: %w", err)
	}
	return nil
}

// UpdateSettled fija el monto liquidado derivado y su estado. Solo lo llama el
// libro de liquidaciones después de recalcular.
func (r *ReturnOrderRepo) UpdateSettled(id string, settledAmount decimal.Decimal, settlementStatus string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE return_orders SET settled_amount = $2, settlement_status = $3, updated_at = now() WHERE id = $1`,
		id, settledAmount, settlementStatus,
	)
	if err != nil {
		return fmt.Errorf("update return order settled: %w", err)
	}
	return nil
}

func (r *ReturnOrderRepo) list(query, op string, args ...any) ([]*entity.ReturnOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []*entity.ReturnOrder
	for rows.Next() {
		var o entity.ReturnOrder
		if err := scanReturnOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan return order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

func (r *ReturnOrderRepo) scanOne(row pgx.Row, op string) (*entity.ReturnOrder, error) {
	var o entity.ReturnOrder
	if err := scanReturnOrder(row, &o); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

func scanReturnOrder(row pgx.Row, o *entity.ReturnOrder) error {
	return row.Scan(&o.ID, &o.CompanyID, &o.Code, &o.IssueOrderID, &o.LegacyIssueCode,
		&o.FactoryID, &o.StyleID, &o.Quantity, &o.ActualMaterialUsage,
		&o.ProcessingFee, &o.SettledAmount, &o.SettlementStatus,
		&o.Voided, &o.VoidedAt, &o.Deleted, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
}

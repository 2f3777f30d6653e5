package issuance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/resolver"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/reconcile"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
	"github.com/jhoicas/Maquila-api/pkg/logger"
)

// CreateIssueUseCase registra una entrega de insumo a un taller: valida la
// política de deshabilitados, y dentro de una transacción descuenta los lotes
// vinculados a la referencia en proporción a su existencia (bloqueo de fila con
// SELECT FOR UPDATE) y persiste la entrega con su rastro de movimientos.
type CreateIssueUseCase struct {
	txRunner  TxRunner
	resolver  *resolver.Resolver
	issueRepo repository.IssueOrderRepository
	log       *logger.Logger
}

// NewCreateIssueUseCase construye el caso de uso.
func NewCreateIssueUseCase(
	txRunner TxRunner,
	res *resolver.Resolver,
	issueRepo repository.IssueOrderRepository,
	log *logger.Logger,
) *CreateIssueUseCase {
	return &CreateIssueUseCase{txRunner: txRunner, resolver: res, issueRepo: issueRepo, log: log}
}

// Create ejecuta la creación. El faltante de existencia no es error: si los
// lotes no alcanzan (o están en cero) la entrega se crea igual y el descuento
// total queda por debajo de IssueWeight, por política de negocio.
func (uc *CreateIssueUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateIssueOrderRequest) (*dto.IssueOrderResponse, error) {
	if in.StyleID == "" || in.FactoryID == "" || in.Code <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if !in.IssueWeight.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	style, err := uc.resolver.ResolveStyle(companyID, in.StyleID)
	if err != nil {
		return nil, err
	}
	factory, err := uc.resolver.ResolveFactory(companyID, in.FactoryID)
	if err != nil {
		return nil, err
	}
	if style.Disabled || factory.Disabled {
		return nil, domain.ErrPolicyViolation
	}

	if existing, _ := uc.issueRepo.GetByCode(companyID, in.Code); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	order := &entity.IssueOrder{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        in.Code,
		StyleID:     style.ID,
		FactoryID:   factory.ID,
		IssueWeight: in.IssueWeight,
		Status:      entity.IssueStatusNotReturned,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var deductions []dto.LotDeductionDTO
	err = uc.txRunner.Run(ctx, func(
		issueRepo repository.IssueOrderRepository,
		lotRepo repository.MaterialLotRepository,
		movRepo repository.LotMovementRepository,
	) error {
		// Bloquear y leer los lotes vinculados. Un lote ausente o corrupto se
		// salta: jamás bloquea la creación de la entrega.
		type locked struct {
			lot *entity.MaterialLot
		}
		lots := make([]locked, 0, len(style.MaterialLotIDs))
		stocks := make([]reconcile.LotStock, 0, len(style.MaterialLotIDs))
		for _, lotID := range style.MaterialLotIDs {
			lot, lotErr := lotRepo.GetForUpdate(lotID)
			if lotErr != nil || lot == nil || lot.Deleted {
				uc.log.Warn().Str("lot_id", lotID).Str("issue_code", order.ID).
					AnErr("cause", lotErr).Msg("lote no disponible para asignación, se omite")
				continue
			}
			lots = append(lots, locked{lot: lot})
			stocks = append(stocks, reconcile.LotStock{LotID: lot.ID, Stock: lot.CurrentStock})
		}

		split := reconcile.AllocateProportional(stocks, in.IssueWeight)
		byLot := make(map[string]decimal.Decimal, len(split))
		for _, d := range split {
			byLot[d.LotID] = d.Deducted
		}

		for _, l := range lots {
			deducted, ok := byLot[l.lot.ID]
			if !ok || !deducted.GreaterThan(decimal.Zero) {
				continue
			}
			newStock := l.lot.CurrentStock.Sub(deducted)
			if newStock.LessThan(decimal.Zero) {
				newStock = decimal.Zero
			}
			if err := lotRepo.UpdateStock(l.lot.ID, newStock); err != nil {
				return err
			}
			mov := &entity.LotMovement{
				ID:            uuid.New().String(),
				CompanyID:     companyID,
				TransactionID: order.ID,
				LotID:         l.lot.ID,
				Type:          entity.LotMovementIssueDeduct,
				Quantity:      deducted.Neg(),
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			deductions = append(deductions, dto.LotDeductionDTO{LotID: l.lot.ID, Deducted: deducted})
		}

		return issueRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}

	resp := toIssueResponse(order)
	resp.Deductions = deductions
	return resp, nil
}

// Get obtiene una entrega por UUID canónico o código numérico legado.
func (uc *CreateIssueUseCase) Get(companyID, anyID string) (*dto.IssueOrderResponse, error) {
	order, err := uc.resolver.ResolveIssueOrder(companyID, anyID)
	if err != nil {
		return nil, err
	}
	return toIssueResponse(order), nil
}

// List lista entregas de la empresa con paginación.
func (uc *CreateIssueUseCase) List(companyID string, limit, offset int) ([]dto.IssueOrderResponse, error) {
	list, err := uc.issueRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IssueOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toIssueResponse(o))
	}
	return out, nil
}

func toIssueResponse(o *entity.IssueOrder) *dto.IssueOrderResponse {
	if o == nil {
		return nil
	}
	return &dto.IssueOrderResponse{
		ID:          o.ID,
		Code:        o.Code,
		StyleID:     o.StyleID,
		FactoryID:   o.FactoryID,
		IssueWeight: o.IssueWeight,
		Status:      o.Status,
		Voided:      o.Voided,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

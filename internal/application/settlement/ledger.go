// Package settlement implementa el libro de liquidaciones: qué lote de pago
// referencia qué devolución, cuánto aporta, y la retracción/reinstalación de
// aportes cuando una devolución se anula o restaura.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/domain"
	"github.com/jhoicas/Maquila-api/internal/domain/entity"
	"github.com/jhoicas/Maquila-api/internal/domain/reconcile"
	"github.com/jhoicas/Maquila-api/internal/domain/repository"
	"github.com/jhoicas/Maquila-api/pkg/logger"
)

// Ledger orquesta las mutaciones del lado liquidación. Cada liquidación se
// actualiza de forma independiente: el fallo en una se registra y no aborta a
// sus hermanas (cascada de mejor esfuerzo, consistencia eventual).
type Ledger struct {
	settlementRepo repository.SettlementRepository
	returnRepo     repository.ReturnOrderRepository
	log            *logger.Logger
}

// NewLedger construye el libro de liquidaciones.
func NewLedger(settlementRepo repository.SettlementRepository, returnRepo repository.ReturnOrderRepository, log *logger.Logger) *Ledger {
	return &Ledger{settlementRepo: settlementRepo, returnRepo: returnRepo, log: log}
}

// ApplyVoid retrae (targetVoided=true) o reinstala (false) el aporte de cada
// liquidación que referencia la devolución. Idempotente: un renglón que ya está
// en el estado objetivo no cuenta como actualización, de modo que el escaneo de
// reparación puede re-ejecutarse sin efectos.
//
// Si tras la retracción todos los renglones (o todas las referencias legadas)
// de una liquidación quedan anulados, la liquidación se borra lógicamente con
// motivo all_return_orders_voided y no vuelve a mutarse.
func (l *Ledger) ApplyVoid(companyID string, ret *entity.ReturnOrder, targetVoided bool) (updated int, failures []dto.CascadeItemFailure) {
	settlements, err := l.settlementRepo.ListByReturnOrder(companyID, ret.ID)
	if err != nil {
		l.log.Error().Err(err).Str("return_order_id", ret.ID).Msg("listar liquidaciones de la devolución")
		failures = append(failures, dto.CascadeItemFailure{Kind: "settlement", ID: ret.ID, Error: err.Error()})
		return 0, failures
	}

	now := time.Now()
	for _, s := range settlements {
		if s.Deleted {
			// Borrada = inmutable (estado terminal).
			continue
		}
		changed, err := l.applyOne(s, ret.ID, targetVoided, now)
		if err != nil {
			// Mejor esfuerzo: registrar y seguir con las hermanas.
			l.log.Error().Err(err).
				Str("settlement_id", s.ID).
				Str("return_order_id", ret.ID).
				Bool("target_voided", targetVoided).
				Msg("actualizar liquidación en cascada")
			failures = append(failures, dto.CascadeItemFailure{Kind: "settlement", ID: s.ID, Error: err.Error()})
			continue
		}
		if changed {
			updated++
		}
	}
	return updated, failures
}

// applyOne muta una liquidación en memoria y persiste los cambios granulares.
// Devuelve si hubo cambio real.
func (l *Ledger) applyOne(s *entity.Settlement, returnOrderID string, targetVoided bool, now time.Time) (bool, error) {
	changed := false

	if s.HasItems() {
		for i := range s.Items {
			it := &s.Items[i]
			if it.ReturnOrderID != returnOrderID || it.Voided == targetVoided {
				continue
			}
			var at *time.Time
			if targetVoided {
				at = &now
			}
			if err := l.settlementRepo.SetItemVoided(it.ID, targetVoided, at); err != nil {
				return changed, err
			}
			it.Voided = targetVoided
			it.VoidedAt = at
			changed = true
		}
	} else {
		inList := false
		for _, id := range s.VoidedReturnOrderIDs {
			if id == returnOrderID {
				inList = true
				break
			}
		}
		switch {
		case targetVoided && !inList:
			s.VoidedReturnOrderIDs = append(s.VoidedReturnOrderIDs, returnOrderID)
			changed = true
		case !targetVoided && inList:
			kept := s.VoidedReturnOrderIDs[:0]
			for _, id := range s.VoidedReturnOrderIDs {
				if id != returnOrderID {
					kept = append(kept, id)
				}
			}
			s.VoidedReturnOrderIDs = kept
			changed = true
		}
		if changed {
			if err := l.settlementRepo.UpdateLegacyVoidedRefs(s.ID, s.VoidedReturnOrderIDs); err != nil {
				return false, err
			}
		}
	}

	if targetVoided && reconcile.AllVoided(s) {
		if err := l.settlementRepo.SoftDelete(s.ID, entity.DeleteReasonAllVoided); err != nil {
			return changed, err
		}
		s.Deleted = true
		s.DeleteReason = entity.DeleteReasonAllVoided
	}
	return changed, nil
}

// RecomputeSettled re-deriva el monto liquidado y el estado de liquidación de
// una devolución desde las liquidaciones que aún la referencian. Idempotente y
// convergente: siempre parte del estado actual del store.
func (l *Ledger) RecomputeSettled(companyID, returnOrderID string) error {
	ret, err := l.returnRepo.GetByID(returnOrderID)
	if err != nil {
		return err
	}
	if ret == nil || ret.CompanyID != companyID || ret.Deleted {
		return domain.ErrNotFound
	}

	settlements, err := l.settlementRepo.ListByReturnOrder(companyID, ret.ID)
	if err != nil {
		return err
	}

	raw := decimal.Zero
	for _, s := range settlements {
		raw = raw.Add(reconcile.Contribution(s, ret.ID))
	}
	settled := reconcile.ClampSettled(raw, ret.ProcessingFee)
	status := reconcile.SettlementStatus(settled, ret.ProcessingFee)

	if settled.Equal(ret.SettledAmount) && status == ret.SettlementStatus {
		return nil
	}
	return l.returnRepo.UpdateSettled(ret.ID, settled, status)
}

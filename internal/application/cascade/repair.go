package cascade

import (
	"github.com/jhoicas/Maquila-api/internal/application/dto"
)

// RepairVoidedReturns re-aplica el camino de retracción sobre devoluciones ya
// anuladas, en páginas acotadas. Existe para rellenar consistencia en datos
// anulados antes de que existiera esta cascada: renglones de liquidación sin
// anular, montos liquidados sin re-derivar, estados de entrega sin recalcular.
//
// Idempotente: sobre un registro ya consistente la retracción no cambia nada y
// SettlementsUpdated no lo cuenta; re-ejecutar el escaneo completo es un no-op.
func (c *Coordinator) RepairVoidedReturns(companyID, factoryID string, pageSize, skip int) (*dto.RepairResult, error) {
	if pageSize <= 0 {
		pageSize = c.limits.PageSize
	}
	if skip < 0 {
		skip = 0
	}

	// factoryID opcional; acepta UUID o código legado.
	resolvedFactory := ""
	if factoryID != "" {
		f, err := c.resolver.ResolveFactory(companyID, factoryID)
		if err != nil {
			return nil, err
		}
		resolvedFactory = f.ID
	}

	voided, err := c.returnRepo.ListVoidedPage(companyID, resolvedFactory, pageSize, skip)
	if err != nil {
		return nil, err
	}

	result := &dto.RepairResult{Scanned: len(voided), NextSkip: skip + len(voided)}
	for _, ret := range voided {
		updated, failures := c.ledger.ApplyVoid(companyID, ret, true)
		result.SettlementsUpdated += updated
		result.Failures = append(result.Failures, failures...)

		if err := c.ledger.RecomputeSettled(companyID, ret.ID); err != nil {
			c.log.Error().Err(err).Str("return_order_id", ret.ID).Msg("reparación: re-derivar monto liquidado")
			result.Failures = append(result.Failures, dto.CascadeItemFailure{Kind: "settlement", ID: ret.ID, Error: err.Error()})
		}

		_, failure, ok := c.recomputeParent(companyID, ret)
		if failure != nil {
			result.Failures = append(result.Failures, *failure)
		}
		if ok {
			result.IssueRecalc++
		}
	}
	return result, nil
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquila-api/internal/application/cascade"
	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/domain"
)

// RepairHandler expone el escaneo de reparación de devoluciones anuladas:
// re-aplica la propagación de anulación sobre liquidaciones que quedaron
// desincronizadas por cascadas parciales. Idempotente; se invoca por páginas.
type RepairHandler struct {
	coordinator *cascade.Coordinator
}

// NewRepairHandler construye el handler.
func NewRepairHandler(coordinator *cascade.Coordinator) *RepairHandler {
	return &RepairHandler{coordinator: coordinator}
}

// Run godoc
// @Summary      Ejecutar una página del escaneo de reparación
// @Tags         repair
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RepairRequest  true  "factory_id opcional, page_size, skip"
// @Success      200   {object}  dto.RepairResult
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/repair/voided-returns [post]
func (h *RepairHandler) Run(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.RepairRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.coordinator.RepairVoidedReturns(companyID, in.FactoryID, in.PageSize, in.Skip)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "FACTORY_NOT_FOUND", Message: "el taller no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

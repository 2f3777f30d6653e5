package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquila-api/internal/application/cascade"
	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/returns"
	"github.com/jhoicas/Maquila-api/internal/domain"
)

// ReturnHandler maneja las peticiones HTTP para devoluciones (protegido).
// El parámetro :id acepta UUID canónico o código numérico legado.
type ReturnHandler struct {
	createUC    *returns.CreateReturnUseCase
	coordinator *cascade.Coordinator
}

// NewReturnHandler construye el handler.
func NewReturnHandler(createUC *returns.CreateReturnUseCase, coordinator *cascade.Coordinator) *ReturnHandler {
	return &ReturnHandler{createUC: createUC, coordinator: coordinator}
}

// Create godoc
// @Summary      Registrar devolución de prenda terminada
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnOrderRequest  true  "Datos de la devolución"
// @Success      201   {object}  dto.ReturnOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateReturnOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.Create(companyID, GetUserID(c), in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code, issue_order_id y cantidades no negativas son requeridos"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ISSUE_NOT_FOUND", Message: "la entrega no existe"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ISSUE_VOIDED", Message: "la entrega está anulada"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código de devolución ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByIssue godoc
// @Summary      Listar devoluciones de una entrega
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        issue_id  query  string  true  "UUID o código legado de la entrega"
// @Success      200       {array}  dto.ReturnOrderResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) ListByIssue(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	issueID := c.Query("issue_id")
	if issueID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ISSUE", Message: "issue_id es requerido"})
	}
	out, err := h.createUC.ListByIssue(companyID, issueID)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ISSUE_NOT_FOUND", Message: "la entrega no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ToggleVoid godoc
// @Summary      Anular o restaurar una devolución (recalcula liquidaciones y estado de la entrega)
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID o código legado"
// @Param        body  body  dto.ToggleVoidRequest  true  "voided"
// @Success      200   {object}  dto.CascadeResult
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/void [put]
func (h *ReturnHandler) ToggleVoid(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.ToggleVoidRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.coordinator.ToggleReturnVoid(companyID, c.Params("id"), in.Voided)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "devolución no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

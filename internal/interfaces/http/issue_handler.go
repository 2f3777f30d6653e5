package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquila-api/internal/application/cascade"
	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/issuance"
	"github.com/jhoicas/Maquila-api/internal/domain"
)

// IssueHandler maneja las peticiones HTTP para entregas de insumo (protegido).
// El parámetro :id acepta UUID canónico o código numérico legado.
type IssueHandler struct {
	createUC    *issuance.CreateIssueUseCase
	coordinator *cascade.Coordinator
}

// NewIssueHandler construye el handler.
func NewIssueHandler(createUC *issuance.CreateIssueUseCase, coordinator *cascade.Coordinator) *IssueHandler {
	return &IssueHandler{createUC: createUC, coordinator: coordinator}
}

// Create godoc
// @Summary      Registrar entrega de insumo
// @Tags         issues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIssueOrderRequest  true  "Datos de la entrega"
// @Success      201   {object}  dto.IssueOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/issues [post]
func (h *IssueHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateIssueOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.Create(c.Context(), companyID, GetUserID(c), in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code, style_id, factory_id y issue_weight positivos son requeridos"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "referencia o taller no encontrados"})
		case domain.ErrPolicyViolation:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "POLICY_VIOLATION", Message: "referencia o taller deshabilitados para entregas nuevas"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código de entrega ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrega por ID o código
// @Tags         issues
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "UUID o código legado"
// @Success      200  {object}  dto.IssueOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issues/{id} [get]
func (h *IssueHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	out, err := h.createUC.Get(companyID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar entregas
// @Tags         issues
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.IssueOrderResponse
// @Router       /api/issues [get]
func (h *IssueHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	limit, offset := pageParams(c)
	out, err := h.createUC.List(companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ToggleVoid godoc
// @Summary      Anular o restaurar una entrega (cascada sobre devoluciones y liquidaciones)
// @Tags         issues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID o código legado"
// @Param        body  body  dto.ToggleVoidRequest  true  "voided"
// @Success      200   {object}  dto.CascadeResult
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/issues/{id}/void [put]
func (h *IssueHandler) ToggleVoid(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.ToggleVoidRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.coordinator.ToggleIssueVoid(companyID, c.Params("id"), in.Voided)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

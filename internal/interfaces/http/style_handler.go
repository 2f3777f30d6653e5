package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/usecase"
	"github.com/jhoicas/Maquila-api/internal/domain"
)

// StyleHandler maneja las peticiones HTTP para referencias de prenda (protegido).
type StyleHandler struct {
	uc *usecase.StyleUseCase
}

// NewStyleHandler construye el handler.
func NewStyleHandler(uc *usecase.StyleUseCase) *StyleHandler {
	return &StyleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear referencia de prenda
// @Tags         styles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStyleRequest  true  "Datos de la referencia"
// @Success      201   {object}  dto.StyleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/styles [post]
func (h *StyleHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateStyleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code y name son requeridos"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código ya existe en esta empresa"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LOT_NOT_FOUND", Message: "algún lote vinculado no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener referencia por ID
// @Tags         styles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la referencia"
// @Success      200  {object}  dto.StyleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/styles/{id} [get]
func (h *StyleHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	out, err := h.uc.GetByID(companyID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "referencia no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar referencias
// @Tags         styles
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.StyleResponse
// @Router       /api/styles [get]
func (h *StyleHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	limit, offset := pageParams(c)
	out, err := h.uc.List(companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SetDisabled godoc
// @Summary      Habilitar o deshabilitar referencia
// @Tags         styles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la referencia"
// @Param        body  body  dto.SetDisabledRequest  true  "disabled"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/styles/{id}/disabled [put]
func (h *StyleHandler) SetDisabled(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.SetDisabledRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetDisabled(companyID, c.Params("id"), in.Disabled); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "referencia no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

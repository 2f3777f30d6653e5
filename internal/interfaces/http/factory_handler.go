package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	"github.com/jhoicas/Maquila-api/internal/application/usecase"
	"github.com/jhoicas/Maquila-api/internal/domain"
)

// FactoryHandler maneja las peticiones HTTP para talleres (protegido).
type FactoryHandler struct {
	uc *usecase.FactoryUseCase
}

// NewFactoryHandler construye el handler.
func NewFactoryHandler(uc *usecase.FactoryUseCase) *FactoryHandler {
	return &FactoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear taller
// @Tags         factories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFactoryRequest  true  "Datos del taller"
// @Success      201   {object}  dto.FactoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/factories [post]
func (h *FactoryHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateFactoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code, name y settlement_method válidos son requeridos"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código ya existe en esta empresa"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener taller por ID
// @Tags         factories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del taller"
// @Success      200  {object}  dto.FactoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/factories/{id} [get]
func (h *FactoryHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	out, err := h.uc.GetByID(companyID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "taller no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar talleres
// @Tags         factories
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.FactoryResponse
// @Router       /api/factories [get]
func (h *FactoryHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	limit, offset := pageParams(c)
	out, err := h.uc.List(companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SetDisabled godoc
// @Summary      Habilitar o deshabilitar taller
// @Tags         factories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del taller"
// @Param        body  body  dto.SetDisabledRequest  true  "disabled"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/factories/{id}/disabled [put]
func (h *FactoryHandler) SetDisabled(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.SetDisabledRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetDisabled(companyID, c.Params("id"), in.Disabled); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "taller no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

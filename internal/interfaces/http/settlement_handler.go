package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquila-api/internal/application/dto"
	appsettlement "github.com/jhoicas/Maquila-api/internal/application/settlement"
	"github.com/jhoicas/Maquila-api/internal/domain"
)

// SettlementHandler maneja las peticiones HTTP para liquidaciones (protegido).
// El parámetro :id acepta UUID canónico o código numérico legado.
type SettlementHandler struct {
	createUC    *appsettlement.CreateSettlementUseCase
	statementUC *appsettlement.StatementUseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(createUC *appsettlement.CreateSettlementUseCase, statementUC *appsettlement.StatementUseCase) *SettlementHandler {
	return &SettlementHandler{createUC: createUC, statementUC: statementUC}
}

// Create godoc
// @Summary      Registrar lote de pago (liquidación)
// @Tags         settlements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSettlementRequest  true  "Items XOR return_order_ids"
// @Success      201   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settlements [post]
func (h *SettlementHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateSettlementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.Create(companyID, GetUserID(c), in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se envían items o return_order_ids, nunca ambos ni ninguno"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "taller o devolución no encontrados"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RETURN_VOIDED", Message: "alguna devolución referenciada está anulada"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código de liquidación ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener liquidación por ID o código
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "UUID o código legado"
// @Success      200  {object}  dto.SettlementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settlements/{id} [get]
func (h *SettlementHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	out, err := h.createUC.Get(companyID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "liquidación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByFactory godoc
// @Summary      Listar liquidaciones de un taller
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        factory_id  query  string  true  "UUID o código legado del taller"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200         {array}  dto.SettlementResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/settlements [get]
func (h *SettlementHandler) ListByFactory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	factoryID := c.Query("factory_id")
	if factoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FACTORY", Message: "factory_id es requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.createUC.ListByFactory(companyID, factoryID, limit, offset)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "FACTORY_NOT_FOUND", Message: "el taller no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Descargar PDF del estado de cuenta de una liquidación
// @Tags         settlements
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "UUID o código legado"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settlements/{id}/statement [get]
func (h *SettlementHandler) Statement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	pdfBytes, err := h.statementUC.Generate(c.Context(), companyID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "liquidación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="liquidacion.pdf"`)
	return c.Send(pdfBytes)
}

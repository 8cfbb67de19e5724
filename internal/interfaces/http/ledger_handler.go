package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
)

// LedgerHandler maneja movimientos de stock y auditoría del libro (protegido).
type LedgerHandler struct {
	adjustUC *ledger.AdjustUseCase
	auditUC  *ledger.AuditUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(adjustUC *ledger.AdjustUseCase, auditUC *ledger.AuditUseCase) *LedgerHandler {
	return &LedgerHandler{adjustUC: adjustUC, auditUC: auditUC}
}

// Adjust godoc
// @Summary      Registrar movimiento de stock
// @Description  PURCHASE/DISPATCH con magnitud positiva (DISPATCH descuenta), ADJUSTMENT con signo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.adjustUC.Adjust(c.UserContext(), ledger.AdjustInput{
		ItemID:   in.ItemID,
		Kind:     in.Kind,
		Quantity: in.Quantity,
		Party:    in.Party,
		Note:     in.Note,
		UserID:   GetUserID(c),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		ID:        mov.ID,
		ItemID:    mov.ItemID,
		Kind:      mov.Kind,
		Delta:     mov.Delta,
		Party:     mov.Party,
		Note:      mov.Note,
		CreatedAt: mov.CreatedAt,
		CreatedBy: mov.CreatedBy,
	})
}

// History godoc
// @Summary      Historial de movimientos (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por artículo"
// @Param        kind     query  string  false  "Filtrar por tipo"
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	var in dto.HistoryRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	out, err := h.adjustUC.History(in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Verificar consistencia cantidad vs libro
// @Description  Sin item_id verifica el catálogo completo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Verificar solo este artículo"
// @Success      200  {array}   dto.AuditEntry
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/audit [get]
func (h *LedgerHandler) Audit(c *fiber.Ctx) error {
	if itemID := c.Query("item_id"); itemID != "" {
		entry, err := h.auditUC.Verify(itemID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON([]dto.AuditEntry{*entry})
	}
	entries, err := h.auditUC.VerifyAll()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(entries)
}

// Repair godoc
// @Summary      Reparar cantidad en caché desde el libro (el libro manda)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemID  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.AuditEntry
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/audit/{itemID}/repair [post]
func (h *LedgerHandler) Repair(c *fiber.Ctx) error {
	itemID := c.Params("itemID")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "itemID es requerido"})
	}
	entry, err := h.auditUC.Repair(c.UserContext(), itemID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(entry)
}

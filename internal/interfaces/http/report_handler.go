package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// ReportHandler reportes agregados del libro y catálogo (protegido).
type ReportHandler struct {
	reportUC   *usecase.ReportUseCase
	lowStockUC *usecase.LowStockReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reportUC *usecase.ReportUseCase, lowStockUC *usecase.LowStockReportUseCase) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, lowStockUC: lowStockUC}
}

// parseDateQuery acepta "2006-01-02" o RFC3339 en un query param opcional.
func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.UTC); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DailyDispatch godoc
// @Summary      Total despachado por día calendario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Success      200  {array}   dto.DailyDispatchDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-dispatch [get]
func (h *ReportHandler) DailyDispatch(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido"})
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido"})
	}
	out, err := h.reportUC.DailyDispatchTotals(c.UserContext(), from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// PurchasesByParty godoc
// @Summary      Total comprado por contraparte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartyTotalDTO
// @Router       /api/reports/purchases-by-party [get]
func (h *ReportHandler) PurchasesByParty(c *fiber.Ctx) error {
	out, err := h.reportUC.PurchaseTotalsByParty(c.UserContext())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// InventoryValue godoc
// @Summary      Valor total del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryValueDTO
// @Router       /api/reports/inventory-value [get]
func (h *ReportHandler) InventoryValue(c *fiber.Ctx) error {
	out, err := h.reportUC.TotalInventoryValue(c.UserContext())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// LowStockPDF godoc
// @Summary      Reporte PDF de artículos bajo umbral
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        threshold  query  int  false  "Umbral global (reemplaza el de cada artículo)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock.pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	override, ok := parseThresholdQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "threshold inválido"})
	}
	pdfBytes, err := h.lowStockUC.Generate(c.UserContext(), override)
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="low-stock.pdf"`)
	return c.Send(pdfBytes)
}

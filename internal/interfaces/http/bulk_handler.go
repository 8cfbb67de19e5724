package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/bulk"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// BulkHandler carga y descarga masiva del catálogo en CSV (protegido).
type BulkHandler struct {
	importUC *bulk.ImportUseCase
	exportUC *bulk.ExportUseCase
}

// NewBulkHandler construye el handler.
func NewBulkHandler(importUC *bulk.ImportUseCase, exportUC *bulk.ExportUseCase) *BulkHandler {
	return &BulkHandler{importUC: importUC, exportUC: exportUC}
}

// Import godoc
// @Summary      Importar catálogo desde CSV (todo-o-nada)
// @Description  Acepta multipart (campo "file") o el CSV crudo como body.
// @Tags         items
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      201   {object}  bulk.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/import [post]
func (h *BulkHandler) Import(c *fiber.Ctx) error {
	var payload []byte
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "archivo ilegible"})
		}
		defer f.Close()
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(f); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "archivo ilegible"})
		}
		payload = buf.Bytes()
	} else {
		payload = c.Body()
	}
	if len(payload) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_FILE", Message: "CSV vacío"})
	}
	out, err := h.importUC.Import(c.UserContext(), GetUserID(c), bytes.NewReader(payload))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Export godoc
// @Summary      Exportar catálogo a CSV
// @Tags         items
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/items/export [get]
func (h *BulkHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.exportUC.Export(&buf); err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="items.csv"`)
	return c.Send(buf.Bytes())
}

package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ExportUseCase exporta el catálogo a CSV plano con las mismas columnas de la
// importación más la columna derivada Total Value = Quantity * Unit Price.
type ExportUseCase struct {
	itemRepo repository.ItemRepository
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(itemRepo repository.ItemRepository) *ExportUseCase {
	return &ExportUseCase{itemRepo: itemRepo}
}

// Export escribe el catálogo completo en w.
func (uc *ExportUseCase) Export(w io.Writer) error {
	items, err := uc.itemRepo.List(repository.ItemFilter{})
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	header := append(append([]string{}, RequiredColumns...), "Total Value")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	for _, item := range items {
		record := []string{
			item.Code,
			item.Name,
			item.Category,
			strconv.FormatInt(item.Quantity, 10),
			item.UnitPrice.StringFixed(2),
			item.Location,
			item.TotalValue().StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

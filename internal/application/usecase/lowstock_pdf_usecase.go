package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LowStockPDFGenerator puerto de renderizado del reporte de bajo stock.
// La implementación vive en infrastructure/pdf (DIP).
type LowStockPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, items []*entity.Item, thresholdOverride *int64, generatedAt time.Time) ([]byte, error)
}

// LowStockReportUseCase arma el reporte imprimible de artículos bajo umbral.
type LowStockReportUseCase struct {
	itemRepo repository.ItemRepository
	pdfGen   LowStockPDFGenerator
}

// NewLowStockReportUseCase construye el caso de uso.
func NewLowStockReportUseCase(itemRepo repository.ItemRepository, pdfGen LowStockPDFGenerator) *LowStockReportUseCase {
	return &LowStockReportUseCase{itemRepo: itemRepo, pdfGen: pdfGen}
}

// Generate consulta los artículos bajo umbral (override opcional) y devuelve
// los bytes del PDF.
func (uc *LowStockReportUseCase) Generate(ctx context.Context, thresholdOverride *int64) ([]byte, error) {
	items, err := uc.itemRepo.ListLowStock(thresholdOverride)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateLowStockPDF(ctx, items, thresholdOverride, time.Now())
}

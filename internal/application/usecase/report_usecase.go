package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ReportUseCase reportes agregados de solo lectura sobre catálogo y libro.
type ReportUseCase struct {
	repo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// DailyDispatchTotals total despachado (valor absoluto) por día calendario.
func (uc *ReportUseCase) DailyDispatchTotals(ctx context.Context, from, to *time.Time) ([]dto.DailyDispatchDTO, error) {
	rows, err := uc.repo.DailyDispatchTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyDispatchDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailyDispatchDTO{
			Day:   r.Day.Format("2006-01-02"),
			Total: r.Total,
		})
	}
	return out, nil
}

// PurchaseTotalsByParty total comprado (valor absoluto) por contraparte.
func (uc *ReportUseCase) PurchaseTotalsByParty(ctx context.Context) ([]dto.PartyTotalDTO, error) {
	rows, err := uc.repo.PurchaseTotalsByParty(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartyTotalDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.PartyTotalDTO{Party: r.Party, Total: r.Total})
	}
	return out, nil
}

// TotalInventoryValue suma Quantity * UnitPrice del catálogo completo.
func (uc *ReportUseCase) TotalInventoryValue(ctx context.Context) (*dto.InventoryValueDTO, error) {
	total, err := uc.repo.TotalInventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryValueDTO{TotalValue: total}, nil
}

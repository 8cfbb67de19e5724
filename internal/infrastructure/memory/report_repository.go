package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados de solo lectura sobre las tablas en memoria.
type ReportRepo struct {
	store *Store
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(store *Store) *ReportRepo {
	return &ReportRepo{store: store}
}

// DailyDispatchTotals agrupa movimientos DISPATCH por día calendario (UTC),
// ordenado por día descendente.
func (r *ReportRepo) DailyDispatchTotals(_ context.Context, from, to *time.Time) ([]repository.DailyDispatchRow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	totals := make(map[time.Time]int64)
	for i := range r.store.movements {
		m := r.store.movements[i]
		if m.Kind != entity.MovementKindDISPATCH {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		day := m.CreatedAt.UTC().Truncate(24 * time.Hour)
		delta := m.Delta
		if delta < 0 {
			delta = -delta
		}
		totals[day] += delta
	}
	out := make([]repository.DailyDispatchRow, 0, len(totals))
	for day, total := range totals {
		out = append(out, repository.DailyDispatchRow{Day: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.After(out[j].Day) })
	return out, nil
}

// PurchaseTotalsByParty agrupa movimientos PURCHASE por contraparte,
// ordenado por total descendente.
func (r *ReportRepo) PurchaseTotalsByParty(_ context.Context) ([]repository.PartyTotalRow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	totals := make(map[string]int64)
	for i := range r.store.movements {
		m := r.store.movements[i]
		if m.Kind != entity.MovementKindPURCHASE {
			continue
		}
		delta := m.Delta
		if delta < 0 {
			delta = -delta
		}
		totals[m.Party] += delta
	}
	out := make([]repository.PartyTotalRow, 0, len(totals))
	for party, total := range totals {
		out = append(out, repository.PartyTotalRow{Party: party, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Party < out[j].Party
	})
	return out, nil
}

// TotalInventoryValue suma Quantity * UnitPrice del catálogo completo.
func (r *ReportRepo) TotalInventoryValue(_ context.Context) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	total := decimal.Zero
	for _, item := range r.store.items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total, nil
}

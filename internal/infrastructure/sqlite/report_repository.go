package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes agregados del libro y catálogo.
type ReportRepo struct {
	store *Store
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(store *Store) *ReportRepo {
	return &ReportRepo{store: store}
}

// DailyDispatchTotals agrupa movimientos DISPATCH por día calendario UTC de
// created_at, ordenado por día descendente. Los timestamps se guardan en
// RFC3339 UTC, así que date() ya corta en el día correcto.
func (r *ReportRepo) DailyDispatchTotals(ctx context.Context, from, to *time.Time) ([]repository.DailyDispatchRow, error) {
	args := []any{entity.MovementKindDISPATCH}
	conds := []string{"kind = ?"}
	if from != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, formatTime(*from))
	}
	if to != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, formatTime(*to))
	}
	query := `
		SELECT date(created_at) AS day, SUM(ABS(delta)) AS total
		FROM movements
		WHERE ` + strings.Join(conds, " AND ") + `
		GROUP BY 1
		ORDER BY 1 DESC`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports.DailyDispatchTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.DailyDispatchRow
	for rows.Next() {
		var (
			day string
			row repository.DailyDispatchRow
		)
		if err := rows.Scan(&day, &row.Total); err != nil {
			return nil, fmt.Errorf("scan dispatch row: %w", err)
		}
		if row.Day, err = time.ParseInLocation("2006-01-02", day, time.UTC); err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// PurchaseTotalsByParty agrupa movimientos PURCHASE por contraparte, ordenado por total descendente.
func (r *ReportRepo) PurchaseTotalsByParty(ctx context.Context) ([]repository.PartyTotalRow, error) {
	const query = `
		SELECT party, SUM(ABS(delta)) AS total
		FROM movements
		WHERE kind = ?
		GROUP BY party
		ORDER BY total DESC, party`

	rows, err := r.store.db.QueryContext(ctx, query, entity.MovementKindPURCHASE)
	if err != nil {
		return nil, fmt.Errorf("reports.PurchaseTotalsByParty: %w", err)
	}
	defer rows.Close()

	var results []repository.PartyTotalRow
	for rows.Next() {
		var row repository.PartyTotalRow
		if err := rows.Scan(&row.Party, &row.Total); err != nil {
			return nil, fmt.Errorf("scan party row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TotalInventoryValue suma quantity * unit_price del catálogo completo.
// El precio vive como texto decimal, así que la aritmética se hace en Go
// con shopspring/decimal para no perder precisión.
func (r *ReportRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT quantity, unit_price FROM items`)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reports.TotalInventoryValue: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var (
			quantity int64
			rawPrice string
		)
		if err := rows.Scan(&quantity, &rawPrice); err != nil {
			return decimal.Zero, fmt.Errorf("scan item value: %w", err)
		}
		price, err := decimal.NewFromString(rawPrice)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse unit_price %q: %w", rawPrice, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(quantity)))
	}
	return total, rows.Err()
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes agregados del libro y catálogo.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// DailyDispatchTotals agrupa movimientos DISPATCH por día calendario de created_at,
// ordenado por día descendente. Los deltas se totalizan en valor absoluto.
func (r *ReportRepo) DailyDispatchTotals(ctx context.Context, from, to *time.Time) ([]repository.DailyDispatchRow, error) {
	args := []any{entity.MovementKindDISPATCH}
	conds := []string{"kind = $1"}
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	query := `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, SUM(ABS(delta)) AS total
		FROM movements
		WHERE ` + strings.Join(conds, " AND ") + `
		GROUP BY 1
		ORDER BY 1 DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports.DailyDispatchTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.DailyDispatchRow
	for rows.Next() {
		var row repository.DailyDispatchRow
		if err := rows.Scan(&row.Day, &row.Total); err != nil {
			return nil, fmt.Errorf("scan dispatch row: %w", err)
		}
		row.Day = row.Day.UTC()
		results = append(results, row)
	}
	return results, rows.Err()
}

// PurchaseTotalsByParty agrupa movimientos PURCHASE por contraparte, ordenado por total descendente.
func (r *ReportRepo) PurchaseTotalsByParty(ctx context.Context) ([]repository.PartyTotalRow, error) {
	const query = `
		SELECT party, SUM(ABS(delta)) AS total
		FROM movements
		WHERE kind = $1
		GROUP BY party
		ORDER BY total DESC, party`

	rows, err := r.pool.Query(ctx, query, entity.MovementKindPURCHASE)
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
func (r *ReportRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * unit_price), 0) FROM items`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reports.TotalInventoryValue: %w", err)
	}
	return total, nil
}

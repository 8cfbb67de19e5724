package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyDispatchRow total despachado (valor absoluto) en un día calendario.
type DailyDispatchRow struct {
	Day   time.Time // truncado a día, UTC
	Total int64
}

// PartyTotalRow total comprado (valor absoluto) a una contraparte.
type PartyTotalRow struct {
	Party string
	Total int64
}

// ReportRepository consultas de solo lectura para reportes agregados.
type ReportRepository interface {
	// DailyDispatchTotals agrupa movimientos DISPATCH por día calendario de CreatedAt,
	// ordenado por día descendente. from/to acotan el rango si no son nil.
	DailyDispatchTotals(ctx context.Context, from, to *time.Time) ([]DailyDispatchRow, error)
	// PurchaseTotalsByParty agrupa movimientos PURCHASE por contraparte,
	// ordenado por total descendente.
	PurchaseTotalsByParty(ctx context.Context) ([]PartyTotalRow, error)
	// TotalInventoryValue devuelve la suma de Quantity * UnitPrice del catálogo.
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
}

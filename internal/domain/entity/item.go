package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCodePrefix prefijo de los códigos legibles de artículo ("ITM-0001").
const ItemCodePrefix = "ITM-"

// Item representa un artículo del catálogo (SKU único).
// Quantity es una proyección materializada del libro de movimientos: siempre debe
// ser igual a la suma de los deltas de sus movimientos. Solo el motor del libro
// (ledger) la escribe; las ediciones de catálogo nunca la tocan.
type Item struct {
	ID               string
	Code             string // código legible único, ej. "ITM-0001"
	Name             string
	Category         string
	Location         string
	Description      string
	UnitPrice        decimal.Decimal
	ReorderThreshold int64 // el artículo está en "stock bajo" cuando Quantity <= ReorderThreshold
	Quantity         int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LowStock indica si el artículo está en o por debajo de su umbral de reorden.
func (i *Item) LowStock() bool {
	return i.Quantity <= i.ReorderThreshold
}

// TotalValue devuelve Quantity * UnitPrice.
func (i *Item) TotalValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

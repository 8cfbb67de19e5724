package dto

import "github.com/shopspring/decimal"

// DailyDispatchDTO total despachado en un día calendario.
type DailyDispatchDTO struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Total int64  `json:"total"`
}

// PartyTotalDTO total comprado a una contraparte.
type PartyTotalDTO struct {
	Party string `json:"party"`
	Total int64  `json:"total"`
}

// InventoryValueDTO valor total del inventario.
type InventoryValueDTO struct {
	TotalValue decimal.Decimal `json:"total_value"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
// Code vacío = se autogenera ("ITM-" + siguiente sufijo numérico).
// InitialQuantity > 0 registra además un movimiento INITIAL en la misma transacción.
type CreateItemRequest struct {
	Code             string          `json:"code,omitempty"`
	Name             string          `json:"name"`
	Category         string          `json:"category,omitempty"`
	Location         string          `json:"location,omitempty"`
	Description      string          `json:"description,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReorderThreshold int64           `json:"reorder_threshold"`
	InitialQuantity  int64           `json:"initial_quantity"`
}

// UpdateItemRequest body para PUT /api/items/:id. Campos nil = sin cambio.
// Quantity y Code nunca se modifican por esta vía.
type UpdateItemRequest struct {
	Name             *string          `json:"name,omitempty"`
	Category         *string          `json:"category,omitempty"`
	Location         *string          `json:"location,omitempty"`
	Description      *string          `json:"description,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	ReorderThreshold *int64           `json:"reorder_threshold,omitempty"`
}

// ItemResponse representación HTTP de un artículo.
type ItemResponse struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Category         string          `json:"category,omitempty"`
	Location         string          `json:"location,omitempty"`
	Description      string          `json:"description,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReorderThreshold int64           `json:"reorder_threshold"`
	Quantity         int64           `json:"quantity"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LowStock         bool            `json:"low_stock"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemFilterRequest query params para GET /api/items.
type ItemFilterRequest struct {
	Category    string `query:"category"`
	Location    string `query:"location"`
	MinQuantity int64  `query:"min_quantity"`
	PageRequest
}

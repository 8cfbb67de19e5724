package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/movements.
// PURCHASE y DISPATCH llevan Quantity como magnitud positiva (DISPATCH se niega
// internamente); ADJUSTMENT lleva Quantity con signo y distinta de cero.
type AdjustStockRequest struct {
	ItemID   string `json:"item_id"`
	Kind     string `json:"kind"`
	Quantity int64  `json:"quantity"`
	Party    string `json:"party,omitempty"`
	Note     string `json:"note,omitempty"`
}

// MovementResponse representación HTTP de un movimiento del libro.
type MovementResponse struct {
	ID        int64     `json:"id"`
	ItemID    string    `json:"item_id"`
	Kind      string    `json:"kind"`
	Delta     int64     `json:"delta"`
	Party     string    `json:"party,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// HistoryRequest query params para GET /api/inventory/movements.
type HistoryRequest struct {
	ItemID string `query:"item_id"`
	Kind   string `query:"kind"`
	PageRequest
}

// AuditEntry resultado de verificar un artículo contra su libro.
type AuditEntry struct {
	ItemID     string `json:"item_id"`
	Code       string `json:"code"`
	Quantity   int64  `json:"quantity"`
	LedgerSum  int64  `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

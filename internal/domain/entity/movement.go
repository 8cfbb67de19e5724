package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementKindINITIAL    = "INITIAL"    // stock inicial al crear/importar el artículo
	MovementKindPURCHASE   = "PURCHASE"   // entrada por compra
	MovementKindDISPATCH   = "DISPATCH"   // salida por despacho
	MovementKindADJUSTMENT = "ADJUSTMENT" // ajuste manual (delta con signo)
)

// ValidMovementKind indica si kind es uno de los tipos conocidos.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindINITIAL, MovementKindPURCHASE, MovementKindDISPATCH, MovementKindADJUSTMENT:
		return true
	}
	return false
}

// Movement es una entrada del libro de movimientos (append-only, inmutable).
// El ID lo asigna el almacenamiento y es monótono creciente; CreatedAt no decrece
// con el ID. No existe operación de update ni delete sobre movimientos.
type Movement struct {
	ID        int64
	ItemID    string
	Kind      string
	Delta     int64 // positivo entrada (PURCHASE, INITIAL, ajuste+), negativo salida (DISPATCH, ajuste-)
	Party     string // contraparte: proveedor en compra, cliente en despacho
	Note      string
	CreatedAt time.Time
	CreatedBy string // UserID
}

package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ItemFilter restringe List. Category y Location son substring case-insensitive;
// vacío = sin restricción. MinQuantity es un piso inclusivo.
type ItemFilter struct {
	Category    string
	Location    string
	MinQuantity int64
	Limit       int
	Offset      int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCode(code string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo bloqueando su fila para escritura
	// (SELECT FOR UPDATE o equivalente). Solo válido dentro de una transacción.
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	// UpdateQuantity escribe la cantidad en caché. Reservado al motor del libro.
	UpdateQuantity(id string, quantity int64) error
	List(filter ItemFilter) ([]*entity.Item, error)
	// ListLowStock devuelve artículos con Quantity <= umbral. Si thresholdOverride
	// es nil se usa el ReorderThreshold de cada artículo.
	ListLowStock(thresholdOverride *int64) ([]*entity.Item, error)
	// MaxCodeNumber devuelve el mayor sufijo numérico de los códigos "ITM-NNNN" (0 si no hay).
	MaxCodeNumber() (int64, error)
	Delete(id string) error
}

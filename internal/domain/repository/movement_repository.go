package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// MovementFilter restringe List. ItemID y Kind vacíos = sin restricción.
type MovementFilter struct {
	ItemID string
	Kind   string
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no hay Update ni Delete.
type MovementRepository interface {
	// Create inserta el movimiento y asigna movement.ID (secuencia monótona del almacenamiento).
	Create(movement *entity.Movement) error
	GetByID(id int64) (*entity.Movement, error)
	// List devuelve movimientos ordenados por CreatedAt DESC con desempate por ID DESC.
	List(filter MovementFilter) ([]*entity.Movement, error)
	// SumDeltaByItem devuelve la suma de deltas de un artículo (0 si no tiene movimientos).
	SumDeltaByItem(itemID string) (int64, error)
}

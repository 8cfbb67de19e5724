package memory

import (
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository en memoria (append-only).
type MovementRepo struct {
	store *Store
	inTx  bool
}

// NewMovementRepository construye el adaptador fuera de transacción.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create apendea el movimiento y asigna el siguiente ID de la secuencia.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	defer r.lock()()
	r.store.nextMovID++
	movement.ID = r.store.nextMovID
	r.store.movements = append(r.store.movements, *movement)
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(id int64) (*entity.Movement, error) {
	defer r.lock()()
	for i := range r.store.movements {
		if r.store.movements[i].ID == id {
			m := r.store.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

// List filtra por artículo y tipo, ordenado CreatedAt DESC con desempate ID DESC
// (más reciente primero; para timestamps iguales, orden de inserción inverso).
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for i := range r.store.movements {
		m := r.store.movements[i]
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

// SumDeltaByItem suma los deltas de un artículo (0 si no tiene movimientos).
func (r *MovementRepo) SumDeltaByItem(itemID string) (int64, error) {
	defer r.lock()()
	var sum int64
	for i := range r.store.movements {
		if r.store.movements[i].ItemID == itemID {
			sum += r.store.movements[i].Delta
		}
	}
	return sum, nil
}

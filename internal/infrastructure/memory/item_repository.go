package memory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository en memoria.
// inTx=true significa que el TxRunner ya sostiene el lock del store.
type ItemRepo struct {
	store *Store
	inTx  bool
}

// NewItemRepository construye el adaptador fuera de transacción.
func NewItemRepository(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

func (r *ItemRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create persiste un nuevo artículo. Falla con ErrDuplicateCode si el código existe.
func (r *ItemRepo) Create(item *entity.Item) error {
	defer r.lock()()
	if _, ok := r.store.codeIndex[item.Code]; ok {
		return domain.ErrDuplicateCode
	}
	r.store.items[item.ID] = *item
	r.store.codeIndex[item.Code] = item.ID
	return nil
}

// GetByID obtiene un artículo por ID (copia; nil si no existe).
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	defer r.lock()()
	item, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// GetByCode obtiene un artículo por código (nil si no existe).
func (r *ItemRepo) GetByCode(code string) (*entity.Item, error) {
	defer r.lock()()
	id, ok := r.store.codeIndex[code]
	if !ok {
		return nil, nil
	}
	item := r.store.items[id]
	return &item, nil
}

// GetForUpdate en memoria equivale a GetByID: el lock global del TxRunner ya
// excluye a cualquier otro escritor.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

// Update reemplaza los campos de catálogo. No toca Quantity ni Code.
func (r *ItemRepo) Update(item *entity.Item) error {
	defer r.lock()()
	current, ok := r.store.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *item
	updated.Code = current.Code
	updated.Quantity = current.Quantity
	r.store.items[item.ID] = updated
	return nil
}

// UpdateQuantity escribe la cantidad en caché (reservado al motor del libro).
func (r *ItemRepo) UpdateQuantity(id string, quantity int64) error {
	defer r.lock()()
	item, ok := r.store.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Quantity = quantity
	r.store.items[id] = item
	return nil
}

// List filtra por substring case-insensitive de categoría/ubicación y piso de
// cantidad, ordenado por código ascendente. Limit <= 0 = sin límite.
func (r *ItemRepo) List(filter repository.ItemFilter) ([]*entity.Item, error) {
	defer r.lock()()
	var out []*entity.Item
	for _, item := range r.store.items {
		if filter.Category != "" && !strings.Contains(strings.ToLower(item.Category), strings.ToLower(filter.Category)) {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(item.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if item.Quantity < filter.MinQuantity {
			continue
		}
		it := item
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, filter.Limit, filter.Offset), nil
}

// ListLowStock devuelve artículos con Quantity <= umbral, ordenado por código.
func (r *ItemRepo) ListLowStock(thresholdOverride *int64) ([]*entity.Item, error) {
	defer r.lock()()
	var out []*entity.Item
	for _, item := range r.store.items {
		threshold := item.ReorderThreshold
		if thresholdOverride != nil {
			threshold = *thresholdOverride
		}
		if item.Quantity <= threshold {
			it := item
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// MaxCodeNumber devuelve el mayor sufijo numérico de los códigos "ITM-NNNN".
func (r *ItemRepo) MaxCodeNumber() (int64, error) {
	defer r.lock()()
	var max int64
	for code := range r.store.codeIndex {
		if !strings.HasPrefix(code, entity.ItemCodePrefix) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(code, entity.ItemCodePrefix), 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// Delete elimina el artículo. Sus movimientos se conservan (libro append-only).
func (r *ItemRepo) Delete(id string) error {
	defer r.lock()()
	item, ok := r.store.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.store.codeIndex, item.Code)
	delete(r.store.items, id)
	return nil
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

package memory

import (
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository en memoria.
type SupplierRepo struct {
	store *Store
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(store *Store) *SupplierRepo {
	return &SupplierRepo{store: store}
}

// Create persiste un proveedor. Falla con ErrDuplicate si el nombre existe.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.nameIndex[supplier.Name]; ok {
		return domain.ErrDuplicate
	}
	r.store.suppliers[supplier.ID] = *supplier
	r.store.nameIndex[supplier.Name] = supplier.ID
	return nil
}

// GetByID obtiene un proveedor por ID (nil si no existe).
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// GetByName obtiene un proveedor por nombre (nil si no existe).
func (r *SupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id, ok := r.store.nameIndex[name]
	if !ok {
		return nil, nil
	}
	s := r.store.suppliers[id]
	return &s, nil
}

// Update reemplaza el proveedor, manteniendo el índice por nombre.
func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.suppliers[supplier.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Name != supplier.Name {
		if _, taken := r.store.nameIndex[supplier.Name]; taken {
			return domain.ErrDuplicate
		}
		delete(r.store.nameIndex, current.Name)
		r.store.nameIndex[supplier.Name] = supplier.ID
	}
	r.store.suppliers[supplier.ID] = *supplier
	return nil
}

// List lista proveedores ordenados por nombre.
func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Supplier, 0, len(r.store.suppliers))
	for _, s := range r.store.suppliers {
		sc := s
		out = append(out, &sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// Delete elimina un proveedor por ID.
func (r *SupplierRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.suppliers[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.store.nameIndex, s.Name)
	delete(r.store.suppliers, id)
	return nil
}

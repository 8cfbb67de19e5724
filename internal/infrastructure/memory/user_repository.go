package memory

import (
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository en memoria.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el adaptador.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// Create persiste un usuario. Falla con ErrEmailAlreadyExists si el email existe.
func (r *UserRepo) Create(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.emailIndex[user.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.store.users[user.ID] = *user
	r.store.emailIndex[user.Email] = user.ID
	return nil
}

// GetByID obtiene un usuario por ID (nil si no existe).
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmail obtiene un usuario por email (nil si no existe).
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id, ok := r.store.emailIndex[email]
	if !ok {
		return nil, nil
	}
	u := r.store.users[id]
	return &u, nil
}

// Update reemplaza el usuario, manteniendo el índice por email.
func (r *UserRepo) Update(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Email != user.Email {
		if _, taken := r.store.emailIndex[user.Email]; taken {
			return domain.ErrEmailAlreadyExists
		}
		delete(r.store.emailIndex, current.Email)
		r.store.emailIndex[user.Email] = user.ID
	}
	r.store.users[user.ID] = *user
	return nil
}

// List lista usuarios ordenados por email.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		uc := u
		out = append(out, &uc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return paginate(out, limit, offset), nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.store.emailIndex, u.Email)
	delete(r.store.users, id)
	return nil
}

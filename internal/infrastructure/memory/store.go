// Package memory implementa los puertos de persistencia sobre tablas en memoria.
// Es el backend de la variante volátil y el doble de pruebas de los casos de uso.
//
// Modelo de un solo escritor explícito: TxRunner toma el mutex global durante
// toda la secuencia leer-validar-escribir-apendear y revierte a un snapshot si
// el callback falla, de modo que cantidad y libro se confirman juntos o ninguno.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Store contiene las tablas en memoria. Cero valor no utilizable: usar NewStore.
type Store struct {
	mu sync.Mutex

	items       map[string]entity.Item // por ID; se guardan copias, nunca aliases
	codeIndex   map[string]string      // code -> ID
	movements   []entity.Movement      // append-only, en orden de inserción
	nextMovID   int64
	suppliers   map[string]entity.Supplier
	nameIndex   map[string]string // supplier name -> ID
	users       map[string]entity.User
	emailIndex  map[string]string // email -> ID
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		items:      make(map[string]entity.Item),
		codeIndex:  make(map[string]string),
		nextMovID:  0,
		suppliers:  make(map[string]entity.Supplier),
		nameIndex:  make(map[string]string),
		users:      make(map[string]entity.User),
		emailIndex: make(map[string]string),
	}
}

// snapshot copia el estado mutable para poder revertir una transacción fallida.
// Los movimientos son inmutables tras crearse, así que basta copiar el slice.
type snapshot struct {
	items     map[string]entity.Item
	codeIndex map[string]string
	movements []entity.Movement
	nextMovID int64
}

func (s *Store) takeSnapshot() snapshot {
	items := make(map[string]entity.Item, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	codeIndex := make(map[string]string, len(s.codeIndex))
	for k, v := range s.codeIndex {
		codeIndex[k] = v
	}
	movements := make([]entity.Movement, len(s.movements))
	copy(movements, s.movements)
	return snapshot{
		items:     items,
		codeIndex: codeIndex,
		movements: movements,
		nextMovID: s.nextMovID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.items = snap.items
	s.codeIndex = snap.codeIndex
	s.movements = snap.movements
	s.nextMovID = snap.nextMovID
}

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks bajo el mutex global del Store con rollback por snapshot.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el lock, ejecuta fn con repos atados al estado bloqueado y revierte
// al snapshot previo si fn devuelve error.
func (r *TxRunner) Run(_ context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.takeSnapshot()
	itemRepo := &ItemRepo{store: r.store, inTx: true}
	movRepo := &MovementRepo{store: r.store, inTx: true}

	if err := fn(itemRepo, movRepo); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "almacen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden cronológico del libro sobre timestamps TEXT
// ──────────────────────────────────────────────────────────────────────────────

// Los timestamps se guardan como TEXT y el ORDER BY es lexicográfico: con
// fracciones de segundo de distinta cantidad de dígitos, el orden solo es
// cronológico si el formato almacenado es de ancho fijo.
func TestMovementList_FraccionesDesigualesOrdenanCronologicamente(t *testing.T) {
	store := newTestStore(t)
	repo := NewMovementRepository(store)

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	older := &entity.Movement{
		ItemID: "a1", Kind: entity.MovementKindPURCHASE, Delta: 5,
		Party: "ACME", CreatedAt: base.Add(500 * time.Millisecond),
	}
	newer := &entity.Movement{
		ItemID: "a1", Kind: entity.MovementKindDISPATCH, Delta: -1,
		Party: "cliente-1", CreatedAt: base.Add(550 * time.Millisecond),
	}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	list, err := repo.List(repository.MovementFilter{ItemID: "a1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "el más reciente debe ir primero")
	assert.Equal(t, older.ID, list[1].ID)
}

// formatTime debe producir cadenas comparables: orden lexicográfico igual a
// orden cronológico, y round-trip sin pérdida por parseTime.
func TestFormatTime_AnchoFijoComparable(t *testing.T) {
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	a := formatTime(base.Add(500 * time.Millisecond))
	b := formatTime(base.Add(550 * time.Millisecond))

	assert.Less(t, a, b, "el instante anterior debe ordenar antes como cadena")
	assert.Len(t, a, len(b), "mismo ancho para todos los instantes")

	parsed, err := parseTime(a)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(base.Add(500*time.Millisecond)))
}

// Los rangos from/to de los reportes comparan created_at como TEXT; deben
// cortar correctamente también en fronteras de sub-segundo.
func TestDailyDispatchTotals_RangoConFronteraDeSubSegundo(t *testing.T) {
	store := newTestStore(t)
	repo := NewMovementRepository(store)
	reports := NewReportRepository(store)
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(&entity.Movement{
		ItemID: "a1", Kind: entity.MovementKindDISPATCH, Delta: -3,
		Party: "cliente-1", CreatedAt: base.Add(500 * time.Millisecond),
	}))
	require.NoError(t, repo.Create(&entity.Movement{
		ItemID: "a1", Kind: entity.MovementKindDISPATCH, Delta: -4,
		Party: "cliente-1", CreatedAt: base.Add(550 * time.Millisecond),
	}))

	// from entre ambos movimientos: solo el segundo entra al rango.
	from := base.Add(525 * time.Millisecond)
	rows, err := reports.DailyDispatchTotals(ctx, &from, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(4), rows[0].Total)

	// Sin rango: ambos suman en el mismo día calendario.
	rows, err = reports.DailyDispatchTotals(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].Total)
}

package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func newItemFixture(t *testing.T) (*usecase.ItemUseCase, repository.ItemRepository, repository.MovementRepository) {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	movRepo := memory.NewMovementRepository(store)
	uc := usecase.NewItemUseCase(itemRepo, memory.NewTxRunner(store))
	return uc, itemRepo, movRepo
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Crear con cantidad inicial registra el INITIAL en el libro, atómicamente.
func TestItemCreate_ConCantidadInicialRegistraINITIAL(t *testing.T) {
	uc, _, movRepo := newItemFixture(t)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateItemRequest{
		Name:            "Tornillo M8",
		Category:        "ferretería",
		UnitPrice:       decimal.NewFromFloat(0.25),
		InitialQuantity: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), out.Quantity)

	movs, err := movRepo.List(repository.MovementFilter{ItemID: out.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindINITIAL, movs[0].Kind)
	assert.Equal(t, int64(50), movs[0].Delta)
	assert.Equal(t, "system", movs[0].Party)
	assert.Equal(t, "user-1", movs[0].CreatedBy)

	sum, err := movRepo.SumDeltaByItem(out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Quantity, sum, "cantidad == suma del libro desde el nacimiento")
}

// Cantidad inicial cero no genera movimiento.
func TestItemCreate_SinCantidadInicialNoHayMovimiento(t *testing.T) {
	uc, _, movRepo := newItemFixture(t)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateItemRequest{Name: "Tuerca M8"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Quantity)

	movs, err := movRepo.List(repository.MovementFilter{ItemID: out.ID})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

// Código duplicado se rechaza y el primer artículo queda intacto.
func TestItemCreate_CodigoDuplicadoRechazado(t *testing.T) {
	uc, itemRepo, _ := newItemFixture(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, "user-1", dto.CreateItemRequest{
		Code: "ITM-0100", Name: "Original", InitialQuantity: 5,
	})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "user-1", dto.CreateItemRequest{
		Code: "ITM-0100", Name: "Impostor", InitialQuantity: 99,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	got, err := itemRepo.GetByCode("ITM-0100")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Original", got.Name, "el primer artículo no debe cambiar")
	assert.Equal(t, int64(5), got.Quantity)
}

// Sin código se autogenera el siguiente "ITM-NNNN".
func TestItemCreate_CodigoAutogenerado(t *testing.T) {
	uc, _, _ := newItemFixture(t)
	ctx := context.Background()

	a, err := uc.Create(ctx, "u", dto.CreateItemRequest{Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "ITM-0001", a.Code)

	_, err = uc.Create(ctx, "u", dto.CreateItemRequest{Code: "ITM-0007", Name: "B"})
	require.NoError(t, err)

	c, err := uc.Create(ctx, "u", dto.CreateItemRequest{Name: "C"})
	require.NoError(t, err)
	assert.Equal(t, "ITM-0008", c.Code, "continúa desde el mayor sufijo existente")
}

// Validaciones de entrada.
func TestItemCreate_EntradasInvalidas(t *testing.T) {
	uc, _, _ := newItemFixture(t)
	ctx := context.Background()

	cases := []dto.CreateItemRequest{
		{Name: "   "},
		{Name: "X", UnitPrice: decimal.NewFromInt(-1)},
		{Name: "X", ReorderThreshold: -1},
		{Name: "X", InitialQuantity: -5},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, "u", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

// La edición de catálogo nunca toca cantidad ni código.
func TestItemUpdate_NuncaTocaCantidadNiCodigo(t *testing.T) {
	uc, itemRepo, _ := newItemFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "u", dto.CreateItemRequest{
		Name: "Cable", InitialQuantity: 30, UnitPrice: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	out, err := uc.Update(created.ID, dto.UpdateItemRequest{
		Name:             ptr("Cable UTP"),
		UnitPrice:        ptr(decimal.NewFromInt(3)),
		ReorderThreshold: ptr(int64(10)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cable UTP", out.Name)
	assert.Equal(t, created.Code, out.Code)
	assert.Equal(t, int64(30), out.Quantity)

	got, err := itemRepo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.Quantity)
	assert.Equal(t, created.Code, got.Code)
}

func TestItemUpdate_Inexistente(t *testing.T) {
	uc, _, _ := newItemFixture(t)
	out, err := uc.Update("nope", dto.UpdateItemRequest{Name: ptr("X")})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// LowStock: frontera inclusiva
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStock_FronteraInclusiva(t *testing.T) {
	uc, _, _ := newItemFixture(t)
	ctx := context.Background()

	mk := func(name string, qty, threshold int64) {
		_, err := uc.Create(ctx, "u", dto.CreateItemRequest{
			Name: name, InitialQuantity: qty, ReorderThreshold: threshold,
		})
		require.NoError(t, err)
	}
	mk("bajo", 4, 5)     // por debajo del umbral
	mk("justo", 5, 5)    // exactamente en el umbral: incluido
	mk("sobrado", 6, 5)  // por encima: excluido

	out, err := uc.LowStock(nil)
	require.NoError(t, err)
	names := make([]string, 0, len(out))
	for _, it := range out {
		names = append(names, it.Name)
	}
	assert.ElementsMatch(t, []string{"bajo", "justo"}, names)

	// Umbral global reemplaza el de cada artículo.
	all, err := uc.LowStock(ptr(int64(6)))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = uc.LowStock(ptr(int64(-1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete: el libro se conserva
// ──────────────────────────────────────────────────────────────────────────────

func TestItemDelete_ConservaElLibro(t *testing.T) {
	uc, _, movRepo := newItemFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "u", dto.CreateItemRequest{Name: "Efímero", InitialQuantity: 3})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(created.ID))

	out, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, out)

	movs, err := movRepo.List(repository.MovementFilter{ItemID: created.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el historial sobrevive a la eliminación del artículo")

	assert.ErrorIs(t, uc.Delete(created.ID), domain.ErrNotFound)
}

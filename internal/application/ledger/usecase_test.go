package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
	txRunner ledger.TxRunner
	adjustUC *ledger.AdjustUseCase
	auditUC  *ledger.AuditUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	movRepo := memory.NewMovementRepository(store)
	txRunner := memory.NewTxRunner(store)
	return &fixture{
		store:    store,
		itemRepo: itemRepo,
		movRepo:  movRepo,
		txRunner: txRunner,
		adjustUC: ledger.NewAdjustUseCase(txRunner, movRepo),
		auditUC:  ledger.NewAuditUseCase(txRunner, itemRepo, movRepo),
	}
}

// seedItem crea un artículo con cantidad inicial y su movimiento INITIAL,
// como lo haría la creación de catálogo.
func (f *fixture) seedItem(t *testing.T, id string, initial int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.itemRepo.Create(&entity.Item{
		ID:        id,
		Code:      "ITM-" + id,
		Name:      "artículo " + id,
		UnitPrice: decimal.NewFromInt(10),
		Quantity:  initial,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	if initial != 0 {
		require.NoError(t, f.movRepo.Create(&entity.Movement{
			ItemID:    id,
			Kind:      entity.MovementKindINITIAL,
			Delta:     initial,
			Party:     "system",
			CreatedAt: now,
		}))
	}
}

// requireConsistent verifica que la cantidad en caché coincida con la suma del libro.
func (f *fixture) requireConsistent(t *testing.T, itemID string) {
	t.Helper()
	entry, err := f.auditUC.Verify(itemID)
	require.NoError(t, err)
	assert.True(t, entry.Consistent,
		"cantidad (%d) debe coincidir con la suma del libro (%d)", entry.Quantity, entry.LedgerSum)
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust: consistencia cantidad vs libro
// ──────────────────────────────────────────────────────────────────────────────

// La cantidad en caché debe igualar la suma de deltas tras cualquier secuencia
// de movimientos válidos.
func TestAdjust_CantidadIgualaSumaDelLibro(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 10)
	ctx := context.Background()

	steps := []ledger.AdjustInput{
		{ItemID: "a1", Kind: entity.MovementKindPURCHASE, Quantity: 5, Party: "ACME"},
		{ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 3, Party: "cliente-1"},
		{ItemID: "a1", Kind: entity.MovementKindADJUSTMENT, Quantity: -2, Note: "merma"},
		{ItemID: "a1", Kind: entity.MovementKindPURCHASE, Quantity: 7, Party: "ACME"},
	}
	for _, in := range steps {
		_, err := f.adjustUC.Adjust(ctx, in)
		require.NoError(t, err)
	}

	item, err := f.itemRepo.GetByID("a1")
	require.NoError(t, err)
	assert.Equal(t, int64(17), item.Quantity, "10 +5 -3 -2 +7 = 17")
	f.requireConsistent(t, "a1")
}

// DISPATCH lleva magnitud positiva y descuenta; el delta registrado es negativo.
func TestAdjust_DispatchNiegaElDelta(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 10)

	mov, err := f.adjustUC.Adjust(context.Background(), ledger.AdjustInput{
		ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 4, Party: "cliente-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), mov.Delta)

	item, err := f.itemRepo.GetByID("a1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), item.Quantity)
}

// Un movimiento que dejaría el stock negativo se rechaza sin mutar nada:
// ni cantidad ni libro.
func TestAdjust_StockNegativoRechazadoSinMutacion(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 5)
	ctx := context.Background()

	before, err := f.movRepo.List(repository.MovementFilter{ItemID: "a1"})
	require.NoError(t, err)

	_, err = f.adjustUC.Adjust(ctx, ledger.AdjustInput{
		ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 6, Party: "cliente-1",
	})
	assert.ErrorIs(t, err, domain.ErrNegativeStock)

	item, err := f.itemRepo.GetByID("a1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity, "la cantidad no debe cambiar")

	after, err := f.movRepo.List(repository.MovementFilter{ItemID: "a1"})
	require.NoError(t, err)
	assert.Len(t, after, len(before), "el libro no debe crecer")
	f.requireConsistent(t, "a1")
}

// Magnitudes inválidas en la frontera: cero o negativas para PURCHASE/DISPATCH,
// cero para ADJUSTMENT, tipo desconocido.
func TestAdjust_ValidacionDeEntrada(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 5)
	ctx := context.Background()

	cases := []struct {
		name string
		in   ledger.AdjustInput
		want error
	}{
		{"purchase cero", ledger.AdjustInput{ItemID: "a1", Kind: entity.MovementKindPURCHASE, Quantity: 0}, domain.ErrInvalidDelta},
		{"purchase negativa", ledger.AdjustInput{ItemID: "a1", Kind: entity.MovementKindPURCHASE, Quantity: -3}, domain.ErrInvalidDelta},
		{"dispatch cero", ledger.AdjustInput{ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 0}, domain.ErrInvalidDelta},
		{"adjustment cero", ledger.AdjustInput{ItemID: "a1", Kind: entity.MovementKindADJUSTMENT, Quantity: 0}, domain.ErrInvalidDelta},
		{"tipo desconocido", ledger.AdjustInput{ItemID: "a1", Kind: "TRANSFER", Quantity: 1}, domain.ErrInvalidInput},
		{"initial no permitido", ledger.AdjustInput{ItemID: "a1", Kind: entity.MovementKindINITIAL, Quantity: 1}, domain.ErrInvalidInput},
		{"sin item", ledger.AdjustInput{Kind: entity.MovementKindPURCHASE, Quantity: 1}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.adjustUC.Adjust(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	item, err := f.itemRepo.GetByID("a1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity, "ningún rechazo debe mutar la cantidad")
}

// Artículo inexistente.
func TestAdjust_ItemInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjustUC.Adjust(context.Background(), ledger.AdjustInput{
		ItemID: "nope", Kind: entity.MovementKindPURCHASE, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad: fallo a mitad de la transacción
// ──────────────────────────────────────────────────────────────────────────────

var errDiscoLleno = errors.New("disco lleno")

// failingMovRepo falla en Create; el resto delega.
type failingMovRepo struct {
	repository.MovementRepository
}

func (f failingMovRepo) Create(*entity.Movement) error { return errDiscoLleno }

// failingTxRunner envuelve el runner real inyectando un movRepo que falla,
// simulando un fallo de almacenamiento tras actualizar la cantidad.
type failingTxRunner struct {
	inner ledger.TxRunner
}

func (f *failingTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	return f.inner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		return fn(itemRepo, failingMovRepo{movRepo})
	})
}

// Si el apendeo del movimiento falla después de escribir la cantidad, la
// transacción revierte y cantidad == suma del libro.
func TestAdjust_FalloAMitad_RevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 10)

	uc := ledger.NewAdjustUseCase(&failingTxRunner{inner: f.txRunner}, f.movRepo)
	_, err := uc.Adjust(context.Background(), ledger.AdjustInput{
		ItemID: "a1", Kind: entity.MovementKindPURCHASE, Quantity: 5, Party: "ACME",
	})
	require.ErrorIs(t, err, errDiscoLleno)

	item, err := f.itemRepo.GetByID("a1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.Quantity, "la cantidad debe revertirse al valor previo")
	f.requireConsistent(t, "a1")
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría: detección y reparación de desvíos
// ──────────────────────────────────────────────────────────────────────────────

func TestAudit_DetectaYReparaDesvio(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 10)

	// Desvío sembrado: escritura directa de la caché sin movimiento.
	require.NoError(t, f.itemRepo.UpdateQuantity("a1", 99))

	entry, err := f.auditUC.Verify("a1")
	require.NoError(t, err)
	assert.False(t, entry.Consistent)
	assert.Equal(t, int64(99), entry.Quantity)
	assert.Equal(t, int64(10), entry.LedgerSum)

	repaired, err := f.auditUC.Repair(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, repaired.Consistent)
	assert.Equal(t, int64(10), repaired.Quantity, "el libro manda")

	f.requireConsistent(t, "a1")
}

func TestAudit_VerifyAllCubreElCatalogo(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 10)
	f.seedItem(t, "a2", 0)

	entries, err := f.auditUC.VerifyAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.Consistent, "artículo %s", e.Code)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// History: orden más reciente primero
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_MasRecientePrimeroConDesempatePorID(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 100)
	ctx := context.Background()

	// Movimientos en ráfaga: timestamps muy cercanos o iguales, el ID desempata.
	for i := 0; i < 5; i++ {
		_, err := f.adjustUC.Adjust(ctx, ledger.AdjustInput{
			ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 1, Party: "cliente-1",
		})
		require.NoError(t, err)
	}

	out, err := f.adjustUC.History(dto.HistoryRequest{ItemID: "a1"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out.Items), 5)

	for i := 1; i < len(out.Items); i++ {
		prev, cur := out.Items[i-1], out.Items[i]
		require.False(t, prev.CreatedAt.Before(cur.CreatedAt),
			"orden por CreatedAt descendente")
		if prev.CreatedAt.Equal(cur.CreatedAt) {
			assert.Greater(t, prev.ID, cur.ID, "desempate por ID descendente")
		}
	}
}

func TestHistory_FiltraPorTipo(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 10)
	ctx := context.Background()

	_, err := f.adjustUC.Adjust(ctx, ledger.AdjustInput{ItemID: "a1", Kind: entity.MovementKindPURCHASE, Quantity: 2, Party: "ACME"})
	require.NoError(t, err)
	_, err = f.adjustUC.Adjust(ctx, ledger.AdjustInput{ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 1})
	require.NoError(t, err)

	out, err := f.adjustUC.History(dto.HistoryRequest{ItemID: "a1", Kind: entity.MovementKindPURCHASE})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.MovementKindPURCHASE, out.Items[0].Kind)

	_, err = f.adjustUC.History(dto.HistoryRequest{Kind: "NOPE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario punta a punta: compra, sobre-despacho rechazado, despacho válido
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_CompraSobreDespachoDespacho(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", 0)
	ctx := context.Background()

	_, err := f.adjustUC.Adjust(ctx, ledger.AdjustInput{
		ItemID: "a1", Kind: entity.MovementKindPURCHASE, Quantity: 8, Party: "ACME",
	})
	require.NoError(t, err)

	_, err = f.adjustUC.Adjust(ctx, ledger.AdjustInput{
		ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 9, Party: "cliente-1",
	})
	assert.ErrorIs(t, err, domain.ErrNegativeStock)

	_, err = f.adjustUC.Adjust(ctx, ledger.AdjustInput{
		ItemID: "a1", Kind: entity.MovementKindDISPATCH, Quantity: 8, Party: "cliente-1",
	})
	require.NoError(t, err)

	item, err := f.itemRepo.GetByID("a1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity)

	sum, err := f.movRepo.SumDeltaByItem("a1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum, "el rechazo no debe dejar rastro en el libro")
	f.requireConsistent(t, "a1")
}

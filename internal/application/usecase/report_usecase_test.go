package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func TestReportes_AgregadosDelLibroYCatalogo(t *testing.T) {
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	movRepo := memory.NewMovementRepository(store)
	txRunner := memory.NewTxRunner(store)

	itemUC := usecase.NewItemUseCase(itemRepo, txRunner)
	adjustUC := ledger.NewAdjustUseCase(txRunner, movRepo)
	reportUC := usecase.NewReportUseCase(memory.NewReportRepository(store))
	ctx := context.Background()

	a, err := itemUC.Create(ctx, "u", dto.CreateItemRequest{
		Name: "A", InitialQuantity: 100, UnitPrice: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	b, err := itemUC.Create(ctx, "u", dto.CreateItemRequest{
		Name: "B", InitialQuantity: 10, UnitPrice: decimal.NewFromFloat(1.5),
	})
	require.NoError(t, err)

	// Compras a dos contrapartes y despachos el mismo día.
	mustAdjust := func(in ledger.AdjustInput) {
		t.Helper()
		_, err := adjustUC.Adjust(ctx, in)
		require.NoError(t, err)
	}
	mustAdjust(ledger.AdjustInput{ItemID: a.ID, Kind: entity.MovementKindPURCHASE, Quantity: 20, Party: "ACME"})
	mustAdjust(ledger.AdjustInput{ItemID: b.ID, Kind: entity.MovementKindPURCHASE, Quantity: 5, Party: "ACME"})
	mustAdjust(ledger.AdjustInput{ItemID: a.ID, Kind: entity.MovementKindPURCHASE, Quantity: 3, Party: "Globex"})
	mustAdjust(ledger.AdjustInput{ItemID: a.ID, Kind: entity.MovementKindDISPATCH, Quantity: 7, Party: "cliente-1"})
	mustAdjust(ledger.AdjustInput{ItemID: b.ID, Kind: entity.MovementKindDISPATCH, Quantity: 2, Party: "cliente-2"})

	// Despachos agrupados por día: todo ocurrió hoy, total 9 en valor absoluto.
	dispatch, err := reportUC.DailyDispatchTotals(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, dispatch, 1)
	assert.Equal(t, int64(9), dispatch[0].Total)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, dispatch[0].Day)

	// Compras por contraparte, mayor total primero.
	parties, err := reportUC.PurchaseTotalsByParty(ctx)
	require.NoError(t, err)
	require.Len(t, parties, 2)
	assert.Equal(t, dto.PartyTotalDTO{Party: "ACME", Total: 25}, parties[0])
	assert.Equal(t, dto.PartyTotalDTO{Party: "Globex", Total: 3}, parties[1])

	// Valor total: A = (100+20+3-7)*2 = 232; B = (10+5-2)*1.5 = 19.5
	value, err := reportUC.TotalInventoryValue(ctx)
	require.NoError(t, err)
	assert.True(t, value.TotalValue.Equal(decimal.NewFromFloat(251.5)),
		"valor esperado 251.5, obtenido %s", value.TotalValue)
}

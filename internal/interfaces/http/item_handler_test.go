package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
)

// buildItemsApp arma una app mínima con el catálogo sembrado (sin middlewares,
// aquí solo interesa el parseo de la query).
func buildItemsApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	itemUC := usecase.NewItemUseCase(memory.NewItemRepository(store), memory.NewTxRunner(store))

	_, err := itemUC.Create(context.Background(), "u", dto.CreateItemRequest{
		Name: "Tornillo", InitialQuantity: 4, ReorderThreshold: 5,
	})
	require.NoError(t, err)
	_, err = itemUC.Create(context.Background(), "u", dto.CreateItemRequest{
		Name: "Cable", InitialQuantity: 40, ReorderThreshold: 5,
	})
	require.NoError(t, err)

	app := fiber.New()
	handler := apphttp.NewItemHandler(itemUC)
	app.Get("/items/low-stock", handler.LowStock)
	return app
}

func TestLowStock_ThresholdNoNumerico_Retorna400(t *testing.T) {
	app := buildItemsApp(t)

	req := httptest.NewRequest(http.MethodGet, "/items/low-stock?threshold=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode,
		"un threshold malformado no debe degradar en silencio a un override de cero")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_QUERY")
}

func TestLowStock_ThresholdValidoYPorDefecto(t *testing.T) {
	app := buildItemsApp(t)

	decode := func(resp *http.Response) []dto.ItemResponse {
		t.Helper()
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var items []dto.ItemResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		return items
	}

	// Sin threshold: umbral propio de cada artículo (solo el de cantidad 4).
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/low-stock", nil), -1)
	require.NoError(t, err)
	items := decode(resp)
	require.Len(t, items, 1)
	assert.Equal(t, "Tornillo", items[0].Name)

	// Override global 40: entran ambos (frontera inclusiva).
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items/low-stock?threshold=40", nil), -1)
	require.NoError(t, err)
	assert.Len(t, decode(resp), 2)
}

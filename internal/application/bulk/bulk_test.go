package bulk_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/bulk"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func newBulkFixture(t *testing.T) (*bulk.ImportUseCase, *bulk.ExportUseCase, repository.ItemRepository, repository.MovementRepository) {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	movRepo := memory.NewMovementRepository(store)
	txRunner := memory.NewTxRunner(store)
	return bulk.NewImportUseCase(txRunner), bulk.NewExportUseCase(itemRepo), itemRepo, movRepo
}

const validCSV = `Item ID,Name,Category,Quantity,Unit Price,Location
ITM-0001,Tornillo M8,ferretería,50,0.25,A-1
ITM-0002,Tuerca M8,ferretería,0,0.10,A-2
ITM-0003,Cable UTP,redes,12,3.50,B-1
`

// ──────────────────────────────────────────────────────────────────────────────
// Import
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_CreaArticulosYMovimientosINITIAL(t *testing.T) {
	importUC, _, itemRepo, movRepo := newBulkFixture(t)

	res, err := importUC.Import(context.Background(), "user-1", strings.NewReader(validCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)

	item, err := itemRepo.GetByCode("ITM-0001")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(50), item.Quantity)
	assert.Equal(t, "0.25", item.UnitPrice.String())
	assert.Equal(t, "A-1", item.Location)

	movs, err := movRepo.List(repository.MovementFilter{ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindINITIAL, movs[0].Kind)
	assert.Equal(t, "import", movs[0].Party)

	// Cantidad cero: artículo sin movimiento.
	zero, err := itemRepo.GetByCode("ITM-0002")
	require.NoError(t, err)
	require.NotNil(t, zero)
	zeroMovs, err := movRepo.List(repository.MovementFilter{ItemID: zero.ID})
	require.NoError(t, err)
	assert.Empty(t, zeroMovs)
}

// Columna faltante rechaza el archivo completo, sin importar nada.
func TestImport_ColumnaFaltanteRechazaArchivo(t *testing.T) {
	importUC, _, itemRepo, _ := newBulkFixture(t)

	csv := "Item ID,Name,Quantity,Unit Price,Location\nITM-0001,X,1,1.00,A-1\n"
	_, err := importUC.Import(context.Background(), "u", strings.NewReader(csv))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Category")

	items, err := itemRepo.List(repository.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, items, "nada debe importarse")
}

// Todo-o-nada: una fila inválida a mitad del archivo revierte las anteriores.
func TestImport_TodoONada_FilaInvalidaRevierteTodo(t *testing.T) {
	importUC, _, itemRepo, _ := newBulkFixture(t)

	csv := `Item ID,Name,Category,Quantity,Unit Price,Location
ITM-0001,Bueno,cat,5,1.00,A-1
ITM-0002,Malo,cat,-3,1.00,A-1
`
	_, err := importUC.Import(context.Background(), "u", strings.NewReader(csv))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	items, err := itemRepo.List(repository.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

// Todo-o-nada: código duplicado contra el catálogo existente revierte todo.
func TestImport_TodoONada_CodigoDuplicadoRevierteTodo(t *testing.T) {
	importUC, _, itemRepo, _ := newBulkFixture(t)
	ctx := context.Background()

	_, err := importUC.Import(ctx, "u", strings.NewReader(validCSV))
	require.NoError(t, err)

	csv := `Item ID,Name,Category,Quantity,Unit Price,Location
ITM-0099,Nuevo,cat,5,1.00,C-1
ITM-0001,Repetido,cat,5,1.00,C-2
`
	_, err = importUC.Import(ctx, "u", strings.NewReader(csv))
	require.ErrorIs(t, err, domain.ErrDuplicateCode)

	nuevo, err := itemRepo.GetByCode("ITM-0099")
	require.NoError(t, err)
	assert.Nil(t, nuevo, "la fila válida previa también debe revertirse")

	original, err := itemRepo.GetByCode("ITM-0001")
	require.NoError(t, err)
	require.NotNil(t, original)
	assert.Equal(t, "Tornillo M8", original.Name, "el catálogo existente queda intacto")
}

// El orden de columnas no importa, solo su presencia.
func TestImport_OrdenDeColumnasLibre(t *testing.T) {
	importUC, _, itemRepo, _ := newBulkFixture(t)

	csv := `Location,Unit Price,Quantity,Category,Name,Item ID
B-7,9.99,3,varios,Destornillador,ITM-0042
`
	res, err := importUC.Import(context.Background(), "u", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	item, err := itemRepo.GetByCode("ITM-0042")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Destornillador", item.Name)
	assert.Equal(t, "B-7", item.Location)
}

// ──────────────────────────────────────────────────────────────────────────────
// Export
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_IncluyeTotalValueDerivado(t *testing.T) {
	importUC, exportUC, _, _ := newBulkFixture(t)

	_, err := importUC.Import(context.Background(), "u", strings.NewReader(validCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exportUC.Export(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4, "encabezado + 3 artículos")
	assert.Equal(t, "Item ID,Name,Category,Quantity,Unit Price,Location,Total Value", lines[0])
	// 50 * 0.25 = 12.50
	assert.Equal(t, "ITM-0001,Tornillo M8,ferretería,50,0.25,A-1,12.50", lines[1])
	// 12 * 3.50 = 42.00
	assert.Equal(t, "ITM-0003,Cable UTP,redes,12,3.50,B-1,42.00", lines[3])
}

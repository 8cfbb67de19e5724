// Package bulk implementa la carga y descarga masiva del catálogo en CSV plano.
// Columnas requeridas (en cualquier orden): Item ID, Name, Category, Quantity,
// Unit Price, Location. La exportación agrega la columna derivada Total Value.
package bulk

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// RequiredColumns encabezados obligatorios del CSV de importación.
var RequiredColumns = []string{"Item ID", "Name", "Category", "Quantity", "Unit Price", "Location"}

// ImportResult resumen de una importación.
type ImportResult struct {
	Imported int `json:"imported"`
}

// ImportUseCase importa el catálogo desde CSV. Política todo-o-nada: la
// importación completa corre en una sola transacción y la primera fila inválida
// (o código duplicado) revierte todo.
type ImportUseCase struct {
	txRunner ledger.TxRunner
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner ledger.TxRunner) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner}
}

// Import lee el CSV, valida el encabezado completo y crea artículos con sus
// movimientos INITIAL para cantidades distintas de cero.
func (uc *ImportUseCase) Import(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: encabezado CSV ilegible", domain.ErrInvalidInput)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	type parsedRow struct {
		code, name, category, location string
		quantity                       int64
		unitPrice                      decimal.Decimal
	}
	var rows []parsedRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d ilegible", domain.ErrInvalidInput, line)
		}
		row := parsedRow{
			code:     strings.TrimSpace(record[cols["Item ID"]]),
			name:     strings.TrimSpace(record[cols["Name"]]),
			category: strings.TrimSpace(record[cols["Category"]]),
			location: strings.TrimSpace(record[cols["Location"]]),
		}
		if row.code == "" || row.name == "" {
			return nil, fmt.Errorf("%w: fila %d sin Item ID o Name", domain.ErrInvalidInput, line)
		}
		row.quantity, err = strconv.ParseInt(strings.TrimSpace(record[cols["Quantity"]]), 10, 64)
		if err != nil || row.quantity < 0 {
			return nil, fmt.Errorf("%w: fila %d con Quantity inválida", domain.ErrInvalidInput, line)
		}
		row.unitPrice, err = decimal.NewFromString(strings.TrimSpace(record[cols["Unit Price"]]))
		if err != nil || row.unitPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: fila %d con Unit Price inválido", domain.ErrInvalidInput, line)
		}
		rows = append(rows, row)
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		for _, row := range rows {
			existing, err := itemRepo.GetByCode(row.code)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, row.code)
			}
			item := &entity.Item{
				ID:        uuid.New().String(),
				Code:      row.code,
				Name:      row.name,
				Category:  row.category,
				Location:  row.location,
				UnitPrice: row.unitPrice,
				Quantity:  row.quantity,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := itemRepo.Create(item); err != nil {
				return err
			}
			if row.quantity == 0 {
				continue
			}
			mov := &entity.Movement{
				ItemID:    item.ID,
				Kind:      entity.MovementKindINITIAL,
				Delta:     row.quantity,
				Party:     "import",
				Note:      "carga CSV",
				CreatedAt: now,
				CreatedBy: userID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ImportResult{Imported: len(rows)}, nil
}

// columnIndex valida que estén todas las columnas requeridas y mapea nombre -> índice.
// Falta cualquiera = se rechaza el archivo completo.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: faltan columnas CSV: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return cols, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, category, location, description, unit_price, reorder_threshold, quantity, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre SQLite (usable con db o tx).
type ItemRepo struct {
	q dbtx
}

// NewItemRepository construye el adaptador de persistencia para artículos.
func NewItemRepository(store *Store) *ItemRepo {
	return &ItemRepo{q: store.db}
}

// itemRow captura las columnas crudas antes de convertir precio y timestamps.
type itemRow struct {
	unitPrice string
	createdAt string
	updatedAt string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.Item, error) {
	var (
		i   entity.Item
		raw itemRow
	)
	err := row.Scan(
		&i.ID, &i.Code, &i.Name, &i.Category, &i.Location, &i.Description,
		&raw.unitPrice, &i.ReorderThreshold, &i.Quantity, &raw.createdAt, &raw.updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := fillItem(&i, raw); err != nil {
		return nil, err
	}
	return &i, nil
}

func fillItem(i *entity.Item, raw itemRow) error {
	price, err := decimal.NewFromString(raw.unitPrice)
	if err != nil {
		return fmt.Errorf("parse unit_price %q: %w", raw.unitPrice, err)
	}
	i.UnitPrice = price
	if i.CreatedAt, err = parseTime(raw.createdAt); err != nil {
		return err
	}
	if i.UpdatedAt, err = parseTime(raw.updatedAt); err != nil {
		return err
	}
	return nil
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(context.Background(), query,
		item.ID, item.Code, item.Name, item.Category, item.Location, item.Description,
		item.UnitPrice.String(), item.ReorderThreshold, item.Quantity,
		formatTime(item.CreatedAt), formatTime(item.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRowContext(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByCode obtiene un artículo por código.
func (r *ItemRepo) GetByCode(code string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRowContext(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE code = ?`, code))
	if err != nil {
		return nil, fmt.Errorf("get item by code: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el artículo para modificarlo. SQLite serializa escritores
// a nivel de base de datos, así que no hay bloqueo de fila: la transacción basta.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

// Update actualiza campos de catálogo. No permite modificar Quantity ni Code
// (se manejan vía movimientos del libro).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = ?, category = ?, location = ?, description = ?,
			unit_price = ?, reorder_threshold = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.q.ExecContext(context.Background(), query,
		item.Name, item.Category, item.Location, item.Description,
		item.UnitPrice.String(), item.ReorderThreshold, formatTime(item.UpdatedAt), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateQuantity escribe la cantidad en caché (reservado al motor del libro).
func (r *ItemRepo) UpdateQuantity(id string, quantity int64) error {
	_, err := r.q.ExecContext(context.Background(),
		`UPDATE items SET quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	return nil
}

// List filtra por substring case-insensitive y piso de cantidad, ordenado por
// código. Limit <= 0 = sin límite.
func (r *ItemRepo) List(filter repository.ItemFilter) ([]*entity.Item, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		conds = append(conds, "instr(lower(category), lower(?)) > 0")
		args = append(args, filter.Category)
	}
	if filter.Location != "" {
		conds = append(conds, "instr(lower(location), lower(?)) > 0")
		args = append(args, filter.Location)
	}
	if filter.MinQuantity > 0 {
		conds = append(conds, "quantity >= ?")
		args = append(args, filter.MinQuantity)
	}
	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListLowStock devuelve artículos con quantity <= umbral (override o propio).
func (r *ItemRepo) ListLowStock(thresholdOverride *int64) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE quantity <= reorder_threshold ORDER BY code`
	var args []any
	if thresholdOverride != nil {
		query = `SELECT ` + itemColumns + ` FROM items WHERE quantity <= ? ORDER BY code`
		args = append(args, *thresholdOverride)
	}
	rows, err := r.q.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// MaxCodeNumber devuelve el mayor sufijo numérico de los códigos "ITM-NNNN" (0 si no hay).
func (r *ItemRepo) MaxCodeNumber() (int64, error) {
	var max int64
	err := r.q.QueryRowContext(context.Background(),
		`SELECT COALESCE(MAX(CAST(substr(code, 5) AS INTEGER)), 0)
		 FROM items WHERE code LIKE ? AND substr(code, 5) GLOB '[0-9]*'`,
		entity.ItemCodePrefix+"%",
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max code number: %w", err)
	}
	return max, nil
}

// Delete elimina un artículo por ID. Los movimientos no se borran en cascada.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.ExecContext(context.Background(), `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func collectItems(rows *sql.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		var (
			i   entity.Item
			raw itemRow
		)
		if err := rows.Scan(&i.ID, &i.Code, &i.Name, &i.Category, &i.Location, &i.Description,
			&raw.unitPrice, &i.ReorderThreshold, &i.Quantity, &raw.createdAt, &raw.updatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if err := fillItem(&i, raw); err != nil {
			return nil, err
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, category, location, description, unit_price, reorder_threshold, quantity, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	err := row.Scan(
		&i.ID, &i.Code, &i.Name, &i.Category, &i.Location, &i.Description,
		&i.UnitPrice, &i.ReorderThreshold, &i.Quantity, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.Category, item.Location, item.Description,
		item.UnitPrice, item.ReorderThreshold, item.Quantity, item.CreatedAt, item.UpdatedAt,
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
	item, err := scanItem(r.q.QueryRow(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByCode obtiene un artículo por código.
func (r *ItemRepo) GetByCode(code string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE code = $1`, code))
	if err != nil {
		return nil, fmt.Errorf("get item by code: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el artículo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return item, nil
}

// Update actualiza campos de catálogo. No permite modificar Quantity ni Code
// (se manejan vía movimientos del libro).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, category = $3, location = $4, description = $5,
			unit_price = $6, reorder_threshold = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Category, item.Location, item.Description,
		item.UnitPrice, item.ReorderThreshold, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateQuantity escribe la cantidad en caché (reservado al motor del libro).
func (r *ItemRepo) UpdateQuantity(id string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE items SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	return nil
}

// List filtra por substring case-insensitive (ILIKE) y piso de cantidad,
// ordenado por código. Limit <= 0 = sin límite.
func (r *ItemRepo) List(filter repository.ItemFilter) ([]*entity.Item, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, "%"+filter.Category+"%")
		conds = append(conds, fmt.Sprintf("category ILIKE $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		conds = append(conds, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filter.MinQuantity > 0 {
		args = append(args, filter.MinQuantity)
		conds = append(conds, fmt.Sprintf("quantity >= $%d", len(args)))
	}
	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
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
		query = `SELECT ` + itemColumns + ` FROM items WHERE quantity <= $1 ORDER BY code`
		args = append(args, *thresholdOverride)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// MaxCodeNumber devuelve el mayor sufijo numérico de los códigos "ITM-NNNN" (0 si no hay).
func (r *ItemRepo) MaxCodeNumber() (int64, error) {
	var max int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(substring(code from 5)::bigint), 0)
		 FROM items WHERE code ~ '^ITM-[0-9]+$'`,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max code number: %w", err)
	}
	return max, nil
}

// Delete elimina un artículo por ID. Los movimientos no se borran en cascada.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		var i entity.Item
		if err := rows.Scan(&i.ID, &i.Code, &i.Name, &i.Category, &i.Location, &i.Description,
			&i.UnitPrice, &i.ReorderThreshold, &i.Quantity, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, item_id, kind, delta, party, note, created_at, created_by`

// MovementRepo implementación append-only del libro de movimientos sobre SQLite.
type MovementRepo struct {
	q dbtx
}

// NewMovementRepository construye el adaptador del libro de movimientos.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{q: store.db}
}

func scanMovement(row rowScanner) (*entity.Movement, error) {
	var (
		m         entity.Movement
		createdAt string
	)
	err := row.Scan(&m.ID, &m.ItemID, &m.Kind, &m.Delta, &m.Party, &m.Note, &createdAt, &m.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta un movimiento y asigna su ID (AUTOINCREMENT monótono).
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (item_id, kind, delta, party, note, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(context.Background(), query,
		movement.ItemID, movement.Kind, movement.Delta, movement.Party, movement.Note,
		formatTime(movement.CreatedAt), movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("movement last insert id: %w", err)
	}
	movement.ID = id
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRowContext(context.Background(),
		`SELECT `+movementColumns+` FROM movements WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve movimientos ordenados por created_at DESC con desempate por id DESC.
// Limit <= 0 = sin límite.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ItemID != "" {
		conds = append(conds, "item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, filter.Kind)
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var (
			m         entity.Movement
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Kind, &m.Delta, &m.Party, &m.Note,
			&createdAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumDeltaByItem devuelve la suma de deltas de un artículo (0 si no tiene movimientos).
func (r *MovementRepo) SumDeltaByItem(itemID string) (int64, error) {
	var sum int64
	err := r.q.QueryRowContext(context.Background(),
		`SELECT COALESCE(SUM(delta), 0) FROM movements WHERE item_id = ?`, itemID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movement deltas: %w", err)
	}
	return sum, nil
}

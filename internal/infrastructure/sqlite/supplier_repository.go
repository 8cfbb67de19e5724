package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, contact, email, phone, address, created_at, updated_at`

// SupplierRepo implementación de SupplierRepository sobre SQLite.
type SupplierRepo struct {
	q dbtx
}

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(store *Store) *SupplierRepo {
	return &SupplierRepo{q: store.db}
}

func scanSupplier(row rowScanner) (*entity.Supplier, error) {
	var (
		s                    entity.Supplier
		createdAt, updatedAt string
	)
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Phone, &s.Address, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un nuevo proveedor. Nombre con constraint único.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(context.Background(), query,
		supplier.ID, supplier.Name, supplier.Contact, supplier.Email, supplier.Phone,
		supplier.Address, formatTime(supplier.CreatedAt), formatTime(supplier.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRowContext(context.Background(),
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// GetByName obtiene un proveedor por nombre.
func (r *SupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRowContext(context.Background(),
		`SELECT `+supplierColumns+` FROM suppliers WHERE name = ?`, name))
	if err != nil {
		return nil, fmt.Errorf("get supplier by name: %w", err)
	}
	return s, nil
}

// Update actualiza un proveedor existente.
func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = ?, contact = ?, email = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.q.ExecContext(context.Background(), query,
		supplier.Name, supplier.Contact, supplier.Email, supplier.Phone, supplier.Address,
		formatTime(supplier.UpdatedAt), supplier.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// List lista proveedores ordenados por nombre. Limit <= 0 = sin límite.
func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`
	var args []any
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}
	rows, err := r.q.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var (
			s                    entity.Supplier
			createdAt, updatedAt string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Phone, &s.Address,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina un proveedor por ID.
func (r *SupplierRepo) Delete(id string) error {
	_, err := r.q.ExecContext(context.Background(), `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}

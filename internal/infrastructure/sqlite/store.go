// Package sqlite implementa los puertos de persistencia sobre un archivo SQLite
// local (driver puro Go modernc.org/sqlite). Es el backend por defecto: un solo
// proceso, un solo escritor, sin servidor de base de datos.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeFormat es RFC3339 con fracción de ancho fijo (9 dígitos). RFC3339Nano
// recorta los ceros finales y el TEXT resultante deja de ordenar
// cronológicamente ("...00.5Z" > "...00.55Z" en orden lexicográfico); con
// ancho fijo y siempre UTC, ORDER BY y los rangos sobre created_at son correctos.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// schema se aplica en Open; idempotente (IF NOT EXISTS).
const schema = `
CREATE TABLE IF NOT EXISTS items (
	id                TEXT PRIMARY KEY,
	code              TEXT NOT NULL UNIQUE,
	name              TEXT NOT NULL,
	category          TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	unit_price        TEXT NOT NULL DEFAULT '0',
	reorder_threshold INTEGER NOT NULL DEFAULT 0,
	quantity          INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS movements (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	delta      INTEGER NOT NULL,
	party      TEXT NOT NULL DEFAULT '',
	note       TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	created_by TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_movements_item ON movements(item_id);
CREATE INDEX IF NOT EXISTS idx_movements_kind ON movements(kind);

CREATE TABLE IF NOT EXISTS suppliers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	contact    TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'active',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// Store encapsula la conexión SQLite compartida por los repositorios.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) el archivo SQLite y aplica el esquema.
// MaxOpenConns(1) hace explícito el modelo de un solo escritor: todas las
// operaciones se serializan sobre la misma conexión.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ruta del archivo sqlite requerida")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close cierra la base de datos.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB expone la conexión para construir repositorios.
func (s *Store) DB() *sql.DB {
	return s.db
}

// dbtx abstrae *sql.DB y *sql.Tx: los repositorios funcionan igual fuera o
// dentro de una transacción.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// isUniqueViolation detecta violaciones de constraint único de SQLite.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

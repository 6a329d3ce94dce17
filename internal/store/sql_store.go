package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// SQLStore implements RecordStore on database/sql
type SQLStore struct {
	db       *sql.DB
	postgres bool
	mu       sync.Mutex
}

// NewSQLStore opens the database and creates the schema
func NewSQLStore(cfg Config) (*SQLStore, error) {
	dsn := cfg.DSN

	switch cfg.Driver {
	case "sqlite3", "sqlite":
		if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
		}
		if cfg.Driver == "sqlite3" {
			dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
		} else {
			dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
	case "pgx":
	default:
		return nil, mdwerror.New(fmt.Sprintf("unsupported store driver %q", cfg.Driver)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("store.Open")
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLStore{db: db, postgres: cfg.Driver == "pgx"}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			name TEXT NOT NULL,
			name_key TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (model, name_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_model ON records(model)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Create inserts a new record
func (s *SQLStore) Create(ctx context.Context, model, name string, data map[string]interface{}) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(ctx, model, name); err == nil {
		return nil, duplicate("store.Create", model, name)
	} else if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.New().String(),
		Model:     model,
		Name:      strings.TrimSpace(name),
		Data:      copyData(data),
		CreatedAt: now,
		UpdatedAt: now,
	}

	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode record").WithCode(mdwerror.CodeInvalidInput)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO records (id, model, name, name_key, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Model, rec.Name, nameKey(name), string(payload),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, dbError(err, "store.Create")
	}
	return rec, nil
}

// Get returns the record or a NOT_FOUND error
func (s *SQLStore) Get(ctx context.Context, model, name string) (*Record, error) {
	return s.get(ctx, model, name)
}

func (s *SQLStore) get(ctx context.Context, model, name string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, model, name, data, created_at, updated_at FROM records WHERE model = ? AND name_key = ?`),
		model, nameKey(name))

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("store.Get", model, name)
	}
	if err != nil {
		return nil, dbError(err, "store.Get")
	}
	return rec, nil
}

// Update sets one field of a record's data
func (s *SQLStore) Update(ctx context.Context, model, name, field string, value interface{}) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.get(ctx, model, name)
	if err != nil {
		return nil, err
	}

	rec.Data[field] = value
	rec.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode record").WithCode(mdwerror.CodeInvalidInput)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`UPDATE records SET data = ?, updated_at = ? WHERE id = ?`),
		string(payload), rec.UpdatedAt.Format(time.RFC3339Nano), rec.ID)
	if err != nil {
		return nil, dbError(err, "store.Update")
	}
	return rec, nil
}

// Rename moves a record to newName, updating the name columns and the
// key field of its data together
func (s *SQLStore) Rename(ctx context.Context, model, name, newName, keyField string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.get(ctx, model, name)
	if err != nil {
		return nil, err
	}
	if nameKey(newName) != nameKey(name) {
		if _, err := s.get(ctx, model, newName); err == nil {
			return nil, duplicate("store.Rename", model, newName)
		} else if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
			return nil, err
		}
	}

	rec.Name = strings.TrimSpace(newName)
	rec.Data[keyField] = rec.Name
	rec.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode record").WithCode(mdwerror.CodeInvalidInput)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(
		`UPDATE records SET name = ?, name_key = ?, data = ?, updated_at = ? WHERE id = ?`),
		rec.Name, nameKey(newName), string(payload), rec.UpdatedAt.Format(time.RFC3339Nano), rec.ID)
	if err != nil {
		return nil, dbError(err, "store.Rename")
	}
	return rec, nil
}

// Delete removes a record
func (s *SQLStore) Delete(ctx context.Context, model, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM records WHERE model = ? AND name_key = ?`),
		model, nameKey(name))
	if err != nil {
		return dbError(err, "store.Delete")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("store.Delete", model, name)
	}
	return nil
}

// List returns a model's records ordered by name
func (s *SQLStore) List(ctx context.Context, model string) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, model, name, data, created_at, updated_at FROM records WHERE model = ? ORDER BY name_key`), model)
	if err != nil {
		return nil, dbError(err, "store.List")
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, dbError(err, "store.List")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "store.List")
	}
	return records, nil
}

// Count returns the number of records of a model
func (s *SQLStore) Count(ctx context.Context, model string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM records WHERE model = ?`), model).Scan(&n)
	if err != nil {
		return 0, dbError(err, "store.Count")
	}
	return n, nil
}

// PingContext verifies the database connection
func (s *SQLStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec                  Record
		payload              string
		createdAt, updatedAt string
	)
	if err := row.Scan(&rec.ID, &rec.Model, &rec.Name, &payload, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &rec.Data); err != nil {
		return nil, err
	}
	if rec.Data == nil {
		rec.Data = make(map[string]interface{})
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &rec, nil
}

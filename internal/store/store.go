// Package store persists script-managed records in a SQL database.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// Record is one entity of a model, e.g. the ball "Germany"
type Record struct {
	ID        string                 `json:"id"`
	Model     string                 `json:"model"`
	Name      string                 `json:"name"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// RecordStore is the persistence boundary the script commands use.
// Names are matched case-insensitively within a model.
type RecordStore interface {
	Create(ctx context.Context, model, name string, data map[string]interface{}) (*Record, error)
	Get(ctx context.Context, model, name string) (*Record, error)
	Update(ctx context.Context, model, name, field string, value interface{}) (*Record, error)
	// Rename changes a record's name and stores newName under keyField.
	// It fails with DUPLICATE_ENTRY when another record has newName.
	Rename(ctx context.Context, model, name, newName, keyField string) (*Record, error)
	Delete(ctx context.Context, model, name string) error
	List(ctx context.Context, model string) ([]*Record, error)
	Count(ctx context.Context, model string) (int, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Config selects the database driver and data source
type Config struct {
	// Driver is one of "sqlite3", "sqlite" or "pgx"
	Driver string
	DSN    string
}

// Open returns the store for cfg.Driver
func Open(cfg Config) (RecordStore, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	default:
		s, err := NewSQLStore(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func notFound(op, model, name string) error {
	return mdwerror.New(fmt.Sprintf("%s '%s' does not exist", model, name)).
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("model", model).
		WithDetail("name", name)
}

func duplicate(op, model, name string) error {
	return mdwerror.New(fmt.Sprintf("%s '%s' already exists", model, name)).
		WithCode(mdwerror.CodeDuplicateEntry).
		WithOperation(op).
		WithDetail("model", model).
		WithDetail("name", name)
}

func dbError(err error, op string) error {
	return mdwerror.Wrap(err, "database operation failed").
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op)
}

func copyData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

package store

import (
	"context"
	"fmt"

	"github.com/LesleyGao/internship-tracker/internal/config"
	"github.com/LesleyGao/internship-tracker/internal/domain"
)

// Store is the persisted snapshot table. The pipeline writes it as a full
// replacement each run: read everything, clear, append. Clear followed by
// append is not atomic; a failure in between leaves the table cleared.
type Store interface {
	// ReadAllRows returns every data row in insertion order, header excluded.
	ReadAllRows(ctx context.Context) ([][]string, error)

	// EnsureHeader writes the header row if the table is blank.
	EnsureHeader(ctx context.Context, header []string) error

	// ClearRows removes count rows starting at the 1-based table row from
	// (the header is row 1, so the first data row is 2).
	ClearRows(ctx context.Context, from, count int) error

	// AppendRows appends data rows after the current contents. Every row
	// must match the store's schema width.
	AppendRows(ctx context.Context, rows [][]string) error

	Close() error
}

// New opens the configured backend. credsJSON is only consulted by the
// sheets backend.
func New(ctx context.Context, cfg config.Config, schema domain.Schema, credsJSON []byte) (Store, error) {
	switch cfg.Store.Backend {
	case config.StoreSheets:
		return NewSheets(ctx, credsJSON, cfg.Store.SheetID, cfg.Store.Worksheet, schema)
	case config.StoreSQLite:
		return OpenSQLite(cfg.Store.SQLitePath, schema)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

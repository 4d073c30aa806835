// Package store is the boundary to the ledger's tabular backend. It is
// deliberately thin: read-all and append-row only, no updates, no
// deletes, no pagination and no transactional guarantees beyond what the
// backend itself provides. Concurrent appends are last-write-wins.
package store

import (
	"context"
	"fmt"

	"github.com/pav-beep/calorie.app/config"
	"github.com/pav-beep/calorie.app/internal/models"
)

// Store is the ledger backend: a Users table of paid emails and a Logs
// table of meal entries.
type Store interface {
	// AuthorizedEmails returns every email in the Users table. Callers
	// re-fetch on each login attempt; nothing is cached here.
	AuthorizedEmails(ctx context.Context) ([]string, error)

	// Append adds one meal entry to the Logs table.
	Append(ctx context.Context, entry models.LogEntry) error

	// Entries returns the full Logs table. Acceptable only because the
	// per-user data volume is small.
	Entries(ctx context.Context) ([]models.LogEntry, error)
}

// New selects the configured backend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case "sheets":
		return NewSheetsStore(ctx, cfg)
	case "postgres", "sqlite":
		return NewGormStore(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

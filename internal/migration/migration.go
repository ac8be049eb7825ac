// Package migration moves an anonymous user's locally stored tracked brews
// into the remote store on first sign-in.
package migration

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/brewshelf/brewshelf/internal/store"
)

// ErrInFlight is returned when a migration is already running for this
// engine. Re-entrant sign-in events must not trigger duplicate inserts.
var ErrInFlight = errors.New("migration: already in flight")

// Engine performs the one-shot local-to-remote merge.
type Engine struct {
	local   *store.Local
	remote  *store.Remote
	running atomic.Bool
}

// New returns an engine over the two adapters.
func New(local *store.Local, remote *store.Remote) *Engine {
	return &Engine{local: local, remote: remote}
}

// Run migrates the local slot into the remote store for userID and returns
// the number of records migrated. Only catalog brews can exist locally;
// anything marked custom is skipped defensively. The local slot is cleared
// only after the upsert succeeds, so a failed run leaves everything in place
// for a retry. Concurrent runs are refused with ErrInFlight.
func (e *Engine) Run(ctx context.Context, userID string) (int, error) {
	if !e.running.CompareAndSwap(false, true) {
		return 0, ErrInFlight
	}
	defer e.running.Store(false)

	records := e.local.List()
	catalogOnly := records[:0]
	for _, rec := range records {
		if !rec.IsCustom {
			catalogOnly = append(catalogOnly, rec)
		}
	}
	if len(catalogOnly) == 0 {
		return 0, nil
	}

	if err := e.remote.UpsertBeers(ctx, userID, catalogOnly); err != nil {
		return 0, fmt.Errorf("migration: %w", err)
	}
	if err := e.local.Clear(); err != nil {
		// The rows are safely remote; a retried migration upserts them
		// idempotently, so a failed clear is not fatal.
		return len(catalogOnly), fmt.Errorf("migration: %w", err)
	}
	return len(catalogOnly), nil
}

// Package tracker is the application core: it owns the in-memory tracked
// brew collection, routes persistence to the local slot or the remote store
// depending on the session, and applies the lifecycle engine to user actions
// and timer ticks.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/brewshelf/brewshelf/internal/brew"
	"github.com/brewshelf/brewshelf/internal/catalog"
	"github.com/brewshelf/brewshelf/internal/hydrate"
	"github.com/brewshelf/brewshelf/internal/migration"
	"github.com/brewshelf/brewshelf/internal/models"
	"github.com/brewshelf/brewshelf/internal/notify"
	"github.com/brewshelf/brewshelf/internal/session"
	"github.com/brewshelf/brewshelf/internal/store"
)

// MaxCustomBrews caps how many custom recipes one user may keep.
const MaxCustomBrews = 9

var (
	// ErrAuthRequired is returned for operations that only exist in
	// authenticated mode, such as custom brews.
	ErrAuthRequired = errors.New("tracker: authentication required")
	// ErrUnknownProduct is returned when a brew references a product that
	// does not exist in the catalog or the user's custom set.
	ErrUnknownProduct = errors.New("tracker: unknown product")
	// ErrTooManyCustomBrews enforces MaxCustomBrews.
	ErrTooManyCustomBrews = fmt.Errorf("tracker: at most %d custom brews", MaxCustomBrews)
)

// Opts configures a Tracker.
type Opts struct {
	Local    *store.Local
	Remote   *store.Remote // nil leaves the app anonymous-only
	Observer *session.Observer
	Notifier notify.Notifier // nil disables brew-ready notifications
	Now      func() time.Time
}

// Tracker serializes all collection access behind one mutex — the Go
// rendition of the original's single-threaded event loop. Within one action
// the order is fixed: confirm (if needed), persist, re-hydrate.
type Tracker struct {
	mu       sync.Mutex
	local    *store.Local
	remote   *store.Remote
	observer *session.Observer
	migrator *migration.Engine
	notifier notify.Notifier
	now      func() time.Time

	brews   []brew.TrackedBrew
	customs []models.CustomBrew
}

// New wires a Tracker and subscribes it to session events.
func New(opts Opts) (*Tracker, error) {
	if opts.Local == nil {
		return nil, fmt.Errorf("tracker: local store is required")
	}
	if opts.Observer == nil {
		return nil, fmt.Errorf("tracker: session observer is required")
	}
	t := &Tracker{
		local:    opts.Local,
		remote:   opts.Remote,
		observer: opts.Observer,
		notifier: opts.Notifier,
		now:      opts.Now,
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.remote != nil {
		t.migrator = migration.New(t.local, t.remote)
	}
	t.observer.Subscribe(t.handleSessionEvent)
	return t, nil
}

// Brews returns a copy of the hydrated collection.
func (t *Tracker) Brews() []brew.TrackedBrew {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]brew.TrackedBrew, len(t.brews))
	copy(out, t.brews)
	return out
}

// CustomBrews returns a copy of the custom recipe collection.
func (t *Tracker) CustomBrews() []models.CustomBrew {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.CustomBrew, len(t.customs))
	copy(out, t.customs)
	return out
}

// Refresh rebuilds the in-memory view from the active adapter.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshLocked(ctx)
}

// AddOpts describes a new tracked brew.
type AddOpts struct {
	ProductID        string
	IsCustom         bool
	KegColor         string
	KegNickname      string
	BrewingDays      int // 0 takes the product default
	ConditioningDays int // 0 takes the product default
}

// AddBrew starts tracking a brewing attempt of the given product. The
// tracking id is the product id plus the creation timestamp in milliseconds,
// unique under normal clock behavior.
func (t *Tracker) AddBrew(ctx context.Context, opts AddOpts) (brew.TrackedBrew, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	defBrewing, defConditioning, err := t.productDefaultsLocked(opts.ProductID, opts.IsCustom)
	if err != nil {
		return brew.TrackedBrew{}, err
	}
	if opts.BrewingDays <= 0 {
		opts.BrewingDays = defBrewing
	}
	if opts.ConditioningDays <= 0 {
		opts.ConditioningDays = defConditioning
	}

	rec := store.BrewRecord{
		TrackingID:       fmt.Sprintf("%s-%d", opts.ProductID, t.now().UnixMilli()),
		ProductID:        opts.ProductID,
		Status:           brew.StatusPending,
		KegColor:         opts.KegColor,
		KegNickname:      opts.KegNickname,
		BrewingDays:      opts.BrewingDays,
		ConditioningDays: opts.ConditioningDays,
		IsCustom:         opts.IsCustom,
	}
	if err := t.createRecordLocked(ctx, rec); err != nil {
		return brew.TrackedBrew{}, err
	}
	if err := t.refreshLocked(ctx); err != nil {
		return brew.TrackedBrew{}, err
	}
	for _, b := range t.brews {
		if b.TrackingID == rec.TrackingID {
			return b, nil
		}
	}
	return brew.TrackedBrew{}, fmt.Errorf("tracker: add brew %s: %w", rec.TrackingID, store.ErrNotFound)
}

// StartBrewing moves a pending brew to fermenting.
func (t *Tracker) StartBrewing(ctx context.Context, trackingID string) error {
	return t.mutate(ctx, trackingID, func(b *brew.TrackedBrew) error {
		return brew.StartBrewing(b, t.now())
	})
}

// StartConditioning moves a fermenting brew to conditioning. Before the
// recommended date it fails with *brew.EarlyConditioningError unless confirm
// is set; the refused attempt persists nothing.
func (t *Tracker) StartConditioning(ctx context.Context, trackingID string, confirm bool) error {
	return t.mutate(ctx, trackingID, func(b *brew.TrackedBrew) error {
		return brew.StartConditioning(b, t.now(), confirm)
	})
}

// Remove stops tracking the brew. Removing an unknown id is a no-op, like
// filtering it out of the original's array.
func (t *Tracker) Remove(ctx context.Context, trackingID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if uid := t.authedUserLocked(); uid != "" {
		if err := t.remote.DeleteBeer(ctx, uid, trackingID); err != nil {
			return err
		}
	} else if err := t.local.Delete(trackingID); err != nil {
		return err
	}
	return t.refreshLocked(ctx)
}

// AdvanceDue flips every conditioning brew whose end date has passed to
// ready, persists the change and notifies. It returns the brews that became
// ready. Called once a second by the sweeper while the app runs.
func (t *Tracker) AdvanceDue(ctx context.Context) ([]brew.TrackedBrew, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var ready []brew.TrackedBrew
	for _, b := range t.brews {
		b := b
		if !brew.MarkReady(&b, now) {
			continue
		}
		if err := t.updateRecordLocked(ctx, store.RecordFromBrew(b)); err != nil {
			return ready, err
		}
		ready = append(ready, b)
	}
	if len(ready) == 0 {
		return nil, nil
	}
	if err := t.refreshLocked(ctx); err != nil {
		return ready, err
	}

	if t.notifier != nil {
		for _, b := range ready {
			ev := notify.Event{
				TrackingID:  b.TrackingID,
				Name:        b.Name,
				Style:       b.Style,
				KegNickname: b.KegNickname,
				ReadyAt:     now,
			}
			if err := t.notifier.BrewReady(ctx, ev); err != nil {
				log.Printf("tracker: notify ready %s: %v", b.TrackingID, err)
			}
		}
	}
	return ready, nil
}

// AddCustomBrew creates a custom recipe. Authenticated only.
func (t *Tracker) AddCustomBrew(ctx context.Context, cb models.CustomBrew) (models.CustomBrew, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	uid := t.authedUserLocked()
	if uid == "" {
		return models.CustomBrew{}, ErrAuthRequired
	}
	if len(t.customs) >= MaxCustomBrews {
		return models.CustomBrew{}, ErrTooManyCustomBrews
	}
	created, err := t.remote.CreateCustomBrew(ctx, uid, cb)
	if err != nil {
		return models.CustomBrew{}, err
	}
	if err := t.refreshLocked(ctx); err != nil {
		return models.CustomBrew{}, err
	}
	return created, nil
}

// UpdateCustomBrew updates a custom recipe. Authenticated only.
func (t *Tracker) UpdateCustomBrew(ctx context.Context, cb models.CustomBrew) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	uid := t.authedUserLocked()
	if uid == "" {
		return ErrAuthRequired
	}
	if err := t.remote.UpdateCustomBrew(ctx, uid, cb); err != nil {
		return err
	}
	return t.refreshLocked(ctx)
}

// DeleteCustomBrew deletes a custom recipe, refusing while a tracked brew
// still references it (store.ErrCustomBrewInUse).
func (t *Tracker) DeleteCustomBrew(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	uid := t.authedUserLocked()
	if uid == "" {
		return ErrAuthRequired
	}
	if err := t.remote.DeleteCustomBrew(ctx, uid, id); err != nil {
		return err
	}
	return t.refreshLocked(ctx)
}

// mutate applies fn to a copy of the cached brew, persists the result and
// re-hydrates. The copy guarantees a refused transition leaves both memory
// and storage untouched.
func (t *Tracker) mutate(ctx context.Context, trackingID string, fn func(*brew.TrackedBrew) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var target *brew.TrackedBrew
	for i := range t.brews {
		if t.brews[i].TrackingID == trackingID {
			b := t.brews[i]
			target = &b
			break
		}
	}
	if target == nil {
		return fmt.Errorf("tracker: brew %s: %w", trackingID, store.ErrNotFound)
	}
	if err := fn(target); err != nil {
		return err
	}
	if err := t.updateRecordLocked(ctx, store.RecordFromBrew(*target)); err != nil {
		return err
	}
	return t.refreshLocked(ctx)
}

// handleSessionEvent reacts to auth edges: a sign-in migrates the local slot
// then adopts the remote collection; a sign-out discards all in-memory state
// so the next render shows the empty anonymous view.
func (t *Tracker) handleSessionEvent(ev session.Event) {
	ctx := context.Background()
	switch ev.Kind {
	case session.EventSignedIn:
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.migrator != nil && ev.Session != nil {
			n, err := t.migrator.Run(ctx, ev.Session.User.ID)
			if err != nil && !errors.Is(err, migration.ErrInFlight) {
				// Local slot stays intact for a retry on the next sign-in.
				log.Printf("tracker: migrate local brews: %v", err)
			} else if n > 0 {
				log.Printf("tracker: migrated %d local brews", n)
			}
		}
		if err := t.refreshLocked(ctx); err != nil {
			log.Printf("tracker: refresh after sign-in: %v", err)
		}
	case session.EventSignedOut:
		t.mu.Lock()
		defer t.mu.Unlock()
		t.brews = nil
		t.customs = nil
	}
}

// refreshLocked rebuilds brews and customs from the active adapter. Callers
// hold t.mu.
func (t *Tracker) refreshLocked(ctx context.Context) error {
	uid := t.authedUserLocked()
	if uid == "" {
		snap := hydrate.Snapshot(nil)
		t.brews = snap.Records(t.local.List())
		t.customs = nil
		return nil
	}

	customs, err := t.remote.ListCustomBrews(ctx, uid)
	if err != nil {
		return err
	}
	records, err := t.remote.ListBeers(ctx, uid)
	if err != nil {
		return err
	}
	t.customs = customs
	t.brews = hydrate.Snapshot(customs).Records(records)
	return nil
}

func (t *Tracker) createRecordLocked(ctx context.Context, rec store.BrewRecord) error {
	if uid := t.authedUserLocked(); uid != "" {
		return t.remote.CreateBeer(ctx, uid, rec)
	}
	if rec.IsCustom {
		return ErrAuthRequired
	}
	return t.local.Create(rec)
}

func (t *Tracker) updateRecordLocked(ctx context.Context, rec store.BrewRecord) error {
	if uid := t.authedUserLocked(); uid != "" {
		return t.remote.UpdateBeer(ctx, uid, rec)
	}
	return t.local.Update(rec)
}

// productDefaultsLocked resolves the product's default day counts, checking
// the catalog or the cached custom set.
func (t *Tracker) productDefaultsLocked(productID string, isCustom bool) (int, int, error) {
	if isCustom {
		for _, cb := range t.customs {
			if cb.ID == productID {
				return cb.BrewingDays, cb.ConditioningDays, nil
			}
		}
		return 0, 0, fmt.Errorf("tracker: custom product %s: %w", productID, ErrUnknownProduct)
	}
	p, ok := catalog.Find(productID)
	if !ok {
		return 0, 0, fmt.Errorf("tracker: product %s: %w", productID, ErrUnknownProduct)
	}
	return p.BrewingDays, p.ConditioningDays, nil
}

// authedUserLocked returns the user id when a session is active and a remote
// store is configured, "" otherwise.
func (t *Tracker) authedUserLocked() string {
	if t.remote == nil {
		return ""
	}
	return t.observer.UserID()
}

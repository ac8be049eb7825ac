// Package brew implements the tracked-brew lifecycle: the linear
// pending → fermenting → conditioning → ready state machine, the date
// arithmetic behind its time gates, and the countdown decomposition shown
// while a brew ferments or conditions.
package brew

import (
	"fmt"
	"time"
)

// Status is a tracked brew's position in the lifecycle.
type Status string

const (
	StatusPending      Status = "pending"
	StatusFermenting   Status = "fermenting"
	StatusConditioning Status = "conditioning"
	StatusReady        Status = "ready"
)

// Valid reports whether s is one of the four lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFermenting, StatusConditioning, StatusReady:
		return true
	}
	return false
}

// TrackedBrew is the hydrated view of one brewing attempt: live product
// metadata merged with the persisted progress fields. BrewingDays and
// ConditioningDays are the per-instance values captured at creation, not
// the product defaults.
type TrackedBrew struct {
	TrackingID            string     `json:"trackingId"`
	ProductID             string     `json:"productId"`
	IsCustom              bool       `json:"isCustom"`
	Name                  string     `json:"name"`
	Style                 string     `json:"style"`
	Description           string     `json:"description"`
	ABV                   float64    `json:"abv"`
	ImageURL              string     `json:"imageUrl,omitempty"`
	BackgroundGradient    string     `json:"backgroundGradient,omitempty"`
	Status                Status     `json:"status"`
	BrewingDays           int        `json:"brewingDays"`
	ConditioningDays      int        `json:"conditioningDays"`
	FermentationStartDate *time.Time `json:"fermentationStartDate"`
	ConditioningStartDate *time.Time `json:"conditioningStartDate"`
	KegColor              string     `json:"kegColor,omitempty"`
	KegNickname           string     `json:"kegNickname,omitempty"`
}

// InvalidTransitionError reports an attempt to move a brew out of order.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("brew: invalid transition %s -> %s", e.From, e.To)
}

// EarlyConditioningError reports a fermenting → conditioning attempt before
// the recommended conditioning date. The caller must re-issue the transition
// with explicit confirmation to proceed anyway.
type EarlyConditioningError struct {
	Recommended time.Time
}

func (e *EarlyConditioningError) Error() string {
	return fmt.Sprintf("brew: conditioning before recommended date %s requires confirmation",
		e.Recommended.Format(time.RFC3339))
}

// StartBrewing moves a pending brew to fermenting, stamping the fermentation
// start date with now.
func StartBrewing(b *TrackedBrew, now time.Time) error {
	if b.Status != StatusPending {
		return &InvalidTransitionError{From: b.Status, To: StatusFermenting}
	}
	b.Status = StatusFermenting
	t := now
	b.FermentationStartDate = &t
	return nil
}

// StartConditioning moves a fermenting brew to conditioning, stamping the
// conditioning start date with now. Before the recommended conditioning date
// the transition is refused with *EarlyConditioningError unless confirm is
// set. A fermenting brew with no fermentation start date cannot compute its
// recommended date and is treated as early.
func StartConditioning(b *TrackedBrew, now time.Time, confirm bool) error {
	if b.Status != StatusFermenting {
		return &InvalidTransitionError{From: b.Status, To: StatusConditioning}
	}
	if early, recommended := IsEarly(b, now); early && !confirm {
		return &EarlyConditioningError{Recommended: recommended}
	}
	b.Status = StatusConditioning
	t := now
	b.ConditioningStartDate = &t
	return nil
}

// MarkReady moves a conditioning brew to ready once its conditioning end date
// has passed. It returns false without mutating when the brew is not yet due
// or not conditioning; the sweep calls this for every visible brew.
func MarkReady(b *TrackedBrew, now time.Time) bool {
	if b.Status != StatusConditioning {
		return false
	}
	end, ok := ConditioningEndDate(b)
	if !ok || now.Before(end) {
		return false
	}
	b.Status = StatusReady
	return true
}

// RecommendedConditioningDate is the fermentation start plus the brew's
// fermenting duration. ok is false while the brew has no fermentation start.
func RecommendedConditioningDate(b *TrackedBrew) (time.Time, bool) {
	if b.FermentationStartDate == nil {
		return time.Time{}, false
	}
	return AddDays(*b.FermentationStartDate, b.BrewingDays), true
}

// ConditioningEndDate is the conditioning start plus the brew's conditioning
// duration. ok is false while the brew has no conditioning start.
func ConditioningEndDate(b *TrackedBrew) (time.Time, bool) {
	if b.ConditioningStartDate == nil {
		return time.Time{}, false
	}
	return AddDays(*b.ConditioningStartDate, b.ConditioningDays), true
}

// IsEarly reports whether now is before the brew's recommended conditioning
// date, along with that date. A missing fermentation start counts as early
// with a zero recommended date.
func IsEarly(b *TrackedBrew, now time.Time) (bool, time.Time) {
	recommended, ok := RecommendedConditioningDate(b)
	if !ok {
		return true, time.Time{}
	}
	return now.Before(recommended), recommended
}

// AddDays advances t by n calendar days, preserving the time of day. This is
// a calendar addition, not n*24h: across a DST boundary the wall-clock time
// is kept.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// CheckInvariants verifies the date/status coupling for a hydrated brew:
// the fermentation start exists exactly from fermenting onward, and the
// conditioning start exactly from conditioning onward.
func CheckInvariants(b *TrackedBrew) error {
	if !b.Status.Valid() {
		return fmt.Errorf("brew: unknown status %q", b.Status)
	}
	wantFerm := b.Status != StatusPending
	if (b.FermentationStartDate != nil) != wantFerm {
		return fmt.Errorf("brew: status %s with fermentationStartDate set=%v", b.Status, b.FermentationStartDate != nil)
	}
	wantCond := b.Status == StatusConditioning || b.Status == StatusReady
	if (b.ConditioningStartDate != nil) != wantCond {
		return fmt.Errorf("brew: status %s with conditioningStartDate set=%v", b.Status, b.ConditioningStartDate != nil)
	}
	return nil
}

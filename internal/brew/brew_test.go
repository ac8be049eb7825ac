package brew

import (
	"errors"
	"testing"
	"time"
)

func ptr(t time.Time) *time.Time { return &t }

var baseTime = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

func pendingBrew() *TrackedBrew {
	return &TrackedBrew{
		TrackingID:       "west-coast-ipa-1741600000000",
		ProductID:        "west-coast-ipa",
		Name:             "Ridgeline",
		Status:           StatusPending,
		BrewingDays:      7,
		ConditioningDays: 5,
	}
}

// --- StartBrewing ---

func TestStartBrewing_SetsDateAndStatus(t *testing.T) {
	b := pendingBrew()
	if err := StartBrewing(b, baseTime); err != nil {
		t.Fatalf("StartBrewing: %v", err)
	}
	if b.Status != StatusFermenting {
		t.Errorf("Status = %s, want fermenting", b.Status)
	}
	if b.FermentationStartDate == nil || !b.FermentationStartDate.Equal(baseTime) {
		t.Errorf("FermentationStartDate = %v, want %v", b.FermentationStartDate, baseTime)
	}
	if b.ConditioningStartDate != nil {
		t.Error("ConditioningStartDate must stay nil after StartBrewing")
	}
	if err := CheckInvariants(b); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestStartBrewing_RejectsNonPending(t *testing.T) {
	for _, s := range []Status{StatusFermenting, StatusConditioning, StatusReady} {
		b := pendingBrew()
		b.Status = s
		err := StartBrewing(b, baseTime)
		var ite *InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Errorf("StartBrewing from %s: err = %v, want InvalidTransitionError", s, err)
		}
	}
}

// --- StartConditioning ---

func fermentingBrew(started time.Time) *TrackedBrew {
	b := pendingBrew()
	b.Status = StatusFermenting
	b.FermentationStartDate = ptr(started)
	return b
}

func TestStartConditioning_EarlyRequiresConfirmation(t *testing.T) {
	b := fermentingBrew(baseTime)

	// 6 of 7 brewing days elapsed: still early.
	now := AddDays(baseTime, 6)
	err := StartConditioning(b, now, false)
	var ece *EarlyConditioningError
	if !errors.As(err, &ece) {
		t.Fatalf("err = %v, want EarlyConditioningError", err)
	}
	if want := AddDays(baseTime, 7); !ece.Recommended.Equal(want) {
		t.Errorf("Recommended = %v, want %v", ece.Recommended, want)
	}
	if b.Status != StatusFermenting || b.ConditioningStartDate != nil {
		t.Error("refused transition must not mutate the brew")
	}
}

func TestStartConditioning_EarlyWithConfirm(t *testing.T) {
	b := fermentingBrew(baseTime)
	now := AddDays(baseTime, 6)
	if err := StartConditioning(b, now, true); err != nil {
		t.Fatalf("StartConditioning confirmed: %v", err)
	}
	if b.Status != StatusConditioning {
		t.Errorf("Status = %s, want conditioning", b.Status)
	}
	if b.ConditioningStartDate == nil || !b.ConditioningStartDate.Equal(now) {
		t.Errorf("ConditioningStartDate = %v, want %v", b.ConditioningStartDate, now)
	}
}

func TestStartConditioning_OnRecommendedDate(t *testing.T) {
	b := fermentingBrew(baseTime)
	// Exactly 7 days later is no longer early: now is not before recommended.
	now := AddDays(baseTime, 7)
	if err := StartConditioning(b, now, false); err != nil {
		t.Fatalf("StartConditioning at recommended date: %v", err)
	}
	if err := CheckInvariants(b); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestStartConditioning_MissingStartDateTreatedAsEarly(t *testing.T) {
	b := pendingBrew()
	b.Status = StatusFermenting // no fermentation start recorded

	err := StartConditioning(b, baseTime, false)
	var ece *EarlyConditioningError
	if !errors.As(err, &ece) {
		t.Fatalf("err = %v, want EarlyConditioningError", err)
	}
	if !ece.Recommended.IsZero() {
		t.Errorf("Recommended = %v, want zero time", ece.Recommended)
	}
}

func TestStartConditioning_RejectsNonFermenting(t *testing.T) {
	b := pendingBrew()
	err := StartConditioning(b, baseTime, true)
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
}

// --- MarkReady ---

func conditioningBrew(condStart time.Time) *TrackedBrew {
	b := fermentingBrew(AddDays(condStart, -7))
	b.Status = StatusConditioning
	b.ConditioningStartDate = ptr(condStart)
	return b
}

func TestMarkReady_NotBeforeEndDate(t *testing.T) {
	b := conditioningBrew(baseTime)
	now := AddDays(baseTime, 5).Add(-time.Second)
	if MarkReady(b, now) {
		t.Fatal("MarkReady fired before the conditioning end date")
	}
	if b.Status != StatusConditioning {
		t.Errorf("Status = %s, want conditioning", b.Status)
	}
}

func TestMarkReady_AtEndDate(t *testing.T) {
	b := conditioningBrew(baseTime)
	now := AddDays(baseTime, 5)
	if !MarkReady(b, now) {
		t.Fatal("MarkReady did not fire at the conditioning end date")
	}
	if b.Status != StatusReady {
		t.Errorf("Status = %s, want ready", b.Status)
	}
	if err := CheckInvariants(b); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestMarkReady_IgnoresOtherStatuses(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusFermenting, StatusReady} {
		b := conditioningBrew(baseTime)
		b.Status = s
		if MarkReady(b, AddDays(baseTime, 30)) {
			t.Errorf("MarkReady fired for status %s", s)
		}
	}
}

// --- date arithmetic ---

func TestAddDays_PreservesTimeOfDay(t *testing.T) {
	got := AddDays(baseTime, 7)
	want := time.Date(2026, 3, 17, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddDays = %v, want %v", got, want)
	}
}

func TestAddDays_AcrossDSTKeepsWallClock(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skip("tz database unavailable")
	}
	// UK clocks go forward 2026-03-29; the add crosses that boundary.
	start := time.Date(2026, 3, 27, 20, 0, 0, 0, loc)
	got := AddDays(start, 3)
	if got.Hour() != 20 {
		t.Errorf("hour after DST crossing = %d, want 20", got.Hour())
	}
	// A calendar-day add across spring-forward is one hour shorter than 72h.
	if d := got.Sub(start); d >= 72*time.Hour {
		t.Errorf("elapsed = %v, want < 72h across spring-forward", d)
	}
}

// --- invariants ---

func TestCheckInvariants_Violations(t *testing.T) {
	pendingWithDate := pendingBrew()
	pendingWithDate.FermentationStartDate = ptr(baseTime)

	readyWithoutDates := pendingBrew()
	readyWithoutDates.Status = StatusReady

	unknown := pendingBrew()
	unknown.Status = Status("bottled")

	for name, b := range map[string]*TrackedBrew{
		"pending with fermentation date": pendingWithDate,
		"ready without dates":            readyWithoutDates,
		"unknown status":                 unknown,
	} {
		if err := CheckInvariants(b); err == nil {
			t.Errorf("%s: expected invariant violation", name)
		}
	}
}

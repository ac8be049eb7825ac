package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brewshelf/brewshelf/internal/brew"
	"github.com/brewshelf/brewshelf/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openRemoteTestDB(t *testing.T) *Remote {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Beer{}, &models.CustomBrew{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return NewRemote(db)
}

const (
	alice = "user-alice"
	bob   = "user-bob"
)

func TestRemote_CreateAndListScopedToUser(t *testing.T) {
	r := openRemoteTestDB(t)
	ctx := context.Background()

	if err := r.CreateBeer(ctx, alice, testRecord("hazy-pale-1")); err != nil {
		t.Fatalf("CreateBeer: %v", err)
	}
	if err := r.CreateBeer(ctx, bob, testRecord("hazy-pale-2")); err != nil {
		t.Fatalf("CreateBeer: %v", err)
	}

	got, err := r.ListBeers(ctx, alice)
	if err != nil {
		t.Fatalf("ListBeers: %v", err)
	}
	if len(got) != 1 || got[0].TrackingID != "hazy-pale-1" {
		t.Errorf("ListBeers(alice) = %+v, want only hazy-pale-1", got)
	}
}

func TestRemote_UpdateBeer(t *testing.T) {
	r := openRemoteTestDB(t)
	ctx := context.Background()
	_ = r.CreateBeer(ctx, alice, testRecord("hazy-pale-1"))

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rec := testRecord("hazy-pale-1")
	rec.Status = brew.StatusFermenting
	rec.FermentationStartDate = &start
	if err := r.UpdateBeer(ctx, alice, rec); err != nil {
		t.Fatalf("UpdateBeer: %v", err)
	}

	got, _ := r.ListBeers(ctx, alice)
	if got[0].Status != brew.StatusFermenting {
		t.Errorf("Status = %s, want fermenting", got[0].Status)
	}
	if got[0].FermentationStartDate == nil || !got[0].FermentationStartDate.Equal(start) {
		t.Errorf("FermentationStartDate = %v, want %v", got[0].FermentationStartDate, start)
	}
}

func TestRemote_UpdateBeerWrongUser(t *testing.T) {
	r := openRemoteTestDB(t)
	ctx := context.Background()
	_ = r.CreateBeer(ctx, alice, testRecord("hazy-pale-1"))

	err := r.UpdateBeer(ctx, bob, testRecord("hazy-pale-1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for cross-user update", err)
	}
}

func TestRemote_DeleteBeer(t *testing.T) {
	r := openRemoteTestDB(t)
	ctx := context.Background()
	_ = r.CreateBeer(ctx, alice, testRecord("hazy-pale-1"))

	if err := r.DeleteBeer(ctx, alice, "hazy-pale-1"); err != nil {
		t.Fatalf("DeleteBeer: %v", err)
	}
	got, _ := r.ListBeers(ctx, alice)
	if len(got) != 0 {
		t.Errorf("ListBeers after delete = %+v, want empty", got)
	}
}

func TestRemote_UpsertBeersIdempotent(t *testing.T) {
	r := openRemoteTestDB(t)
	ctx := context.Background()

	records := []BrewRecord{testRecord("hazy-pale-1"), testRecord("berry-sour-2")}
	if err := r.UpsertBeers(ctx, alice, records); err != nil {
		t.Fatalf("UpsertBeers: %v", err)
	}

	// A retried migration with overlapping records must not duplicate rows.
	records[0].KegNickname = "retry"
	if err := r.UpsertBeers(ctx, alice, records); err != nil {
		t.Fatalf("UpsertBeers retry: %v", err)
	}

	got, _ := r.ListBeers(ctx, alice)
	if len(got) != 2 {
		t.Fatalf("len(ListBeers) = %d, want 2", len(got))
	}
	byID := map[string]BrewRecord{}
	for _, rec := range got {
		byID[rec.TrackingID] = rec
	}
	if byID["hazy-pale-1"].KegNickname != "retry" {
		t.Errorf("conflict update not applied: %+v", byID["hazy-pale-1"])
	}
}

func TestRemote_UpsertEmptyIsNoop(t *testing.T) {
	r := openRemoteTestDB(t)
	if err := r.UpsertBeers(context.Background(), alice, nil); err != nil {
		t.Fatalf("UpsertBeers(nil): %v", err)
	}
}

func TestRemote_CustomBrewCRUD(t *testing.T) {
	r := openRemoteTestDB(t)
	ctx := context.Background()

	created, err := r.CreateCustomBrew(ctx, alice, models.CustomBrew{
		Name:               "Garage Saison",
		Style:              "Saison",
		ABV:                6.1,
		BrewingDays:        6,
		ConditioningDays:   14,
		BackgroundGradient: "gradient-2",
	})
	if err != nil {
		t.Fatalf("CreateCustomBrew: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}

	created.Name = "Garage Saison v2"
	if err := r.UpdateCustomBrew(ctx, alice, created); err != nil {
		t.Fatalf("UpdateCustomBrew: %v", err)
	}

	brews, err := r.ListCustomBrews(ctx, alice)
	if err != nil {
		t.Fatalf("ListCustomBrews: %v", err)
	}
	if len(brews) != 1 || brews[0].Name != "Garage Saison v2" {
		t.Errorf("ListCustomBrews = %+v", brews)
	}

	if brews2, _ := r.ListCustomBrews(ctx, bob); len(brews2) != 0 {
		t.Errorf("custom brews leaked across users: %+v", brews2)
	}

	if err := r.DeleteCustomBrew(ctx, alice, created.ID); err != nil {
		t.Fatalf("DeleteCustomBrew: %v", err)
	}
	if err := r.DeleteCustomBrew(ctx, alice, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestRemote_DeleteCustomBrewInUse(t *testing.T) {
	r := openRemoteTestDB(t)
	ctx := context.Background()

	created, err := r.CreateCustomBrew(ctx, alice, models.CustomBrew{
		Name: "Rhubarb Gose", ABV: 4.2, BrewingDays: 5, ConditioningDays: 7,
	})
	if err != nil {
		t.Fatalf("CreateCustomBrew: %v", err)
	}

	rec := testRecord(created.ID + "-1000")
	rec.ProductID = created.ID
	rec.IsCustom = true
	if err := r.CreateBeer(ctx, alice, rec); err != nil {
		t.Fatalf("CreateBeer: %v", err)
	}

	err = r.DeleteCustomBrew(ctx, alice, created.ID)
	if !errors.Is(err, ErrCustomBrewInUse) {
		t.Fatalf("err = %v, want ErrCustomBrewInUse", err)
	}

	// Once the tracked brew is gone the recipe can be deleted.
	if err := r.DeleteBeer(ctx, alice, rec.TrackingID); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteCustomBrew(ctx, alice, created.ID); err != nil {
		t.Errorf("DeleteCustomBrew after unreference: %v", err)
	}
}

// Package store provides the two persistence adapters for tracked brews:
// the anonymous local JSON slot and the user-scoped remote relational store.
// Both speak BrewRecord, the minimal persisted shape that hydration later
// joins against live product data.
package store

import (
	"time"

	"github.com/brewshelf/brewshelf/internal/brew"
	"github.com/brewshelf/brewshelf/internal/models"
)

// BrewRecord is one persisted tracked brew. It carries only the product
// reference and progress fields; descriptive product data is never stored
// alongside it.
type BrewRecord struct {
	TrackingID            string      `json:"trackingId"`
	ProductID             string      `json:"productId"`
	Status                brew.Status `json:"status"`
	KegColor              string      `json:"kegColor,omitempty"`
	KegNickname           string      `json:"kegNickname,omitempty"`
	BrewingDays           int         `json:"brewingDays"`
	ConditioningDays      int         `json:"conditioningDays"`
	FermentationStartDate *time.Time  `json:"fermentationStartDate"`
	ConditioningStartDate *time.Time  `json:"conditioningStartDate"`
	IsCustom              bool        `json:"isCustom"`
}

// RecordFromBeer converts a remote row to the shared record shape.
func RecordFromBeer(b models.Beer) BrewRecord {
	return BrewRecord{
		TrackingID:            b.TrackingID,
		ProductID:             b.ProductID,
		Status:                brew.Status(b.Status),
		KegColor:              b.KegColor,
		KegNickname:           b.KegNickname,
		BrewingDays:           b.BrewingDays,
		ConditioningDays:      b.ConditioningDays,
		FermentationStartDate: b.FermentationStartDate,
		ConditioningStartDate: b.ConditioningStartDate,
		IsCustom:              b.IsCustom,
	}
}

// RecordFromBrew extracts the persisted fields of a hydrated brew.
func RecordFromBrew(b brew.TrackedBrew) BrewRecord {
	return BrewRecord{
		TrackingID:            b.TrackingID,
		ProductID:             b.ProductID,
		Status:                b.Status,
		KegColor:              b.KegColor,
		KegNickname:           b.KegNickname,
		BrewingDays:           b.BrewingDays,
		ConditioningDays:      b.ConditioningDays,
		FermentationStartDate: b.FermentationStartDate,
		ConditioningStartDate: b.ConditioningStartDate,
		IsCustom:              b.IsCustom,
	}
}

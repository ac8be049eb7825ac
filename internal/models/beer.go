package models

import "time"

// Beer is one tracked brewing attempt, persisted in the remote store.
// TrackingID is the natural key: product id plus creation timestamp, unique
// within a user's collection. ProductID references either a catalog product
// or a CustomBrew row depending on IsCustom; the reference is not enforced
// at the database level, so hydration must tolerate dangling ids.
type Beer struct {
	ID                    string `gorm:"primaryKey;size:36"`
	CreatedAt             time.Time
	UserID                string `gorm:"size:36;index;not null"`
	TrackingID            string `gorm:"size:80;uniqueIndex;not null"`
	ProductID             string `gorm:"size:64;not null"`
	Status                string `gorm:"size:16;default:pending"`
	KegColor              string `gorm:"size:16"`
	KegNickname           string `gorm:"size:64"`
	BrewingDays           int    `gorm:"not null"`
	ConditioningDays      int    `gorm:"not null"`
	FermentationStartDate *time.Time
	ConditioningStartDate *time.Time
	IsCustom              bool `gorm:"default:false"`
}

package models

import "time"

// CustomBrew is a user-authored recipe. Custom brews exist only in the remote
// store: creating one requires an authenticated session.
type CustomBrew struct {
	ID                 string `gorm:"primaryKey;size:36"`
	CreatedAt          time.Time
	UserID             string  `gorm:"size:36;index;not null"`
	Name               string  `gorm:"size:128;not null"`
	Description        string  `gorm:"type:text"`
	Style              string  `gorm:"size:64"`
	ABV                float64 `gorm:"not null"`
	BrewingDays        int     `gorm:"not null"`
	ConditioningDays   int     `gorm:"not null"`
	BackgroundGradient string  `gorm:"size:32;default:gradient-5"`
}

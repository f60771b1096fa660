package models

import "time"

// Feature is an optional add-on with its own recurring and one-time price.
// Selection is per quote; the chosen prices are snapshotted on the quote.
type Feature struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"not null;index"`
	Description       string
	MonthlyPriceCents int64 `gorm:"not null;default:0"`
	OneTimeFeeCents   int64 `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

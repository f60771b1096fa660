package models

import "time"

// Customer entity. Created once per quote-creation flow; not deduplicated.
type Customer struct {
	ID          uint   `gorm:"primaryKey"`
	CompanyName string `gorm:"not null;index"`
	ContactName string `gorm:"not null"`
	Email       string `gorm:"not null;index"`
	Phone       string
	Address     string // may contain embedded newlines
	City        string
	Country     string
	Industry    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

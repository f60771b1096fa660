package models

import "time"

// BrandingProfile holds the company-identity fields merged into rendered
// documents. Several named presets may exist; exactly one is active.
type BrandingProfile struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;unique"`
	CompanyName  string `gorm:"not null"`
	LogoURL      string
	Address      string // may contain embedded newlines
	Contact      string
	Email        string
	PrimaryColor string `gorm:"size:7;not null;default:'#0B5ED7'"` // #RRGGBB accent
	Active       bool   `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

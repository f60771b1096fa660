package models

import "time"

// Service catalog models
const (
	CategoryFibre    = "fibre"
	CategoryWireless = "wireless"
	CategoryVoice    = "voice"
	CategoryHosting  = "hosting"
	CategoryManaged  = "managed"
)

// ServiceCategories lists the accepted category tags in display order.
var ServiceCategories = []string{CategoryFibre, CategoryWireless, CategoryVoice, CategoryHosting, CategoryManaged}

func ValidServiceCategory(c string) bool {
	for _, v := range ServiceCategories {
		if v == c {
			return true
		}
	}
	return false
}

type Service struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"not null;index"`
	Category          string `gorm:"not null;index"` // one of ServiceCategories
	Description       string
	SetupFeeCents     int64             `gorm:"not null;default:0"` // one-time setup fee, minor units
	MinContractMonths int               `gorm:"not null;default:12"`
	BandwidthOptions  []BandwidthOption `gorm:"foreignKey:ServiceID"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Bandwidth units
const (
	UnitMbps = "Mbps"
	UnitGbps = "Gbps"
	UnitTbps = "Tbps"
)

var BandwidthUnits = []string{UnitMbps, UnitGbps, UnitTbps}

func ValidBandwidthUnit(u string) bool {
	for _, v := range BandwidthUnits {
		if v == u {
			return true
		}
	}
	return false
}

// BandwidthOption is a priced capacity tier belonging to a Service.
// Unavailable options stay visible to admins but are never offered to sales.
type BandwidthOption struct {
	ID                uint    `gorm:"primaryKey"`
	ServiceID         uint    `gorm:"not null;index"`
	Service           Service `gorm:"foreignKey:ServiceID"`
	Value             int     `gorm:"not null"`
	Unit              string  `gorm:"size:8;not null"` // Mbps, Gbps, Tbps
	MonthlyPriceCents int64   `gorm:"not null;default:0"`
	Available         bool    `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

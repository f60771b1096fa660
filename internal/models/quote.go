package models

import "time"

// Quote statuses. Status is the only field mutated after creation.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusDeclined = "declined"
	QuoteStatusExpired  = "expired"
)

var QuoteStatuses = []string{QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired}

func ValidQuoteStatus(s string) bool {
	for _, v := range QuoteStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// QuoteSchemaVersion marks records written with explicit service/bandwidth
// linkage columns. Version 0 records predate those columns and carry a
// metadata block embedded in Notes (see internal/legacy).
const QuoteSchemaVersion = 1

// Quote ties one customer to one service/bandwidth/feature combination and
// contract term. Monetary totals are fixed at creation time and never
// recomputed from the catalog.
type Quote struct {
	ID                uint     `gorm:"primaryKey"`
	Number            string   `gorm:"size:12;not null;uniqueIndex"` // Q{YY}{MM}-{4 digits}
	CustomerID        uint     `gorm:"not null;index"`
	Customer          Customer `gorm:"foreignKey:CustomerID"`
	SalesRepID        uint     `gorm:"index"`
	ServiceID         *uint    `gorm:"index"` // nullable: quotes may lack a catalog linkage
	Service           *Service `gorm:"foreignKey:ServiceID"`
	BandwidthOptionID *uint
	BandwidthOption   *BandwidthOption `gorm:"foreignKey:BandwidthOptionID"`
	Status            string           `gorm:"size:16;not null;index"`
	TotalMonthlyCents int64            `gorm:"not null;default:0"`
	TotalOneTimeCents int64            `gorm:"not null;default:0"`
	ContractMonths    int              `gorm:"not null;default:12"`
	Notes             string
	QuoteDate         time.Time `gorm:"not null"`
	ExpirationDate    *time.Time
	SchemaVersion     int            `gorm:"not null;default:1"`
	Features          []QuoteFeature `gorm:"foreignKey:QuoteID"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// QuoteFeature is a denormalized snapshot of a selected add-on at quote
// time. Later catalog edits do not touch historical quotes.
type QuoteFeature struct {
	ID                uint   `gorm:"primaryKey"`
	QuoteID           uint   `gorm:"not null;index"`
	FeatureID         uint   `gorm:"index"`
	Name              string `gorm:"not null"`
	MonthlyPriceCents int64  `gorm:"not null;default:0"`
	OneTimeFeeCents   int64  `gorm:"not null;default:0"`
}

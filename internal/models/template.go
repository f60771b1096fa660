package models

import "time"

// Document template kinds
const (
	TemplateKindQuote     = "quote"
	TemplateKindOrderForm = "order_form"
)

// DocTemplate is an HTML document skeleton containing {{token}} placeholders
// resolved at render time. Content is authored by trusted administrators and
// is not sanitized.
type DocTemplate struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;unique"`
	Kind      string `gorm:"size:16;not null;index"` // quote, order_form
	Content   string `gorm:"not null"`
	IsDefault bool   `gorm:"not null;index"` // default template for its kind
	CreatedAt time.Time
	UpdatedAt time.Time
}

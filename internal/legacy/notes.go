// Package legacy reads quote records written by the predecessor system,
// whose store had no service/bandwidth columns: it serialized a metadata
// block into a delimited prefix of the free-text notes field. This package
// is the only place that understands that encoding; current records carry
// explicit linkage columns and never go through it.
package legacy

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/cloudlink-mu/telquote/internal/models"
	"gorm.io/gorm"
)

const (
	startMarker = "---QUOTE-METADATA---"
	endMarker   = "---END-METADATA---"
)

// Meta is the structured block embedded at the head of legacy notes.
type Meta struct {
	ServiceID      uint          `json:"service_id"`
	ServiceName    string        `json:"service_name"`
	BandwidthID    uint          `json:"bandwidth_id"`
	BandwidthValue int           `json:"bandwidth_value"`
	BandwidthUnit  string        `json:"bandwidth_unit"`
	Features       []MetaFeature `json:"features"`
}

type MetaFeature struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

var ErrMalformedBlock = errors.New("malformed metadata block")

// ParseNotes splits a notes value into its embedded metadata block (if any)
// and the remaining free text. Readers of legacy quotes apply this before
// treating notes as free text. found=false means the notes carried no block
// and are returned unchanged.
func ParseNotes(notes string) (meta *Meta, freeText string, found bool, err error) {
	if !strings.HasPrefix(notes, startMarker) {
		return nil, notes, false, nil
	}
	rest := notes[len(startMarker):]
	end := strings.Index(rest, endMarker)
	if end < 0 {
		return nil, notes, false, ErrMalformedBlock
	}
	payload := strings.TrimSpace(rest[:end])
	var m Meta
	if jsonErr := json.Unmarshal([]byte(payload), &m); jsonErr != nil {
		return nil, notes, false, ErrMalformedBlock
	}
	free := strings.TrimPrefix(rest[end+len(endMarker):], "\n")
	return &m, free, true, nil
}

// EncodeNotes produces the legacy on-disk form. Used by tests and fixtures;
// the application itself never writes this encoding anymore.
func EncodeNotes(m *Meta, freeText string) string {
	payload, _ := json.Marshal(m)
	s := startMarker + string(payload) + endMarker
	if freeText != "" {
		s += "\n" + freeText
	}
	return s
}

// MigrateQuotes lifts embedded metadata out of legacy quote notes into the
// explicit linkage columns and feature rows, strips the prefix and bumps the
// schema version. Returns the number of quotes migrated. Quotes whose block
// cannot be parsed are skipped and counted separately.
func MigrateQuotes(db *gorm.DB) (migrated, skipped int, err error) {
	var quotes []models.Quote
	if err := db.Where("schema_version = 0").Find(&quotes).Error; err != nil {
		return 0, 0, err
	}
	for i := range quotes {
		q := &quotes[i]
		meta, free, found, perr := ParseNotes(q.Notes)
		if perr != nil {
			skipped++
			continue
		}
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if found {
				if q.ServiceID == nil && meta.ServiceID != 0 {
					sid := meta.ServiceID
					q.ServiceID = &sid
				}
				if q.BandwidthOptionID == nil && meta.BandwidthID != 0 {
					bid := meta.BandwidthID
					q.BandwidthOptionID = &bid
				}
				var existing int64
				if err := tx.Model(&models.QuoteFeature{}).Where("quote_id = ?", q.ID).Count(&existing).Error; err != nil {
					return err
				}
				if existing == 0 {
					for _, f := range meta.Features {
						row := models.QuoteFeature{QuoteID: q.ID, FeatureID: f.ID, Name: f.Name}
						// Prices were not part of the embedded block; recover the
						// snapshot from the catalog when the feature still exists.
						var cat models.Feature
						if err := tx.First(&cat, f.ID).Error; err == nil {
							row.MonthlyPriceCents = cat.MonthlyPriceCents
							row.OneTimeFeeCents = cat.OneTimeFeeCents
						}
						if err := tx.Create(&row).Error; err != nil {
							return err
						}
					}
				}
				q.Notes = free
			}
			q.SchemaVersion = models.QuoteSchemaVersion
			return tx.Save(q).Error
		})
		if txErr != nil {
			return migrated, skipped, txErr
		}
		migrated++
	}
	return migrated, skipped, nil
}

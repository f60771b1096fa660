package legacy

import (
	"fmt"
	"testing"

	"github.com/cloudlink-mu/telquote/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestParseNotesPlainTextPassThrough(t *testing.T) {
	meta, free, found, err := ParseNotes("just a note for the customer")
	if err != nil || found || meta != nil {
		t.Fatalf("unexpected: meta=%v found=%v err=%v", meta, found, err)
	}
	if free != "just a note for the customer" {
		t.Fatalf("free text changed: %q", free)
	}
}

func TestParseNotesRoundTrip(t *testing.T) {
	m := &Meta{
		ServiceID: 3, ServiceName: "Business Fibre",
		BandwidthID: 7, BandwidthValue: 100, BandwidthUnit: "Mbps",
		Features: []MetaFeature{{ID: 1, Name: "Static IP"}, {ID: 4, Name: "Managed Router"}},
	}
	encoded := EncodeNotes(m, "installation after 17:00 please")
	got, free, found, err := ParseNotes(encoded)
	if err != nil || !found {
		t.Fatalf("parse: found=%v err=%v", found, err)
	}
	if got.ServiceID != 3 || got.BandwidthUnit != "Mbps" || len(got.Features) != 2 {
		t.Fatalf("meta mismatch: %+v", got)
	}
	if free != "installation after 17:00 please" {
		t.Fatalf("free text: %q", free)
	}
}

func TestParseNotesMalformedBlock(t *testing.T) {
	// start marker without end marker
	if _, _, _, err := ParseNotes("---QUOTE-METADATA---{oops"); err != ErrMalformedBlock {
		t.Fatalf("expected ErrMalformedBlock, got %v", err)
	}
	// unparseable payload
	if _, _, _, err := ParseNotes("---QUOTE-METADATA---not json---END-METADATA---"); err != ErrMalformedBlock {
		t.Fatalf("expected ErrMalformedBlock, got %v", err)
	}
}

func setupLegacyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Service{}, &models.BandwidthOption{}, &models.Feature{}, &models.Customer{}, &models.Quote{}, &models.QuoteFeature{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrateQuotesLiftsEmbeddedMetadata(t *testing.T) {
	db := setupLegacyTestDB(t)
	svc := models.Service{Name: "Business Fibre", Category: models.CategoryFibre, SetupFeeCents: 500000}
	if err := db.Create(&svc).Error; err != nil {
		t.Fatalf("service: %v", err)
	}
	bw := models.BandwidthOption{ServiceID: svc.ID, Value: 100, Unit: models.UnitMbps, MonthlyPriceCents: 2000000, Available: true}
	if err := db.Create(&bw).Error; err != nil {
		t.Fatalf("bandwidth: %v", err)
	}
	feat := models.Feature{Name: "Static IP", MonthlyPriceCents: 50000}
	if err := db.Create(&feat).Error; err != nil {
		t.Fatalf("feature: %v", err)
	}
	cust := models.Customer{CompanyName: "Acme Ltd", ContactName: "J. Doe", Email: "jdoe@acme.mu"}
	if err := db.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	notes := EncodeNotes(&Meta{
		ServiceID: svc.ID, ServiceName: svc.Name,
		BandwidthID: bw.ID, BandwidthValue: 100, BandwidthUnit: "Mbps",
		Features: []MetaFeature{{ID: feat.ID, Name: feat.Name}},
	}, "legacy free text")
	legacyQuote := models.Quote{Number: "Q2407-1234", CustomerID: cust.ID, Status: models.QuoteStatusSent, Notes: notes, SchemaVersion: 0}
	if err := db.Create(&legacyQuote).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}
	// already-current quote must not be touched
	current := models.Quote{Number: "Q2501-5678", CustomerID: cust.ID, Status: models.QuoteStatusDraft, Notes: "plain", SchemaVersion: models.QuoteSchemaVersion}
	if err := db.Create(&current).Error; err != nil {
		t.Fatalf("quote2: %v", err)
	}

	migrated, skipped, err := MigrateQuotes(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if migrated != 1 || skipped != 0 {
		t.Fatalf("migrated=%d skipped=%d", migrated, skipped)
	}
	var got models.Quote
	if err := db.Preload("Features").First(&got, legacyQuote.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ServiceID == nil || *got.ServiceID != svc.ID {
		t.Fatalf("service linkage not set: %+v", got.ServiceID)
	}
	if got.BandwidthOptionID == nil || *got.BandwidthOptionID != bw.ID {
		t.Fatalf("bandwidth linkage not set")
	}
	if got.Notes != "legacy free text" {
		t.Fatalf("notes not stripped: %q", got.Notes)
	}
	if got.SchemaVersion != models.QuoteSchemaVersion {
		t.Fatalf("schema version: %d", got.SchemaVersion)
	}
	if len(got.Features) != 1 || got.Features[0].Name != "Static IP" || got.Features[0].MonthlyPriceCents != 50000 {
		t.Fatalf("feature rows: %+v", got.Features)
	}
}

func TestMigrateQuotesSkipsMalformed(t *testing.T) {
	db := setupLegacyTestDB(t)
	cust := models.Customer{CompanyName: "Acme Ltd", ContactName: "J. Doe", Email: "jdoe@acme.mu"}
	if err := db.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	bad := models.Quote{Number: "Q2406-0001", CustomerID: cust.ID, Status: models.QuoteStatusDraft, Notes: "---QUOTE-METADATA---{broken", SchemaVersion: 0}
	if err := db.Create(&bad).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}
	migrated, skipped, err := MigrateQuotes(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if migrated != 0 || skipped != 1 {
		t.Fatalf("migrated=%d skipped=%d", migrated, skipped)
	}
}

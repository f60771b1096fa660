package services

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/models"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Service{}, &models.BandwidthOption{},
		&models.Feature{}, &models.Quote{}, &models.QuoteFeature{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type catalog struct {
	customer  models.Customer
	service   models.Service
	bandwidth models.BandwidthOption
	features  []models.Feature
}

func seedCatalog(t *testing.T, db *gorm.DB) catalog {
	t.Helper()
	c := catalog{
		customer: models.Customer{CompanyName: "Indian Ocean Logistics Ltd", ContactName: "P. Ramgoolam", Email: "it@iol.mu"},
		service:  models.Service{Name: "Dedicated Fibre", Category: models.CategoryFibre, SetupFeeCents: 500000, MinContractMonths: 12},
	}
	if err := db.Create(&c.customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if err := db.Create(&c.service).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	c.bandwidth = models.BandwidthOption{ServiceID: c.service.ID, Value: 200, Unit: models.UnitMbps, MonthlyPriceCents: 2000000, Available: true}
	if err := db.Create(&c.bandwidth).Error; err != nil {
		t.Fatalf("seed bandwidth: %v", err)
	}
	c.features = []models.Feature{
		{Name: "Static IP Block /29", MonthlyPriceCents: 50000},
		{Name: "Managed Router", MonthlyPriceCents: 0, OneTimeFeeCents: 150000},
	}
	for i := range c.features {
		if err := db.Create(&c.features[i]).Error; err != nil {
			t.Fatalf("seed feature: %v", err)
		}
	}
	return c
}

func fixedClockService(db *gorm.DB) *QuoteService {
	svc := NewQuoteService(db, 30)
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestGenerateNumberFormat(t *testing.T) {
	svc := fixedClockService(nil)
	svc.randInt = func(n int) int { return 42 }
	got := svc.GenerateNumber()
	if got != "Q2501-0042" {
		t.Fatalf("GenerateNumber() = %q, want Q2501-0042", got)
	}
	svc2 := NewQuoteService(nil, 30)
	pattern := regexp.MustCompile(`^Q\d{2}\d{2}-\d{4}$`)
	for i := 0; i < 20; i++ {
		if n := svc2.GenerateNumber(); !pattern.MatchString(n) {
			t.Fatalf("number %q does not match pattern", n)
		}
	}
}

func TestBuildAggregatesTotals(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)

	q, err := svc.Build(QuoteInput{
		CustomerID:        c.customer.ID,
		ServiceID:         c.service.ID,
		BandwidthOptionID: c.bandwidth.ID,
		FeatureIDs:        []uint{c.features[0].ID, c.features[1].ID},
		ContractMonths:    24,
		Notes:             "Install ASAP",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// 20,000.00 bandwidth + 500.00 feature = 20,500.00 monthly
	if q.TotalMonthlyCents != 2050000 {
		t.Fatalf("monthly = %d, want 2050000", q.TotalMonthlyCents)
	}
	// 5,000.00 setup + 1,500.00 feature one-time = 6,500.00
	if q.TotalOneTimeCents != 650000 {
		t.Fatalf("one-time = %d, want 650000", q.TotalOneTimeCents)
	}
	if q.Status != models.QuoteStatusDraft {
		t.Fatalf("status = %q, want draft", q.Status)
	}
	if q.ContractMonths != 24 {
		t.Fatalf("contract = %d, want 24", q.ContractMonths)
	}
	if q.ExpirationDate == nil || !q.ExpirationDate.Equal(time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expiration = %v, want 2025-02-14", q.ExpirationDate)
	}
	if q.SchemaVersion != models.QuoteSchemaVersion {
		t.Fatalf("schema version = %d", q.SchemaVersion)
	}

	var feats []models.QuoteFeature
	if err := db.Where("quote_id = ?", q.ID).Find(&feats).Error; err != nil {
		t.Fatalf("load features: %v", err)
	}
	if len(feats) != 2 {
		t.Fatalf("persisted %d feature snapshots, want 2", len(feats))
	}
	for _, f := range feats {
		if f.Name == "" {
			t.Fatal("feature snapshot missing name")
		}
	}
}

func TestBuildSnapshotsSurviveCatalogEdits(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)

	q, err := svc.Build(QuoteInput{CustomerID: c.customer.ID, ServiceID: c.service.ID,
		BandwidthOptionID: c.bandwidth.ID, FeatureIDs: []uint{c.features[0].ID}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if err := db.Model(&models.BandwidthOption{}).Where("id = ?", c.bandwidth.ID).
		Update("monthly_price_cents", 9999999).Error; err != nil {
		t.Fatalf("edit catalog: %v", err)
	}
	if err := db.Delete(&models.Feature{}, c.features[0].ID).Error; err != nil {
		t.Fatalf("delete feature: %v", err)
	}

	reloaded, err := svc.Get(q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.TotalMonthlyCents != 2050000 {
		t.Fatalf("stored totals changed after catalog edit: %d", reloaded.TotalMonthlyCents)
	}
	if len(reloaded.Features) != 1 || reloaded.Features[0].Name != "Static IP Block /29" {
		t.Fatalf("feature snapshot lost: %+v", reloaded.Features)
	}
}

func TestBuildDefaultsAndDegradedInput(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)

	// No service, no bandwidth, no features: totals are zero and the
	// contract falls back to twelve months.
	q, err := svc.Build(QuoteInput{CustomerID: c.customer.ID})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.TotalMonthlyCents != 0 || q.TotalOneTimeCents != 0 {
		t.Fatalf("totals = %d/%d, want 0/0", q.TotalMonthlyCents, q.TotalOneTimeCents)
	}
	if q.ContractMonths != 12 {
		t.Fatalf("contract = %d, want 12", q.ContractMonths)
	}
	if q.ServiceID != nil || q.BandwidthOptionID != nil {
		t.Fatal("expected nil catalog linkage")
	}
}

func TestBuildClampsContractToServiceMinimum(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	if err := db.Model(&models.Service{}).Where("id = ?", c.service.ID).
		Update("min_contract_months", 24).Error; err != nil {
		t.Fatalf("update service: %v", err)
	}
	svc := fixedClockService(db)

	q, err := svc.Build(QuoteInput{CustomerID: c.customer.ID, ServiceID: c.service.ID, ContractMonths: 6})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.ContractMonths != 24 {
		t.Fatalf("contract = %d, want clamped 24", q.ContractMonths)
	}
}

func TestBuildValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)

	if _, err := svc.Build(QuoteInput{}); !errors.Is(err, ErrCustomerRequired) {
		t.Fatalf("missing customer: %v", err)
	}
	if _, err := svc.Build(QuoteInput{CustomerID: 999}); !errors.Is(err, ErrCustomerRequired) {
		t.Fatalf("unknown customer: %v", err)
	}
	if _, err := svc.Build(QuoteInput{CustomerID: c.customer.ID, ServiceID: 999}); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("unknown service: %v", err)
	}
	if _, err := svc.Build(QuoteInput{CustomerID: c.customer.ID, BandwidthOptionID: 999}); !errors.Is(err, ErrBandwidthNotFound) {
		t.Fatalf("unknown bandwidth: %v", err)
	}
	if _, err := svc.Build(QuoteInput{CustomerID: c.customer.ID, FeatureIDs: []uint{999}}); !errors.Is(err, ErrFeatureNotFound) {
		t.Fatalf("unknown feature: %v", err)
	}

	other := models.Service{Name: "Wireless", Category: models.CategoryWireless}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	if _, err := svc.Build(QuoteInput{CustomerID: c.customer.ID, ServiceID: other.ID,
		BandwidthOptionID: c.bandwidth.ID}); !errors.Is(err, ErrBandwidthMismatch) {
		t.Fatalf("mismatched bandwidth: %v", err)
	}
}

func TestBuildRerollsOnNumberCollision(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)

	rolls := []int{7, 7, 8}
	i := 0
	svc.randInt = func(n int) int { v := rolls[i%len(rolls)]; i++; return v }

	first, err := svc.Build(QuoteInput{CustomerID: c.customer.ID})
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	if first.Number != "Q2501-0007" {
		t.Fatalf("first number = %q", first.Number)
	}

	second, err := svc.Build(QuoteInput{CustomerID: c.customer.ID})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if second.Number != "Q2501-0008" {
		t.Fatalf("second number = %q, want re-rolled Q2501-0008", second.Number)
	}
}

func TestBuildGivesUpAfterRepeatedCollisions(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)
	svc.randInt = func(n int) int { return 5 }

	if _, err := svc.Build(QuoteInput{CustomerID: c.customer.ID}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := svc.Build(QuoteInput{CustomerID: c.customer.ID}); !errors.Is(err, ErrNumberExhausted) {
		t.Fatalf("expected ErrNumberExhausted, got %v", err)
	}
	var count int64
	if err := db.Model(&models.Quote{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("failed build left %d quotes, want 1", count)
	}
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)

	q, err := svc.Build(QuoteInput{CustomerID: c.customer.ID})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	updated, err := svc.UpdateStatus(q.ID, models.QuoteStatusSent)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != models.QuoteStatusSent {
		t.Fatalf("status = %q", updated.Status)
	}

	if _, err := svc.UpdateStatus(q.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("invalid status: %v", err)
	}
	if _, err := svc.UpdateStatus(999, models.QuoteStatusSent); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("missing quote: %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	db := setupTestDB(t, t.Name())
	c := seedCatalog(t, db)
	svc := fixedClockService(db)

	mk := func(status string, exp time.Time) models.Quote {
		q := models.Quote{Number: fmt.Sprintf("Q2501-%04d", len(status)*100+int(exp.Unix()%1000)),
			CustomerID: c.customer.ID, Status: status, QuoteDate: svc.now(), ExpirationDate: &exp,
			SchemaVersion: models.QuoteSchemaVersion}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("seed quote: %v", err)
		}
		return q
	}

	past := svc.now().AddDate(0, 0, -1)
	future := svc.now().AddDate(0, 0, 10)
	stale := mk(models.QuoteStatusSent, past)
	fresh := mk(models.QuoteStatusSent, future)
	draft := mk(models.QuoteStatusDraft, past)

	n, err := svc.SweepExpired()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("sweep touched %d quotes, want 1", n)
	}

	check := func(id uint, want string) {
		var q models.Quote
		if err := db.First(&q, id).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if q.Status != want {
			t.Fatalf("quote %d status = %q, want %q", id, q.Status, want)
		}
	}
	check(stale.ID, models.QuoteStatusExpired)
	check(fresh.ID, models.QuoteStatusSent)
	check(draft.ID, models.QuoteStatusDraft)
}

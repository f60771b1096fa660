package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/auth"
	"github.com/cloudlink-mu/telquote/internal/legacy"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/services"
)

func q0Date() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }

type quoteFixture struct {
	db        *gorm.DB
	handler   *QuoteHandler
	customer  models.Customer
	service   models.Service
	bandwidth models.BandwidthOption
	feature   models.Feature
}

func newQuoteFixture(t *testing.T) *quoteFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &quoteFixture{
		db:       db,
		customer: models.Customer{CompanyName: "Indian Ocean Logistics Ltd", ContactName: "P. Ramgoolam", Email: "it@iol.mu"},
		service:  models.Service{Name: "Dedicated Fibre", Category: models.CategoryFibre, SetupFeeCents: 500000, MinContractMonths: 12},
		feature:  models.Feature{Name: "Static IP Block /29", MonthlyPriceCents: 50000},
	}
	for _, m := range []any{&f.customer, &f.service, &f.feature} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	f.bandwidth = models.BandwidthOption{ServiceID: f.service.ID, Value: 200, Unit: models.UnitMbps, MonthlyPriceCents: 2000000, Available: true}
	if err := db.Create(&f.bandwidth).Error; err != nil {
		t.Fatalf("seed bandwidth: %v", err)
	}
	f.handler = NewQuoteHandler(db, services.NewQuoteService(db, 30))
	return f
}

func TestQuoteCreateFromWizardPayload(t *testing.T) {
	f := newQuoteFixture(t)

	body := fmt.Sprintf(`{"customer_id":%d,"service_id":%d,"bandwidth_option_id":%d,"feature_ids":[%d],"contract_months":24,"notes":"Install ASAP"}`,
		f.customer.ID, f.service.ID, f.bandwidth.ID, f.feature.ID)
	req := jsonReq(http.MethodPost, "/quotes", body)
	req = req.WithContext(auth.WithUserID(req.Context(), 7))
	w := httptest.NewRecorder()
	f.handler.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		Number            string `json:"number"`
		Status            string `json:"status"`
		TotalMonthlyCents int64  `json:"total_monthly_cents"`
		TotalOneTimeCents int64  `json:"total_one_time_cents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != models.QuoteStatusDraft {
		t.Fatalf("status = %q", out.Status)
	}
	if out.TotalMonthlyCents != 2050000 || out.TotalOneTimeCents != 500000 {
		t.Fatalf("totals = %d/%d", out.TotalMonthlyCents, out.TotalOneTimeCents)
	}
	if len(out.Number) != 10 || out.Number[0] != 'Q' {
		t.Fatalf("number = %q", out.Number)
	}

	var q models.Quote
	if err := f.db.First(&q).Error; err != nil {
		t.Fatalf("load quote: %v", err)
	}
	if q.SalesRepID != 7 {
		t.Fatalf("sales rep = %d, want 7 from session", q.SalesRepID)
	}
}

func TestQuoteCreateWithInlineCustomer(t *testing.T) {
	f := newQuoteFixture(t)

	body := `{"customer":{"company_name":"New Co","contact_name":"A. B.","email":"a@new.mu"}}`
	w := httptest.NewRecorder()
	f.handler.Create(w, jsonReq(http.MethodPost, "/quotes", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	f.db.Model(&models.Customer{}).Count(&count)
	if count != 2 {
		t.Fatalf("inline customer not created, count=%d", count)
	}
}

func TestQuoteCreateRequiresCustomer(t *testing.T) {
	f := newQuoteFixture(t)
	w := httptest.NewRecorder()
	f.handler.Create(w, jsonReq(http.MethodPost, "/quotes", `{"service_id":1}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestQuoteListFiltersByStatus(t *testing.T) {
	f := newQuoteFixture(t)
	for i, status := range []string{models.QuoteStatusDraft, models.QuoteStatusSent, models.QuoteStatusSent} {
		q := models.Quote{Number: fmt.Sprintf("Q2501-%04d", i), CustomerID: f.customer.ID,
			Status: status, QuoteDate: q0Date(), SchemaVersion: models.QuoteSchemaVersion}
		if err := f.db.Create(&q).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := httptest.NewRecorder()
	f.handler.List(w, httptest.NewRequest(http.MethodGet, "/quotes?status=sent", nil))
	var payload struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 2 || len(payload.Items) != 2 {
		t.Fatalf("expected 2 sent quotes, got total=%d items=%d", payload.Total, len(payload.Items))
	}

	w2 := httptest.NewRecorder()
	f.handler.List(w2, httptest.NewRequest(http.MethodGet, "/quotes?status=archived", nil))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("bad status filter: expected 400 got %d", w2.Code)
	}
}

func TestQuoteStatusTransition(t *testing.T) {
	f := newQuoteFixture(t)
	q := models.Quote{Number: "Q2501-0001", CustomerID: f.customer.ID,
		Status: models.QuoteStatusDraft, QuoteDate: q0Date(), SchemaVersion: models.QuoteSchemaVersion}
	if err := f.db.Create(&q).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	f.handler.UpdateStatus(w, jsonReq(http.MethodPost, fmt.Sprintf("/quotes/status?id=%d", q.ID), `{"status":"sent"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Quote
	if err := f.db.First(&reloaded, q.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.QuoteStatusSent {
		t.Fatalf("status = %q", reloaded.Status)
	}

	w2 := httptest.NewRecorder()
	f.handler.UpdateStatus(w2, jsonReq(http.MethodPost, fmt.Sprintf("/quotes/status?id=%d", q.ID), `{"status":"archived"}`))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w2.Code)
	}
}

func TestQuoteGetSurfacesLegacyMetadata(t *testing.T) {
	f := newQuoteFixture(t)

	notes := legacy.EncodeNotes(&legacy.Meta{
		ServiceID:   f.service.ID,
		ServiceName: f.service.Name,
	}, "Customer prefers morning installs.")
	q := models.Quote{Number: "Q2412-0042", CustomerID: f.customer.ID,
		Status: models.QuoteStatusSent, QuoteDate: q0Date(), Notes: notes, SchemaVersion: 0}
	if err := f.db.Create(&q).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	f.handler.Get(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/quotes/get?id=%d", q.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var out struct {
		Notes          string       `json:"notes"`
		LegacyMetadata *legacy.Meta `json:"legacy_metadata"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Notes != "Customer prefers morning installs." {
		t.Fatalf("notes = %q, markers must not leak", out.Notes)
	}
	if out.LegacyMetadata == nil || out.LegacyMetadata.ServiceName != f.service.Name {
		t.Fatalf("legacy metadata missing: %+v", out.LegacyMetadata)
	}
}

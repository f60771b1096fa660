package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/services"
)

func TestTemplateCreateSwapsDefault(t *testing.T) {
	db := setupTestDB(t)
	h := NewTemplateHandler(db, services.NewQuoteService(db, 30))

	w := httptest.NewRecorder()
	h.Create(w, jsonReq(http.MethodPost, "/templates",
		`{"name":"First","kind":"quote","content":"<p>{{quoteNumber}}</p>","is_default":true}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	h.Create(w2, jsonReq(http.MethodPost, "/templates",
		`{"name":"Second","kind":"quote","content":"<p>{{customerName}}</p>","is_default":true}`))
	if w2.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w2.Code)
	}

	var defaults int64
	db.Model(&models.DocTemplate{}).Where("kind = ? AND is_default = ?", models.TemplateKindQuote, true).Count(&defaults)
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestTemplateCreateRejectsBadKind(t *testing.T) {
	db := setupTestDB(t)
	h := NewTemplateHandler(db, services.NewQuoteService(db, 30))

	w := httptest.NewRecorder()
	h.Create(w, jsonReq(http.MethodPost, "/templates",
		`{"name":"X","kind":"invoice","content":"<p></p>"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestTemplatePreviewReportsTokens(t *testing.T) {
	f := newQuoteFixture(t)
	h := NewTemplateHandler(f.db, services.NewQuoteService(f.db, 30))

	q := models.Quote{Number: "Q2501-0001", CustomerID: f.customer.ID,
		Status: models.QuoteStatusDraft, QuoteDate: q0Date(), SchemaVersion: models.QuoteSchemaVersion}
	if err := f.db.Create(&q).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := fmt.Sprintf(`{"quote_id":%d,"content":"<p>{{quoteNumber}} {{notes}} {{typoToken}}</p>"}`, q.ID)
	w := httptest.NewRecorder()
	h.Preview(w, jsonReq(http.MethodPost, "/templates/preview", body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		HTML          string   `json:"html"`
		EmptyTokens   []string `json:"empty_tokens"`
		UnknownTokens []string `json:"unknown_tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.UnknownTokens) != 1 || out.UnknownTokens[0] != "typoToken" {
		t.Fatalf("unknown tokens = %v", out.UnknownTokens)
	}
	found := false
	for _, e := range out.EmptyTokens {
		if e == "notes" {
			found = true
		}
	}
	if !found {
		t.Fatalf("empty tokens = %v, want notes included", out.EmptyTokens)
	}
}

func TestBrandingActivateIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	h := NewBrandingHandler(db)

	for _, body := range []string{
		`{"name":"Main","company_name":"CloudLink Mauritius","active":true}`,
		`{"name":"Alt","company_name":"CloudLink Rodrigues"}`,
	} {
		w := httptest.NewRecorder()
		h.Create(w, jsonReq(http.MethodPost, "/branding", body))
		if w.Code != http.StatusCreated {
			t.Fatalf("create: expected 201 got %d: %s", w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	h.Activate(w, jsonReq(http.MethodPost, "/branding/activate?id=2", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("activate: expected 200 got %d", w.Code)
	}

	var active []models.BrandingProfile
	db.Where("active = ?", true).Find(&active)
	if len(active) != 1 || active[0].Name != "Alt" {
		t.Fatalf("expected only Alt active, got %+v", active)
	}
}

func TestBrandingRejectsBadColor(t *testing.T) {
	db := setupTestDB(t)
	h := NewBrandingHandler(db)

	w := httptest.NewRecorder()
	h.Create(w, jsonReq(http.MethodPost, "/branding",
		`{"name":"Main","company_name":"X","primary_color":"blue"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

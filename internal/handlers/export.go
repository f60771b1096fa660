package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/doctmpl"
	"github.com/cloudlink-mu/telquote/internal/export"
	"github.com/cloudlink-mu/telquote/internal/httpx"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/pricing"
	"github.com/cloudlink-mu/telquote/internal/services"
)

// ExportHandler renders quotes into their distributable forms: resolved
// HTML, the paginated PDF, and a spreadsheet of the quote book.
type ExportHandler struct {
	DB       *gorm.DB
	Quotes   *services.QuoteService
	Pipeline *export.Pipeline
}

func NewExportHandler(db *gorm.DB, quotes *services.QuoteService, pipeline *export.Pipeline) *ExportHandler {
	return &ExportHandler{DB: db, Quotes: quotes, Pipeline: pipeline}
}

// activeBranding returns the active branding profile, or nil when none is
// configured yet; documents then render without a letterhead.
func (h *ExportHandler) activeBranding() *models.BrandingProfile {
	var b models.BrandingProfile
	if err := h.DB.Where("active = ?", true).First(&b).Error; err != nil {
		return nil
	}
	return &b
}

// template picks the document template to render with: an explicit
// template_id wins, otherwise the default template of the requested kind.
func (h *ExportHandler) template(r *http.Request, kind string) (*models.DocTemplate, error) {
	var tpl models.DocTemplate
	if v := r.URL.Query().Get("template_id"); v != "" {
		id, _ := strconv.Atoi(v)
		if err := h.DB.First(&tpl, id).Error; err != nil {
			return nil, err
		}
		return &tpl, nil
	}
	if err := h.DB.Where("kind = ? AND is_default = ?", kind, true).First(&tpl).Error; err != nil {
		if err := h.DB.Where("kind = ?", kind).Order("id asc").First(&tpl).Error; err != nil {
			return nil, err
		}
	}
	return &tpl, nil
}

func (h *ExportHandler) loadQuote(w http.ResponseWriter, r *http.Request) *models.Quote {
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil
	}
	q, err := h.Quotes.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		} else {
			httpx.JSONError(w, http.StatusInternalServerError, "quote_load_failed", nil)
		}
		return nil
	}
	return q
}

// HTML serves the fully resolved document for on-screen preview.
func (h *ExportHandler) HTML(w http.ResponseWriter, r *http.Request) {
	q := h.loadQuote(w, r)
	if q == nil {
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = models.TemplateKindQuote
	}
	tpl, err := h.template(r, kind)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "template_not_found", nil)
		return
	}
	ctx := doctmpl.BuildContext(q, h.activeBranding())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doctmpl.Render(tpl.Content, ctx)))
}

// PDF runs the capture pipeline and streams the result as a download.
func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	q := h.loadQuote(w, r)
	if q == nil {
		return
	}
	branding := h.activeBranding()
	ctx := doctmpl.BuildContext(q, branding)
	doc := export.FromContext(ctx)

	logoRef := ""
	if branding != nil {
		logoRef = branding.LogoURL
	}
	out, err := h.Pipeline.Export(r.Context(), doc, logoRef, q.Number)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}

	name := export.FileName(q.Number, q.ID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(out)
}

// XLSX exports the quote book as a spreadsheet, one row per quote.
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Quote{}).Preload("Customer")
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidQuoteStatus(status) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
			return
		}
		dbq = dbq.Where("status = ?", status)
	}
	var quotes []models.Quote
	if err := dbq.Order("id desc").Find(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Quotes"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Number", "Customer", "Status", "Quote Date", "Expires", "Contract (months)", "Monthly (MUR)", "One-time (MUR)"}
	for i, hname := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hname)
	}
	for row, q := range quotes {
		expires := ""
		if q.ExpirationDate != nil {
			expires = q.ExpirationDate.Format("2006-01-02")
		}
		values := []any{
			q.Number,
			q.Customer.CompanyName,
			q.Status,
			q.QuoteDate.Format("2006-01-02"),
			expires,
			q.ContractMonths,
			pricing.Cents(q.TotalMonthlyCents).Format(),
			pricing.Cents(q.TotalOneTimeCents).Format(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="quotes.xlsx"`)
	_ = f.Write(w)
}

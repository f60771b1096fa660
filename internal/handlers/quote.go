package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/auth"
	"github.com/cloudlink-mu/telquote/internal/httpx"
	"github.com/cloudlink-mu/telquote/internal/legacy"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/services"
	"github.com/cloudlink-mu/telquote/internal/validation"
)

// QuoteHandler exposes the quote wizard endpoints. The heavy lifting is in
// services.QuoteService; this layer reads payloads and maps errors to
// status codes.
type QuoteHandler struct {
	DB     *gorm.DB
	Quotes *services.QuoteService
}

func NewQuoteHandler(db *gorm.DB, quotes *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{DB: db, Quotes: quotes}
}

// quotePayload is the full wizard result. A new customer may be supplied
// inline instead of an existing customer_id.
type quotePayload struct {
	CustomerID        uint           `json:"customer_id"`
	Customer          *customerInput `json:"customer"`
	ServiceID         uint           `json:"service_id"`
	BandwidthOptionID uint           `json:"bandwidth_option_id"`
	FeatureIDs        []uint         `json:"feature_ids"`
	ContractMonths    int            `json:"contract_months"`
	Notes             string         `json:"notes"`
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in quotePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	if in.CustomerID == 0 && in.Customer != nil {
		if v := in.Customer.validate(); !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		c := in.Customer.model()
		if err := h.DB.Create(&c).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
			return
		}
		in.CustomerID = c.ID
	}
	if in.CustomerID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"customer_id": "required"})
		return
	}

	salesRepID, _ := auth.UserIDFromContext(r.Context())

	q, err := h.Quotes.Build(services.QuoteInput{
		CustomerID:        in.CustomerID,
		SalesRepID:        salesRepID,
		ServiceID:         in.ServiceID,
		BandwidthOptionID: in.BandwidthOptionID,
		FeatureIDs:        in.FeatureIDs,
		ContractMonths:    in.ContractMonths,
		Notes:             in.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerRequired),
			errors.Is(err, services.ErrServiceNotFound),
			errors.Is(err, services.ErrBandwidthNotFound),
			errors.Is(err, services.ErrBandwidthMismatch),
			errors.Is(err, services.ErrFeatureNotFound):
			httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, services.ErrNumberExhausted):
			httpx.JSONError(w, http.StatusConflict, err.Error(), nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "quote_create_failed", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, quoteView(q))
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, query := listParams(r)
	dbq := h.DB.Model(&models.Quote{})
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidQuoteStatus(status) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
			return
		}
		dbq = dbq.Where("status = ?", status)
	}
	if query != "" {
		like := "%" + strings.ToLower(likeSanitizer.ReplaceAllString(query, "")) + "%"
		dbq = dbq.Where("lower(number) LIKE ?", like)
	}
	var total int64
	dbq.Count(&total)
	var quotes []models.Quote
	if err := dbq.Preload("Customer").Order("id desc").Limit(limit).Offset(offset).Find(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	items := make([]map[string]any, 0, len(quotes))
	for i := range quotes {
		items = append(items, quoteView(&quotes[i]))
	}
	httpx.Page(w, items, total, limit, offset)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	q, err := h.Quotes.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "quote_load_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quoteView(q))
}

func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	q, err := h.Quotes.UpdateStatus(id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		case errors.Is(err, services.ErrQuoteNotFound):
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, quoteView(q))
}

// quoteView shapes a quote for the API. Records predating the linkage
// columns carry their metadata inside Notes; the view surfaces the clean
// free text and the recovered linkage so clients never see the markers.
func quoteView(q *models.Quote) map[string]any {
	out := map[string]any{
		"id":                   q.ID,
		"number":               q.Number,
		"customer_id":          q.CustomerID,
		"status":               q.Status,
		"total_monthly_cents":  q.TotalMonthlyCents,
		"total_one_time_cents": q.TotalOneTimeCents,
		"contract_months":      q.ContractMonths,
		"quote_date":           q.QuoteDate,
		"expiration_date":      q.ExpirationDate,
		"service_id":           q.ServiceID,
		"bandwidth_option_id":  q.BandwidthOptionID,
		"notes":                q.Notes,
	}
	if q.Customer.ID != 0 {
		out["customer"] = q.Customer
	}
	if q.Service != nil {
		out["service"] = q.Service
	}
	if q.BandwidthOption != nil {
		out["bandwidth_option"] = q.BandwidthOption
	}
	if len(q.Features) > 0 {
		out["features"] = q.Features
	}

	if q.SchemaVersion == 0 {
		meta, freeText, found, err := legacy.ParseNotes(q.Notes)
		if err == nil && found {
			out["notes"] = freeText
			out["legacy_metadata"] = meta
		}
	}
	return out
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/httpx"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/validation"
)

// FeatureHandler manages the optional add-on catalog (static IPs, managed
// routers, SLA upgrades and the like).
type FeatureHandler struct {
	DB *gorm.DB
}

func NewFeatureHandler(db *gorm.DB) *FeatureHandler { return &FeatureHandler{DB: db} }

func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, query := listParams(r)
	dbq := h.DB.Model(&models.Feature{})
	if query != "" {
		like := "%" + strings.ToLower(likeSanitizer.ReplaceAllString(query, "")) + "%"
		dbq = dbq.Where("lower(name) LIKE ?", like)
	}
	var total int64
	dbq.Count(&total)
	var features []models.Feature
	if err := dbq.Order("name asc").Limit(limit).Offset(offset).Find(&features).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_features", nil)
		return
	}
	httpx.Page(w, features, total, limit, offset)
}

type featureInput struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	MonthlyPriceCents int64  `json:"monthly_price_cents"`
	OneTimeFeeCents   int64  `json:"one_time_fee_cents"`
}

func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in featureInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		in.Name = r.FormValue("name")
		in.Description = r.FormValue("description")
		in.MonthlyPriceCents, _ = strconv.ParseInt(r.FormValue("monthly_price_cents"), 10, 64)
		in.OneTimeFeeCents, _ = strconv.ParseInt(r.FormValue("one_time_fee_cents"), 10, 64)
	}

	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.NonNegativeCents("monthly_price_cents", in.MonthlyPriceCents, v)
	validation.NonNegativeCents("one_time_fee_cents", in.OneTimeFeeCents, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	f := models.Feature{Name: strings.TrimSpace(in.Name), Description: in.Description,
		MonthlyPriceCents: in.MonthlyPriceCents, OneTimeFeeCents: in.OneTimeFeeCents}
	if err := h.DB.Create(&f).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "feature_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *FeatureHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var f models.Feature
	if err := h.DB.First(&f, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var body struct {
		Name              *string `json:"name"`
		Description       *string `json:"description"`
		MonthlyPriceCents *int64  `json:"monthly_price_cents"`
		OneTimeFeeCents   *int64  `json:"one_time_fee_cents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if body.Name != nil {
		f.Name = strings.TrimSpace(*body.Name)
	}
	if body.Description != nil {
		f.Description = *body.Description
	}
	if body.MonthlyPriceCents != nil && *body.MonthlyPriceCents >= 0 {
		f.MonthlyPriceCents = *body.MonthlyPriceCents
	}
	if body.OneTimeFeeCents != nil && *body.OneTimeFeeCents >= 0 {
		f.OneTimeFeeCents = *body.OneTimeFeeCents
	}
	if err := h.DB.Save(&f).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

// Delete removes a feature from the catalog. Quotes keep their
// denormalized snapshots.
func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.DB.Delete(&models.Feature{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

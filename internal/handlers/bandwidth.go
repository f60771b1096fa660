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

type BandwidthHandler struct {
	DB *gorm.DB
}

func NewBandwidthHandler(db *gorm.DB) *BandwidthHandler { return &BandwidthHandler{DB: db} }

// List returns the bandwidth tiers of one service. Sales users only see
// available tiers; admins pass all=1 to include disabled ones.
func (h *BandwidthHandler) List(w http.ResponseWriter, r *http.Request) {
	serviceID, _ := strconv.Atoi(r.URL.Query().Get("service_id"))
	if serviceID <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_service_id", nil)
		return
	}
	dbq := h.DB.Where("service_id = ?", serviceID)
	if r.URL.Query().Get("all") == "" {
		dbq = dbq.Where("available = ?", true)
	}
	var options []models.BandwidthOption
	if err := dbq.Order("monthly_price_cents asc").Find(&options).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_bandwidth", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": options, "total": len(options)})
}

type bandwidthInput struct {
	ServiceID         uint   `json:"service_id"`
	Value             int    `json:"value"`
	Unit              string `json:"unit"`
	MonthlyPriceCents int64  `json:"monthly_price_cents"`
	Available         *bool  `json:"available"`
}

func (h *BandwidthHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in bandwidthInput
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
		sid, _ := strconv.Atoi(r.FormValue("service_id"))
		in.ServiceID = uint(sid)
		in.Value, _ = strconv.Atoi(r.FormValue("value"))
		in.Unit = r.FormValue("unit")
		in.MonthlyPriceCents, _ = strconv.ParseInt(r.FormValue("monthly_price_cents"), 10, 64)
	}

	v := validation.Violations{}
	validation.RequiredID("service_id", in.ServiceID, v)
	validation.PositiveInt("value", in.Value, v)
	validation.OneOf("unit", in.Unit, models.BandwidthUnits, v)
	validation.NonNegativeCents("monthly_price_cents", in.MonthlyPriceCents, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var service models.Service
	if err := h.DB.First(&service, in.ServiceID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "service_not_found", nil)
		return
	}

	opt := models.BandwidthOption{ServiceID: in.ServiceID, Value: in.Value, Unit: in.Unit,
		MonthlyPriceCents: in.MonthlyPriceCents, Available: true}
	if in.Available != nil {
		opt.Available = *in.Available
	}
	if err := h.DB.Create(&opt).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "bandwidth_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, opt)
}

func (h *BandwidthHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var opt models.BandwidthOption
	if err := h.DB.First(&opt, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var body struct {
		Value             *int    `json:"value"`
		Unit              *string `json:"unit"`
		MonthlyPriceCents *int64  `json:"monthly_price_cents"`
		Available         *bool   `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if body.Value != nil && *body.Value > 0 {
		opt.Value = *body.Value
	}
	if body.Unit != nil {
		if !models.ValidBandwidthUnit(*body.Unit) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"unit": "invalid_value"})
			return
		}
		opt.Unit = *body.Unit
	}
	if body.MonthlyPriceCents != nil {
		if *body.MonthlyPriceCents < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"monthly_price_cents": "must_not_be_negative"})
			return
		}
		opt.MonthlyPriceCents = *body.MonthlyPriceCents
	}
	if body.Available != nil {
		opt.Available = *body.Available
	}
	if err := h.DB.Save(&opt).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, opt)
}

func (h *BandwidthHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.DB.Delete(&models.BandwidthOption{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

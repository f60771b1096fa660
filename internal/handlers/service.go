package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/httpx"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/validation"
)

// ServiceHandler manages the service catalog: the sellable connectivity
// products and their bandwidth tiers.
type ServiceHandler struct {
	DB *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler { return &ServiceHandler{DB: db} }

var likeSanitizer = regexp.MustCompile(`[^a-zA-Z0-9 \-_]`)

// listParams extracts the shared pagination and search parameters.
func listParams(r *http.Request) (limit, offset int, query string) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	query = strings.TrimSpace(r.URL.Query().Get("q"))
	return limit, offset, query
}

func idParam(r *http.Request) uint {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, _ := strconv.Atoi(idStr)
	if id < 0 {
		return 0
	}
	return uint(id)
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, query := listParams(r)
	dbq := h.DB.Model(&models.Service{})
	if query != "" {
		like := "%" + strings.ToLower(likeSanitizer.ReplaceAllString(query, "")) + "%"
		dbq = dbq.Where("lower(name) LIKE ?", like)
	}
	if cat := r.URL.Query().Get("category"); cat != "" {
		dbq = dbq.Where("category = ?", cat)
	}
	var total int64
	dbq.Count(&total)
	var services []models.Service
	if err := dbq.Preload("BandwidthOptions").Order("id desc").Limit(limit).Offset(offset).Find(&services).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_services", nil)
		return
	}
	httpx.Page(w, services, total, limit, offset)
}

type serviceInput struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	SetupFeeCents     int64  `json:"setup_fee_cents"`
	MinContractMonths int    `json:"min_contract_months"`
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in serviceInput
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
		in.Category = r.FormValue("category")
		in.Description = r.FormValue("description")
		in.SetupFeeCents, _ = strconv.ParseInt(r.FormValue("setup_fee_cents"), 10, 64)
		in.MinContractMonths, _ = strconv.Atoi(r.FormValue("min_contract_months"))
	}

	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.OneOf("category", in.Category, models.ServiceCategories, v)
	validation.NonNegativeCents("setup_fee_cents", in.SetupFeeCents, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if in.MinContractMonths <= 0 {
		in.MinContractMonths = 12
	}

	s := models.Service{Name: strings.TrimSpace(in.Name), Category: in.Category, Description: in.Description,
		SetupFeeCents: in.SetupFeeCents, MinContractMonths: in.MinContractMonths}
	if err := h.DB.Create(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "service_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Service
	if err := h.DB.First(&s, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var body struct {
		Name              *string `json:"name"`
		Category          *string `json:"category"`
		Description       *string `json:"description"`
		SetupFeeCents     *int64  `json:"setup_fee_cents"`
		MinContractMonths *int    `json:"min_contract_months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if body.Name != nil {
		s.Name = strings.TrimSpace(*body.Name)
	}
	if body.Category != nil {
		if !models.ValidServiceCategory(*body.Category) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"category": "invalid_value"})
			return
		}
		s.Category = *body.Category
	}
	if body.Description != nil {
		s.Description = *body.Description
	}
	if body.SetupFeeCents != nil {
		if *body.SetupFeeCents < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"setup_fee_cents": "must_not_be_negative"})
			return
		}
		s.SetupFeeCents = *body.SetupFeeCents
	}
	if body.MinContractMonths != nil && *body.MinContractMonths > 0 {
		s.MinContractMonths = *body.MinContractMonths
	}
	if err := h.DB.Save(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// Delete removes a service and its bandwidth tiers. Existing quotes keep
// their snapshots and nullable linkage, so history is unaffected.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&models.BandwidthOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Service{}, id).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/httpx"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/validation"
)

type CustomerHandler struct {
	DB *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, query := listParams(r)
	dbq := h.DB.Model(&models.Customer{})
	if query != "" {
		like := "%" + strings.ToLower(likeSanitizer.ReplaceAllString(query, "")) + "%"
		dbq = dbq.Where("lower(company_name) LIKE ? OR lower(contact_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}
	var total int64
	dbq.Count(&total)
	var customers []models.Customer
	if err := dbq.Order("id desc").Limit(limit).Offset(offset).Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.Page(w, customers, total, limit, offset)
}

type customerInput struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Industry    string `json:"industry"`
}

func (in customerInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("company_name", in.CompanyName, v)
	validation.Required("contact_name", in.ContactName, v)
	validation.Required("email", in.Email, v)
	return v
}

func (in customerInput) model() models.Customer {
	return models.Customer{
		CompanyName: strings.TrimSpace(in.CompanyName),
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     in.Address, // may contain newlines for the document renderer
		City:        strings.TrimSpace(in.City),
		Country:     strings.TrimSpace(in.Country),
		Industry:    strings.TrimSpace(in.Industry),
	}
}

func readCustomerInput(r *http.Request) (customerInput, bool) {
	var in customerInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, false
		}
		return in, true
	}
	if err := r.ParseForm(); err != nil {
		return in, false
	}
	in.CompanyName = r.FormValue("company_name")
	in.ContactName = r.FormValue("contact_name")
	in.Email = r.FormValue("email")
	in.Phone = r.FormValue("phone")
	in.Address = r.FormValue("address")
	in.City = r.FormValue("city")
	in.Country = r.FormValue("country")
	in.Industry = r.FormValue("industry")
	return in, true
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readCustomerInput(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := in.model()
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var body struct {
		CompanyName *string `json:"company_name"`
		ContactName *string `json:"contact_name"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		Address     *string `json:"address"`
		City        *string `json:"city"`
		Country     *string `json:"country"`
		Industry    *string `json:"industry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if body.CompanyName != nil {
		c.CompanyName = strings.TrimSpace(*body.CompanyName)
	}
	if body.ContactName != nil {
		c.ContactName = strings.TrimSpace(*body.ContactName)
	}
	if body.Email != nil {
		c.Email = strings.TrimSpace(*body.Email)
	}
	if body.Phone != nil {
		c.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Address != nil {
		c.Address = *body.Address
	}
	if body.City != nil {
		c.City = strings.TrimSpace(*body.City)
	}
	if body.Country != nil {
		c.Country = strings.TrimSpace(*body.Country)
	}
	if body.Industry != nil {
		c.Industry = strings.TrimSpace(*body.Industry)
	}
	if err := h.DB.Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Quote{}).Where("customer_id = ?", id).Count(&count).Error; err == nil && count > 0 {
		httpx.JSONError(w, http.StatusConflict, "customer_has_quotes", nil)
		return
	}
	if err := h.DB.Delete(&models.Customer{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

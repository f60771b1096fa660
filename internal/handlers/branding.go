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

// BrandingHandler manages reseller letterhead profiles. Exactly one
// profile is active at a time; documents render with the active one.
type BrandingHandler struct {
	DB *gorm.DB
}

func NewBrandingHandler(db *gorm.DB) *BrandingHandler { return &BrandingHandler{DB: db} }

func (h *BrandingHandler) List(w http.ResponseWriter, r *http.Request) {
	var profiles []models.BrandingProfile
	if err := h.DB.Order("id asc").Find(&profiles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_branding", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": profiles, "total": len(profiles)})
}

type brandingInput struct {
	Name         string `json:"name"`
	CompanyName  string `json:"company_name"`
	LogoURL      string `json:"logo_url"`
	Address      string `json:"address"`
	Contact      string `json:"contact"`
	Email        string `json:"email"`
	PrimaryColor string `json:"primary_color"`
	Active       bool   `json:"active"`
}

func validColor(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func (h *BrandingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in brandingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("company_name", in.CompanyName, v)
	if in.PrimaryColor != "" && !validColor(in.PrimaryColor) {
		v["primary_color"] = "invalid_value"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	p := models.BrandingProfile{
		Name:        strings.TrimSpace(in.Name),
		CompanyName: strings.TrimSpace(in.CompanyName),
		LogoURL:     strings.TrimSpace(in.LogoURL),
		Address:     in.Address,
		Contact:     strings.TrimSpace(in.Contact),
		Email:       strings.TrimSpace(in.Email),
		Active:      in.Active,
	}
	if in.PrimaryColor != "" {
		p.PrimaryColor = in.PrimaryColor
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if in.Active {
			if err := tx.Model(&models.BrandingProfile{}).Where("active = ?", true).Update("active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "branding_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *BrandingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.BrandingProfile
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var body struct {
		Name         *string `json:"name"`
		CompanyName  *string `json:"company_name"`
		LogoURL      *string `json:"logo_url"`
		Address      *string `json:"address"`
		Contact      *string `json:"contact"`
		Email        *string `json:"email"`
		PrimaryColor *string `json:"primary_color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if body.Name != nil && *body.Name != "" {
		p.Name = strings.TrimSpace(*body.Name)
	}
	if body.CompanyName != nil && *body.CompanyName != "" {
		p.CompanyName = strings.TrimSpace(*body.CompanyName)
	}
	if body.LogoURL != nil {
		p.LogoURL = strings.TrimSpace(*body.LogoURL)
	}
	if body.Address != nil {
		p.Address = *body.Address
	}
	if body.Contact != nil {
		p.Contact = strings.TrimSpace(*body.Contact)
	}
	if body.Email != nil {
		p.Email = strings.TrimSpace(*body.Email)
	}
	if body.PrimaryColor != nil {
		if !validColor(*body.PrimaryColor) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"primary_color": "invalid_value"})
			return
		}
		p.PrimaryColor = *body.PrimaryColor
	}
	if err := h.DB.Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Activate makes one profile the document letterhead, deactivating the
// rest in the same transaction.
func (h *BrandingHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.BrandingProfile
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BrandingProfile{}).Where("active = ?", true).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&p).Update("active", true).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "activate_failed", nil)
		return
	}
	p.Active = true
	httpx.JSON(w, http.StatusOK, p)
}

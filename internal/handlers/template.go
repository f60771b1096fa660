package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/doctmpl"
	"github.com/cloudlink-mu/telquote/internal/httpx"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/services"
	"github.com/cloudlink-mu/telquote/internal/validation"
)

var templateKinds = []string{models.TemplateKindQuote, models.TemplateKindOrderForm}

// TemplateHandler manages document templates and their authoring preview.
type TemplateHandler struct {
	DB     *gorm.DB
	Quotes *services.QuoteService
}

func NewTemplateHandler(db *gorm.DB, quotes *services.QuoteService) *TemplateHandler {
	return &TemplateHandler{DB: db, Quotes: quotes}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.DocTemplate{})
	if kind := r.URL.Query().Get("kind"); kind != "" {
		dbq = dbq.Where("kind = ?", kind)
	}
	var templates []models.DocTemplate
	if err := dbq.Order("id asc").Find(&templates).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_templates", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": templates, "total": len(templates), "tokens": doctmpl.Vocabulary})
}

type templateInput struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Content   string `json:"content"`
	IsDefault bool   `json:"is_default"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in templateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("content", in.Content, v)
	validation.OneOf("kind", in.Kind, templateKinds, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	tpl := models.DocTemplate{Name: in.Name, Kind: in.Kind, Content: in.Content, IsDefault: in.IsDefault}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := tx.Model(&models.DocTemplate{}).Where("kind = ?", in.Kind).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&tpl).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "template_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var tpl models.DocTemplate
	if err := h.DB.First(&tpl, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var body struct {
		Name      *string `json:"name"`
		Content   *string `json:"content"`
		IsDefault *bool   `json:"is_default"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if body.Name != nil && *body.Name != "" {
		tpl.Name = *body.Name
	}
	if body.Content != nil && *body.Content != "" {
		tpl.Content = *body.Content
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if body.IsDefault != nil && *body.IsDefault && !tpl.IsDefault {
			if err := tx.Model(&models.DocTemplate{}).Where("kind = ?", tpl.Kind).Update("is_default", false).Error; err != nil {
				return err
			}
			tpl.IsDefault = true
		}
		return tx.Save(&tpl).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.DB.Delete(&models.DocTemplate{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Preview renders candidate template content against a real quote and
// reports which tokens stay empty or are unknown, so authors catch typos
// before saving.
func (h *TemplateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var body struct {
		Content string `json:"content"`
		QuoteID uint   `json:"quote_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if body.Content == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"content": "required"})
		return
	}

	var ctx *doctmpl.Context
	if body.QuoteID != 0 {
		q, err := h.Quotes.Get(body.QuoteID)
		if err != nil {
			httpx.JSONError(w, http.StatusNotFound, "quote_not_found", nil)
			return
		}
		var branding models.BrandingProfile
		var bp *models.BrandingProfile
		if err := h.DB.Where("active = ?", true).First(&branding).Error; err == nil {
			bp = &branding
		}
		ctx = doctmpl.BuildContext(q, bp)
	} else {
		ctx = doctmpl.BuildContext(nil, nil)
	}

	empty, unknown := doctmpl.Unresolved(body.Content, ctx)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"html":           doctmpl.Render(body.Content, ctx),
		"empty_tokens":   empty,
		"unknown_tokens": unknown,
	})
}

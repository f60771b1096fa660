package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/auth"
	"github.com/cloudlink-mu/telquote/internal/config"
	"github.com/cloudlink-mu/telquote/internal/export"
	"github.com/cloudlink-mu/telquote/internal/handlers"
	"github.com/cloudlink-mu/telquote/internal/httpx"
	"github.com/cloudlink-mu/telquote/internal/middleware"
	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	listCreate := func(list, create http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		}
	}

	sh := handlers.NewServiceHandler(db)
	mux.Handle("/services", protected(listCreate(sh.List, sh.Create)))
	mux.Handle("/services/update", protected(sh.Update))
	mux.Handle("/services/delete", protected(sh.Delete))

	bh := handlers.NewBandwidthHandler(db)
	mux.Handle("/bandwidth", protected(listCreate(bh.List, bh.Create)))
	mux.Handle("/bandwidth/update", protected(bh.Update))
	mux.Handle("/bandwidth/delete", protected(bh.Delete))

	fh := handlers.NewFeatureHandler(db)
	mux.Handle("/features", protected(listCreate(fh.List, fh.Create)))
	mux.Handle("/features/update", protected(fh.Update))
	mux.Handle("/features/delete", protected(fh.Delete))

	ch := handlers.NewCustomerHandler(db)
	mux.Handle("/customers", protected(listCreate(ch.List, ch.Create)))
	mux.Handle("/customers/update", protected(ch.Update))
	mux.Handle("/customers/delete", protected(ch.Delete))

	quoteSvc := services.NewQuoteService(db, cfg.QuoteValidityDays)
	qh := handlers.NewQuoteHandler(db, quoteSvc)
	mux.Handle("/quotes", protected(listCreate(qh.List, qh.Create)))
	mux.Handle("/quotes/get", protected(qh.Get))
	mux.Handle("/quotes/status", protected(qh.UpdateStatus))

	pipeline := export.NewPipeline(export.NewAssetLoader(cfg.AssetTimeout), cfg.ExportScale)
	eh := handlers.NewExportHandler(db, quoteSvc, pipeline)
	mux.Handle("/quotes/html", protected(eh.HTML))
	mux.Handle("/quotes/pdf", protected(eh.PDF))
	mux.Handle("/quotes/export", protected(eh.XLSX))

	th := handlers.NewTemplateHandler(db, quoteSvc)
	mux.Handle("/templates", protected(listCreate(th.List, th.Create)))
	mux.Handle("/templates/update", protected(th.Update))
	mux.Handle("/templates/delete", protected(th.Delete))
	mux.Handle("/templates/preview", protected(th.Preview))

	brh := handlers.NewBrandingHandler(db)
	mux.Handle("/branding", protected(listCreate(brh.List, brh.Create)))
	mux.Handle("/branding/update", protected(brh.Update))
	mux.Handle("/branding/activate", protected(brh.Activate))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"service": "telquote", "status": "ok"})
	})
	//revive:enable:unused-parameter

	return withRecover(middleware.RequestLog(mux))
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("request panicked")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

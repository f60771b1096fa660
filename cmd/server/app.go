package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/config"
	"github.com/cloudlink-mu/telquote/internal/server"
)

// App bundles the wired HTTP surface so end-to-end tests can drive the
// whole application through httptest.
type App struct {
	DB      *gorm.DB
	Handler http.Handler
}

func NewApp(db *gorm.DB, cfg config.Config) *App {
	return &App{DB: db, Handler: server.New(db, cfg)}
}

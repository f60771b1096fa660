package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cloudlink-mu/telquote/internal/config"
	"github.com/cloudlink-mu/telquote/internal/db"
	"github.com/cloudlink-mu/telquote/internal/jobs"
	"github.com/cloudlink-mu/telquote/internal/legacy"
	"github.com/cloudlink-mu/telquote/internal/services"
)

var (
	migrateOnlyFlag   = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	migrateLegacyFlag = flag.Bool("migrate-legacy", false, "Lift notes-embedded quote metadata into linkage columns and exit")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed; exiting as requested")
		return
	}
	if *migrateLegacyFlag {
		migrated, skipped, err := legacy.MigrateQuotes(dbConn)
		if err != nil {
			log.Fatal().Err(err).Msg("legacy quote migration failed")
		}
		log.Info().Int("migrated", migrated).Int("skipped", skipped).Msg("legacy quote migration finished")
		return
	}

	app := NewApp(dbConn, cfg)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: app.Handler}

	sweeper := jobs.NewExpirySweeper(services.NewQuoteService(dbConn, cfg.QuoteValidityDays))
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("expiry sweeper failed to start")
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	sweeper.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

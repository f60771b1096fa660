// Package jobs hosts the background schedules that keep quote state
// consistent without user action.
package jobs

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/cloudlink-mu/telquote/internal/services"
)

// ExpirySweeper periodically marks sent quotes past their expiration date
// as expired.
type ExpirySweeper struct {
	quotes *services.QuoteService
	cron   *cron.Cron
}

func NewExpirySweeper(quotes *services.QuoteService) *ExpirySweeper {
	return &ExpirySweeper{quotes: quotes, cron: cron.New()}
}

// Start runs one sweep immediately, then hourly. Call Stop on shutdown.
func (s *ExpirySweeper) Start() error {
	s.run()
	if _, err := s.cron.AddFunc("@hourly", s.run); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ExpirySweeper) run() {
	n, err := s.quotes.SweepExpired()
	if err != nil {
		log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("quotes marked expired")
	}
}

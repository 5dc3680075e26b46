// Package schedule triggers the daily content generation: a coarse ticker
// compares the clock against the configured time-of-day and the last run's
// date, and fires the pipeline once per calendar day.
package schedule

import (
	"context"
	"time"

	"log/slog"

	"github.com/khuang/screenroast/lib/state"
	"github.com/khuang/screenroast/models"
)

// Generator is the slice of the pipeline the scheduler invokes.
type Generator interface {
	Generate(ctx context.Context, mediaType models.MediaType) (models.Review, error)
}

type Scheduler struct {
	state    *state.State
	gen      Generator
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func New(st *state.State, gen Generator, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		state:    st,
		gen:      gen,
		logger:   logger,
		interval: time.Minute,
		now:      time.Now,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one due check and, when due, one generation attempt. The
// last-update marker advances whether or not generation succeeded, so a
// failed run is not retried until the next calendar day.
func (s *Scheduler) Tick(ctx context.Context) {
	cfg := s.state.Config()
	if cfg.TMDBAPIKey == "" {
		return
	}

	now := s.now()
	if !Due(now, cfg.LastUpdateDate, cfg.UpdateTime) {
		return
	}

	mediaType := MediaTypeFor(now)
	s.logger.Info("Daily update due",
		slog.String("media_type", string(mediaType)),
		slog.Time("now", now))

	if _, err := s.gen.Generate(ctx, mediaType); err != nil {
		s.logger.Error("Scheduled generation failed; skipping until tomorrow",
			slog.Any("error", err))
	}

	if err := s.state.SetLastUpdate(now); err != nil {
		s.logger.Error("Failed to advance last-update marker", slog.Any("error", err))
	}
}

// Due reports whether a run is owed: the calendar day has changed since the
// last run and the clock has passed the configured HH:MM.
func Due(now, last time.Time, updateTime string) bool {
	if sameDay(now, last) {
		return false
	}
	target, err := time.Parse("15:04", updateTime)
	if err != nil {
		return false
	}
	if now.Hour() > target.Hour() {
		return true
	}
	return now.Hour() == target.Hour() && now.Minute() >= target.Minute()
}

// MediaTypeFor alternates content by day-of-month parity: shows on even
// days, movies on odd.
func MediaTypeFor(now time.Time) models.MediaType {
	if now.Day()%2 == 0 {
		return models.MediaTV
	}
	return models.MediaMovie
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

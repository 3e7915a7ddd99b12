package announce

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"flatbot/internal/config"
	"flatbot/internal/delivery"
	"flatbot/internal/roster"
	"flatbot/pkg/prompts"
	"flatbot/pkg/template"
)

// Announcer posts the upcoming roster to the flat group once a week,
// at the configured weekday and time of day.
type Announcer struct {
	engine  *roster.Engine
	deliver delivery.Deliverer
	target  string
	weekday time.Weekday
	at      time.Duration
	now     func() time.Time
}

func New(engine *roster.Engine, deliver delivery.Deliverer, cfg config.Announce) *Announcer {
	return &Announcer{
		engine:  engine,
		deliver: deliver,
		target:  cfg.Target,
		weekday: cfg.Weekday,
		at:      cfg.At,
		now:     time.Now,
	}
}

// Run blocks until the context is cancelled, announcing at every
// configured occurrence.
func (a *Announcer) Run(ctx context.Context) {
	for {
		next := a.nextRun(a.now())
		timer := time.NewTimer(next.Sub(a.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			a.Announce()
		}
	}
}

// Announce renders and delivers the roster summary once.
func (a *Announcer) Announce() {
	body, err := a.render()
	if err != nil {
		log.Error().Err(err).Msg("cannot render announcement")
		return
	}
	if err := a.deliver.Deliver(a.target, body); err != nil {
		log.Error().Err(err).Msg("cannot deliver announcement")
		return
	}
	log.Info().Str("target", a.target).Msg("weekly announcement sent")
}

func (a *Announcer) render() (string, error) {
	periods := a.engine.Upcoming(a.now(), 3)
	return template.Parse(prompts.AnnouncementTemplate, struct {
		Periods []roster.PeriodAssignments
	}{periods})
}

// nextRun finds the next occurrence of weekday+at strictly after now.
func (a *Announcer) nextRun(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < 8; i++ {
		candidate := day.AddDate(0, 0, i).Add(a.at)
		if candidate.Weekday() == a.weekday && candidate.After(now) {
			return candidate
		}
	}
	// unreachable: 8 days always contain the weekday
	return now.Add(7 * 24 * time.Hour)
}

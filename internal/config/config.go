package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTP
	Log       Log
	LLM       LLM
	Reasoning Reasoning
	Search    Search
	Reminders Reminders
	Roster    Roster
	Announce  Announce
	Delivery  Delivery
}

type HTTP struct {
	Addr string
}

type Log struct {
	Level  string
	Pretty bool
}

type LLM struct {
	Model   string
	Timeout time.Duration
	Retries int
}

type Reasoning struct {
	MaxSteps       int
	EpisodeTimeout time.Duration
}

type Search struct {
	Timeout time.Duration
}

type Reminders struct {
	MaxDelay      time.Duration
	SweepInterval time.Duration
}

// Roster holds the rotation config: per duty type an ordered member list,
// plus the reference time and length that turn wall-clock time into a
// period index.
type Roster struct {
	Duties       map[string][]string
	PeriodBase   time.Time
	PeriodLength time.Duration
}

type Announce struct {
	Enabled bool
	Target  string
	Weekday time.Weekday
	At      time.Duration // offset into the day
}

type Delivery struct {
	WebhookURL string
	Timeout    time.Duration
}

// Load reads the config file (explicit path, or ./config.yaml) with
// FLATBOT_* env overrides. Called once at startup; there is no reload.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("FLATBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		HTTP: HTTP{Addr: v.GetString("http.addr")},
		Log:  Log{Level: v.GetString("log.level"), Pretty: v.GetBool("log.pretty")},
		LLM: LLM{
			Model:   v.GetString("llm.model"),
			Timeout: v.GetDuration("llm.timeout"),
			Retries: v.GetInt("llm.retries"),
		},
		Reasoning: Reasoning{
			MaxSteps:       v.GetInt("reasoning.max_steps"),
			EpisodeTimeout: v.GetDuration("reasoning.episode_timeout"),
		},
		Search: Search{Timeout: v.GetDuration("search.timeout")},
		Reminders: Reminders{
			MaxDelay:      v.GetDuration("reminders.max_delay"),
			SweepInterval: v.GetDuration("reminders.sweep_interval"),
		},
		Roster: Roster{
			Duties:       v.GetStringMapStringSlice("roster.duties"),
			PeriodLength: v.GetDuration("roster.period_length"),
		},
		Delivery: Delivery{
			WebhookURL: v.GetString("delivery.webhook_url"),
			Timeout:    v.GetDuration("delivery.timeout"),
		},
	}

	base, err := parseDate(v.GetString("roster.period_base"))
	if err != nil {
		return nil, fmt.Errorf("roster.period_base: %w", err)
	}
	cfg.Roster.PeriodBase = base

	cfg.Announce, err = parseAnnounce(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.retries", 2)
	v.SetDefault("reasoning.max_steps", 6)
	v.SetDefault("reasoning.episode_timeout", 90*time.Second)
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("reminders.max_delay", 7*24*time.Hour)
	v.SetDefault("reminders.sweep_interval", 250*time.Millisecond)
	v.SetDefault("roster.period_base", "2026-01-03")
	v.SetDefault("roster.period_length", 7*24*time.Hour)
	v.SetDefault("announce.enabled", false)
	v.SetDefault("announce.weekday", "Saturday")
	v.SetDefault("announce.at", "10:00")
	v.SetDefault("delivery.timeout", 10*time.Second)
}

func parseAnnounce(v *viper.Viper) (Announce, error) {
	a := Announce{
		Enabled: v.GetBool("announce.enabled"),
		Target:  v.GetString("announce.target"),
	}

	weekday, err := parseWeekday(v.GetString("announce.weekday"))
	if err != nil {
		return Announce{}, fmt.Errorf("announce.weekday: %w", err)
	}
	a.Weekday = weekday

	at, err := time.Parse("15:04", v.GetString("announce.at"))
	if err != nil {
		return Announce{}, fmt.Errorf("announce.at: %w", err)
	}
	a.At = time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute

	return a, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}

func (c *Config) validate() error {
	if c.Reasoning.MaxSteps <= 0 {
		return errors.New("reasoning.max_steps must be positive")
	}
	if c.Reminders.MaxDelay <= 0 {
		return errors.New("reminders.max_delay must be positive")
	}
	if c.Roster.PeriodLength <= 0 {
		return errors.New("roster.period_length must be positive")
	}
	for duty, members := range c.Roster.Duties {
		if len(members) == 0 {
			return fmt.Errorf("roster duty %q has no members", duty)
		}
	}
	if c.Announce.Enabled && c.Announce.Target == "" {
		return errors.New("announce.target required when announcements are enabled")
	}
	return nil
}

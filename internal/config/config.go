package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"

	"github.com/example/agenda-console/internal/agenda"
)

// Config captures environment driven configuration for the console service.
type Config struct {
	HTTP struct {
		Host string `env:"CONSOLE_HTTP_HOST" envDefault:""`
		Port int    `env:"CONSOLE_HTTP_PORT" envDefault:"8080"`
	}

	SQLite struct {
		DSN string `env:"CONSOLE_SQLITE_DSN" envDefault:"file:console.db?_foreign_keys=on"`
	}

	Agenda struct {
		// DayStart/DayEnd bound the offerable business day; the slot
		// catalogue is generated between them at SlotMinutes granularity.
		DayStart    string `env:"CONSOLE_AGENDA_DAY_START" envDefault:"09:00"`
		DayEnd      string `env:"CONSOLE_AGENDA_DAY_END" envDefault:"18:00"`
		SlotMinutes int    `env:"CONSOLE_AGENDA_SLOT_MINUTES" envDefault:"30"`
	}

	Cache struct {
		Enabled bool `env:"CONSOLE_CACHE_ENABLED" envDefault:"true"`
		Size    int  `env:"CONSOLE_CACHE_SIZE" envDefault:"128"`
		// WarmCron re-computes the current month's aggregates periodically;
		// empty disables the job.
		WarmCron string `env:"CONSOLE_CACHE_WARM_CRON" envDefault:""`
	}

	AMQP struct {
		Enabled bool   `env:"CONSOLE_AMQP_ENABLED" envDefault:"false"`
		URL     string `env:"CONSOLE_AMQP_URL" envDefault:""`
		Queue   string `env:"CONSOLE_AMQP_QUEUE" envDefault:"console.bookings"`
	}
}

// Load parses configuration from the current process environment and
// validates cross-field constraints.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("no se pudo leer la configuración: %w", err)
	}

	invalid := make([]string, 0, 2)

	if cfg.HTTP.Port <= 0 {
		invalid = append(invalid, "CONSOLE_HTTP_PORT")
	}
	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		invalid = append(invalid, "CONSOLE_CACHE_SIZE")
	}
	if cfg.AMQP.Enabled && strings.TrimSpace(cfg.AMQP.URL) == "" {
		invalid = append(invalid, "CONSOLE_AMQP_URL")
	}
	if _, err := cfg.SlotCatalogue(); err != nil {
		invalid = append(invalid, "CONSOLE_AGENDA_DAY_START, CONSOLE_AGENDA_DAY_END, CONSOLE_AGENDA_SLOT_MINUTES")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valores de configuración no válidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// SlotCatalogue derives the offerable slot codes from the configured
// business hours.
func (c Config) SlotCatalogue() ([]string, error) {
	open, err := agenda.ParseTimeOfDay(c.Agenda.DayStart)
	if err != nil {
		return nil, fmt.Errorf("day start %q: %w", c.Agenda.DayStart, err)
	}
	closing, err := agenda.ParseTimeOfDay(c.Agenda.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("day end %q: %w", c.Agenda.DayEnd, err)
	}
	return agenda.SlotCatalogue(open, closing, c.Agenda.SlotMinutes)
}

// Addr renders the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

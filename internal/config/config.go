package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/getsentry/timekeeper/internal/report"
)

type (
	Config struct {
		Environment string `yaml:"environment" env:"SENTRY_ENVIRONMENT" env-default:"development"`
		SentryDSN   string `yaml:"sentry_dsn" env:"SENTRY_DSN"`
		LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
		Port        string `yaml:"port" env:"PORT" env-default:"8080"`

		// ConsumeInterval is the display cycle: how often queued frames are
		// aggregated and a frame time is recorded.
		ConsumeInterval  time.Duration `yaml:"consume_interval" env:"CONSUME_INTERVAL" env-default:"16ms"`
		FrameRateSamples int           `yaml:"frame_rate_samples" env:"FRAME_RATE_SAMPLES" env-default:"300"`

		Simulation Simulation `yaml:"simulation"`

		// ReportInterval is how often the terminal report is printed. Zero
		// disables it.
		ReportInterval time.Duration         `yaml:"report_interval" env:"REPORT_INTERVAL" env-default:"5s"`
		Display        report.DisplayOptions `yaml:"display"`
	}

	// Simulation describes the synthetic workload run by the demo host.
	Simulation struct {
		Workers     int           `yaml:"workers" env:"SIMULATION_WORKERS" env-default:"4"`
		FrameBudget time.Duration `yaml:"frame_budget" env:"SIMULATION_FRAME_BUDGET" env-default:"16ms"`
	}

	// ServiceConfig holds the values that depend on where the service runs.
	ServiceConfig struct {
		LogLevel       string
		ReportInterval time.Duration
		Workers        int
	}
)

var serviceConfigs = map[string]ServiceConfig{
	"production": {
		LogLevel:       "warn",
		ReportInterval: time.Minute,
		Workers:        1,
	},
	"development": {
		LogLevel:       "debug",
		ReportInterval: 2 * time.Second,
	},
}

// Load reads the configuration from the file at path, when path is not
// empty, and from the environment. Environment variables take precedence
// over the file, which takes precedence over the preset of the environment.
func Load(path string) (Config, error) {
	var base Config
	if err := read(path, &base); err != nil {
		return Config{}, err
	}
	c := Config{Environment: base.Environment}
	if sc, ok := serviceConfigs[base.Environment]; ok {
		c.LogLevel = sc.LogLevel
		c.ReportInterval = sc.ReportInterval
		c.Simulation.Workers = sc.Workers
	}
	// defaults only fill fields the preset left empty
	if err := read(path, &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func read(path string, c *Config) error {
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, c)
	} else {
		err = cleanenv.ReadEnv(c)
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.ConsumeInterval <= 0:
		return fmt.Errorf("config: consume interval must be positive, got %v", c.ConsumeInterval)
	case c.FrameRateSamples <= 0:
		return fmt.Errorf("config: frame rate samples must be positive, got %d", c.FrameRateSamples)
	case c.ReportInterval < 0:
		return fmt.Errorf("config: report interval must not be negative, got %v", c.ReportInterval)
	case c.Simulation.Workers < 0:
		return fmt.Errorf("config: simulation workers must not be negative, got %d", c.Simulation.Workers)
	case c.Display.MaxDisplayFPS < c.Display.MinDisplayFPS:
		return fmt.Errorf("config: display fps range is empty [%v, %v]", c.Display.MinDisplayFPS, c.Display.MaxDisplayFPS)
	}
	return nil
}

// Usage describes every environment variable read by Load.
func Usage() string {
	var c Config
	u, err := cleanenv.GetDescription(&c, nil)
	if err != nil {
		return err.Error()
	}
	return u
}

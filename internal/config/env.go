package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the settings that can be supplied through the
// environment. Zero values mean "not set".
type envOverrides struct {
	URL          string `env:"XBVR_URL"`
	LogLevel     string `env:"XBVR_LOG_LEVEL"`
	LogFormat    string `env:"XBVR_LOG_FORMAT"`
	StateDir     string `env:"XBVR_STATE_DIR"`
	LogDir       string `env:"XBVR_LOG_DIR"`
	MatchWorkers int    `env:"XBVR_MATCH_WORKERS"`
	ScrapeWait   int    `env:"XBVR_SCRAPE_WAIT"`
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if v := strings.TrimSpace(overrides.URL); v != "" {
		c.Server.URL = v
	}
	if v := strings.TrimSpace(overrides.LogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(overrides.LogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(overrides.StateDir); v != "" {
		c.Paths.StateDir = v
	}
	if v := strings.TrimSpace(overrides.LogDir); v != "" {
		c.Paths.LogDir = v
	}
	if overrides.MatchWorkers > 0 {
		c.Match.Workers = overrides.MatchWorkers
	}
	if overrides.ScrapeWait > 0 {
		c.JAV.ScrapeWait = overrides.ScrapeWait
	}
	return nil
}

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeJAV()
	c.normalizeSLR()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	if c.Server.URL == "" {
		c.Server.URL = defaultServerURL
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeJAV() {
	prefixes := make([]string, 0, len(c.JAV.NoisyPrefixes))
	seen := make(map[string]struct{}, len(c.JAV.NoisyPrefixes))
	for _, prefix := range c.JAV.NoisyPrefixes {
		normalized := strings.ToLower(strings.TrimSpace(prefix))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		prefixes = append(prefixes, normalized)
	}
	c.JAV.NoisyPrefixes = prefixes

	for i := range c.JAV.Providers {
		p := &c.JAV.Providers[i]
		p.Name = strings.TrimSpace(p.Name)
		p.IDFormat = strings.ToLower(strings.TrimSpace(p.IDFormat))
		if p.IDFormat == "" {
			p.IDFormat = idFormatDVD
		}
	}
}

func (c *Config) normalizeSLR() {
	c.SLR.Site = strings.TrimSpace(c.SLR.Site)
	if c.SLR.Site == "" {
		c.SLR.Site = defaultSLRSite
	}
	c.SLR.BaseURL = strings.TrimSpace(c.SLR.BaseURL)
	if c.SLR.BaseURL == "" {
		c.SLR.BaseURL = defaultSLRBaseURL
	}
	if !strings.HasSuffix(c.SLR.BaseURL, "/") {
		c.SLR.BaseURL += "/"
	}
	c.Alt.Attribute = strings.TrimSpace(c.Alt.Attribute)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

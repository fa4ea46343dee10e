package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateJAV(); err != nil {
		return err
	}
	if c.Match.Workers < 1 {
		return errors.New("match.workers must be >= 1")
	}
	if err := c.validateSLR(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	parsed, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https, got %q", c.Server.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("server.url must include a host, got %q", c.Server.URL)
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive (seconds)")
	}
	if c.Server.RequestsPerSecond < 0 {
		return errors.New("server.requests_per_second must be >= 0")
	}
	return nil
}

func (c *Config) validateJAV() error {
	if c.JAV.ScrapeWait < 0 {
		return errors.New("jav.scrape_wait must be >= 0")
	}
	if c.JAV.PollInterval < 0 {
		return errors.New("jav.poll_interval must be >= 0")
	}
	if c.JAV.PollInterval > 0 && c.JAV.PollInterval > c.JAV.ScrapeWait {
		return errors.New("jav.poll_interval must not exceed jav.scrape_wait")
	}
	seen := make(map[string]struct{}, len(c.JAV.Providers))
	for i, p := range c.JAV.Providers {
		if p.Name == "" {
			return fmt.Errorf("jav.providers[%d].name must be set", i)
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("jav.providers: duplicate provider %q", p.Name)
		}
		seen[key] = struct{}{}
		switch p.IDFormat {
		case idFormatDVD, idFormatContent:
		default:
			return fmt.Errorf("jav.providers[%d].id_format must be %q or %q, got %q", i, idFormatDVD, idFormatContent, p.IDFormat)
		}
	}
	return nil
}

func (c *Config) validateSLR() error {
	parsed, err := url.Parse(c.SLR.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("slr.base_url must be an absolute URL, got %q", c.SLR.BaseURL)
	}
	return nil
}

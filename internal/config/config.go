package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server describes how to reach the XBVR instance.
type Server struct {
	URL               string  `toml:"url"`
	RequestTimeout    int     `toml:"request_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Provider is one JAV scraper XBVR can be asked to run. IDFormat selects the
// identifier rendering the scraper expects: "dvd" (ABCD-123) or "content"
// (ABCD00123).
type Provider struct {
	Name     string `toml:"name"`
	IDFormat string `toml:"id_format"`
	Enabled  bool   `toml:"enabled"`
}

// JAV contains configuration for identifier matching and scrape fallbacks.
type JAV struct {
	// ScrapeWait is the number of seconds to wait after triggering a scrape
	// before the catalog is checked again. XBVR reports no completion status.
	ScrapeWait int `toml:"scrape_wait"`
	// PollInterval, when positive, re-checks the catalog every N seconds
	// during ScrapeWait instead of sleeping the full duration once.
	PollInterval  int        `toml:"poll_interval"`
	NoisyPrefixes []string   `toml:"noisy_prefixes"`
	Providers     []Provider `toml:"providers"`
}

// Match contains configuration for known-filename matching.
type Match struct {
	Workers int `toml:"workers"`
}

// Alt contains configuration for alternate-site funscript matching.
type Alt struct {
	Attribute string `toml:"attribute"`
}

// SLR contains configuration for single-scene SLR scrapes.
type SLR struct {
	Site    string `toml:"site"`
	BaseURL string `toml:"base_url"`
}

// Paths contains local directories used for state and logs.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for xbvrkit.
//
// Configuration sections by subsystem:
//   - Server: XBVR base URL, timeouts, client-side request rate
//   - JAV: scrape wait/poll timing, noisy prefixes, ordered provider list
//   - Match: worker pool size for known-filename matching
//   - Alt: scene attribute used to find alternate-site listings
//   - SLR: site key and base URL for single-scene scrapes
//   - Paths: journal/lock state directory and optional log directory
//   - Logging: log format and level
type Config struct {
	Server  Server  `toml:"server"`
	JAV     JAV     `toml:"jav"`
	Match   Match   `toml:"match"`
	Alt     Alt     `toml:"alt"`
	SLR     SLR     `toml:"slr"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file so XBVR_URL and friends always win. The
// returned config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("xbvrkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory used by the journal and run lock.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// JournalPath returns the SQLite journal location inside the state directory.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LockPath returns the run lock file location inside the state directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "xbvrkit.lock")
}

// EnabledProviders returns the providers that should be tried, in priority order.
func (c *Config) EnabledProviders() []Provider {
	out := make([]Provider, 0, len(c.JAV.Providers))
	for _, p := range c.JAV.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

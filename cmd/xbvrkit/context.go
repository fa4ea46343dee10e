package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"xbvrkit/internal/config"
	"xbvrkit/internal/journal"
	"xbvrkit/internal/logging"
	"xbvrkit/internal/services"
	"xbvrkit/internal/xbvr"
)

type commandContext struct {
	configFlag *string
	urlFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	store *journal.Store
	lock  *journal.RunLock
}

func newCommandContext(configFlag, urlFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		urlFlag:    urlFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.urlFlag != nil && strings.TrimSpace(*c.urlFlag) != "" {
			cfg.Server.URL = strings.TrimRight(strings.TrimSpace(*c.urlFlag), "/")
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) client() (*xbvr.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := xbvr.NewFromConfig(cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "build client", "", err)
	}
	return client, nil
}

// beginRun takes the run lock for a mutating task and opens the journal. The
// journal is optional; a failure to open it is logged and the run proceeds
// without persistence.
func (c *commandContext) beginRun(task string) (*journal.Run, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.loggerValue()
	lock, err := journal.AcquireRunLock(cfg.LockPath())
	if err != nil {
		return nil, err
	}
	c.lock = lock

	store, err := journal.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "journal unavailable", "journal_open_failed",
			logging.String("path", cfg.JournalPath()),
			logging.String(logging.FieldImpact, "outcomes for this run are not recorded"),
			logging.Error(err),
		)
		return journal.NewRun(nil, task, logger), nil
	}
	c.store = store
	return journal.NewRun(store, task, logger), nil
}

func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
		c.store = nil
	}
	if c.lock != nil {
		if err := c.lock.Release(); err != nil && c.logger != nil {
			c.logger.Warn("failed to release run lock", logging.Error(err))
		}
		c.lock = nil
	}
}

// fetchUnmatched loads the initial work list. Failing here aborts the command.
func fetchUnmatched(ctx context.Context, cmd *cobra.Command, client *xbvr.Client) ([]xbvr.File, error) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Asking XBVR for unmatched files list...")
	files, err := client.ListUnmatchedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("get unmatched files from XBVR at %s: %w", client.BaseURL(), err)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to do: no unmatched files found in XBVR.")
		return nil, nil
	}
	fmt.Fprintf(out, "XBVR has %d unmatched files.\n", len(files))
	return files, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

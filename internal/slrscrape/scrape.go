package slrscrape

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"xbvrkit/internal/journal"
	"xbvrkit/internal/logging"
	"xbvrkit/internal/services"
)

// Task is the journal task name for SLR scrape runs.
const Task = "scrape-slr"

const (
	DefaultSite    = "slr-single_scene"
	DefaultBaseURL = "https://www.sexlikereal.com/"
	idPrefix       = "slr-"
)

// Scraper triggers a single-scene scrape on the server.
type Scraper interface {
	ScrapeSingle(ctx context.Context, site, sceneURL string) error
}

// Summary counts what a run did.
type Summary struct {
	Lines     int
	Queued    int
	Malformed int
	Failed    int
}

// Runner queues one scrape per SLR id read from a list.
type Runner struct {
	Scraper Scraper
	Site    string
	BaseURL string
	Journal *journal.Run
	Out     io.Writer
	Logger  *slog.Logger
}

// ParseID normalizes one list entry to its bare numeric id. An optional
// "slr-" prefix is accepted and leading zeros are dropped.
func ParseID(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if len(text) >= len(idPrefix) && strings.EqualFold(text[:len(idPrefix)], idPrefix) {
		text = text[len(idPrefix):]
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return "", services.Wrap(services.ErrMalformedInput, "slrscrape", "parse id",
			fmt.Sprintf("%q is not a numeric SLR id", strings.TrimSpace(raw)), nil)
	}
	return strconv.FormatUint(n, 10), nil
}

// SceneURL returns the SLR page for id.
func (r *Runner) SceneURL(id string) string {
	base := strings.TrimSpace(r.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + id
}

// RunFile reads ids from the file at path.
func (r *Runner) RunFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrMalformedInput, "slrscrape", "open id list", path, err)
	}
	defer f.Close()
	return r.Run(ctx, f)
}

// Run queues a scrape for every id in src, one per line. Blank lines are
// ignored; malformed lines and failed requests are reported and skipped.
func (r *Runner) Run(ctx context.Context, src io.Reader) (Summary, error) {
	ctx = r.Journal.Context(ctx)
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "slrscrape"))
	site := strings.TrimSpace(r.Site)
	if site == "" {
		site = DefaultSite
	}

	var summary Summary
	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Lines++

		id, err := ParseID(line)
		if err != nil {
			summary.Malformed++
			logging.WarnWithContext(logger, "skipping malformed id line", "slr_malformed_line",
				logging.Int("line", lineNo),
				logging.Error(err),
			)
			r.Journal.Record(ctx, fmt.Sprintf("line %d", lineNo), services.StatusSkipped, "", err.Error())
			continue
		}

		if err := r.Scraper.ScrapeSingle(ctx, site, r.SceneURL(id)); err != nil {
			summary.Failed++
			fmt.Fprintf(out, "%s:\t%s\n", id, services.StatusFailed)
			logging.WarnWithContext(logger, "scrape request failed", "slr_scrape_failed",
				logging.String(logging.FieldItem, id),
				logging.String(logging.FieldImpact, "scene not queued"),
				logging.Error(err),
			)
			r.Journal.Record(ctx, idPrefix+id, services.FailureStatus(err), "", err.Error())
			continue
		}
		summary.Queued++
		fmt.Fprintf(out, "%s:\t%s\n", id, services.StatusQueued)
		r.Journal.Record(ctx, idPrefix+id, services.StatusQueued, "", r.SceneURL(id))
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read id list: %w", err)
	}
	return summary, nil
}

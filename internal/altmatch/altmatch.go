package altmatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"xbvrkit/internal/journal"
	"xbvrkit/internal/logging"
	"xbvrkit/internal/services"
	"xbvrkit/internal/textutil"
	"xbvrkit/internal/xbvr"
)

// Task is the journal task name for alternate-site matching runs.
const Task = "alt-match"

// DefaultAttribute marks scenes that have listings on other sites.
const DefaultAttribute = "Available from Alternate Sites"

const funscriptExt = ".funscript"

// Catalog is the slice of the XBVR client alternate matching needs.
type Catalog interface {
	ListScenes(ctx context.Context, filter xbvr.SceneFilter) ([]xbvr.Scene, error)
	AlternateSources(ctx context.Context, sceneID int64) ([]xbvr.AlternateSource, error)
	MatchFile(ctx context.Context, fileID int64, sceneID string) error
}

// Summary counts what a run did.
type Summary struct {
	Files          int
	NotFunscript   int
	Malformed      int
	NoAlternate    int
	Matched        int
	Errors         int
	AlternateLinks int
}

// Matcher binds SLR-named funscripts to the scene for the same release on a
// studio's own site, using the scenes' alternate-source links.
type Matcher struct {
	Catalog   Catalog
	Attribute string
	Journal   *journal.Run
	Out       io.Writer
	Logger    *slog.Logger
}

// SLRID extracts "slr-<n>" from a funscript following the SLR naming
// convention, where the numeric id is the third-from-last dot-separated part
// of the stem. Names that do not follow it yield services.ErrMalformedInput.
func SLRID(filename string) (string, error) {
	parts := strings.Split(textutil.Stem(filename), ".")
	if len(parts) < 3 {
		return "", services.Wrap(services.ErrMalformedInput, "altmatch", "slr id",
			fmt.Sprintf("%q has too few dot-separated parts", filename), nil)
	}
	candidate := parts[len(parts)-3]
	if !isDigits(candidate) {
		return "", services.Wrap(services.ErrMalformedInput, "altmatch", "slr id",
			fmt.Sprintf("%q: %q is not numeric", filename, candidate), nil)
	}
	return "slr-" + candidate, nil
}

// BuildLookup lists the site's scenes that have alternate sources and maps
// each alternate external id to its scene. When two scenes claim the same
// external id the first one listed wins.
func (m *Matcher) BuildLookup(ctx context.Context, site string) (map[string]xbvr.Scene, error) {
	logger := logging.NewComponentLogger(m.Logger, "altmatch")
	scenes, err := m.Catalog.ListScenes(ctx, xbvr.SceneFilter{
		Sites:      []string{site},
		Attributes: []string{m.attribute()},
	})
	if err != nil {
		return nil, fmt.Errorf("list scenes for %s: %w", site, err)
	}
	lookup := make(map[string]xbvr.Scene)
	for _, scene := range scenes {
		alts, err := m.Catalog.AlternateSources(ctx, scene.ID)
		if err != nil {
			return nil, fmt.Errorf("alternate sources for %s: %w", scene.SceneID, err)
		}
		for _, alt := range alts {
			if existing, ok := lookup[alt.ExternalID]; ok {
				logging.WarnWithContext(logging.WithContext(ctx, logger), "duplicate alternate external id", "alt_duplicate_external_id",
					logging.String("external_id", alt.ExternalID),
					logging.String("kept_scene", existing.SceneID),
					logging.String("ignored_scene", scene.SceneID),
					logging.String(logging.FieldImpact, "later scene ignored for this id"),
				)
				continue
			}
			lookup[alt.ExternalID] = scene
		}
	}
	return lookup, nil
}

// Run builds the lookup for site and matches every funscript in files.
func (m *Matcher) Run(ctx context.Context, site string, files []xbvr.File) (Summary, error) {
	ctx = m.Journal.Context(ctx)
	out := m.Out
	if out == nil {
		out = io.Discard
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(m.Logger, "altmatch"))

	fmt.Fprintf(out, "Building list of alternate sites for %s...\n", site)
	lookup, err := m.BuildLookup(ctx, site)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Files: len(files), AlternateLinks: len(lookup)}
	if len(lookup) == 0 {
		fmt.Fprintf(out, "No alternate scenes found for %s.\n", site)
		return summary, nil
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if textutil.Ext(file.Filename) != funscriptExt {
			summary.NotFunscript++
			logger.Debug("skipping non-funscript", logging.String(logging.FieldItem, file.Filename))
			continue
		}
		slrID, err := SLRID(file.Filename)
		if err != nil {
			summary.Malformed++
			logging.WarnWithContext(logger, "funscript name does not follow the SLR convention", "alt_malformed_name",
				logging.String(logging.FieldItem, file.Filename),
				logging.Error(err),
			)
			m.Journal.Record(ctx, file.Filename, services.StatusSkipped, "", err.Error())
			continue
		}
		fmt.Fprintf(out, "Found funscript %s for SLR ID %s\n", file.Filename, slrID)

		scene, ok := lookup[slrID]
		if !ok {
			summary.NoAlternate++
			fmt.Fprintln(out, "\tNot found in alternate scenes. Skipping.")
			m.Journal.Record(ctx, file.Filename, services.StatusMissing, "", slrID)
			continue
		}
		fmt.Fprintf(out, "\tFound alt: %s\n\tMatching...", scene.Title)
		if err := m.Catalog.MatchFile(ctx, file.ID, scene.SceneID); err != nil {
			summary.Errors++
			fmt.Fprintf(out, "Nope: %v\n", err)
			logging.WarnWithContext(logger, "file binding failed", "alt_bind_failed",
				logging.String(logging.FieldItem, file.Filename),
				logging.String("scene_id", scene.SceneID),
				logging.String(logging.FieldImpact, "funscript left unmatched"),
				logging.Error(err),
			)
			m.Journal.Record(ctx, file.Filename, services.FailureStatus(err), scene.SceneID, err.Error())
			continue
		}
		fmt.Fprintln(out, "Done!")
		summary.Matched++
		m.Journal.Record(ctx, file.Filename, services.StatusMatched, scene.SceneID, slrID)
	}
	return summary, nil
}

func (m *Matcher) attribute() string {
	if attr := strings.TrimSpace(m.Attribute); attr != "" {
		return attr
	}
	return DefaultAttribute
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package javmatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"xbvrkit/internal/javid"
	"xbvrkit/internal/journal"
	"xbvrkit/internal/logging"
	"xbvrkit/internal/services"
	"xbvrkit/internal/xbvr"
)

// Task is the journal task name for JAV matching runs.
const Task = "jav-match"

// Binder attaches a file to a catalog scene.
type Binder interface {
	MatchFile(ctx context.Context, fileID int64, sceneID string) error
}

// Summary counts what a batch did.
type Summary struct {
	Files       int
	Unparsed    int
	Suppressed  int
	Identifiers int
	Matched     int
	NotMatched  int
	Errors      int
	FilesBound  int
}

// Batch groups unmatched files by identifier, resolves each identifier and
// binds the grouped files to the scene it resolves to.
type Batch struct {
	Resolver *Resolver
	Binder   Binder
	Filter   javid.Filter
	Journal  *journal.Run
	Out      io.Writer
	Logger   *slog.Logger
}

// Run processes files. Per-identifier failures are reported and counted; only
// context cancellation stops the batch early.
func (b *Batch) Run(ctx context.Context, files []xbvr.File) (Summary, error) {
	out := b.out()
	logger := logging.NewComponentLogger(b.Logger, "javmatch")
	ctx = b.Journal.Context(ctx)

	grouping := javid.Group(files, func(f xbvr.File) string { return f.Filename }, b.Filter)
	summary := Summary{
		Files:       len(files),
		Unparsed:    grouping.Unparsed,
		Suppressed:  grouping.Suppressed,
		Identifiers: len(grouping.Groups),
	}
	fmt.Fprintf(out, "Found %d JAV scene IDs (%d files) that are currently unmatched.\n",
		summary.Identifiers, grouping.ItemCount())
	logging.WithContext(ctx, logger).Info("grouped unmatched files",
		logging.Int("files", summary.Files),
		logging.Int("identifiers", summary.Identifiers),
		logging.Int("unparsed", summary.Unparsed),
		logging.Int("suppressed", summary.Suppressed),
	)

	for _, id := range grouping.Identifiers() {
		group := grouping.Groups[id]
		itemCtx := services.WithItem(ctx, id.DVDID())
		itemLogger := logging.WithContext(itemCtx, logger)

		fmt.Fprintf(out, "\nSearching for %s (%d files)...\n", id, len(group))
		outcome, err := b.Resolver.Resolve(itemCtx, id)
		if err == nil && outcome.Found() {
			err = b.bind(itemCtx, outcome.Scene, group)
			if err == nil {
				summary.Matched++
				summary.FilesBound += len(group)
				b.Journal.Record(itemCtx, id.DVDID(), services.StatusMatched, outcome.Scene.SceneID,
					fmt.Sprintf("%d files%s", len(group), providerNote(outcome.Provider)))
				continue
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Errors++
			fmt.Fprintf(out, "  Error: %v\n", err)
			logging.WarnWithContext(itemLogger, "identifier not processed", "jav_match_failed",
				logging.Int("files", len(group)),
				logging.String(logging.FieldImpact, "files left unmatched"),
				logging.Error(err),
			)
			b.Journal.Record(itemCtx, id.DVDID(), services.FailureStatus(err), "", err.Error())
			continue
		}

		fmt.Fprintln(out, "  Ultimately not found in scenes or external sources")
		summary.NotMatched++
		itemLogger.Info("identifier not found",
			logging.String("providers_tried", strings.Join(outcome.Attempts, ",")),
		)
		b.Journal.Record(itemCtx, id.DVDID(), services.StatusMissing, "",
			"providers tried: "+strings.Join(outcome.Attempts, ","))
	}

	fmt.Fprintf(out, "\nComplete. Scenes matched: %d, Scenes not matched: %d, Errors: %d\n",
		summary.Matched, summary.NotMatched, summary.Errors)
	return summary, nil
}

func (b *Batch) bind(ctx context.Context, scene xbvr.Scene, files []xbvr.File) error {
	fmt.Fprintf(b.out(), "  Found! Matching files to scene: %s: %s...\n", scene.SceneID, scene.ShortTitle(30))
	for _, f := range files {
		if err := b.Binder.MatchFile(ctx, f.ID, scene.SceneID); err != nil {
			return fmt.Errorf("bind %s to %s: %w", f.Filename, scene.SceneID, err)
		}
	}
	return nil
}

func (b *Batch) out() io.Writer {
	if b.Out == nil {
		return io.Discard
	}
	return b.Out
}

func providerNote(provider string) string {
	if provider == "" {
		return ""
	}
	return " via " + provider
}

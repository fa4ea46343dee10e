package sitepurge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"xbvrkit/internal/journal"
	"xbvrkit/internal/logging"
	"xbvrkit/internal/services"
	"xbvrkit/internal/xbvr"
)

// Task is the journal task name for site purges.
const Task = "remove-site"

// Catalog is the slice of the XBVR client a purge needs.
type Catalog interface {
	ListScenes(ctx context.Context, filter xbvr.SceneFilter) ([]xbvr.Scene, error)
	DeleteScene(ctx context.Context, sceneID int64) error
}

// Summary counts what a purge did.
type Summary struct {
	Scenes  int
	Deleted int
	Failed  int
	DryRun  bool
}

// Purger deletes every scene scraped from one site.
type Purger struct {
	Catalog Catalog
	DryRun  bool
	Journal *journal.Run
	Out     io.Writer
	Logger  *slog.Logger
}

// Run lists the site's scenes and deletes them one by one. A failed delete is
// reported and the purge moves on; a failed listing aborts.
func (p *Purger) Run(ctx context.Context, site string) (Summary, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return Summary{}, errors.New("site name required")
	}
	ctx = p.Journal.Context(ctx)
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(p.Logger, "sitepurge"))

	fmt.Fprintf(out, "Asking XBVR for scenes from %s...\n", site)
	scenes, err := p.Catalog.ListScenes(ctx, xbvr.SceneFilter{Sites: []string{site}})
	if err != nil {
		return Summary{}, fmt.Errorf("list scenes for %s: %w", site, err)
	}
	summary := Summary{Scenes: len(scenes), DryRun: p.DryRun}

	for i, scene := range scenes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		key := strconv.FormatInt(scene.ID, 10)
		if p.DryRun {
			fmt.Fprintf(out, "%d] Would delete %s: %s\n", i, scene.SceneID, scene.Title)
			p.Journal.Record(ctx, key, services.StatusDryRun, scene.SceneID, scene.Title)
			continue
		}
		fmt.Fprintf(out, "%d] Deleting %s: %s...", i, scene.SceneID, scene.Title)
		if err := p.Catalog.DeleteScene(ctx, scene.ID); err != nil {
			fmt.Fprintln(out, " ** NO **")
			summary.Failed++
			logging.WarnWithContext(logger, "scene delete failed", "scene_delete_failed",
				logging.String("scene_id", scene.SceneID),
				logging.Int64("id", scene.ID),
				logging.String(logging.FieldImpact, "scene kept"),
				logging.Error(err),
			)
			p.Journal.Record(ctx, key, services.FailureStatus(err), scene.SceneID, err.Error())
			continue
		}
		fmt.Fprintln(out, " Done!")
		summary.Deleted++
		p.Journal.Record(ctx, key, services.StatusDeleted, scene.SceneID, scene.Title)
	}
	logger.Info("site purge finished",
		logging.String("site", site),
		logging.Int("scenes", summary.Scenes),
		logging.Int("deleted", summary.Deleted),
		logging.Int("failed", summary.Failed),
		logging.Bool("dry_run", summary.DryRun),
	)
	return summary, nil
}

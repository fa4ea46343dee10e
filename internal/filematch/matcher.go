package filematch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"xbvrkit/internal/journal"
	"xbvrkit/internal/logging"
	"xbvrkit/internal/services"
	"xbvrkit/internal/textutil"
	"xbvrkit/internal/xbvr"
)

// Task is the journal task name for known-filename matching runs.
const Task = "filename-match"

// DefaultWorkers is used when Matcher.Workers is not positive.
const DefaultWorkers = 8

// Catalog is the slice of the XBVR client the matcher needs.
type Catalog interface {
	SearchScenes(ctx context.Context, query string) ([]xbvr.Scene, error)
	MatchFile(ctx context.Context, fileID int64, sceneID string) error
}

// Result is the outcome for one file.
type Result struct {
	File    xbvr.File
	Scene   xbvr.Scene
	Matched bool
	Err     error
}

// Summary counts what a run did.
type Summary struct {
	Files     int
	Matched   int
	Unmatched int
	Errors    int
}

// Matcher binds unmatched files to scenes that already list the file's name
// among their known filenames.
type Matcher struct {
	Catalog Catalog
	Workers int
	Journal *journal.Run
	Out     io.Writer
	Logger  *slog.Logger
}

// Run matches every file using a bounded pool of workers. Result order is not
// significant; every file is attempted even when others fail.
func (m *Matcher) Run(ctx context.Context, files []xbvr.File) (Summary, error) {
	ctx = m.Journal.Context(ctx)
	logger := logging.NewComponentLogger(m.Logger, "filematch")
	out := &syncWriter{w: m.Out}
	if m.Out == nil {
		out.w = io.Discard
	}

	workers := m.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	workers = min(workers, max(len(files), 1))

	results := make([]Result, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.matchOne(ctx, files[i], out, logger)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := Summary{Files: len(files)}
	for _, res := range results {
		key := res.File.Filename
		switch {
		case res.Err != nil:
			summary.Errors++
			m.Journal.Record(ctx, key, services.FailureStatus(res.Err), "", res.Err.Error())
		case res.Matched:
			summary.Matched++
			m.Journal.Record(ctx, key, services.StatusMatched, res.Scene.SceneID, res.Scene.Site)
		default:
			summary.Unmatched++
			m.Journal.Record(ctx, key, services.StatusMissing, "", "")
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	fmt.Fprintf(out, "%d file(s) matched.\n", summary.Matched)
	return summary, nil
}

func (m *Matcher) matchOne(ctx context.Context, file xbvr.File, out io.Writer, logger *slog.Logger) Result {
	res := Result{File: file}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	itemLogger := logging.WithContext(services.WithItem(ctx, file.Filename), logger)

	query := strings.ToLower(textutil.Stem(file.Filename))
	if strings.TrimSpace(query) == "" {
		return res
	}
	scenes, err := m.Catalog.SearchScenes(ctx, query)
	if err != nil {
		if !errors.Is(err, xbvr.ErrInvalidResponse) {
			res.Err = err
			logging.WarnWithContext(itemLogger, "scene search failed", "filename_search_failed",
				logging.String(logging.FieldImpact, "file left unmatched"),
				logging.Error(err),
			)
			return res
		}
		logging.WarnWithContext(itemLogger, "invalid search response", "filename_search_invalid",
			logging.String(logging.FieldImpact, "treated as no candidates"),
			logging.Error(err),
		)
		return res
	}

	for _, scene := range scenes {
		ok, err := HasKnownFilename(scene, file.Filename)
		if err != nil {
			itemLogger.Debug("skipping scene with undecodable filenames",
				logging.String("scene_id", scene.SceneID),
				logging.Error(err),
			)
			continue
		}
		if !ok {
			continue
		}
		fmt.Fprintf(out, "Matching: %s: %s with %s\n", scene.Site, scene.Title, file.Filename)
		if err := m.Catalog.MatchFile(ctx, file.ID, scene.SceneID); err != nil {
			res.Err = fmt.Errorf("bind %s to %s: %w", file.Filename, scene.SceneID, err)
			logging.WarnWithContext(itemLogger, "file binding failed", "filename_bind_failed",
				logging.String("scene_id", scene.SceneID),
				logging.String(logging.FieldImpact, "file left unmatched"),
				logging.Error(err),
			)
			return res
		}
		res.Scene = scene
		res.Matched = true
		return res
	}
	return res
}

// HasKnownFilename reports whether filename's cleaned stem is among the
// cleaned stems of the scene's known filenames. Extensions, case and
// punctuation are ignored.
func HasKnownFilename(scene xbvr.Scene, filename string) (bool, error) {
	known, err := scene.KnownFilenames()
	if err != nil {
		return false, err
	}
	target := textutil.CleanStem(filename)
	return slices.ContainsFunc(known, func(name string) bool {
		return textutil.CleanStem(name) == target
	}), nil
}

// syncWriter serializes progress lines written from worker goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

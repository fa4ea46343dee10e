package filematch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"xbvrkit/internal/journal"
	"xbvrkit/internal/services"
	"xbvrkit/internal/xbvr"
)

type fakeCatalog struct {
	mu        sync.Mutex
	byQuery   map[string][]xbvr.Scene
	errs      map[string]error
	bound     []string
	queries   []string
	active    int
	maxActive int
	gate      chan struct{}
}

func (f *fakeCatalog) SearchScenes(_ context.Context, query string) ([]xbvr.Scene, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.active++
	f.maxActive = max(f.maxActive, f.active)
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.byQuery[query], nil
}

func (f *fakeCatalog) MatchFile(_ context.Context, fileID int64, sceneID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = append(f.bound, fmt.Sprintf("%d=%s", fileID, sceneID))
	return nil
}

type memoryJournal struct {
	entries []journal.Entry
}

func (m *memoryJournal) Record(_ context.Context, entry journal.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func TestHasKnownFilename(t *testing.T) {
	scene := xbvr.Scene{SceneID: "s", FilenamesArr: `["My_Scene - 4K.mp4", "Other.Scene_8K_LR.mkv"]`}
	tests := []struct {
		filename string
		want     bool
	}{
		{"my scene 4k.funscript", true},
		{"MY-SCENE---4K.MP4", true},
		{"other scene 8k lr.mp4", true},
		{"my scene.mp4", false},
		{"/videos/My Scene 4K.mp4", true},
	}
	for _, tt := range tests {
		got, err := HasKnownFilename(scene, tt.filename)
		if err != nil {
			t.Fatalf("HasKnownFilename(%q) error: %v", tt.filename, err)
		}
		if got != tt.want {
			t.Fatalf("HasKnownFilename(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}

	if _, err := HasKnownFilename(xbvr.Scene{FilenamesArr: "{"}, "x.mp4"); err == nil {
		t.Fatal("expected error for undecodable filenames")
	}
}

func TestRunMatchesAndCounts(t *testing.T) {
	catalog := &fakeCatalog{
		byQuery: map[string][]xbvr.Scene{
			"scene one": {
				{ID: 1, SceneID: "other-1", Site: "Site", Title: "Nope", FilenamesArr: `["unrelated.mp4"]`},
				{ID: 2, SceneID: "site-1", Site: "Site", Title: "One", FilenamesArr: `["Scene.One.mp4"]`},
			},
			"broken": {{ID: 3, SceneID: "b-1", FilenamesArr: "not json"}},
		},
		errs: map[string]error{
			"garbled": fmt.Errorf("search: %w", xbvr.ErrInvalidResponse),
			"down":    errors.Join(services.ErrRemoteCall, errors.New("503")),
		},
	}
	rec := &memoryJournal{}
	var out bytes.Buffer
	m := &Matcher{Catalog: catalog, Workers: 3, Journal: journal.NewRun(rec, Task, nil), Out: &out}

	files := []xbvr.File{
		{ID: 10, Filename: "Scene One.mp4"},
		{ID: 11, Filename: "broken.mp4"},
		{ID: 12, Filename: "garbled.mp4"},
		{ID: 13, Filename: "down.mp4"},
		{ID: 14, Filename: "nothing.mp4"},
	}
	summary, err := m.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := Summary{Files: 5, Matched: 1, Unmatched: 3, Errors: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
	if len(catalog.bound) != 1 || catalog.bound[0] != "10=site-1" {
		t.Fatalf("bound = %v", catalog.bound)
	}
	if !strings.Contains(out.String(), "Matching: Site: One with Scene One.mp4") ||
		!strings.Contains(out.String(), "1 file(s) matched.") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	queries := append([]string(nil), catalog.queries...)
	sort.Strings(queries)
	if strings.Join(queries, ",") != "broken,down,garbled,nothing,scene one" {
		t.Fatalf("queries = %v", queries)
	}
	if len(rec.entries) != 5 {
		t.Fatalf("expected 5 journal entries, got %d", len(rec.entries))
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	catalog := &fakeCatalog{gate: make(chan struct{})}
	m := &Matcher{Catalog: catalog, Workers: 2}

	files := make([]xbvr.File, 6)
	for i := range files {
		files[i] = xbvr.File{ID: int64(i + 1), Filename: fmt.Sprintf("file%d.mp4", i)}
	}

	done := make(chan Summary)
	go func() {
		summary, _ := m.Run(context.Background(), files)
		done <- summary
	}()
	for range files {
		catalog.gate <- struct{}{}
	}
	summary := <-done

	if summary.Unmatched != 6 {
		t.Fatalf("summary = %+v", summary)
	}
	if catalog.maxActive > 2 {
		t.Fatalf("max concurrent searches = %d, want <= 2", catalog.maxActive)
	}
}

func TestRunEmpty(t *testing.T) {
	m := &Matcher{Catalog: &fakeCatalog{}}
	summary, err := m.Run(context.Background(), nil)
	if err != nil || summary != (Summary{}) {
		t.Fatalf("Run(nil) = %+v, %v", summary, err)
	}
}

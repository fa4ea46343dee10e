package altmatch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"xbvrkit/internal/journal"
	"xbvrkit/internal/services"
	"xbvrkit/internal/xbvr"
)

type fakeCatalog struct {
	scenes  []xbvr.Scene
	alts    map[int64][]xbvr.AlternateSource
	filter  xbvr.SceneFilter
	bound   []string
	bindErr error
	listErr error
}

func (f *fakeCatalog) ListScenes(_ context.Context, filter xbvr.SceneFilter) ([]xbvr.Scene, error) {
	f.filter = filter
	return f.scenes, f.listErr
}

func (f *fakeCatalog) AlternateSources(_ context.Context, sceneID int64) ([]xbvr.AlternateSource, error) {
	return f.alts[sceneID], nil
}

func (f *fakeCatalog) MatchFile(_ context.Context, fileID int64, sceneID string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound = append(f.bound, sceneID)
	return nil
}

type memoryJournal struct{ entries []journal.Entry }

func (m *memoryJournal) Record(_ context.Context, entry journal.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func TestSLRID(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"Studio.Some Title.12345.oculus.8k.funscript", "slr-12345", false},
		{"/scripts/a.b.777.x.y.funscript", "slr-777", false},
		{"12.oculus.8k.funscript", "slr-12", false},
		{"Studio.Title.abc.oculus.8k.funscript", "", true},
		{"oculus.8k.funscript", "", true},
		{"plain.funscript", "", true},
	}
	for _, tt := range tests {
		got, err := SLRID(tt.name)
		if tt.wantErr {
			if !errors.Is(err, services.ErrMalformedInput) {
				t.Fatalf("SLRID(%q) error = %v, want ErrMalformedInput", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SLRID(%q) = %q, %v; want %q", tt.name, got, err, tt.want)
		}
	}
}

func TestBuildLookupFirstDuplicateWins(t *testing.T) {
	catalog := &fakeCatalog{
		scenes: []xbvr.Scene{{ID: 1, SceneID: "site-1"}, {ID: 2, SceneID: "site-2"}},
		alts: map[int64][]xbvr.AlternateSource{
			1: {{ExternalID: "slr-100"}, {ExternalID: "slr-101"}},
			2: {{ExternalID: "slr-100"}, {ExternalID: "slr-200"}},
		},
	}
	m := &Matcher{Catalog: catalog}
	lookup, err := m.BuildLookup(context.Background(), "Site")
	if err != nil {
		t.Fatalf("BuildLookup returned error: %v", err)
	}
	if len(lookup) != 3 || lookup["slr-100"].SceneID != "site-1" || lookup["slr-200"].SceneID != "site-2" {
		t.Fatalf("unexpected lookup: %+v", lookup)
	}
	if len(catalog.filter.Sites) != 1 || catalog.filter.Sites[0] != "Site" ||
		len(catalog.filter.Attributes) != 1 || catalog.filter.Attributes[0] != DefaultAttribute {
		t.Fatalf("unexpected filter: %+v", catalog.filter)
	}
}

func TestRun(t *testing.T) {
	catalog := &fakeCatalog{
		scenes: []xbvr.Scene{{ID: 1, SceneID: "site-1", Title: "Site Scene"}},
		alts:   map[int64][]xbvr.AlternateSource{1: {{ExternalID: "slr-100"}}},
	}
	rec := &memoryJournal{}
	var out bytes.Buffer
	m := &Matcher{Catalog: catalog, Attribute: "Custom", Journal: journal.NewRun(rec, Task, nil), Out: &out}

	summary, err := m.Run(context.Background(), "Site", []xbvr.File{
		{ID: 1, Filename: "Studio.Title.100.oculus.8k.funscript"},
		{ID: 2, Filename: "Studio.Title.999.oculus.8k.FUNSCRIPT"},
		{ID: 3, Filename: "Studio.Title.x.oculus.8k.funscript"},
		{ID: 4, Filename: "video.mp4"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := Summary{Files: 4, NotFunscript: 1, Malformed: 1, NoAlternate: 1, Matched: 1, AlternateLinks: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
	if len(catalog.bound) != 1 || catalog.bound[0] != "site-1" {
		t.Fatalf("bound = %v", catalog.bound)
	}
	if catalog.filter.Attributes[0] != "Custom" {
		t.Fatalf("attribute = %v", catalog.filter.Attributes)
	}
	for _, line := range []string{
		"Found funscript Studio.Title.100.oculus.8k.funscript for SLR ID slr-100",
		"\tFound alt: Site Scene",
		"\tMatching...Done!",
		"\tNot found in alternate scenes. Skipping.",
	} {
		if !strings.Contains(out.String(), line) {
			t.Fatalf("output missing %q:\n%s", line, out.String())
		}
	}
	if len(rec.entries) != 3 {
		t.Fatalf("expected 3 journal entries, got %+v", rec.entries)
	}
}

func TestRunBindFailureContinues(t *testing.T) {
	catalog := &fakeCatalog{
		scenes:  []xbvr.Scene{{ID: 1, SceneID: "site-1"}},
		alts:    map[int64][]xbvr.AlternateSource{1: {{ExternalID: "slr-1"}, {ExternalID: "slr-2"}}},
		bindErr: errors.Join(services.ErrRemoteCall, errors.New("500")),
	}
	var out bytes.Buffer
	m := &Matcher{Catalog: catalog, Out: &out}
	summary, err := m.Run(context.Background(), "Site", []xbvr.File{
		{ID: 1, Filename: "a.b.1.c.d.funscript"},
		{ID: 2, Filename: "a.b.2.c.d.funscript"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Errors != 2 || summary.Matched != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if !strings.Contains(out.String(), "Nope:") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunNoAlternates(t *testing.T) {
	var out bytes.Buffer
	m := &Matcher{Catalog: &fakeCatalog{}, Out: &out}
	summary, err := m.Run(context.Background(), "Empty", []xbvr.File{{ID: 1, Filename: "a.b.1.c.d.funscript"}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Matched != 0 || !strings.Contains(out.String(), "No alternate scenes found for Empty.") {
		t.Fatalf("summary = %+v output = %s", summary, out.String())
	}
}

func TestRunListFailureAborts(t *testing.T) {
	m := &Matcher{Catalog: &fakeCatalog{listErr: services.ErrRemoteCall}}
	if _, err := m.Run(context.Background(), "Site", nil); !errors.Is(err, services.ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
}

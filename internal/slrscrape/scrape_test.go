package slrscrape

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xbvrkit/internal/journal"
	"xbvrkit/internal/services"
)

type fakeScraper struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeScraper) ScrapeSingle(_ context.Context, site, sceneURL string) error {
	f.calls = append(f.calls, site+" "+sceneURL)
	if f.fail[sceneURL] {
		return errors.Join(services.ErrRemoteCall, errors.New("502"))
	}
	return nil
}

type memoryJournal struct{ entries []journal.Entry }

func (m *memoryJournal) Record(_ context.Context, entry journal.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func TestParseID(t *testing.T) {
	tests := map[string]string{
		"12345":      "12345",
		"  00042 \r": "42",
		"slr-777":    "777",
		"SLR-0100":   "100",
		"0":          "0",
	}
	for input, want := range tests {
		got, err := ParseID(input)
		if err != nil || got != want {
			t.Fatalf("ParseID(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	for _, bad := range []string{"abc", "slr-", "-5", "12 34", "slr-x1"} {
		if _, err := ParseID(bad); !errors.Is(err, services.ErrMalformedInput) {
			t.Fatalf("ParseID(%q) error = %v, want ErrMalformedInput", bad, err)
		}
	}
}

func TestRun(t *testing.T) {
	scraper := &fakeScraper{fail: map[string]bool{"https://example.test/slr/3": true}}
	rec := &memoryJournal{}
	var out bytes.Buffer
	r := &Runner{
		Scraper: scraper,
		BaseURL: "https://example.test/slr",
		Journal: journal.NewRun(rec, Task, nil),
		Out:     &out,
	}

	input := "1\n\n  slr-2\nnot-an-id\n3\n   \n"
	summary, err := r.Run(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary != (Summary{Lines: 4, Queued: 2, Malformed: 1, Failed: 1}) {
		t.Fatalf("summary = %+v", summary)
	}
	wantCalls := []string{
		"slr-single_scene https://example.test/slr/1",
		"slr-single_scene https://example.test/slr/2",
		"slr-single_scene https://example.test/slr/3",
	}
	if strings.Join(scraper.calls, "|") != strings.Join(wantCalls, "|") {
		t.Fatalf("calls = %v", scraper.calls)
	}
	if out.String() != "1:\tqueued\n2:\tqueued\n3:\tfailed\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if len(rec.entries) != 4 || rec.entries[2].Key != "line 4" || rec.entries[2].Status != services.StatusSkipped {
		t.Fatalf("unexpected journal: %+v", rec.entries)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	if err := os.WriteFile(path, []byte("10\n20\n"), 0o644); err != nil {
		t.Fatalf("write ids: %v", err)
	}
	scraper := &fakeScraper{}
	r := &Runner{Scraper: scraper, Site: "custom"}
	summary, err := r.RunFile(context.Background(), path)
	if err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}
	if summary.Queued != 2 || scraper.calls[0] != "custom https://www.sexlikereal.com/10" {
		t.Fatalf("summary = %+v calls = %v", summary, scraper.calls)
	}

	if _, err := r.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, services.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for missing file, got %v", err)
	}
}

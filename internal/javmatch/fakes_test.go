package javmatch

import (
	"context"
	"errors"
	"time"

	"xbvrkit/internal/xbvr"
)

// fakeCatalog serves scenes by exact id. Scrapes of a provider listed in
// lands make the scene visible after landAfter further lookups.
type fakeCatalog struct {
	scenes    map[string][]xbvr.Scene
	lands     map[string]map[string][]xbvr.Scene
	landAfter int
	pending   map[string][]xbvr.Scene
	countdown int
	scrapes   []string
	lookups   []string
	scrapeErr error
	lookupErr error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		scenes: map[string][]xbvr.Scene{},
		lands:  map[string]map[string][]xbvr.Scene{},
	}
}

func (f *fakeCatalog) ScenesForID(_ context.Context, id string) ([]xbvr.Scene, error) {
	f.lookups = append(f.lookups, id)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.pending != nil {
		if f.countdown <= 0 {
			for k, v := range f.pending {
				f.scenes[k] = append(f.scenes[k], v...)
			}
			f.pending = nil
		} else {
			f.countdown--
		}
	}
	return f.scenes[id], nil
}

func (f *fakeCatalog) ScrapeJAV(_ context.Context, provider, query string) error {
	f.scrapes = append(f.scrapes, provider+":"+query)
	if f.scrapeErr != nil {
		return f.scrapeErr
	}
	if landing, ok := f.lands[provider]; ok {
		f.pending = landing
		f.countdown = f.landAfter
	}
	return nil
}

type fakeBinder struct {
	bound []string
	err   error
}

func (b *fakeBinder) MatchFile(_ context.Context, fileID int64, sceneID string) error {
	if b.err != nil {
		return b.err
	}
	b.bound = append(b.bound, sceneID+"#"+itoa(fileID))
	return nil
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

type sleepRecorder struct {
	calls []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return s.err
}

var errBoom = errors.New("boom")

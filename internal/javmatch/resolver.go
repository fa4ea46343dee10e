package javmatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"xbvrkit/internal/config"
	"xbvrkit/internal/javid"
	"xbvrkit/internal/logging"
	"xbvrkit/internal/xbvr"
)

// Catalog is the slice of the XBVR client the resolver needs.
type Catalog interface {
	ScenesForID(ctx context.Context, id string) ([]xbvr.Scene, error)
	ScrapeJAV(ctx context.Context, provider, query string) error
}

// IDForm selects which rendering of an identifier a provider expects.
type IDForm string

const (
	FormDVD     IDForm = "dvd"
	FormContent IDForm = "content"
)

// Provider is one external source the server can scrape.
type Provider struct {
	Name string
	Form IDForm
}

// Query renders id the way the provider expects it.
func (p Provider) Query(id javid.Identifier) string {
	if p.Form == FormContent {
		return id.ContentID()
	}
	return id.DVDID()
}

// ProvidersFromConfig returns the enabled providers in priority order.
func ProvidersFromConfig(cfg *config.Config) []Provider {
	if cfg == nil {
		return nil
	}
	enabled := cfg.EnabledProviders()
	out := make([]Provider, 0, len(enabled))
	for _, p := range enabled {
		form := FormDVD
		if strings.EqualFold(p.IDFormat, string(FormContent)) {
			form = FormContent
		}
		out = append(out, Provider{Name: p.Name, Form: form})
	}
	return out
}

// State is the terminal state of one resolution.
type State int

const (
	// StateFound means a catalog scene carries the identifier.
	StateFound State = iota + 1
	// StateExhausted means every provider was tried without a match.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Outcome reports how an identifier was resolved.
type Outcome struct {
	State State
	Scene xbvr.Scene
	// Provider names the scrape that produced the scene. Empty when the scene
	// was already cataloged.
	Provider string
	// Attempts lists the providers that were asked to scrape, in order.
	Attempts []string
}

// Found reports whether a scene was resolved.
func (o Outcome) Found() bool { return o.State == StateFound }

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Resolver finds the catalog scene for an identifier, asking providers to
// scrape it when the catalog does not know it yet.
type Resolver struct {
	catalog      Catalog
	providers    []Provider
	scrapeWait   time.Duration
	pollInterval time.Duration
	sleep        SleepFunc
	progress     io.Writer
	logger       *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProviders replaces the provider list.
func WithProviders(providers []Provider) Option {
	return func(r *Resolver) { r.providers = providers }
}

// WithWait sets the post-scrape wait. scrapeWait bounds how long a scrape is
// given to land; a positive pollInterval re-checks the catalog at that cadence
// inside the bound instead of sleeping it out in one go.
func WithWait(scrapeWait, pollInterval time.Duration) Option {
	return func(r *Resolver) {
		r.scrapeWait = scrapeWait
		r.pollInterval = pollInterval
	}
}

// WithSleep overrides how the resolver waits.
func WithSleep(sleep SleepFunc) Option {
	return func(r *Resolver) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithProgress sets where user-facing progress lines are written.
func WithProgress(w io.Writer) Option {
	return func(r *Resolver) {
		if w != nil {
			r.progress = w
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a resolver over catalog.
func NewResolver(catalog Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:    catalog,
		scrapeWait: 10 * time.Second,
		sleep:      sleepContext,
		progress:   io.Discard,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolverFromConfig wires providers and wait parameters from cfg.
func ResolverFromConfig(catalog Catalog, cfg *config.Config, opts ...Option) *Resolver {
	base := []Option{
		WithProviders(ProvidersFromConfig(cfg)),
		WithWait(
			time.Duration(cfg.JAV.ScrapeWait)*time.Second,
			time.Duration(cfg.JAV.PollInterval)*time.Second,
		),
	}
	return NewResolver(catalog, append(base, opts...)...)
}

// Resolve looks id up in the catalog and, failing that, tries each provider
// in order until one yields a matching scene. Running out of providers is an
// Exhausted outcome, not an error; remote failures abort this identifier.
func (r *Resolver) Resolve(ctx context.Context, id javid.Identifier) (Outcome, error) {
	scene, ok, err := r.Lookup(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if ok {
		return Outcome{State: StateFound, Scene: scene}, nil
	}

	outcome := Outcome{State: StateExhausted}
	for _, provider := range r.providers {
		fmt.Fprintf(r.progress, "  Attempting to scrape %s...\n", provider.Name)
		outcome.Attempts = append(outcome.Attempts, provider.Name)
		query := provider.Query(id)
		r.logger.Debug("triggering scrape",
			logging.String("provider", provider.Name),
			logging.String("query", query),
		)
		if err := r.catalog.ScrapeJAV(ctx, provider.Name, query); err != nil {
			return outcome, fmt.Errorf("scrape %s for %s: %w", provider.Name, id, err)
		}
		scene, ok, err := r.await(ctx, id)
		if err != nil {
			return outcome, err
		}
		if ok {
			outcome.State = StateFound
			outcome.Scene = scene
			outcome.Provider = provider.Name
			return outcome, nil
		}
	}
	return outcome, nil
}

// Lookup queries the catalog for every rendering of id and returns the first
// candidate whose own scene id parses to an equal identifier. Candidates with
// unparseable scene ids are skipped.
func (r *Resolver) Lookup(ctx context.Context, id javid.Identifier) (xbvr.Scene, bool, error) {
	var candidates []xbvr.Scene
	for _, form := range id.Formats() {
		scenes, err := r.catalog.ScenesForID(ctx, form)
		if err != nil {
			return xbvr.Scene{}, false, fmt.Errorf("lookup %s: %w", form, err)
		}
		candidates = append(candidates, scenes...)
	}
	for _, scene := range candidates {
		sceneID, err := javid.Parse(scene.SceneID)
		if err != nil {
			r.logger.Debug("skipping candidate with unparseable scene id",
				logging.String("scene_id", scene.SceneID),
				logging.String("identifier", id.DVDID()),
			)
			continue
		}
		if sceneID.Equal(id) {
			return scene, true, nil
		}
	}
	return xbvr.Scene{}, false, nil
}

// await gives a triggered scrape up to scrapeWait to land. Completion is not
// observable, so the catalog is simply re-checked.
func (r *Resolver) await(ctx context.Context, id javid.Identifier) (xbvr.Scene, bool, error) {
	if r.pollInterval <= 0 {
		if err := r.sleep(ctx, r.scrapeWait); err != nil {
			return xbvr.Scene{}, false, err
		}
		return r.Lookup(ctx, id)
	}
	var waited time.Duration
	for {
		step := min(r.pollInterval, r.scrapeWait-waited)
		if step > 0 {
			if err := r.sleep(ctx, step); err != nil {
				return xbvr.Scene{}, false, err
			}
			waited += step
		}
		scene, ok, err := r.Lookup(ctx, id)
		if err != nil || ok {
			return scene, ok, err
		}
		if waited >= r.scrapeWait {
			return xbvr.Scene{}, false, nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

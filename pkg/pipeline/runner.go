package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/observability"
	"github.com/kintree/kintree/pkg/render"
	"github.com/kintree/kintree/pkg/render/nodelink"
	"github.com/kintree/kintree/pkg/store"
	"github.com/kintree/kintree/pkg/tree"
	"github.com/kintree/kintree/pkg/tree/layout"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// records pairs the flat lists for hashing and cache keys.
type records struct {
	People        []family.Person       `json:"people"`
	Relationships []family.Relationship `json:"relationships"`
}

// Execute runs the complete build → layout → render pipeline with caching,
// reading the flat records from the store.
func (r *Runner) Execute(ctx context.Context, st store.Store, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	people, err := st.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	rels, err := st.ListRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.PersonCount = len(people)
	result.Stats.RelationshipCount = len(rels)

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(people), len(rels))
	persons, recordsHash, buildHit, err := r.BuildWithCacheInfo(ctx, people, rels, opts)
	observability.Pipeline().OnBuildComplete(ctx, len(persons), time.Since(buildStart), err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Persons = persons
	result.RecordsHash = recordsHash
	result.Stats.BuildTime = time.Since(buildStart)
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built family forest",
		"people", len(people),
		"relationships", len(rels),
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(persons))
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, persons, opts)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"boxes", len(l.Boxes),
		"lines", len(l.Lines),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, persons, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo derives the family forest with caching and returns the
// records hash and cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, people []family.Person, rels []family.Relationship, opts Options) ([]tree.Person, string, bool, error) {
	r.applyLogger(&opts)

	recordsData, err := json.Marshal(records{People: people, Relationships: rels})
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize records for cache key: %w", err)
	}
	recordsHash := cache.Hash(recordsData)
	cacheKey := r.Keyer.TreeKey(recordsHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var persons []tree.Person
			if err := json.Unmarshal(data, &persons); err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				return persons, recordsHash, true, nil // Cache hit
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "tree")

	persons := tree.Build(people, rels)

	// Cache the result
	if data, err := json.Marshal(persons); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLTree)
		observability.Cache().OnCacheSet(ctx, "tree", len(data))
	}

	return persons, recordsHash, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the hash and cache hit info.
func (r *Runner) Build(ctx context.Context, people []family.Person, rels []family.Relationship, opts Options) ([]tree.Person, error) {
	persons, _, _, err := r.BuildWithCacheInfo(ctx, people, rels, opts)
	return persons, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, persons []tree.Person, opts Options) (layout.Layout, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	personsData, err := json.Marshal(persons)
	if err != nil {
		return layout.Layout{}, false, fmt.Errorf("serialize forest for cache key: %w", err)
	}
	treeHash := cache.Hash(personsData)
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached layout.Layout
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l := layout.Compute(persons, opts.LayoutOptions())

	// Cache the result
	if data, err := json.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, persons []tree.Person, opts Options) (layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, persons, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, persons []tree.Person, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := renderFormats(l, persons, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, persons []tree.Person, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, persons, opts)
	return artifacts, err
}

// renderFormats produces every requested format from the layout and forest.
func renderFormats(l layout.Layout, persons []tree.Person, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	if opts.IsNodelink() {
		dot = nodelink.ToDOT(persons)
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := json.MarshalIndent(l, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("marshal layout: %w", err)
			}
			artifacts[format] = data

		case FormatDOT:
			artifacts[format] = []byte(dot)

		case FormatPNG:
			data, err := nodelink.RenderPNG(dot)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data

		case FormatSVG:
			if opts.IsNodelink() {
				data, err := nodelink.RenderSVG(dot)
				if err != nil {
					return nil, fmt.Errorf("render svg: %w", err)
				}
				artifacts[format] = data
				break
			}
			artifacts[format] = render.RenderSVG(l, chartOptions(persons, opts)...)

		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}

	return artifacts, nil
}

// chartOptions assembles the SVG sink options for the chart view.
func chartOptions(persons []tree.Person, opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	if opts.Sublabels {
		dates := make(map[int]string, len(persons))
		for _, p := range persons {
			dates[p.ID] = lifespan(p.Person)
		}
		svgOpts = append(svgOpts, render.WithSublabel(func(personID int) string {
			return dates[personID]
		}))
	}
	return svgOpts
}

// lifespan formats birth and death dates for a box sublabel.
func lifespan(p family.Person) string {
	switch {
	case p.BirthDate == "" && p.DeathDate == "":
		return ""
	case p.DeathDate == "":
		return "* " + p.BirthDate
	case p.BirthDate == "":
		return "† " + p.DeathDate
	default:
		return p.BirthDate + " – " + p.DeathDate
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

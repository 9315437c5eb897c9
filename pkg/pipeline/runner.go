package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumstack/pkg/cache"
	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/observability"
	"github.com/matzehuels/albumstack/pkg/placement"
	"github.com/matzehuels/albumstack/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, server and watcher use it to avoid duplicating caching logic.
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

// Execute runs the complete place → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	docHash, err := DocumentHash(doc)
	if err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}
	result.DocHash = docHash

	// Stage 1: Place
	placeStart := time.Now()
	page, layoutHit, err := r.PlaceWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Layout = page
	result.Stats.PlaceTime = time.Since(placeStart)
	result.Stats.BlockCount = len(page.Blocks)
	result.Stats.SlotCount = len(page.Slots())
	result.Stats.EmptySlots = page.EmptySlots()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("placed page",
		"blocks", result.Stats.BlockCount,
		"slots", result.Stats.SlotCount,
		"empty", result.Stats.EmptySlots,
		"duration", result.Stats.PlaceTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, page, doc, opts)
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

// PlaceWithCacheInfo places a page with caching and returns cache hit info.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, doc *document.Document, opts Options) (placement.PageLayout, bool, error) {
	if err := opts.ValidateForPlace(); err != nil {
		return placement.PageLayout{}, false, err
	}
	r.applyLogger(&opts)

	docHash, err := DocumentHash(doc)
	if err != nil {
		return placement.PageLayout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := sink.ParseJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnPlaceStart(ctx, doc.ID, len(doc.Blocks))
	start := time.Now()
	page, err := Place(doc, opts)
	hooks.OnPlaceComplete(ctx, doc.ID, len(page.Slots()), time.Since(start), err)
	if err != nil {
		return placement.PageLayout{}, false, err
	}

	if data, err := json.Marshal(page); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return page, false, nil
}

// Place is a convenience wrapper that calls PlaceWithCacheInfo and discards the cache hit info.
func (r *Runner) Place(ctx context.Context, doc *document.Document, opts Options) (placement.PageLayout, error) {
	page, _, err := r.PlaceWithCacheInfo(ctx, doc, opts)
	return page, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, page placement.PageLayout, doc *document.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The DOT diagram also shows unreferenced assets, which the layout does
	// not carry, so the key covers both.
	layoutData, err := json.Marshal(page)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	if doc != nil {
		docHash, err := DocumentHash(doc)
		if err != nil {
			return nil, false, err
		}
		layoutData = append(layoutData, docHash...)
	}
	cacheKeyHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(page, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, page placement.PageLayout, doc *document.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, page, doc, opts)
	return artifacts, err
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

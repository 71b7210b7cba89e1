package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/cache"
	"github.com/archsketch/archsketch/pkg/diagram"
	"github.com/archsketch/archsketch/pkg/errors"
	"github.com/archsketch/archsketch/pkg/observability"
	"github.com/archsketch/archsketch/pkg/render/dot"
)

// Runner executes the pipeline with caching. It is stateless apart from
// the cache and logger, so one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching via the null
// backend; a nil keyer uses the default keyer.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Result contains the outputs of one pipeline run.
type Result struct {
	// Document is the synthesized diagram document.
	Document diagram.Document

	// SnapshotHash is the content hash of the input snapshot.
	SnapshotHash string

	// Artifact is the output in the requested format.
	Artifact []byte

	// Stats carries synthesis statistics and stage timings.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Synthesis  diagram.Stats
	SynthTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	DocumentHit bool
	RenderHit   bool
}

// Execute runs synthesize → render for one snapshot.
func (r *Runner) Execute(ctx context.Context, snap arch.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	result := &Result{SnapshotHash: snap.Hash()}

	synthStart := time.Now()
	doc, stats, hit, err := r.synthesize(ctx, snap, opts, result.SnapshotHash)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.Synthesis = stats
	result.Stats.SynthTime = time.Since(synthStart)
	result.CacheInfo.DocumentHit = hit

	logger.Info("synthesized diagram",
		"round", snap.RoundID,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"dropped_edges", stats.DroppedEdges,
		"layers", stats.Layers,
		"cache_hit", hit,
		"duration", result.Stats.SynthTime)

	renderStart := time.Now()
	artifact, renderHit, err := r.render(ctx, snap, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(artifact),
		"cache_hit", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Synthesize produces the document for a snapshot with caching, without
// rendering an artifact.
func (r *Runner) Synthesize(ctx context.Context, snap arch.Snapshot, opts Options) (diagram.Document, diagram.Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return diagram.Document{}, diagram.Stats{}, err
	}
	doc, stats, _, err := r.synthesize(ctx, snap, opts, snap.Hash())
	return doc, stats, err
}

func (r *Runner) synthesize(ctx context.Context, snap arch.Snapshot, opts Options, snapHash string) (diagram.Document, diagram.Stats, bool, error) {
	key := r.Keyer.DocumentKey(snapHash, opts.DocumentKeyOpts())

	nodes := len(snap.Architecture.Nodes)
	edges := len(snap.Architecture.Edges)
	observability.Synthesis().OnSynthesisStart(ctx, snap.RoundID, nodes, edges)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := diagram.UnmarshalDocument(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "document")
				// Layout statistics are not stored with the document;
				// a hit only carries the input counts.
				stats := diagram.Stats{Nodes: nodes, Edges: edges}
				observability.Synthesis().OnSynthesisComplete(ctx, snap.RoundID, len(doc.Elements), 0, nil)
				return doc, stats, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	start := time.Now()
	doc, stats, err := diagram.NewSynthesizerWithEngine(opts.Engine()).Synthesize(snap)
	observability.Synthesis().OnSynthesisComplete(ctx, snap.RoundID, len(doc.Elements), time.Since(start), err)
	if err != nil {
		return diagram.Document{}, diagram.Stats{}, false, err
	}
	if stats.DroppedEdges > 0 {
		reportDroppedEdges(ctx, snap)
	}

	if data, err := diagram.MarshalDocument(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLDocument); err == nil {
			observability.Cache().OnCacheSet(ctx, "document", len(data))
		}
	}
	return doc, stats, false, nil
}

// reportDroppedEdges fires the edge-dropped hook for every edge whose
// endpoints are not both present in the snapshot. This mirrors the drop
// condition inside synthesis, which stays free of hook plumbing.
func reportDroppedEdges(ctx context.Context, snap arch.Snapshot) {
	ids := make(map[string]struct{}, len(snap.Architecture.Nodes))
	for _, n := range snap.Architecture.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range snap.Architecture.Edges {
		_, okS := ids[e.Source]
		_, okT := ids[e.Target]
		if !okS || !okT {
			observability.Synthesis().OnEdgeDropped(ctx, e.Source, e.Target)
		}
	}
}

func (r *Runner) render(ctx context.Context, snap arch.Snapshot, doc diagram.Document, opts Options) ([]byte, bool, error) {
	if opts.Format == FormatJSON {
		data, err := diagram.MarshalDocument(doc)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "marshal document")
		}
		return data, false, nil
	}

	docData, err := diagram.MarshalDocument(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "marshal document for cache key")
	}
	key := r.Keyer.RenderKey(cache.Hash(docData), opts.RenderKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	start := time.Now()
	artifact, err := r.renderPreview(ctx, snap, opts)
	observability.Synthesis().OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, artifact, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(artifact))
	}
	return artifact, false, nil
}

func (r *Runner) renderPreview(ctx context.Context, snap arch.Snapshot, opts Options) ([]byte, error) {
	src := dot.ToDOT(snap, dot.Options{Detailed: opts.Detailed})
	switch opts.Format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return dot.RenderSVG(ctx, src)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", opts.Format)
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

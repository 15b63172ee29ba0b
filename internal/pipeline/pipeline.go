// Package pipeline runs one dashboard interaction end to end: load the
// datasets, prepare them once per load, filter with the session state, and
// rebuild the whole map.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-map-dashboard/internal/observability"
	"github.com/couchcryptid/hazard-map-dashboard/internal/render"
)

// Render surfaces, used as the renders_total label.
const (
	SurfacePage = "page"
	SurfaceAPI  = "api"
	SurfaceCLI  = "cli"
)

// DatasetSource provides the loaded datasets.
type DatasetSource interface {
	Load(ctx context.Context) (*domain.Datasets, error)
	Loaded() bool
}

// Options configures sampling and the map viewport.
type Options struct {
	SampleSize int
	SampleSeed uint64
	Map        render.Options
}

// Result is one full recomputation for a filter state.
type Result struct {
	State    domain.FilterState
	Counts   domain.Counts
	Map      render.Map
	LoadedAt time.Time
}

// Dashboard orchestrates Loader -> Sampler -> Bounds -> Filter -> Render.
type Dashboard struct {
	source  DatasetSource
	opts    Options
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger

	mu       sync.Mutex
	prepFor  *domain.Datasets
	prepared *domain.Prepared
}

// New creates a Dashboard over the given dataset source.
func New(source DatasetSource, opts Options, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		source:  source,
		opts:    opts,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// CheckReadiness returns nil once the datasets are loaded.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.source.Loaded() {
		return errors.New("datasets not loaded")
	}
	return nil
}

// Prepare returns the cleaned and sampled tables for the current datasets.
// Preparation runs once per loaded Datasets value.
func (d *Dashboard) Prepare(ctx context.Context) (*domain.Prepared, *domain.Datasets, error) {
	ds, err := d.source.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.prepFor != ds {
		d.prepared = domain.Prepare(ds, d.opts.SampleSize, d.opts.SampleSeed)
		d.prepFor = ds
		d.recordPrepared(d.prepared)
		d.logger.Info("datasets prepared",
			"counties", len(d.prepared.Counties),
			"wildfires", len(d.prepared.Wildfires),
			"landslides", len(d.prepared.Landslides),
			"sample_size", d.opts.SampleSize,
		)
	}
	return d.prepared, ds, nil
}

// NewState returns a fresh filter state spanning the dataset bounds.
func (d *Dashboard) NewState(ctx context.Context) (domain.FilterState, error) {
	p, _, err := d.Prepare(ctx)
	if err != nil {
		return domain.FilterState{}, err
	}
	return domain.NewFilterState(p.Bounds), nil
}

// Render filters the prepared tables with state and rebuilds the map. The
// state is first fitted onto the current bounds, so a state created before a
// reload stays valid; the fitted state is returned in the result.
func (d *Dashboard) Render(ctx context.Context, state domain.FilterState, surface string) (Result, error) {
	p, ds, err := d.Prepare(ctx)
	if err != nil {
		return Result{}, err
	}

	start := d.clock.Now()
	state = state.Rebase(p.Bounds)
	view := domain.Apply(p, state)
	m := render.BuildMap(view, d.opts.Map)
	counts := view.Counts()

	d.metrics.Renders.WithLabelValues(surface).Inc()
	d.metrics.RenderDuration.Observe(d.clock.Since(start).Seconds())
	d.metrics.VisibleFeatures.WithLabelValues("counties").Observe(float64(len(m.Polygons)))
	if l, ok := m.Layer(render.LayerWildfires); ok {
		d.metrics.VisibleFeatures.WithLabelValues("wildfires").Observe(float64(len(l.Markers)))
	}
	if l, ok := m.Layer(render.LayerLandslides); ok {
		d.metrics.VisibleFeatures.WithLabelValues("landslides").Observe(float64(len(l.Markers)))
	}

	d.logger.Debug("map rendered",
		"surface", surface,
		"polygons", len(m.Polygons),
		"markers", m.MarkerCount(),
	)

	return Result{
		State:    state,
		Counts:   counts,
		Map:      m,
		LoadedAt: ds.LoadedAt,
	}, nil
}

func (d *Dashboard) recordPrepared(p *domain.Prepared) {
	d.metrics.DatasetRecords.WithLabelValues("counties", "prepared").Set(float64(len(p.Counties)))
	d.metrics.DatasetRecords.WithLabelValues("wildfires", "prepared").Set(float64(len(p.Wildfires)))
	d.metrics.DatasetRecords.WithLabelValues("landslides", "prepared").Set(float64(len(p.Landslides)))
}

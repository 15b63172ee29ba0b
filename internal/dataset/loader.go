// Package dataset loads the three dashboard datasets from remote storage and
// keeps the parsed result in a write-once cache until it is invalidated.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/hazard-map-dashboard/internal/adapter/drive"
	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-map-dashboard/internal/observability"
)

// Dataset label values used in logs and metrics.
const (
	Counties   = "counties"
	Wildfires  = "wildfires"
	Landslides = "landslides"
)

// Fetcher retrieves remote files by ID.
type Fetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
	Download(ctx context.Context, fileID, suffix string) (string, error)
}

// Sources are the remote file IDs of the three datasets.
type Sources struct {
	CountyCSV        string
	LandslideGeoJSON string
	WildfireGeoJSON  string
}

// Loader fetches and parses the datasets. A successful result is cached and
// returned to every later caller without I/O; failures are never cached.
type Loader struct {
	fetcher Fetcher
	sources Sources
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger

	group      singleflight.Group
	mu         sync.RWMutex
	cached     *domain.Datasets
	generation uint64
}

// NewLoader creates a Loader. The clock stamps Datasets.LoadedAt.
func NewLoader(f Fetcher, src Sources, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher: f,
		sources: src,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Load returns the cached datasets, fetching them first if needed. Concurrent
// callers during the first load share one fetch. Any download or parse
// failure is reported as domain.ErrDataUnavailable and no partial result is
// returned.
func (l *Loader) Load(ctx context.Context) (*domain.Datasets, error) {
	if d := l.current(); d != nil {
		return d, nil
	}

	v, err, _ := l.group.Do("datasets", func() (any, error) {
		if d := l.current(); d != nil {
			return d, nil
		}

		l.mu.RLock()
		gen := l.generation
		l.mu.RUnlock()

		// Shared by every waiting caller; bounded by the client timeout.
		d, err := l.fetchAll(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		// An Invalidate during the fetch wins; the caller still gets its result.
		if gen == l.generation {
			l.cached = d
		}
		l.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Datasets), nil
}

// Invalidate drops the cached datasets so the next Load fetches again.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.generation++
	l.mu.Unlock()
	l.logger.Info("dataset cache invalidated")
}

// Loaded reports whether datasets are currently cached.
func (l *Loader) Loaded() bool {
	return l.current() != nil
}

func (l *Loader) current() *domain.Datasets {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cached
}

func (l *Loader) fetchAll(ctx context.Context) (*domain.Datasets, error) {
	start := l.clock.Now()
	d := &domain.Datasets{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := l.loadCounties(gctx)
		d.Counties = rows
		return err
	})
	g.Go(func() error {
		rows, err := loadGeoJSON(gctx, l, Wildfires, l.sources.WildfireGeoJSON, drive.ParseWildfires)
		d.Wildfires = rows
		return err
	})
	g.Go(func() error {
		rows, err := loadGeoJSON(gctx, l, Landslides, l.sources.LandslideGeoJSON, drive.ParseLandslides)
		d.Landslides = rows
		return err
	})

	if err := g.Wait(); err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		l.logger.Error("dataset load failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}

	d.LoadedAt = l.clock.Now()
	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.DatasetLoadDuration.Observe(d.LoadedAt.Sub(start).Seconds())
	l.metrics.DatasetRecords.WithLabelValues(Counties, "raw").Set(float64(len(d.Counties)))
	l.metrics.DatasetRecords.WithLabelValues(Wildfires, "raw").Set(float64(len(d.Wildfires)))
	l.metrics.DatasetRecords.WithLabelValues(Landslides, "raw").Set(float64(len(d.Landslides)))

	l.logger.Info("datasets loaded",
		"counties", len(d.Counties),
		"wildfires", len(d.Wildfires),
		"landslides", len(d.Landslides),
		"duration", d.LoadedAt.Sub(start),
	)
	return d, nil
}

func (l *Loader) loadCounties(ctx context.Context) ([]domain.CountyRecord, error) {
	start := l.clock.Now()
	body, err := l.fetcher.Fetch(ctx, l.sources.CountyCSV)
	l.observeFetch(Counties, start, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Counties, err)
	}

	rows, err := drive.ParseCounties(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Counties, err)
	}
	return rows, nil
}

// loadGeoJSON downloads a feature collection to a temporary file, parses it,
// and removes the file.
func loadGeoJSON[T any](ctx context.Context, l *Loader, name, fileID string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	start := l.clock.Now()
	path, err := l.fetcher.Download(ctx, fileID, ".geojson")
	l.observeFetch(name, start, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			l.logger.Warn("remove temp file failed", "dataset", name, "path", path, "error", rmErr)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: open download: %w", name, err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

func (l *Loader) observeFetch(name string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	l.metrics.RemoteFetches.WithLabelValues(name, outcome).Inc()
	l.metrics.RemoteFetchDuration.WithLabelValues(name).Observe(l.clock.Since(start).Seconds())
}

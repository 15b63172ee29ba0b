package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/hazard-map-dashboard/internal/adapter/drive"
	httpadapter "github.com/couchcryptid/hazard-map-dashboard/internal/adapter/http"
	"github.com/couchcryptid/hazard-map-dashboard/internal/config"
	"github.com/couchcryptid/hazard-map-dashboard/internal/dataset"
	"github.com/couchcryptid/hazard-map-dashboard/internal/observability"
	"github.com/couchcryptid/hazard-map-dashboard/internal/pipeline"
	"github.com/couchcryptid/hazard-map-dashboard/internal/render"
)

// sessionSweepInterval is how often expired sessions are dropped.
const sessionSweepInterval = time.Minute

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Oregon precipitation, wildfire, and landslide map dashboard",
		Long: `Dashboard overlays county precipitation averages, wildfire incidents,
and landslide repair costs on a map of Oregon, with per-metric range filters
and layer toggles.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newRenderCmd(), newCheckCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the components shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	loader  *dataset.Loader
	dash    *pipeline.Dashboard
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	client := drive.NewClient(cfg.DriveBaseURL, cfg.DriveTimeout, logger)
	loader := dataset.NewLoader(client, dataset.Sources{
		CountyCSV:        cfg.CountyCSVID,
		LandslideGeoJSON: cfg.LandslideGeoJSONID,
		WildfireGeoJSON:  cfg.WildfireGeoJSONID,
	}, clock, metrics, logger)

	opts := render.DefaultOptions()
	opts.CenterLat = cfg.MapCenterLat
	opts.CenterLon = cfg.MapCenterLon
	opts.Zoom = cfg.MapZoom

	dash := pipeline.New(loader, pipeline.Options{
		SampleSize: cfg.SampleSize,
		SampleSeed: cfg.SampleSeed,
		Map:        opts,
	}, clock, metrics, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
		loader:  loader,
		dash:    dash,
	}, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The dashboard is useless without data, so a failed first load is fatal.
	if _, err := a.dash.Prepare(ctx); err != nil {
		a.logger.Error("initial dataset load failed", "error", err)
		return err
	}

	sessions := httpadapter.NewSessionStore(a.cfg.SessionTTL, a.clock, a.metrics.ActiveSessions)
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.dash, sessions, a.logger)

	go sessions.RunSweeper(ctx, sessionSweepInterval)
	go reloadOnHangup(ctx, a)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

// reloadOnHangup drops the dataset cache on SIGHUP and loads it again.
// A failed reload leaves the cache empty; the next request retries.
func reloadOnHangup(ctx context.Context, a *app) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			a.loader.Invalidate()
			if _, err := a.dash.Prepare(ctx); err != nil {
				a.logger.Error("dataset reload failed", "error", err)
			}
		}
	}
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-map-dashboard/internal/pipeline"
	"github.com/couchcryptid/hazard-map-dashboard/internal/render"
)

// renderFlags are the filter settings accepted by the render command. Only
// flags the user set are applied; the rest keep the dataset bounds.
type renderFlags struct {
	output         string
	precipMin      float64
	precipMax      float64
	burnMin        float64
	burnMax        float64
	costMin        float64
	costMax        float64
	hideWildfires  bool
	hideLandslides bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the dashboard page for a filter state",
		Long: `Render loads the datasets, applies the given filters, and writes the
full dashboard HTML to stdout or to the file named by --output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			state, err := a.dash.NewState(cmd.Context())
			if err != nil {
				return fmt.Errorf("load datasets: %w", err)
			}
			f.apply(cmd.Flags(), &state)

			res, err := a.dash.Render(cmd.Context(), state, pipeline.SurfaceCLI)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := render.Page(&buf, render.PageData{
				State:    res.State,
				Counts:   res.Counts,
				Map:      res.Map,
				LoadedAt: res.LoadedAt,
			}); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), f.output, buf.Bytes())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "Output HTML file path (default stdout)")
	fs.Float64Var(&f.precipMin, "precip-min", 0, "Minimum county average precipitation")
	fs.Float64Var(&f.precipMax, "precip-max", 0, "Maximum county average precipitation")
	fs.Float64Var(&f.burnMin, "burn-min", 0, "Minimum wildfire burn index")
	fs.Float64Var(&f.burnMax, "burn-max", 0, "Maximum wildfire burn index")
	fs.Float64Var(&f.costMin, "cost-min", 0, "Minimum landslide repair cost")
	fs.Float64Var(&f.costMax, "cost-max", 0, "Maximum landslide repair cost")
	fs.BoolVar(&f.hideWildfires, "hide-wildfires", false, "Do not draw the wildfire layer")
	fs.BoolVar(&f.hideLandslides, "hide-landslides", false, "Do not draw the landslide layer")

	return cmd
}

func (f renderFlags) apply(fs *pflag.FlagSet, s *domain.FilterState) {
	if fs.Changed("precip-min") {
		s.Precip.SetMin(f.precipMin)
	}
	if fs.Changed("precip-max") {
		s.Precip.SetMax(f.precipMax)
	}
	if fs.Changed("burn-min") {
		s.Burn.SetMin(f.burnMin)
	}
	if fs.Changed("burn-max") {
		s.Burn.SetMax(f.burnMax)
	}
	if fs.Changed("cost-min") {
		s.Cost.SetMin(f.costMin)
	}
	if fs.Changed("cost-max") {
		s.Cost.SetMax(f.costMax)
	}
	s.Visibility.Wildfires = !f.hideWildfires
	s.Visibility.Landslides = !f.hideLandslides
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

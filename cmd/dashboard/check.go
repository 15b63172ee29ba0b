package main

import (
	"fmt"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
)

// coveragePad widens the county extent when checking incident positions, in
// degrees.
const coveragePad = 0.5

// phase tracks pass/fail for a check phase. Warnings are reported but do not
// fail the phase.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the datasets and report integrity problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			prepared, raw, err := a.dash.Prepare(cmd.Context())
			if err != nil {
				return err
			}

			phases := []*phase{
				checkTables(raw),
				checkCleaning(raw, prepared),
				checkRegions(prepared),
				checkCoverage(prepared),
			}
			if !report(cmd.OutOrStdout(), phases, raw, prepared) {
				return fmt.Errorf("dataset check failed")
			}
			return nil
		},
	}
}

func checkTables(d *domain.Datasets) *phase {
	p := &phase{name: "Tables loaded"}
	if len(d.Counties) == 0 {
		p.errorf("county table is empty")
	}
	if len(d.Wildfires) == 0 {
		p.errorf("wildfire collection is empty")
	}
	if len(d.Landslides) == 0 {
		p.errorf("landslide collection is empty")
	}
	return p
}

func checkCleaning(raw *domain.Datasets, prepared *domain.Prepared) *phase {
	p := &phase{name: "Cleaning"}

	if dropped := len(raw.Counties) - len(prepared.Counties); dropped > 0 {
		p.warnf("%d county vertices without precipitation dropped", dropped)
	}
	if n := len(domain.CleanWildfires(raw.Wildfires)); n < len(raw.Wildfires) {
		p.warnf("%d wildfires without a burn index dropped", len(raw.Wildfires)-n)
	}
	if n := len(domain.CleanLandslides(raw.Landslides)); n < len(raw.Landslides) {
		p.warnf("%d landslides without a valid repair cost dropped", len(raw.Landslides)-n)
	}

	if len(prepared.Counties) == 0 {
		p.errorf("no county rows survive cleaning")
	}
	return p
}

func checkRegions(prepared *domain.Prepared) *phase {
	p := &phase{name: "County polygons"}

	for _, g := range domain.GroupRegions(prepared.Counties) {
		if len(g.Ring()) < 3 {
			p.errorf("%s group %d has %d vertices", g.Key.Region, g.Key.Group, len(g.Ring()))
		}
		if math.IsNaN(g.MeanPrecip) || math.IsInf(g.MeanPrecip, 0) {
			p.errorf("%s group %d has a non-finite mean", g.Key.Region, g.Key.Group)
		}
	}
	return p
}

// checkCoverage warns about incidents drawn outside the county extent.
func checkCoverage(prepared *domain.Prepared) *phase {
	p := &phase{name: "Incident coverage"}

	groups := domain.GroupRegions(prepared.Counties)
	if len(groups) == 0 {
		return p
	}
	extent := groups[0].Bound()
	for _, g := range groups[1:] {
		extent = extent.Union(g.Bound())
	}
	extent = extent.Pad(coveragePad)

	outside := func(pt orb.Point) bool { return !extent.Contains(pt) }

	n := 0
	for _, w := range prepared.Wildfires {
		if outside(w.Point()) {
			n++
		}
	}
	if n > 0 {
		p.warnf("%d sampled wildfires lie outside the county extent", n)
	}

	n = 0
	for _, l := range prepared.Landslides {
		if outside(l.Point()) {
			n++
		}
	}
	if n > 0 {
		p.warnf("%d sampled landslides lie outside the county extent", n)
	}
	return p
}

func report(w io.Writer, phases []*phase, raw *domain.Datasets, prepared *domain.Prepared) bool {
	fmt.Fprintln(w, "=== Dataset Integrity Check ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-28s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d/%d county vertices, %d/%d wildfires, %d/%d landslides (prepared/raw)\n",
		len(prepared.Counties), len(raw.Counties),
		len(prepared.Wildfires), len(raw.Wildfires),
		len(prepared.Landslides), len(raw.Landslides))

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.warnings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, warning := range p.warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll checks passed.")
	} else {
		fmt.Fprintln(w, "\nCheck FAILED.")
	}
	return allPassed
}

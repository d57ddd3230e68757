package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/galradius"
	"github.com/thurmanmarka/galradius/internal/config"
	"github.com/thurmanmarka/galradius/internal/logging"
)

// summary keeps a running mean and variance (Welford) of the finite
// samples it sees, plus their range.
type summary struct {
	n          int
	mean, m2   float64
	lo, hi     float64
	skippedNaN int
}

func (s *summary) observe(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.skippedNaN++
		return
	}
	s.n++
	if s.n == 1 {
		s.lo, s.hi = v, v
	}
	s.lo = math.Min(s.lo, v)
	s.hi = math.Max(s.hi, v)

	delta := v - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (v - s.mean)
}

// stddev is the sample standard deviation; NaN below two samples.
func (s *summary) stddev() float64 {
	if s.n < 2 {
		return math.NaN()
	}
	return math.Sqrt(s.m2 / float64(s.n-1))
}

func (s *summary) report(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if s.n == 0 {
		fmt.Fprintln(w, "  no samples")
		return
	}
	fmt.Fprintf(w, "  n=%d  range=[%.6g, %.6g]  mean=%.6g  sd=%.3g\n", s.n, s.lo, s.hi, s.mean, s.stddev())
	if s.skippedNaN > 0 {
		fmt.Fprintf(w, "  skipped %d non-finite samples\n", s.skippedNaN)
	}
}

// grid returns targets on a square grid of half-width radiusDeg around c,
// spaced stepDeg on the sky. The center itself is included.
func grid(c coord.Equatorial, radiusDeg, stepDeg float64) []coord.Equatorial {
	n := int(math.Floor(radiusDeg/stepDeg + 1e-9))
	cosDec := c.Dec.Cos()

	var out []coord.Equatorial
	for i := -n; i <= n; i++ {
		for j := -n; j <= n; j++ {
			dDec := float64(j) * stepDeg
			dec := c.Dec.Deg() + dDec
			if dec > 90 || dec < -90 {
				continue
			}
			dRA := float64(i) * stepDeg / cosDec
			out = append(out, coord.Equatorial{
				RA:  unit.RAFromDeg(c.RA.Deg() + dRA),
				Dec: unit.AngleFromDeg(dec),
			})
		}
	}
	return out
}

// Sweeps a grid of sky offsets around the configured galaxy and reports:
//
//   - the deprojected/projected radius ratio, which must lie in [1, 1/cos i];
//   - the difference between the two-quadrant and four-quadrant arctangent
//     distances, which should be at the rounding level.
//
// With -outcsv, one row per grid point is written.
func main() {
	var (
		cfgPath = flag.String("config", "", "optional config file (yaml, toml or json)")
		radius  = flag.Float64("radius", 1.0, "half-width of the grid in degrees")
		step    = flag.Float64("step", 0.05, "grid spacing in degrees")
		workers = flag.Int("workers", 0, "max goroutines (0 = GOMAXPROCS)")
		verbose = flag.Bool("verbose", false, "log every grid point")
		outCSV  = flag.String("outcsv", "", "optional path to write per-point results")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, level, "text")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *step <= 0 || *radius <= 0 {
		logger.Error("-radius and -step must be positive", "radius", *radius, "step", *step)
		os.Exit(1)
	}
	if *workers < 0 {
		logger.Error("-workers must not be negative", "workers", *workers)
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath, nil)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	g, err := cfg.GalaxyGeometry()
	if err != nil {
		logger.Error("invalid galaxy geometry", "error", err)
		os.Exit(1)
	}

	targets := grid(g.Center, *radius, *step)
	logger.Info("sweeping grid", "points", len(targets), "radius_deg", *radius, "step_deg", *step)

	dep, err := galradius.DeprojectAll(targets, g, galradius.Options{MaxGoroutines: *workers})
	if err != nil {
		logger.Error("deprojected sweep failed", "error", err)
		os.Exit(1)
	}
	proj, err := galradius.DeprojectAll(targets, g, galradius.Options{Projected: true, MaxGoroutines: *workers})
	if err != nil {
		logger.Error("projected sweep failed", "error", err)
		os.Exit(1)
	}
	legacy, err := galradius.DeprojectAll(targets, g, galradius.Options{TwoQuadrant: true, MaxGoroutines: *workers})
	if err != nil {
		logger.Error("two-quadrant sweep failed", "error", err)
		os.Exit(1)
	}

	var (
		outFile   *os.File
		outWriter *csv.Writer
	)
	if *outCSV != "" {
		outFile, err = os.Create(*outCSV)
		if err != nil {
			logger.Error("failed to create outcsv", "path", *outCSV, "error", err)
			os.Exit(1)
		}

		outWriter = csv.NewWriter(outFile)

		if err := outWriter.Write([]string{
			"ra_deg",
			"dec_deg",
			"sky_arcmin",
			"disk_arcmin",
			"distance",
			"projected_distance",
			"two_quadrant_distance",
			"disk_phi_deg",
			"unit",
		}); err != nil {
			logger.Error("failed to write outcsv header", "error", err)
			outFile.Close()
			os.Exit(1)
		}
	}

	var (
		ratioStats   summary
		legacyStats  summary
		distStats    summary
		outOfBounds  int
		maxStretch   = 1 / g.Inclination.Cos()
		boundsSlack  = 1e-9
		centerPoints int
	)

	for i, c := range targets {
		d, p, l := dep[i].Distance, proj[i].Distance, legacy[i].Distance
		distStats.observe(d.Value)
		legacyStats.observe(math.Abs(d.Value - l.Value))

		if p.Value == 0 {
			centerPoints++
		} else {
			ratio := d.Value / p.Value
			ratioStats.observe(ratio)
			if ratio < 1-boundsSlack || ratio > maxStretch*(1+boundsSlack) {
				outOfBounds++
				logger.Warn("stretch out of bounds", "ra", c.RA.Deg(), "dec", c.Dec.Deg(), "ratio", ratio)
			}
		}

		logger.Debug("grid point",
			"ra", c.RA.Deg(), "dec", c.Dec.Deg(),
			"distance", d.String(), "projected", p.String(),
			"disk_phi", dep[i].DiskPhi.Deg())

		if outWriter != nil {
			rec := []string{
				fmt.Sprintf("%.8f", c.RA.Deg()),
				fmt.Sprintf("%.8f", c.Dec.Deg()),
				fmt.Sprintf("%.6f", dep[i].SkyRadius.Min()),
				fmt.Sprintf("%.6f", dep[i].Radius.Min()),
				fmt.Sprintf("%.9g", d.Value),
				fmt.Sprintf("%.9g", p.Value),
				fmt.Sprintf("%.9g", l.Value),
				fmt.Sprintf("%.4f", dep[i].DiskPhi.Deg()),
				d.Unit.String(),
			}
			if err := outWriter.Write(rec); err != nil {
				logger.Warn("failed to write outcsv row", "row", i+1, "error", err)
			}
		}
	}

	if outWriter != nil {
		outWriter.Flush()
		if err := outWriter.Error(); err != nil {
			logger.Error("failed to flush outcsv", "error", err)
		}
		if err := outFile.Close(); err != nil {
			logger.Error("failed to close outcsv", "path", *outCSV, "error", err)
		}
	}

	fmt.Println("=== galradius profiler summary ===")
	fmt.Printf("Center:      RA %.6f°  Dec %+.6f°\n", g.Center.RA.Deg(), g.Center.Dec.Deg())
	fmt.Printf("PA / incl:   %.3f° / %.3f°\n", g.PositionAngle.Deg(), g.Inclination.Deg())
	fmt.Printf("Distance:    %v\n", g.Distance)
	fmt.Printf("Points:      %d (%d at the center)\n", len(targets), centerPoints)
	fmt.Printf("Max stretch: %.6f (1/cos i)\n", maxStretch)

	distStats.report(os.Stdout, fmt.Sprintf("Deprojected distance (%v)", g.Distance.Unit))
	ratioStats.report(os.Stdout, "Deprojected / projected ratio")
	legacyStats.report(os.Stdout, fmt.Sprintf("|four-quadrant - two-quadrant| distance (%v)", g.Distance.Unit))

	if outOfBounds > 0 {
		fmt.Printf("\n%d points outside [1, 1/cos i]\n", outOfBounds)
		os.Exit(1)
	}
}

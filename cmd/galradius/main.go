package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soniakeys/meeus/v3/coord"

	"github.com/thurmanmarka/galradius"
	"github.com/thurmanmarka/galradius/internal/config"
	"github.com/thurmanmarka/galradius/internal/logging"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "geometry":
			runGeometry(os.Args[2:])
			return
		case "help":
			usage()
			return
		}
	}
	runDistance(os.Args[1:])
}

func usage() {
	fmt.Fprintf(os.Stderr, `galradius – deprojected galactocentric distances

Usage:
  galradius [flags] RA,DEC [RA,DEC ...]   # distance of each target (degrees)
  galradius geometry [flags]              # print the resolved galaxy geometry

The galaxy defaults to M31. Geometry can also come from -config FILE or
%s_* environment variables (e.g. %s_GALAXY_INCLINATION=60); flags win.

A target with a negative RA must follow "--", e.g. galradius -- -1.5,41.2

Flags:
  galradius -h
`, config.EnvPrefix, config.EnvPrefix)
}

// fatal logs msg and exits with status 1.
func fatal(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

// resolve parses flags and returns the configuration and its logger.
func resolve(fs *flag.FlagSet, args []string) (*config.Config, galradius.Galaxy, *slog.Logger) {
	cfgPath := geometryFlags(fs)
	if err := fs.Parse(args); err != nil {
		fatal(slog.Default(), "failed to parse flags", "error", err)
	}

	cfg, err := config.Load(*cfgPath, setOverrides(fs))
	if err != nil {
		fatal(slog.Default(), "invalid configuration", "error", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fatal(slog.Default(), "invalid logging configuration", "error", err)
	}

	g, err := cfg.GalaxyGeometry()
	if err != nil {
		fatal(logger, "invalid galaxy geometry", "error", err)
	}

	logger.Debug("resolved galaxy geometry",
		"config", *cfgPath,
		"center_ra", cfg.Galaxy.CenterRA,
		"center_dec", cfg.Galaxy.CenterDec,
		"position_angle", cfg.Galaxy.PositionAngle,
		"inclination", cfg.Galaxy.Inclination,
		"distance", g.Distance.String(),
		"projected", cfg.Projected,
		"two_quadrant", cfg.TwoQuadrant,
	)
	return cfg, g, logger
}

// ---------------------
// Distance (default) mode
// ---------------------

func runDistance(args []string) {
	fs := flag.NewFlagSet("galradius", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: galradius [flags] RA,DEC [RA,DEC ...]

Flags:
`)
		fs.PrintDefaults()
	}

	cfg, g, logger := resolve(fs, args)

	targets, err := parseTargets(fs.Args())
	if err != nil {
		fatal(logger, "invalid target", "error", err)
	}
	if len(targets) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	results, err := galradius.DeprojectAll(targets, g, cfg.Options())
	if err != nil {
		fatal(logger, "computation failed", "error", err)
	}
	logger.Debug("computed distances", "targets", len(targets))

	u, ok, err := cfg.OutputUnit()
	if err != nil {
		fatal(logger, "invalid output unit", "error", err)
	}
	if ok {
		for i := range results {
			results[i].Distance = results[i].Distance.In(u)
		}
	}

	if cfg.Output.JSON {
		if err := printJSON(os.Stdout, cfg, targets, results); err != nil {
			fatal(logger, "failed to encode JSON", "error", err)
		}
		return
	}
	printHuman(os.Stdout, cfg, g, targets, results)
}

// ---------------------
// Geometry subcommand
// ---------------------

func runGeometry(args []string) {
	fs := flag.NewFlagSet("geometry", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: galradius geometry [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	cfg, g, logger := resolve(fs, args)

	if cfg.Output.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			fatal(logger, "failed to encode JSON", "error", err)
		}
		return
	}

	fmt.Printf("Center         : RA %.6f°  Dec %+.6f°\n", g.Center.RA.Deg(), g.Center.Dec.Deg())
	fmt.Printf("Position angle : %.4f°\n", g.PositionAngle.Deg())
	fmt.Printf("Inclination    : %.4f°\n", g.Inclination.Deg())
	fmt.Printf("Distance       : %v\n", g.Distance)
	fmt.Printf("Mode           : %s\n", modeName(cfg))
}

// ---------------------
// Shared helpers
// ---------------------

func modeName(cfg *config.Config) string {
	mode := "deprojected"
	if cfg.Projected {
		mode = "projected"
	}
	if cfg.TwoQuadrant {
		mode += ", two-quadrant arctangent"
	}
	return mode
}

func printHuman(w io.Writer, cfg *config.Config, g galradius.Galaxy, targets []coord.Equatorial, results []galradius.Result) {
	fmt.Fprintf(w, "Galaxy: RA %.6f° Dec %+.6f°, PA %.3f°, i %.2f°, %v (%s)\n\n",
		g.Center.RA.Deg(), g.Center.Dec.Deg(), g.PositionAngle.Deg(), g.Inclination.Deg(),
		g.Distance, modeName(cfg))

	for i, r := range results {
		fmt.Fprintf(w, "RA %11.6f  Dec %+10.6f  r = %-14s sky %8.3f′  disk %8.3f′  φ %7.2f°\n",
			targets[i].RA.Deg(), targets[i].Dec.Deg(),
			fmt.Sprintf("%.4f %v", r.Distance.Value, r.Distance.Unit),
			r.SkyRadius.Min(), r.Radius.Min(), r.DiskPhi.Deg())
	}
}

type jsonResult struct {
	RA              float64          `json:"ra"`
	Dec             float64          `json:"dec"`
	Distance        galradius.Length `json:"distance"`
	SkyRadiusArcmin float64          `json:"sky_radius_arcmin"`
	RadiusArcmin    float64          `json:"radius_arcmin"`
	DiskPhiDeg      float64          `json:"disk_phi_deg"`
}

type jsonOutput struct {
	Galaxy      config.Galaxy `json:"galaxy"`
	Projected   bool          `json:"projected"`
	TwoQuadrant bool          `json:"two_quadrant"`
	Results     []jsonResult  `json:"results"`
}

func printJSON(w io.Writer, cfg *config.Config, targets []coord.Equatorial, results []galradius.Result) error {
	out := jsonOutput{
		Galaxy:      cfg.Galaxy,
		Projected:   cfg.Projected,
		TwoQuadrant: cfg.TwoQuadrant,
		Results:     make([]jsonResult, len(results)),
	}
	for i, r := range results {
		out.Results[i] = jsonResult{
			RA:              targets[i].RA.Deg(),
			Dec:             targets[i].Dec.Deg(),
			Distance:        r.Distance,
			SkyRadiusArcmin: r.SkyRadius.Min(),
			RadiusArcmin:    r.Radius.Min(),
			DiskPhiDeg:      r.DiskPhi.Deg(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

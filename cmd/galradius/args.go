package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/coord"

	"github.com/thurmanmarka/galradius"
)

// flagKeys maps geometry/output flags to their config keys.
var flagKeys = map[string]string{
	"center-ra":    "galaxy.center_ra",
	"center-dec":   "galaxy.center_dec",
	"pa":           "galaxy.position_angle",
	"incl":         "galaxy.inclination",
	"dist":         "galaxy.distance",
	"unit":         "galaxy.distance_unit",
	"projected":    "projected",
	"two-quadrant": "two_quadrant",
	"out-unit":     "output.unit",
	"json":         "output.json",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// geometryFlags registers the flags shared by every mode. Their defaults are
// only informational: a flag overrides the config only when it is set.
func geometryFlags(fs *flag.FlagSet) *string {
	m31 := galradius.M31()

	fs.Float64("center-ra", m31.Center.RA.Deg(), "galaxy center right ascension in degrees")
	fs.Float64("center-dec", m31.Center.Dec.Deg(), "galaxy center declination in degrees")
	fs.Float64("pa", m31.PositionAngle.Deg(), "position angle of the major axis in degrees, East of North")
	fs.Float64("incl", m31.Inclination.Deg(), "disk inclination in degrees (0 = face-on)")
	fs.Float64("dist", m31.Distance.Value, "distance to the galaxy")
	fs.String("unit", m31.Distance.Unit.String(), "unit of -dist: m, km, AU, ly, pc, kpc, Mpc")
	fs.Bool("projected", false, "report the sky-plane radius (skip the inclination correction)")
	fs.Bool("two-quadrant", false, "orient targets with atan(y/x) instead of atan2(y, x)")
	fs.String("out-unit", "", "convert results to this unit (default: unit of -dist)")
	fs.Bool("json", false, "output results as JSON")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "text", "log format: text or json")

	return fs.String("config", "", "optional config file (yaml, toml or json)")
}

// setOverrides returns the config overrides for the flags the user set.
func setOverrides(fs *flag.FlagSet) map[string]any {
	out := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if g, ok := f.Value.(flag.Getter); ok {
			out[key] = g.Get()
			return
		}
		out[key] = f.Value.String()
	})
	return out
}

// parseTarget parses "RA,DEC" in degrees.
func parseTarget(s string) (coord.Equatorial, error) {
	raS, decS, ok := strings.Cut(s, ",")
	if !ok {
		return coord.Equatorial{}, fmt.Errorf("target %q: want RA,DEC in degrees", s)
	}
	ra, err := strconv.ParseFloat(strings.TrimSpace(raS), 64)
	if err != nil {
		return coord.Equatorial{}, fmt.Errorf("target %q: bad RA: %w", s, err)
	}
	dec, err := strconv.ParseFloat(strings.TrimSpace(decS), 64)
	if err != nil {
		return coord.Equatorial{}, fmt.Errorf("target %q: bad Dec: %w", s, err)
	}
	c, err := galradius.NewEquatorial(ra, dec)
	if err != nil {
		return coord.Equatorial{}, fmt.Errorf("target %q: %w", s, err)
	}
	return c, nil
}

func parseTargets(args []string) ([]coord.Equatorial, error) {
	out := make([]coord.Equatorial, 0, len(args))
	for _, a := range args {
		c, err := parseTarget(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

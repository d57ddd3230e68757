package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"math"
	"strings"
	"testing"

	"github.com/soniakeys/meeus/v3/coord"

	"github.com/thurmanmarka/galradius"
	"github.com/thurmanmarka/galradius/internal/config"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		ra, dec float64
		wantErr string
	}{
		{in: "10.684708,41.26875", ra: 10.684708, dec: 41.26875},
		{in: " 350.5 , -12 ", ra: 350.5, dec: -12},
		{in: "-1.5,0", ra: 358.5, dec: 0},
		{in: "10.6", wantErr: "want RA,DEC"},
		{in: "abc,41", wantErr: "bad RA"},
		{in: "10,north", wantErr: "bad Dec"},
		{in: "10,95", wantErr: "coord.dec"},
	}

	for _, tt := range tests {
		c, err := parseTarget(tt.in)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("parseTarget(%q) error = %v, want %q", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTarget(%q) error = %v", tt.in, err)
			continue
		}
		if math.Abs(c.RA.Deg()-tt.ra) > 1e-9 || math.Abs(c.Dec.Deg()-tt.dec) > 1e-9 {
			t.Errorf("parseTarget(%q) = %v,%v; want %v,%v", tt.in, c.RA.Deg(), c.Dec.Deg(), tt.ra, tt.dec)
		}
	}
}

func TestSetOverridesOnlyVisited(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	geometryFlags(fs)
	if err := fs.Parse([]string{"-incl", "60", "-unit", "Mpc", "-projected", "-config", "x.yaml", "1,2"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := setOverrides(fs)
	want := map[string]any{
		"galaxy.inclination":   60.0,
		"galaxy.distance_unit": "Mpc",
		"projected":            true,
	}
	if len(got) != len(want) {
		t.Fatalf("overrides = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("overrides[%q] = %v (%T), want %v", k, got[k], got[k], v)
		}
	}
	if fs.NArg() != 1 || fs.Arg(0) != "1,2" {
		t.Errorf("positional args = %v", fs.Args())
	}
}

func TestPrintJSON(t *testing.T) {
	cfg, err := config.Load("", map[string]any{"output.json": true})
	if err != nil {
		t.Fatal(err)
	}
	g, err := cfg.GalaxyGeometry()
	if err != nil {
		t.Fatal(err)
	}

	targets := []coord.Equatorial{g.Center}
	results, err := galradius.DeprojectAll(targets, g, cfg.Options())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printJSON(&buf, cfg, targets, results); err != nil {
		t.Fatalf("printJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(out.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(out.Results))
	}
	if out.Results[0].Distance != galradius.Kpc(0) {
		t.Errorf("center distance = %v, want 0 kpc", out.Results[0].Distance)
	}
	if math.Abs(out.Galaxy.Inclination-77.5) > 1e-9 {
		t.Errorf("galaxy inclination = %v, want 77.5", out.Galaxy.Inclination)
	}
}

func TestPrintHuman(t *testing.T) {
	cfg, err := config.Load("", map[string]any{"projected": true})
	if err != nil {
		t.Fatal(err)
	}
	g, _ := cfg.GalaxyGeometry()
	target := coord.Equatorial{RA: g.Center.RA, Dec: g.Center.Dec + 0.001}

	results, err := galradius.DeprojectAll([]coord.Equatorial{target}, g, cfg.Options())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printHuman(&buf, cfg, g, []coord.Equatorial{target}, results)
	s := buf.String()
	for _, want := range []string{"(projected)", "kpc", "783 kpc"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

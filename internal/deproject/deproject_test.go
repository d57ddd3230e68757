package deproject

import (
	"errors"
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"
)

// offsetTarget returns the point reached by moving sepDeg from c toward
// position angle paDeg (East of North), using the same flat-sky offset the
// kernel assumes.
func offsetTarget(c coord.Equatorial, sepDeg, paDeg float64) coord.Equatorial {
	pa := unit.AngleFromDeg(paDeg)
	dDec := unit.AngleFromDeg(sepDeg * pa.Cos())
	dec := c.Dec + dDec
	meanDec := (c.Dec + dec) / 2
	dRA := unit.AngleFromDeg(sepDeg * pa.Sin() / meanDec.Cos())
	return coord.Equatorial{
		RA:  unit.RAFromRad(c.RA.Rad() + dRA.Rad()),
		Dec: dec,
	}
}

func equatorCenter() Geometry {
	return Geometry{
		Center:        coord.Equatorial{RA: unit.RAFromDeg(30), Dec: 0},
		PositionAngle: unit.AngleFromDeg(40),
		Inclination:   unit.AngleFromDeg(60),
	}
}

func relDiff(a, b float64) float64 {
	if a == b {
		return 0
	}
	return math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b))
}

func TestRadius_CenterIsZero(t *testing.T) {
	g := equatorCenter()
	g.Inclination = unit.AngleFromDeg(90)

	for _, m := range []Mode{{}, {Projected: true}, {TwoQuadrant: true}} {
		off, err := Radius(g.Center, g, m)
		if err != nil {
			t.Fatalf("mode %+v: unexpected error %v", m, err)
		}
		if off != (Offset{}) {
			t.Errorf("mode %+v: offset = %+v, want zero", m, off)
		}
	}
}

func TestRadius_MajorAxisIsNotStretched(t *testing.T) {
	g := equatorCenter()

	for _, pa := range []float64{40, 220} {
		target := offsetTarget(g.Center, 0.1, pa)
		off, err := Radius(target, g, Mode{})
		if err != nil {
			t.Fatalf("pa=%v: %v", pa, err)
		}
		if d := relDiff(off.Radius.Rad(), off.Sky.Rad()); d > 1e-3 {
			t.Errorf("pa=%v: radius %.6f′ vs sky %.6f′ (rel diff %.2e)",
				pa, off.Radius.Min(), off.Sky.Min(), d)
		}
	}
}

func TestRadius_MinorAxisStretch(t *testing.T) {
	g := equatorCenter()
	want := 1 / g.Inclination.Cos()

	for _, pa := range []float64{130, 310} {
		target := offsetTarget(g.Center, 0.1, pa)
		off, err := Radius(target, g, Mode{})
		if err != nil {
			t.Fatalf("pa=%v: %v", pa, err)
		}
		got := off.Radius.Rad() / off.Sky.Rad()
		if relDiff(got, want) > 1e-2 {
			t.Errorf("pa=%v: stretch = %.5f, want %.5f", pa, got, want)
		}
	}
}

func TestRadius_ProjectedEqualsSky(t *testing.T) {
	g := equatorCenter()
	target := offsetTarget(g.Center, 0.2, 95)

	off, err := Radius(target, g, Mode{Projected: true})
	if err != nil {
		t.Fatal(err)
	}
	// Without the stretch, (x', y') is a rotation of (sep, 0).
	if d := relDiff(off.Radius.Rad(), off.Sky.Rad()); d > 1e-12 {
		t.Errorf("projected radius %.9f′ != sky %.9f′", off.Radius.Min(), off.Sky.Min())
	}
}

func TestRadius_TwoQuadrantSameRadius(t *testing.T) {
	g := equatorCenter()

	for _, pa := range []float64{0, 17, 90, 163, 180, 241, 270, 333} {
		target := offsetTarget(g.Center, 0.15, pa)

		four, err := Radius(target, g, Mode{})
		if err != nil {
			t.Fatalf("pa=%v four-quadrant: %v", pa, err)
		}
		two, err := Radius(target, g, Mode{TwoQuadrant: true})
		if err != nil {
			t.Fatalf("pa=%v two-quadrant: %v", pa, err)
		}
		if d := relDiff(four.Radius.Rad(), two.Radius.Rad()); d > 1e-12 {
			t.Errorf("pa=%v: four=%.9f′ two=%.9f′", pa, four.Radius.Min(), two.Radius.Min())
		}
	}
}

func TestRadius_TwoQuadrantDueNorth(t *testing.T) {
	g := equatorCenter()
	target := coord.Equatorial{RA: g.Center.RA, Dec: g.Center.Dec + unit.AngleFromDeg(0.1)}

	off, err := Radius(target, g, Mode{TwoQuadrant: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(off.Radius.Rad()) || off.Radius <= 0 {
		t.Errorf("radius = %v, want positive finite", off.Radius.Min())
	}
}

func TestRadius_EdgeOn(t *testing.T) {
	g := equatorCenter()
	g.Inclination = unit.AngleFromDeg(90)
	target := offsetTarget(g.Center, 0.1, 0)

	if _, err := Radius(target, g, Mode{}); !errors.Is(err, ErrEdgeOn) {
		t.Fatalf("err = %v, want ErrEdgeOn", err)
	}

	off, err := Radius(target, g, Mode{Projected: true})
	if err != nil {
		t.Fatalf("projected edge-on: %v", err)
	}
	if off.Radius <= 0 {
		t.Errorf("projected edge-on radius = %v, want > 0", off.Radius.Min())
	}
}

func TestRADiff_WrapsAcrossZero(t *testing.T) {
	tests := []struct {
		a, b float64 // degrees
		want float64
	}{
		{10, 5, 5},
		{5, 10, -5},
		{0.5, 359.5, 1},
		{359.5, 0.5, -1},
		{180, 0, 180},
	}
	for _, tt := range tests {
		got := RADiff(unit.RAFromDeg(tt.a), unit.RAFromDeg(tt.b)).Deg()
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RADiff(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

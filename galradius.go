// Package galradius computes deprojected galactocentric distances: how far
// a sky position lies from a galaxy's center when measured in the plane of
// the galaxy's own disk.
//
// A galaxy is described by its center, the position angle of its major axis,
// the inclination of its disk and its distance (see Galaxy; M31 returns the
// Andromeda geometry used as the default). Sky positions and angles use the
// types from github.com/soniakeys/unit and github.com/soniakeys/meeus/v3/coord.
//
// The scalar functions (Deproject, GalactocentricDistance) and the slice
// functions (DeprojectAll, GalactocentricDistances) share one kernel; the
// slice forms apply it elementwise and return one result per input.
package galradius

import (
	"errors"
	"fmt"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/galradius/internal/deproject"
	"github.com/thurmanmarka/galradius/internal/elementwise"
)

// Galaxy is the reference geometry of a disk galaxy.
type Galaxy struct {
	Center        coord.Equatorial // sky position of the nucleus
	PositionAngle unit.Angle       // major axis, East of North
	Inclination   unit.Angle       // 0 = face-on, 90° = edge-on
	Distance      Length           // distance to the galaxy
}

// M31 returns the default geometry: Andromeda at 00h42m44.33s +41°16′07.5″,
// PA 37°42′54″, inclination 77.5°, 783 kpc. Each call returns a new value.
func M31() Galaxy {
	return Galaxy{
		Center: coord.Equatorial{
			RA:  unit.NewRA(0, 42, 44.33),
			Dec: unit.NewAngle(' ', 41, 16, 7.5),
		},
		PositionAngle: unit.NewAngle(' ', 37, 42, 54),
		Inclination:   unit.AngleFromDeg(77.5),
		Distance:      Kpc(783),
	}
}

// Options tune a computation. The zero value deprojects with a
// four-quadrant arctangent, which is the normal mode.
type Options struct {
	// Projected returns the sky-plane radius instead of the disk-plane
	// radius (no inclination correction).
	Projected bool

	// TwoQuadrant orients targets with atan(y/x) like older reductions did.
	// Distances are identical either way; only Result.DiskPhi differs.
	TwoQuadrant bool

	// MaxGoroutines bounds the workers used by the slice functions.
	// Zero or negative means GOMAXPROCS.
	MaxGoroutines int
}

// Result is the full outcome for one target.
type Result struct {
	Distance  Length     `json:"distance"`   // galactocentric distance, in the galaxy distance unit
	Radius    unit.Angle `json:"radius"`     // disk-plane angular radius
	SkyRadius unit.Angle `json:"sky_radius"` // great-circle separation from the center
	DiskPhi   unit.Angle `json:"disk_phi"`   // azimuth in the disk plane, from the major axis
}

var (
	// ErrInvalidInput is wrapped by every *ParamError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEdgeOn is returned when deprojecting for an inclination of 90°.
	ErrEdgeOn = deproject.ErrEdgeOn

	// ErrNonFinite is returned when the computation overflows to NaN or ±Inf.
	ErrNonFinite = deproject.ErrNonFinite
)

// ParamError reports a malformed input parameter.
type ParamError struct {
	Param  string // e.g. "coord.dec", "inclination", "distance.unit"
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidInput }

// DomainError reports a numeric-domain failure (division by zero, NaN) for
// otherwise well-formed input.
type DomainError struct {
	Op  string
	Err error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("galradius: %s: %v", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewEquatorial builds a sky coordinate from RA and Dec in degrees. RA is
// taken modulo 360°; Dec must lie in [-90°, 90°].
func NewEquatorial(raDeg, decDeg float64) (coord.Equatorial, error) {
	c := coord.Equatorial{RA: unit.RAFromDeg(raDeg), Dec: unit.AngleFromDeg(decDeg)}
	if err := validateTarget("coord", c); err != nil {
		return coord.Equatorial{}, err
	}
	return c, nil
}

// Deproject computes the galactocentric distance of c with respect to g,
// together with the intermediate angles.
func Deproject(c coord.Equatorial, g Galaxy, opts Options) (Result, error) {
	if err := validateGalaxy(g); err != nil {
		return Result{}, err
	}
	if err := validateTarget("coord", c); err != nil {
		return Result{}, err
	}
	return deprojectOne(c, g, opts)
}

// GalactocentricDistance returns the distance of c from the center of g,
// measured in the disk plane unless opts.Projected is set. The result
// carries g.Distance's unit.
func GalactocentricDistance(c coord.Equatorial, g Galaxy, opts Options) (Length, error) {
	r, err := Deproject(c, g, opts)
	if err != nil {
		return Length{}, err
	}
	return r.Distance, nil
}

// DeprojectAll applies Deproject to every coordinate in cs. The result has
// one entry per coordinate, in order. If any coordinate fails, the joined
// errors are returned (each prefixed with its index) and no results.
func DeprojectAll(cs []coord.Equatorial, g Galaxy, opts Options) ([]Result, error) {
	if err := validateGalaxy(g); err != nil {
		return nil, err
	}
	return elementwise.Map(cs, opts.MaxGoroutines, func(c coord.Equatorial) (Result, error) {
		if err := validateTarget("coord", c); err != nil {
			return Result{}, err
		}
		return deprojectOne(c, g, opts)
	})
}

// GalactocentricDistances is the slice form of GalactocentricDistance.
func GalactocentricDistances(cs []coord.Equatorial, g Galaxy, opts Options) ([]Length, error) {
	rs, err := DeprojectAll(cs, g, opts)
	if err != nil {
		return nil, err
	}
	out := make([]Length, len(rs))
	for i, r := range rs {
		out[i] = r.Distance
	}
	return out, nil
}

// deprojectOne runs the kernel on validated input.
func deprojectOne(c coord.Equatorial, g Galaxy, opts Options) (Result, error) {
	geom := deproject.Geometry{
		Center:        g.Center,
		PositionAngle: g.PositionAngle,
		Inclination:   g.Inclination,
	}
	mode := deproject.Mode{
		Projected:   opts.Projected,
		TwoQuadrant: opts.TwoQuadrant,
	}

	off, err := deproject.Radius(c, geom, mode)
	if err != nil {
		return Result{}, &DomainError{Op: "deproject", Err: err}
	}

	return Result{
		Distance:  g.Distance.Subtend(off.Radius),
		Radius:    off.Radius,
		SkyRadius: off.Sky,
		DiskPhi:   off.Phi,
	}, nil
}

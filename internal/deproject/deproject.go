// Package deproject maps a sky position onto the disk plane of an inclined
// galaxy and returns its angular radius from the galaxy center.
//
// The transformation follows the usual HII-region deprojection recipe:
//
//	sep  = great-circle separation(center, target)
//	x    = (α_c - α) cos(½(δ_c + δ))
//	y    = δ_c - δ
//	φ    = PA - 90° + atan2(y, x)
//	x'   = sep cos φ              (major axis)
//	y'   = sep sin φ              (minor axis, on the sky)
//	y''  = y' / cos i             (when deprojecting)
//	r    = sqrt(x'^2 + y''^2)
//
// x and y are a small-angle tangent-plane offset. They are only used to
// orient the target; the radius itself always comes from sep.
package deproject

import (
	"errors"
	"math"

	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"
)

// edgeOnCos is the smallest |cos i| that still deprojects. cos(90°) in
// float64 is ~6e-17, not zero.
const edgeOnCos = 1e-12

var (
	// ErrEdgeOn is returned when deprojection is requested for an edge-on disk.
	ErrEdgeOn = errors.New("inclination is edge-on, cos(i) = 0")

	// ErrNonFinite is returned when the radius comes out as NaN or ±Inf.
	ErrNonFinite = errors.New("radius is not finite")
)

// Geometry is the orientation of a galaxy disk on the sky.
type Geometry struct {
	Center        coord.Equatorial
	PositionAngle unit.Angle // major axis, measured East of North
	Inclination   unit.Angle // 0 = face-on, 90° = edge-on
}

// Mode selects the optional parts of the transformation.
type Mode struct {
	// Projected skips the 1/cos(i) stretch of the minor axis.
	Projected bool

	// TwoQuadrant orients the target with atan(y/x) instead of atan2(y, x).
	// The radius is unchanged (φ only moves by 180°), but DiskPhi follows
	// the two-quadrant convention.
	TwoQuadrant bool
}

// Offset holds the angular quantities for one target.
type Offset struct {
	Sky    unit.Angle // great-circle separation from the center
	Major  unit.Angle // x', along the major axis
	Minor  unit.Angle // y'', along the minor axis (deprojected unless Mode.Projected)
	Radius unit.Angle // disk-plane radius
	Phi    unit.Angle // azimuth in the disk plane, from the major axis
}

// Radius computes the disk-plane offset of target for the given geometry.
//
// A target that coincides with the center has a zero Offset for every
// geometry and mode, including edge-on disks.
func Radius(target coord.Equatorial, g Geometry, m Mode) (Offset, error) {
	sep := angle.SepHav(g.Center.RA.Angle(), g.Center.Dec, target.RA.Angle(), target.Dec)
	if sep == 0 {
		return Offset{}, nil
	}

	meanDec := (g.Center.Dec + target.Dec) / 2
	x := RADiff(g.Center.RA, target.RA).Mul(meanDec.Cos())
	y := g.Center.Dec - target.Dec

	var theta unit.Angle
	if m.TwoQuadrant {
		// x == 0 gives y/x = ±Inf and atan(±Inf) = ±90°, which is the
		// right answer for a target due North or South of the center.
		theta = unit.Angle(math.Atan(y.Rad() / x.Rad()))
	} else {
		theta = unit.Angle(math.Atan2(y.Rad(), x.Rad()))
	}
	phi := g.PositionAngle - unit.AngleFromDeg(90) + theta

	// Work in arcminutes from here on: x' and y'' are combined as plain
	// Euclidean components.
	sinPhi, cosPhi := phi.Sincos()
	xp := sep.Mul(cosPhi).Min()
	yp := sep.Mul(sinPhi).Min()

	ypp := yp
	if !m.Projected {
		cosI := g.Inclination.Cos()
		if math.Abs(cosI) < edgeOnCos {
			return Offset{}, ErrEdgeOn
		}
		ypp = yp / cosI
	}

	r := math.Hypot(xp, ypp)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Offset{}, ErrNonFinite
	}

	var diskPhi float64
	if m.TwoQuadrant {
		diskPhi = math.Atan(ypp / xp)
	} else {
		diskPhi = math.Atan2(ypp, xp)
	}

	return Offset{
		Sky:    sep,
		Major:  unit.AngleFromMin(xp),
		Minor:  unit.AngleFromMin(ypp),
		Radius: unit.AngleFromMin(r),
		Phi:    unit.Angle(diskPhi),
	}, nil
}

// RADiff returns a - b reduced to (-180°, 180°], so targets on either side
// of RA = 0h keep a small offset.
func RADiff(a, b unit.RA) unit.Angle {
	d := unit.PMod(a.Rad()-b.Rad(), 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return unit.Angle(d)
}

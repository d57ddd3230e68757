package galradius

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/soniakeys/meeus/v3/coord"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("param")
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		x := fl.Field().Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	})
	_ = v.RegisterValidation("lengthunit", func(fl validator.FieldLevel) bool {
		return LengthUnit(fl.Field().Int()).Valid()
	})
	return v
}

// Flat, degree-valued views of the inputs. Ranges are checked in degrees
// after rounding away conversion noise, so 90° stays 90°.

type targetFields struct {
	RA  float64 `param:"ra" validate:"finite"`
	Dec float64 `param:"dec" validate:"finite,gte=-90,lte=90"`
}

type galaxyFields struct {
	CenterRA      float64    `param:"center.ra" validate:"finite"`
	CenterDec     float64    `param:"center.dec" validate:"finite,gte=-90,lte=90"`
	PositionAngle float64    `param:"position_angle" validate:"finite"`
	Inclination   float64    `param:"inclination" validate:"finite,gte=0,lte=90"`
	Distance      float64    `param:"distance" validate:"finite,gt=0"`
	Unit          LengthUnit `param:"distance.unit" validate:"lengthunit"`
}

func roundDeg(d float64) float64 {
	return math.Round(d*1e9) / 1e9
}

func validateTarget(name string, c coord.Equatorial) error {
	f := targetFields{
		RA:  roundDeg(c.RA.Deg()),
		Dec: roundDeg(c.Dec.Deg()),
	}
	return paramErrors(validate.Struct(f), name+".")
}

func validateGalaxy(g Galaxy) error {
	f := galaxyFields{
		CenterRA:      roundDeg(g.Center.RA.Deg()),
		CenterDec:     roundDeg(g.Center.Dec.Deg()),
		PositionAngle: roundDeg(g.PositionAngle.Deg()),
		Inclination:   roundDeg(g.Inclination.Deg()),
		Distance:      g.Distance.Value,
		Unit:          g.Distance.Unit,
	}
	return paramErrors(validate.Struct(f), "")
}

// paramErrors turns validator failures into *ParamError values.
func paramErrors(err error, prefix string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, &ParamError{
			Param:  prefix + fe.Field(),
			Value:  fe.Value(),
			Reason: reason(fe),
		})
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "finite":
		return "must be finite"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "lengthunit":
		return "unknown length unit"
	}
	return fmt.Sprintf("failed %q", fe.Tag())
}

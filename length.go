package galradius

import (
	"fmt"
	"strings"

	"github.com/soniakeys/unit"
)

// LengthUnit identifies the unit of a Length. The zero value is not a
// valid unit.
type LengthUnit int

const (
	Meter LengthUnit = iota + 1
	Kilometer
	AstronomicalUnit
	LightYear
	Parsec
	Kiloparsec
	Megaparsec
)

// meters per unit (IAU 2012 au, IAU 2015 pc, Julian light-year).
var unitMeters = [...]float64{
	Meter:            1,
	Kilometer:        1e3,
	AstronomicalUnit: 1.495978707e11,
	LightYear:        9.4607304725808e15,
	Parsec:           3.0856775814913673e16,
	Kiloparsec:       3.0856775814913673e19,
	Megaparsec:       3.0856775814913673e22,
}

var unitSymbols = [...]string{
	Meter:            "m",
	Kilometer:        "km",
	AstronomicalUnit: "AU",
	LightYear:        "ly",
	Parsec:           "pc",
	Kiloparsec:       "kpc",
	Megaparsec:       "Mpc",
}

// unitNames maps lower-cased spellings to units. "mpc" is read as
// megaparsec; nobody means milliparsec here.
var unitNames = map[string]LengthUnit{
	"m":                 Meter,
	"meter":             Meter,
	"meters":            Meter,
	"km":                Kilometer,
	"kilometer":         Kilometer,
	"kilometers":        Kilometer,
	"au":                AstronomicalUnit,
	"ly":                LightYear,
	"lightyear":         LightYear,
	"light-year":        LightYear,
	"pc":                Parsec,
	"parsec":            Parsec,
	"parsecs":           Parsec,
	"kpc":               Kiloparsec,
	"kiloparsec":        Kiloparsec,
	"kiloparsecs":       Kiloparsec,
	"mpc":               Megaparsec,
	"megaparsec":        Megaparsec,
	"megaparsecs":       Megaparsec,
	"astronomical-unit": AstronomicalUnit,
}

// Valid reports whether u is one of the defined units.
func (u LengthUnit) Valid() bool {
	return u >= Meter && u <= Megaparsec
}

func (u LengthUnit) String() string {
	if !u.Valid() {
		return fmt.Sprintf("LengthUnit(%d)", int(u))
	}
	return unitSymbols[u]
}

// MarshalText encodes u as its symbol.
func (u LengthUnit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("unknown length unit %d", int(u))
	}
	return []byte(unitSymbols[u]), nil
}

// UnmarshalText accepts anything ParseLengthUnit does.
func (u *LengthUnit) UnmarshalText(b []byte) error {
	v, err := ParseLengthUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ParseLengthUnit parses a unit symbol or name such as "kpc", "Mpc",
// "parsec" or "ly". Matching is case-insensitive.
func ParseLengthUnit(s string) (LengthUnit, error) {
	u, ok := unitNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown length unit %q", s)
	}
	return u, nil
}

// Length is a distance tagged with its unit.
type Length struct {
	Value float64    `json:"value"`
	Unit  LengthUnit `json:"unit"`
}

// NewLength returns a Length of v in unit u.
func NewLength(v float64, u LengthUnit) Length {
	return Length{Value: v, Unit: u}
}

// Kpc returns a Length of v kiloparsecs.
func Kpc(v float64) Length {
	return Length{Value: v, Unit: Kiloparsec}
}

// Meters returns l in meters. It panics if l.Unit is not a valid unit;
// every Length built by this package carries one, so an invalid unit is a
// programming error.
func (l Length) Meters() float64 {
	if !l.Unit.Valid() {
		panic(fmt.Sprintf("galradius: Meters on length with %v", l.Unit))
	}
	return l.Value * unitMeters[l.Unit]
}

// In converts l to unit u. Converting to the unit l already has returns l
// unchanged. Like Meters, it panics if either unit is invalid; check
// LengthUnit.Valid first when the unit comes from outside the program.
func (l Length) In(u LengthUnit) Length {
	if l.Unit == u {
		return l
	}
	if !u.Valid() {
		panic(fmt.Sprintf("galradius: conversion to %v", u))
	}
	return Length{Value: l.Meters() / unitMeters[u], Unit: u}
}

// Subtend returns the arc length that angle a subtends at distance l,
// in l's unit. This is the small-angle relation s = θ·d.
func (l Length) Subtend(a unit.Angle) Length {
	return Length{Value: a.Rad() * l.Value, Unit: l.Unit}
}

func (l Length) String() string {
	return fmt.Sprintf("%g %v", l.Value, l.Unit)
}

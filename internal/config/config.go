// Package config resolves the galaxy geometry and run options for the
// galradius commands.
//
// Values are layered, later layers winning:
//
//	defaults (M31)  <  config file  <  GALRADIUS_* environment  <  overrides
//
// Keys are dotted ("galaxy.inclination"); the matching environment variable
// upper-cases them and replaces dots with underscores
// (GALRADIUS_GALAXY_INCLINATION).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"
	"github.com/spf13/viper"

	"github.com/thurmanmarka/galradius"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "GALRADIUS"

// Galaxy is the reference geometry in degrees.
type Galaxy struct {
	CenterRA      float64 `mapstructure:"center_ra"      json:"center_ra"`
	CenterDec     float64 `mapstructure:"center_dec"     json:"center_dec"     validate:"gte=-90,lte=90"`
	PositionAngle float64 `mapstructure:"position_angle" json:"position_angle"`
	Inclination   float64 `mapstructure:"inclination"    json:"inclination"    validate:"gte=0,lte=90"`
	Distance      float64 `mapstructure:"distance"       json:"distance"       validate:"gt=0"`
	DistanceUnit  string  `mapstructure:"distance_unit"  json:"distance_unit"  validate:"required,lengthunit"`
}

// Output controls how results are reported.
type Output struct {
	Unit string `mapstructure:"unit" json:"unit" validate:"omitempty,lengthunit"`
	JSON bool   `mapstructure:"json" json:"json"`
}

// Log configures the command logger.
type Log struct {
	Level  string `mapstructure:"level"  json:"level"  validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=text json"`
}

// Config is the resolved configuration.
type Config struct {
	Galaxy      Galaxy `mapstructure:"galaxy"       json:"galaxy"`
	Projected   bool   `mapstructure:"projected"    json:"projected"`
	TwoQuadrant bool   `mapstructure:"two_quadrant" json:"two_quadrant"`
	Output      Output `mapstructure:"output"       json:"output"`
	Log         Log    `mapstructure:"log"          json:"log"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("lengthunit", func(fl validator.FieldLevel) bool {
		_, err := galradius.ParseLengthUnit(fl.Field().String())
		return err == nil
	})
	return v
}

// setDefaults seeds v with the M31 geometry.
func setDefaults(v *viper.Viper) {
	g := galradius.M31()
	v.SetDefault("galaxy.center_ra", g.Center.RA.Deg())
	v.SetDefault("galaxy.center_dec", g.Center.Dec.Deg())
	v.SetDefault("galaxy.position_angle", g.PositionAngle.Deg())
	v.SetDefault("galaxy.inclination", g.Inclination.Deg())
	v.SetDefault("galaxy.distance", g.Distance.Value)
	v.SetDefault("galaxy.distance_unit", g.Distance.Unit.String())
	v.SetDefault("projected", false)
	v.SetDefault("two_quadrant", false)
	v.SetDefault("output.unit", "")
	v.SetDefault("output.json", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load resolves the configuration. path may be empty, in which case only
// defaults, environment and overrides apply. The file format follows the
// extension (yaml, toml, json).
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// GalaxyGeometry converts the configured geometry to a galradius.Galaxy.
func (c *Config) GalaxyGeometry() (galradius.Galaxy, error) {
	u, err := galradius.ParseLengthUnit(c.Galaxy.DistanceUnit)
	if err != nil {
		return galradius.Galaxy{}, err
	}
	return galradius.Galaxy{
		Center: coord.Equatorial{
			RA:  unit.RAFromDeg(c.Galaxy.CenterRA),
			Dec: unit.AngleFromDeg(c.Galaxy.CenterDec),
		},
		PositionAngle: unit.AngleFromDeg(c.Galaxy.PositionAngle),
		Inclination:   unit.AngleFromDeg(c.Galaxy.Inclination),
		Distance:      galradius.NewLength(c.Galaxy.Distance, u),
	}, nil
}

// Options returns the computation options.
func (c *Config) Options() galradius.Options {
	return galradius.Options{
		Projected:   c.Projected,
		TwoQuadrant: c.TwoQuadrant,
	}
}

// OutputUnit returns the requested output unit, or ok=false to keep the
// galaxy distance unit. An unparsable unit is an error, never a silent
// fallback.
func (c *Config) OutputUnit() (u galradius.LengthUnit, ok bool, err error) {
	if c.Output.Unit == "" {
		return 0, false, nil
	}
	u, err = galradius.ParseLengthUnit(c.Output.Unit)
	if err != nil {
		return 0, false, fmt.Errorf("output.unit: %w", err)
	}
	return u, true, nil
}

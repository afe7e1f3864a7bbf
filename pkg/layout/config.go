package layout

import (
	"math"

	"github.com/matzehuels/chemlayout/pkg/errors"
)

// Force model constants. They are fixed by the algorithm and are not part of
// [Config].
const (
	// RepulsionCoefficient scales the pairwise push between nodes closer
	// than MinDistance.
	RepulsionCoefficient = 0.5

	// SpringCoefficient scales the pull (or push) along an edge whose
	// length differs from SpringLength.
	SpringCoefficient = 0.1

	// SpringTolerance is the deviation from SpringLength below which an
	// edge exerts no force.
	SpringTolerance = 1.0

	// DistanceEpsilon floors distances in force terms.
	DistanceEpsilon = 0.1

	// DegenerateExtent substitutes for a zero width or height when scaling
	// so that single atoms and straight chains do not divide by zero.
	DegenerateExtent = 100.0
)

// Size heuristic used by [Engine.Layout]: a graph whose extent is strictly
// between SkipMinExtent and SkipMaxFraction of the viewport on both axes is
// assumed to be already laid out and is only re-centered.
const (
	SkipMinExtent   = 50.0
	SkipMaxFraction = 0.8
)

// DefaultSpacing is the horizontal gap between graphs in
// [Engine.LayoutMultiple] when the caller passes zero.
const DefaultSpacing = 80.0

// Config holds the tunable layout parameters.
//
// A Config is a plain value: engines copy it on construction and on
// [Engine.SetConfig], so later changes to the caller's copy have no effect.
type Config struct {
	// MinDistance is the distance below which two nodes repel.
	MinDistance float64 `json:"min_distance" toml:"min_distance"`

	// Iterations is the number of force-simulation passes.
	Iterations int `json:"iterations" toml:"iterations"`

	// Padding is the viewport margin used when the viewport itself does
	// not carry one.
	Padding float64 `json:"padding" toml:"padding"`

	// MaxScale caps the fit-to-viewport scale factor.
	MaxScale float64 `json:"max_scale" toml:"max_scale"`

	// SpringLength is the rest length of every edge. Bond order does not
	// change it.
	SpringLength float64 `json:"spring_length" toml:"spring_length"`

	// Enabled gates [Engine.Layout]. A disabled engine leaves graphs
	// untouched.
	Enabled bool `json:"enabled" toml:"enabled"`

	// DisableSizeHeuristic forces the full pipeline even for graphs that
	// look already laid out.
	DisableSizeHeuristic bool `json:"disable_size_heuristic,omitempty" toml:"disable_size_heuristic"`
}

// DefaultConfig returns the default layout parameters.
func DefaultConfig() Config {
	return Config{
		MinDistance:  50,
		Iterations:   3,
		Padding:      40,
		MaxScale:     2.5,
		SpringLength: 50,
		Enabled:      true,
	}
}

// Validate reports an out-of-range field as an ErrCodeInvalidConfig error.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"min_distance":  c.MinDistance,
		"padding":       c.Padding,
		"max_scale":     c.MaxScale,
		"spring_length": c.SpringLength,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be finite", name)
		}
	}
	switch {
	case c.MinDistance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "min_distance cannot be negative (got %g)", c.MinDistance)
	case c.Iterations < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "iterations cannot be negative (got %d)", c.Iterations)
	case c.Iterations > errors.MaxIterations:
		return errors.New(errors.ErrCodeInvalidConfig, "iterations exceeds %d (got %d)", errors.MaxIterations, c.Iterations)
	case c.Padding < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "padding cannot be negative (got %g)", c.Padding)
	case c.MaxScale <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max_scale must be positive (got %g)", c.MaxScale)
	case c.SpringLength <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "spring_length must be positive (got %g)", c.SpringLength)
	}
	return nil
}

// =============================================================================
// Viewport
// =============================================================================

// Viewport is the rectangle graphs are fitted into. A zero Padding falls
// back to [Config.Padding].
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding,omitempty"`
}

// Center returns the viewport midpoint.
func (v Viewport) Center() (x, y float64) { return v.Width / 2, v.Height / 2 }

// Validate checks that the viewport leaves a drawable area inside its padding.
func (v Viewport) Validate() error {
	return errors.ValidateViewport(v.Width, v.Height, v.Padding)
}

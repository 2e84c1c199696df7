package physics

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the tunable parameters of a simulation. Each Simulation
// carries its own copy so several can run side by side with different
// settings.
type Config struct {
	// DefaultStrength is the repulsion coefficient given to every object.
	// Negative values repel.
	DefaultStrength float32 `json:"default_strength" yaml:"default_strength"`

	// MaxDist is the cutoff beyond which repulsion is not computed.
	MaxDist float32 `json:"max_dist" yaml:"max_dist"`

	// MinDist is the rest length below which springs do not pull.
	MinDist float32 `json:"min_dist" yaml:"min_dist"`

	// SpringScale converts separation into the spring's scaled distance.
	SpringScale float32 `json:"spring_scale" yaml:"spring_scale"`

	// AlphaTarget, AlphaDecay and AlphaMin drive the cooling schedule.
	AlphaTarget float64 `json:"alpha_target" yaml:"alpha_target"`
	AlphaDecay  float64 `json:"alpha_decay" yaml:"alpha_decay"`
	AlphaMin    float64 `json:"alpha_min" yaml:"alpha_min"`

	// Cooling applies the decayed alpha to spring forces. When false the
	// schedule is still advanced but springs always use alpha = 1.
	Cooling bool `json:"cooling" yaml:"cooling"`

	// StabilizationThreshold is the total per-tick displacement under which
	// a headless run is considered settled.
	StabilizationThreshold float64 `json:"stabilization_threshold" yaml:"stabilization_threshold"`
}

// Defaults for a new simulation
const (
	DefaultStrength float32 = -100.0
	DefaultMaxDist  float32 = 1000.0
	DefaultMinDist  float32 = 200.0
	DefaultSpring   float32 = 1e-5
	DefaultAlphaMin         = 0.001
)

// DefaultConfig returns the parameters the interactive viewer was tuned with
func DefaultConfig() Config {
	return Config{
		DefaultStrength:        DefaultStrength,
		MaxDist:                DefaultMaxDist,
		MinDist:                DefaultMinDist,
		SpringScale:            DefaultSpring,
		AlphaTarget:            0,
		AlphaDecay:             1 - math.Pow(DefaultAlphaMin, 1.0/300),
		AlphaMin:               DefaultAlphaMin,
		Cooling:                false,
		StabilizationThreshold: 0.01,
	}
}

// Validate reports parameters the passes cannot work with
func (c Config) Validate() error {
	var errs []error
	if isNaN32(c.DefaultStrength) {
		errs = append(errs, errors.New("default_strength must be a number"))
	}
	if !(c.MaxDist > 0) {
		errs = append(errs, fmt.Errorf("max_dist must be positive, got %v", c.MaxDist))
	}
	if !(c.MinDist >= 0) {
		errs = append(errs, fmt.Errorf("min_dist must not be negative, got %v", c.MinDist))
	}
	if !(c.SpringScale >= 0) {
		errs = append(errs, fmt.Errorf("spring_scale must not be negative, got %v", c.SpringScale))
	}
	if !(c.AlphaDecay >= 0 && c.AlphaDecay <= 1) {
		errs = append(errs, fmt.Errorf("alpha_decay must be within [0, 1], got %v", c.AlphaDecay))
	}
	if !(c.AlphaMin >= 0) {
		errs = append(errs, fmt.Errorf("alpha_min must not be negative, got %v", c.AlphaMin))
	}
	return errors.Join(errs...)
}

package config

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Range is an inclusive [Min, Max] interval that accepts either a YAML
// scalar (degenerate range, min == max) or a two-element sequence.
type Range struct {
	Min float64
	Max float64
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return errors.Wrap(err, "range scalar")
		}
		r.Min, r.Max = v, v
		return nil
	case yaml.SequenceNode:
		var vals []float64
		if err := node.Decode(&vals); err != nil {
			return errors.Wrap(err, "range sequence")
		}
		if len(vals) != 2 {
			return errors.Errorf("range needs exactly 2 elements, got %d", len(vals))
		}
		r.Min, r.Max = vals[0], vals[1]
		return nil
	default:
		return errors.New("range must be a scalar or a [min, max] pair")
	}
}

// Rand draws a uniform value from the inclusive interval. A degenerate
// range always yields Min.
func (r Range) Rand(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// IsZero reports whether the range was never configured.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

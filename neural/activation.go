// Package neural provides the fixed-topology feed-forward brains that drive creatures.
package neural

import (
	"fmt"
	"math"
)

// Activation selects the nonlinearity applied to a neuron's weighted sum.
type Activation uint8

const (
	Sigmoid Activation = iota
	Tanh
	ReLU
	Sine
	SinC // sin(x)/x, 1 at zero
)

var activationNames = [...]string{
	Sigmoid: "sigmoid",
	Tanh:    "tanh",
	ReLU:    "relu",
	Sine:    "sine",
	SinC:    "normalized-sine",
}

// Apply evaluates the activation at x.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case Sigmoid:
		return 1 / (1 + math.Exp(-x))
	case Tanh:
		return math.Tanh(x)
	case ReLU:
		return math.Max(0, x)
	case Sine:
		return math.Sin(x)
	case SinC:
		if x == 0 {
			return 1
		}
		return math.Sin(x) / x
	}
	return x
}

// String returns the activation's file-format name.
func (a Activation) String() string {
	if int(a) < len(activationNames) {
		return activationNames[a]
	}
	return fmt.Sprintf("activation(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	if int(a) >= len(activationNames) {
		return nil, fmt.Errorf("unknown activation %d", uint8(a))
	}
	return []byte(activationNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	act, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = act
	return nil
}

// ParseActivation looks up an activation by name.
func ParseActivation(name string) (Activation, error) {
	for i, n := range activationNames {
		if n == name {
			return Activation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown activation %q", ErrMalformedBrain, name)
}

package neural

import (
	"fmt"
	"math/rand"
)

// Creature network dimensions.
const (
	SenseWidth  = 7  // food below, ahead, ahead-left, ahead-right, size, heading, speed
	HiddenWidth = 10 // both hidden layers
	ActionWidth = 3  // turn left, turn right, accelerate
)

// Brain is an ordered stack of layers. A Brain is owned by exactly one
// creature; reproduction produces a new, independent Brain.
type Brain struct {
	layers []Layer
}

// NewBrain assembles a brain from layers whose widths chain.
func NewBrain(layers ...Layer) (*Brain, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: brain has no layers", ErrMalformedBrain)
	}
	for i := 1; i < len(layers); i++ {
		if layers[i-1].Outputs() != layers[i].Inputs() {
			return nil, fmt.Errorf("%w: layer %d outputs %d but layer %d takes %d",
				ErrMalformedBrain, i-1, layers[i-1].Outputs(), i, layers[i].Inputs())
		}
	}
	return &Brain{layers: layers}, nil
}

// NewDefault builds the creature topology 7 → 10 → 10 → 3 with random
// parameters in [-bound, bound].
func NewDefault(rng *rand.Rand, bound float64) *Brain {
	return &Brain{layers: []Layer{
		NewRandomDense(rng, SenseWidth, HiddenWidth, Sigmoid, bound),
		NewRandomDense(rng, HiddenWidth, HiddenWidth, SinC, bound),
		NewRandomDense(rng, HiddenWidth, ActionWidth, Tanh, bound),
	}}
}

// Forward runs sense through every layer. A width mismatch in any layer
// is returned unchanged so callers can match ErrDimensionMismatch.
func (b *Brain) Forward(sense []float64) ([]float64, error) {
	x := sense
	for i, l := range b.layers {
		out, err := l.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		x = out
	}
	return x, nil
}

// ForwardTrace is Forward that also returns every layer's output, input first.
func (b *Brain) ForwardTrace(sense []float64) ([][]float64, error) {
	trace := make([][]float64, 0, len(b.layers)+1)
	in := make([]float64, len(sense))
	copy(in, sense)
	trace = append(trace, in)

	x := in
	for i, l := range b.layers {
		out, err := l.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		trace = append(trace, out)
		x = out
	}
	return trace, nil
}

// SpawnMutatedCopy returns a brain with the same topology whose parameters
// are independently perturbed, layer by layer in order.
func (b *Brain) SpawnMutatedCopy(rng *rand.Rand, m Mutation) *Brain {
	layers := make([]Layer, len(b.layers))
	for i, l := range b.layers {
		layers[i] = l.MutateCopy(rng, m)
	}
	return &Brain{layers: layers}
}

// Clone returns an unmutated deep copy.
func (b *Brain) Clone() *Brain {
	layers := make([]Layer, len(b.layers))
	for i, l := range b.layers {
		layers[i] = l.Clone()
	}
	return &Brain{layers: layers}
}

// Layers returns the brain's layers. The slice must not be modified.
func (b *Brain) Layers() []Layer {
	return b.layers
}

// Inputs returns the width of the sense vector.
func (b *Brain) Inputs() int {
	return b.layers[0].Inputs()
}

// Outputs returns the width of the action vector.
func (b *Brain) Outputs() int {
	return b.layers[len(b.layers)-1].Outputs()
}

// SameTopology reports whether both brains have the same layer kinds, widths and activations.
func (b *Brain) SameTopology(o *Brain) bool {
	if len(b.layers) != len(o.layers) {
		return false
	}
	for i := range b.layers {
		x, y := b.layers[i], o.layers[i]
		if x.Kind() != y.Kind() || x.Inputs() != y.Inputs() || x.Outputs() != y.Outputs() {
			return false
		}
		dx, okx := x.(*Dense)
		dy, oky := y.(*Dense)
		if okx && oky && dx.activation != dy.activation {
			return false
		}
	}
	return true
}

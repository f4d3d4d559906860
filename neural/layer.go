package neural

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when a layer receives an input of the wrong width.
	ErrDimensionMismatch = errors.New("mismatched matrix multiplication")

	// ErrMalformedBrain is returned when a brain document cannot be decoded into a valid network.
	ErrMalformedBrain = errors.New("malformed brain")
)

// LayerKind tags the concrete layer type in brain files.
type LayerKind string

// KindDense is the fully connected layer.
const KindDense LayerKind = "dense"

// Layer is one stage of a Brain. Dense is the only kind today; Brain
// dispatches through this interface so new kinds do not change its contract.
type Layer interface {
	Kind() LayerKind
	Inputs() int
	Outputs() int
	Forward(input []float64) ([]float64, error)
	MutateCopy(rng *rand.Rand, m Mutation) Layer
	Clone() Layer
}

// Mutation controls how parameters are perturbed when a brain reproduces.
type Mutation struct {
	Range    float64 // Draw from [-Range, Range]
	Exponent float64 // Sign-preserving power applied to the draw
	Bound    float64 // Parameters clamp to [-Bound, Bound]
}

// DefaultMutation returns small cubed steps clamped to [-3, 3].
func DefaultMutation() Mutation {
	return Mutation{Range: 0.4, Exponent: 3, Bound: 3}
}

func (m Mutation) step(rng *rand.Rand) float64 {
	u := rng.Float64()*2*m.Range - m.Range
	return math.Copysign(math.Pow(math.Abs(u), m.Exponent), u)
}

func (m Mutation) perturb(rng *rand.Rand, v float64) float64 {
	return clamp(v+m.step(rng), -m.Bound, m.Bound)
}

// Dense is a fully connected layer: out = f(W·x).
// The bias is carried, mutated and serialized alongside the weights but is
// not added in Forward.
type Dense struct {
	weight     *mat.Dense    // out × in
	bias       *mat.VecDense // out
	activation Activation
}

// NewDense builds a layer from explicit parameters.
// weight must be a non-empty rectangular matrix with one row per bias entry.
func NewDense(weight [][]float64, bias []float64, act Activation) (*Dense, error) {
	rows := len(weight)
	if rows == 0 {
		return nil, fmt.Errorf("%w: dense layer has no rows", ErrMalformedBrain)
	}
	cols := len(weight[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: dense layer has no columns", ErrMalformedBrain)
	}
	if len(bias) != rows {
		return nil, fmt.Errorf("%w: dense layer has %d rows but %d biases", ErrMalformedBrain, rows, len(bias))
	}
	if int(act) >= len(activationNames) {
		return nil, fmt.Errorf("%w: unknown activation %d", ErrMalformedBrain, uint8(act))
	}

	data := make([]float64, 0, rows*cols)
	for v, row := range weight {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: dense row %d has %d columns, want %d", ErrMalformedBrain, v, len(row), cols)
		}
		data = append(data, row...)
	}

	b := make([]float64, rows)
	copy(b, bias)

	return &Dense{
		weight:     mat.NewDense(rows, cols, data),
		bias:       mat.NewVecDense(rows, b),
		activation: act,
	}, nil
}

// NewRandomDense initializes every weight and bias uniformly in [-bound, bound].
func NewRandomDense(rng *rand.Rand, in, out int, act Activation, bound float64) *Dense {
	if in < 1 || out < 1 {
		panic(fmt.Sprintf("neural: dense layer needs positive widths, got %d->%d", in, out))
	}

	w := make([]float64, out*in)
	for i := range w {
		w[i] = rng.Float64()*2*bound - bound
	}
	b := make([]float64, out)
	for i := range b {
		b[i] = rng.Float64()*2*bound - bound
	}

	return &Dense{
		weight:     mat.NewDense(out, in, w),
		bias:       mat.NewVecDense(out, b),
		activation: act,
	}
}

func (d *Dense) Kind() LayerKind { return KindDense }

// Inputs returns the width of the vector Forward accepts.
func (d *Dense) Inputs() int {
	_, c := d.weight.Dims()
	return c
}

// Outputs returns the width of the vector Forward produces.
func (d *Dense) Outputs() int {
	r, _ := d.weight.Dims()
	return r
}

// Activation returns the layer's nonlinearity.
func (d *Dense) Activation() Activation { return d.activation }

// Forward computes f(Σ_u W[v][u]·x[u]) for every output v.
func (d *Dense) Forward(input []float64) ([]float64, error) {
	rows, cols := d.weight.Dims()
	if len(input) != cols {
		return nil, fmt.Errorf("%w: layer expects %d inputs, got %d", ErrDimensionMismatch, cols, len(input))
	}

	var sum mat.VecDense
	sum.MulVec(d.weight, mat.NewVecDense(cols, input))

	out := make([]float64, rows)
	for v := range out {
		out[v] = d.activation.Apply(sum.AtVec(v))
	}
	return out, nil
}

// MutateCopy returns an independent copy with every weight and bias perturbed.
// Parameters are visited row by row, weights before biases.
func (d *Dense) MutateCopy(rng *rand.Rand, m Mutation) Layer {
	c := d.clone()
	raw := c.weight.RawMatrix()
	rows, cols := c.weight.Dims()
	for v := 0; v < rows; v++ {
		row := raw.Data[v*raw.Stride : v*raw.Stride+cols]
		for u := range row {
			row[u] = m.perturb(rng, row[u])
		}
	}
	for v := 0; v < rows; v++ {
		c.bias.SetVec(v, m.perturb(rng, c.bias.AtVec(v)))
	}
	return c
}

// Clone returns a deep copy.
func (d *Dense) Clone() Layer {
	return d.clone()
}

func (d *Dense) clone() *Dense {
	return &Dense{
		weight:     mat.DenseCopyOf(d.weight),
		bias:       mat.VecDenseCopyOf(d.bias),
		activation: d.activation,
	}
}

// Weight returns a copy of the weight matrix as rows.
func (d *Dense) Weight() [][]float64 {
	rows, cols := d.weight.Dims()
	out := make([][]float64, rows)
	for v := range out {
		out[v] = make([]float64, cols)
		mat.Row(out[v], v, d.weight)
	}
	return out
}

// Bias returns a copy of the bias vector.
func (d *Dense) Bias() []float64 {
	out := make([]float64, d.bias.Len())
	for v := range out {
		out[v] = d.bias.AtVec(v)
	}
	return out
}

// WeightAt returns W[v][u].
func (d *Dense) WeightAt(v, u int) float64 {
	return d.weight.At(v, u)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

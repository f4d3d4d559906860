package neural

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the text encoding of a brain file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// brainDoc is the on-disk shape of a Brain.
type brainDoc struct {
	Layers []layerDoc `json:"layers" yaml:"layers"`
}

type layerDoc struct {
	Kind       LayerKind   `json:"kind" yaml:"kind"`
	Activation Activation  `json:"activation" yaml:"activation"`
	Weight     [][]float64 `json:"weight" yaml:"weight"`
	Bias       []float64   `json:"bias" yaml:"bias"`
}

func (b *Brain) doc() brainDoc {
	d := brainDoc{Layers: make([]layerDoc, 0, len(b.layers))}
	for _, l := range b.layers {
		switch l := l.(type) {
		case *Dense:
			d.Layers = append(d.Layers, layerDoc{
				Kind:       KindDense,
				Activation: l.activation,
				Weight:     l.Weight(),
				Bias:       l.Bias(),
			})
		}
	}
	return d
}

func fromDoc(d brainDoc) (*Brain, error) {
	layers := make([]Layer, 0, len(d.Layers))
	for i, ld := range d.Layers {
		switch ld.Kind {
		case KindDense, "":
			l, err := NewDense(ld.Weight, ld.Bias, ld.Activation)
			if err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
			layers = append(layers, l)
		default:
			return nil, fmt.Errorf("%w: layer %d has unknown kind %q", ErrMalformedBrain, i, ld.Kind)
		}
	}

	b, err := NewBrain(layers...)
	if err != nil {
		return nil, err
	}
	if b.Inputs() != SenseWidth || b.Outputs() != ActionWidth {
		return nil, fmt.Errorf("%w: brain maps %d inputs to %d outputs, want %d to %d",
			ErrMalformedBrain, b.Inputs(), b.Outputs(), SenseWidth, ActionWidth)
	}
	return b, nil
}

// MarshalJSON implements json.Marshaler.
func (b *Brain) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.doc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Brain) UnmarshalJSON(data []byte) error {
	var d brainDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBrain, err)
	}
	decoded, err := fromDoc(d)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}

// Encode writes the brain in the given format.
func Encode(w io.Writer, b *Brain, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b.doc()); err != nil {
			return fmt.Errorf("encoding brain: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b.doc()); err != nil {
			return fmt.Errorf("encoding brain: %w", err)
		}
		return nil
	}
}

// Decode reads a brain in the given format. Malformed content yields an
// error matching ErrMalformedBrain.
func Decode(r io.Reader, format Format) (*Brain, error) {
	var d brainDoc
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBrain, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBrain, err)
		}
	}
	return fromDoc(d)
}

// SaveFile writes the brain to path, choosing the format from the extension.
func SaveFile(path string, b *Brain) error {
	var buf bytes.Buffer
	if err := Encode(&buf, b, FormatForPath(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing brain file: %w", err)
	}
	return nil
}

// LoadFile reads a brain from path, choosing the format from the extension.
func LoadFile(path string) (*Brain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening brain file: %w", err)
	}
	defer f.Close()

	b, err := Decode(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return b, nil
}

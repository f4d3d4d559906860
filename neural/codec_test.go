package neural

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"brain.json", "brain.yaml"} {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			b := NewDefault(rng, 3)
			path := filepath.Join(t.TempDir(), name)

			if err := SaveFile(path, b); err != nil {
				t.Fatalf("SaveFile: %v", err)
			}
			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}

			if !loaded.SameTopology(b) {
				t.Fatal("topology changed in round trip")
			}

			want, _ := b.Forward(testSense())
			got, err := loaded.Forward(testSense())
			if err != nil {
				t.Fatal(err)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("output %d: got %v, want %v", i, got[i], want[i])
				}
			}

			for i, l := range loaded.Layers() {
				gb := l.(*Dense).Bias()
				wb := b.Layers()[i].(*Dense).Bias()
				for v := range wb {
					if gb[v] != wb[v] {
						t.Errorf("layer %d bias %d: got %v, want %v", i, v, gb[v], wb[v])
					}
				}
			}
		})
	}
}

func TestEncodeJSONShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewDefault(rng, 3)

	var buf bytes.Buffer
	if err := Encode(&buf, b, FormatJSON); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Layers []struct {
			Kind       string      `json:"kind"`
			Activation string      `json:"activation"`
			Weight     [][]float64 `json:"weight"`
			Bias       []float64   `json:"bias"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}

	wantActs := []string{"sigmoid", "normalized-sine", "tanh"}
	for i, l := range doc.Layers {
		if l.Kind != "dense" {
			t.Errorf("layer %d kind = %q", i, l.Kind)
		}
		if l.Activation != wantActs[i] {
			t.Errorf("layer %d activation = %q, want %q", i, l.Activation, wantActs[i])
		}
		if len(l.Weight) != len(l.Bias) {
			t.Errorf("layer %d: %d rows, %d biases", i, len(l.Weight), len(l.Bias))
		}
	}
}

func TestBrainJSONMarshaler(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := NewDefault(rng, 3)

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	var back Brain
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.SameTopology(b) {
		t.Error("topology changed")
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"layers": [`},
		{"no layers", `{"layers": []}`},
		{"unknown kind", `{"layers":[{"kind":"conv","activation":"tanh","weight":[[1]],"bias":[0]}]}`},
		{"unknown activation", `{"layers":[{"kind":"dense","activation":"swish","weight":[[1]],"bias":[0]}]}`},
		{"wrong widths", `{"layers":[{"kind":"dense","activation":"tanh","weight":[[1,2]],"bias":[0]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), FormatJSON)
			if !errors.Is(err, ErrMalformedBrain) {
				t.Errorf("got %v, want ErrMalformedBrain", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want wrapped os.ErrNotExist", err)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":  FormatJSON,
		"a.yaml":  FormatYAML,
		"a.YML":   FormatYAML,
		"brain":   FormatJSON,
		"x/y.txt": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

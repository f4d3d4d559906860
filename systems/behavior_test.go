package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/neural"
)

func TestApplyAction(t *testing.T) {
	tr := newTestTerrain(t, 42)
	cfg := config.Default().Creature

	tests := []struct {
		name        string
		out         []float64
		wantHeading float64
		wantSpeed   float64
	}{
		{"left and fast", []float64{0.9, 0.9, 0.9}, 1.2, 0.2},
		{"right and idle", []float64{0.1, 0.6, 0.5}, 0.8, 0.001},
		{"straight", []float64{-1, 0.5, 0.51}, 1.0, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := components.Position{X: 50, Y: 50}
			mot := components.Motion{Heading: 1.0, Speed: 0.7}

			ApplyAction(tr, &pos, &mot, tt.out, cfg)

			if math.Abs(mot.Heading-tt.wantHeading) > 1e-12 {
				t.Errorf("heading = %v, want %v", mot.Heading, tt.wantHeading)
			}
			if mot.Speed != tt.wantSpeed {
				t.Errorf("speed = %v, want %v", mot.Speed, tt.wantSpeed)
			}
			wantX := 50 + tt.wantSpeed*math.Cos(tt.wantHeading)
			wantY := 50 + tt.wantSpeed*math.Sin(tt.wantHeading)
			if math.Abs(pos.X-wantX) > 1e-9 || math.Abs(pos.Y-wantY) > 1e-9 {
				t.Errorf("pos = (%v,%v), want (%v,%v)", pos.X, pos.Y, wantX, wantY)
			}
		})
	}
}

func TestApplyActionWraps(t *testing.T) {
	tr := newTestTerrain(t, 42)
	cfg := config.Default().Creature

	pos := components.Position{X: 199.95, Y: 10}
	mot := components.Motion{}
	ApplyAction(tr, &pos, &mot, []float64{0, 0, 1}, cfg)

	if pos.X != 0 {
		t.Errorf("x = %v, want wrap to 0", pos.X)
	}
}

func TestActDimensionMismatchLeavesCreature(t *testing.T) {
	tr := newTestTerrain(t, 42)
	cfg := config.Default().Creature
	rng := rand.New(rand.NewSource(42))

	// A brain that expects 5 inputs cannot read the 7-wide sense vector
	bad, err := neural.NewBrain(neural.NewRandomDense(rng, 5, 3, neural.Tanh, 3))
	if err != nil {
		t.Fatal(err)
	}

	pos := components.Position{X: 20, Y: 20}
	mot := components.Motion{Heading: 0.5, Speed: 0.2}
	err = Act(tr, &pos, &mot, components.Body{Size: 1}, bad, cfg)

	if !errors.Is(err, neural.ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
	if pos.X != 20 || pos.Y != 20 || mot.Heading != 0.5 || mot.Speed != 0.2 {
		t.Error("creature changed despite brain failure")
	}
}

func TestActMovesCreature(t *testing.T) {
	tr := newTestTerrain(t, 42)
	cfg := config.Default().Creature
	brain := neural.NewDefault(rand.New(rand.NewSource(42)), 3)

	pos := components.Position{X: 20, Y: 20}
	mot := components.Motion{Speed: 0.05}
	if err := Act(tr, &pos, &mot, components.Body{Size: 1}, brain, cfg); err != nil {
		t.Fatal(err)
	}
	if mot.Speed != cfg.FastSpeed && mot.Speed != cfg.IdleSpeed {
		t.Errorf("speed %v is neither fast nor idle", mot.Speed)
	}
	if pos.X < 0 || pos.X >= 200 || pos.Y < 0 || pos.Y >= 100 {
		t.Errorf("pos (%v,%v) left the terrain", pos.X, pos.Y)
	}
}

package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

func TestMetabolizeWithoutFood(t *testing.T) {
	tr := newTestTerrain(t, 42)
	cfg := config.Default().Creature
	tr.SetTile(4, 4, Tile{Type: 0, Food: 0})

	body := components.Body{Size: 1}
	var org components.Organism
	eaten := Metabolize(tr, components.Position{X: 4.5, Y: 4.5}, &body, &org, cfg)

	if eaten != 0 || org.Eaten != 0 {
		t.Errorf("ate %v from an empty tile", eaten)
	}
	// 1 - 1*0.005 - 0.005
	if math.Abs(body.Size-0.99) > 1e-12 {
		t.Errorf("size = %v, want 0.99", body.Size)
	}
}

func TestMetabolizeWithFood(t *testing.T) {
	tr := newTestTerrain(t, 42)
	cfg := config.Default().Creature
	tr.SetTile(4, 4, Tile{Type: 3, Food: 100})

	body := components.Body{Size: 1}
	org := components.Organism{Eaten: 2}
	eaten := Metabolize(tr, components.Position{X: 4.5, Y: 4.5}, &body, &org, cfg)

	// sqrt(100) * 0.1 * [0.8, 1.2)
	if eaten < 0.8 || eaten >= 1.2 {
		t.Fatalf("bite %v outside [0.8,1.2)", eaten)
	}
	if org.Eaten != 2+eaten {
		t.Errorf("lifetime eaten = %v, want %v", org.Eaten, 2+eaten)
	}
	after := 0.995
	want := after + (1/after)*(1/after)*eaten*0.01 - 0.005
	if math.Abs(body.Size-want) > 1e-12 {
		t.Errorf("size = %v, want %v", body.Size, want)
	}
}

func TestSmallCreaturesGrowFaster(t *testing.T) {
	cfg := config.Default().Creature

	grow := func(size float64) float64 {
		tr := newTestTerrain(t, 1)
		tr.SetTile(0, 0, Tile{Type: 5, Food: 100})
		body := components.Body{Size: size}
		var org components.Organism
		Metabolize(tr, components.Position{}, &body, &org, cfg)
		return body.Size - size
	}

	if small, large := grow(0.5), grow(1.5); small <= large {
		t.Errorf("growth at 0.5 (%v) should exceed growth at 1.5 (%v)", small, large)
	}
}

func TestStarving(t *testing.T) {
	cfg := config.Default().Creature

	tests := []struct {
		size float64
		want bool
	}{
		{0.3, false},
		{0.25, false},
		{0.2499, true},
		{-1, true},
		{math.NaN(), true},
	}
	for _, tt := range tests {
		if got := Starving(components.Body{Size: tt.size}, cfg); got != tt.want {
			t.Errorf("Starving(%v) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

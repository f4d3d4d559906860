package systems

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/critters/config"
)

// Tile is a copy of one grid cell.
type Tile struct {
	Type uint8   // fertility class, growth scales with Type^exponent
	Food float64 // [0, MaxFood]
}

// Terrain is a toroidal grid of food tiles stored row-major in flat buffers.
type Terrain struct {
	W, H int

	types []uint8
	food  []float64

	season     float64
	seasonBand int

	cfg config.TerrainConfig
	rng *rand.Rand
}

// NewTerrain generates tile types by neighbour smoothing and fills every
// tile with uniform random food. rng is kept for regrowth and feeding.
func NewTerrain(w, h int, cfg config.TerrainConfig, rng *rand.Rand) *Terrain {
	if w < 1 || h < 1 {
		panic(fmt.Sprintf("systems: terrain needs positive size, got %dx%d", w, h))
	}

	t := &Terrain{
		W:     w,
		H:     h,
		types: make([]uint8, w*h),
		food:  make([]float64, w*h),
		cfg:   cfg,
		rng:   rng,
	}

	// Column-major walk so the left neighbour is always settled before the tile.
	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			var left, top int
			if col > 0 {
				left = int(t.types[t.index(col-1, row)])
			} else {
				left = rng.Intn(cfg.EdgeTypes)
			}
			if row > 0 {
				top = int(t.types[t.index(col, row-1)])
			} else {
				top = rng.Intn(cfg.EdgeTypes)
			}

			typ := (left + top) / 2
			switch r := rng.Float64(); {
			case r <= cfg.NudgeChance:
				typ--
			case r >= 1-cfg.NudgeChance:
				typ++
			}
			typ = clampInt(typ, cfg.MinType, cfg.MaxType)

			i := t.index(col, row)
			t.types[i] = uint8(typ)
			t.food[i] = rng.Float64() * cfg.MaxFood
		}
	}

	return t
}

// RestoreTerrain rebuilds a terrain from saved row-major buffers. Types are
// clamped to the configured bounds, food to [0, MaxFood] and the season
// band to a valid row.
func RestoreTerrain(w, h int, types []int, food []float64, seasonBand int, time int64, cfg config.TerrainConfig, rng *rand.Rand) (*Terrain, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("terrain needs positive size, got %dx%d", w, h)
	}
	if len(types) != w*h || len(food) != w*h {
		return nil, fmt.Errorf("terrain %dx%d needs %d tiles, got %d types and %d food", w, h, w*h, len(types), len(food))
	}

	t := &Terrain{
		W:     w,
		H:     h,
		types: make([]uint8, w*h),
		food:  make([]float64, w*h),
		cfg:   cfg,
		rng:   rng,
	}
	for i := range types {
		t.types[i] = uint8(clampInt(types[i], cfg.MinType, cfg.MaxType))
		t.food[i] = clampFloat(food[i], 0, cfg.MaxFood)
	}
	t.setSeason(time)
	t.seasonBand = clampInt(seasonBand, 0, h-1)
	return t, nil
}

func (t *Terrain) index(col, row int) int {
	return row*t.W + col
}

func (t *Terrain) inBounds(col, row int) bool {
	return col >= 0 && col < t.W && row >= 0 && row < t.H
}

// Tile returns the tile at (col, row).
func (t *Terrain) Tile(col, row int) (Tile, bool) {
	if !t.inBounds(col, row) {
		return Tile{}, false
	}
	i := t.index(col, row)
	return Tile{Type: t.types[i], Food: t.food[i]}, true
}

// SetTile overwrites a tile, clamping food into range.
func (t *Terrain) SetTile(col, row int, tile Tile) error {
	if !t.inBounds(col, row) {
		return fmt.Errorf("tile (%d,%d) outside %dx%d terrain", col, row, t.W, t.H)
	}
	i := t.index(col, row)
	t.types[i] = tile.Type
	t.food[i] = clampFloat(tile.Food, 0, t.cfg.MaxFood)
	return nil
}

// tileAt maps a wrapped world position onto a tile index.
func (t *Terrain) tileAt(x, y float64) int {
	col := clampInt(int(x), 0, t.W-1)
	row := clampInt(int(y), 0, t.H-1)
	return t.index(col, row)
}

// FoodAt returns the food on the tile containing (x, y).
func (t *Terrain) FoodAt(x, y float64) float64 {
	return t.food[t.tileAt(x, y)]
}

// WrapPosition folds a point back onto the torus. Coordinates below zero
// land just inside the far edge, coordinates at or beyond the size land on zero.
func (t *Terrain) WrapPosition(x, y float64) (float64, float64) {
	return wrapAxis(x, float64(t.W), t.cfg.WrapEpsilon), wrapAxis(y, float64(t.H), t.cfg.WrapEpsilon)
}

func wrapAxis(v, size, eps float64) float64 {
	if v < 0 {
		return size - eps
	}
	if v >= size {
		return 0
	}
	return v
}

// Season returns the current seasonal signal in [-1, 1].
func (t *Terrain) Season() float64 {
	return t.season
}

// SeasonBand returns the row most recently at peak growth.
func (t *Terrain) SeasonBand() int {
	return t.seasonBand
}

// GrowthBand returns the non-negative growth strength of row for season.
func GrowthBand(row, height int, season float64) float64 {
	phase := math.Mod(float64(row)/float64(height)+season, 1)
	return math.Max(0, math.Sin(2*math.Pi*phase+math.Pi/2))
}

func (t *Terrain) setSeason(time int64) {
	year := int64(t.cfg.YearLength)
	t.season = math.Sin(2 * math.Pi * float64(time%year) / float64(year))
}

// Timeslice advances the season and, every growth interval, regrows food
// along the travelling band.
func (t *Terrain) Timeslice(time int64) {
	t.setSeason(time)

	if time%int64(t.cfg.GrowthInterval) != 0 {
		return
	}

	for row := 0; row < t.H; row++ {
		band := GrowthBand(row, t.H, t.season)
		for col := 0; col < t.W; col++ {
			i := t.index(col, row)
			grow := t.rng.Float64() * t.cfg.GrowthCap * band * math.Pow(float64(t.types[i]), t.cfg.GrowthExponent)
			t.food[i] = clampFloat(t.food[i]+grow, 0, t.cfg.MaxFood)
		}
		if band >= t.cfg.BandPeak {
			t.seasonBand = row
		}
	}
}

// Feed removes and returns a bite from the tile containing (x, y). The bite
// shrinks with the square root of what is left.
func (t *Terrain) Feed(x, y float64) float64 {
	i := t.tileAt(x, y)
	jitter := t.cfg.FeedJitterMin + t.rng.Float64()*(t.cfg.FeedJitterMax-t.cfg.FeedJitterMin)
	bite := math.Min(t.food[i], math.Sqrt(t.food[i])*t.cfg.FeedFactor*jitter)
	t.food[i] -= bite
	return bite
}

// TotalFood sums food over every tile.
func (t *Terrain) TotalFood() float64 {
	return floats.Sum(t.food)
}

// FoodView returns the food buffer, row-major. Callers must not modify it.
func (t *Terrain) FoodView() []float64 {
	return t.food
}

// TypeView returns the type buffer, row-major. Callers must not modify it.
func (t *Terrain) TypeView() []uint8 {
	return t.types
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

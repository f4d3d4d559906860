package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int64
	windowStartTick int64

	// Event counters for current window
	births     int
	deaths     int
	mismatches int
	foraged    float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int, startTick int64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:     int64(windowTicks),
		windowStartTick: startTick,
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a creature removed by the cull.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// RecordMismatch records a creature that skipped its tick on a brain error.
func (c *Collector) RecordMismatch() {
	c.mismatches++
}

// RecordForage records food eaten.
func (c *Collector) RecordForage(amount float64) {
	c.foraged += amount
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// PopulationSample is the state sampled at window end.
type PopulationSample struct {
	Sizes         []float64
	Ages          []float64
	TotalBirths   int
	MaxGeneration int
	TotalFood     float64
	Season        float64
	SeasonBand    int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, sample PopulationSample) WindowStats {
	sizes := ComputeDistribution(sample.Sizes)
	ages := ComputeDistribution(sample.Ages)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population:  len(sample.Sizes),
		TotalBirths: sample.TotalBirths,

		Births:     c.births,
		Deaths:     c.deaths,
		Mismatches: c.mismatches,
		Foraged:    c.foraged,

		SizeMean: sizes.Mean,
		SizeStd:  sizes.Std,
		SizeP10:  sizes.P10,
		SizeP50:  sizes.P50,
		SizeP90:  sizes.P90,

		AgeMean: ages.Mean,
		AgeP90:  ages.P90,
		AgeMax:  int64(ages.Max),

		MaxGeneration: sample.MaxGeneration,

		TotalFood:  sample.TotalFood,
		Season:     sample.Season,
		SeasonBand: sample.SeasonBand,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.mismatches = 0
	c.foraged = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}

// Package telemetry provides population tracking, run output, bookmarks and snapshots.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Population at window end
	Population  int `csv:"population"`
	TotalBirths int `csv:"total_births"`

	// Events during window
	Births     int     `csv:"births"`
	Deaths     int     `csv:"deaths"`
	Mismatches int     `csv:"mismatches"` // creatures that skipped a tick on a brain error
	Foraged    float64 `csv:"foraged"`    // food eaten by all creatures

	// Size distribution (sampled at window end)
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
	SizeP10  float64 `csv:"size_p10"`
	SizeP50  float64 `csv:"size_p50"`
	SizeP90  float64 `csv:"size_p90"`

	// Age distribution in ticks
	AgeMean float64 `csv:"age_mean"`
	AgeP90  float64 `csv:"age_p90"`
	AgeMax  int64   `csv:"age_max"`

	MaxGeneration int `csv:"max_generation"`

	// Terrain
	TotalFood  float64 `csv:"total_food"`
	Season     float64 `csv:"season"`
	SeasonBand int     `csv:"season_band"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeDistribution returns mean, standard deviation and percentiles of values.
// An empty sample yields the zero Distribution.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n == 1 {
		std = 0
	}

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
		Max:  sorted[n-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("total_births", s.TotalBirths),
		slog.Int("mismatches", s.Mismatches),
		slog.Float64("foraged", s.Foraged),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_p50", s.SizeP50),
		slog.Float64("age_mean", s.AgeMean),
		slog.Int64("age_max", s.AgeMax),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Float64("total_food", s.TotalFood),
		slog.Float64("season", s.Season),
	)
}

// LogStats logs the window using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

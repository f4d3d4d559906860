package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A population below minViablePop for graceWindows consecutive windows
// counts as functionally extinct.
const (
	minViablePop = 3
	graceWindows = 3
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int64 // ticks before functional extinction, or maxTicks
	windowStats   []telemetry.WindowStats
	hallOfFame    *telemetry.HallOfFame
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	quality    float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(i int, seed int64) {
			defer wg.Done()
			r := fe.runSimulation(cfg, seed)
			results[i] = seedResult{
				fitness:    fe.computeFitness(r),
				quality:    computeQuality(r.windowStats, cfg.Population.Initial),
				hallOfFame: r.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var total, totalQuality float64
	bestIdx := 0
	for i, r := range results {
		total += r.fitness
		totalQuality += r.quality
		if r.fitness < results[bestIdx].fitness {
			bestIdx = i
		}
	}
	n := float64(len(results))
	avg := total / n

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	if avg < fe.bestFitness {
		fe.bestFitness = avg
		fe.bestHallOfFame = results[bestIdx].hallOfFame
	}
	fe.mu.Unlock()

	return avg
}

// runSimulation runs one headless world until it dies out or reaches maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	r := &runResult{survivalTicks: fe.maxTicks}
	lowWindows := 0
	collapsed := false

	w, err := game.New(cfg, game.Options{
		Seed:    seed,
		Seeding: game.SeedRandom(cfg.Population.Initial),
		OnStats: func(s telemetry.WindowStats) {
			r.windowStats = append(r.windowStats, s)
			if collapsed {
				return
			}
			if s.Population < minViablePop {
				lowWindows++
			} else {
				lowWindows = 0
			}
			if lowWindows >= graceWindows {
				collapsed = true
				r.survivalTicks = s.WindowEndTick
			}
		},
	})
	if err != nil {
		slog.Error("failed to build world", "seed", seed, "error", err)
		r.survivalTicks = 0
		return r
	}
	defer w.Close()

	for w.Tick() < fe.maxTicks && !collapsed {
		w.Timeslice()
		w.DrainOutput()
		if !w.Running() {
			r.survivalTicks = w.Tick()
			break
		}
	}
	r.hallOfFame = w.HallOfFame()
	return r
}

// copyConfig returns a copy of the base config. Config holds no pointers
// or slices, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}

// computeFitness returns negative survival scaled by run quality.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	q := computeQuality(r.windowStats, fe.baseConfig.Population.Initial)
	return -float64(r.survivalTicks) * (1 + 0.2*q)
}

// computeQuality scores a run in [0,1]: half for a large population and
// half for a steady one. The first quarter of windows is warmup.
func computeQuality(windows []telemetry.WindowStats, initial int) float64 {
	if len(windows) < 4 || initial <= 0 {
		return 0
	}
	pops := make([]float64, 0, len(windows))
	for _, s := range windows[len(windows)/4:] {
		pops = append(pops, float64(s.Population))
	}
	mean := stat.Mean(pops, nil)
	if mean == 0 {
		return 0
	}
	size := 1 - math.Exp(-mean/float64(initial))
	stability := math.Exp(-cv(pops) * cv(pops))
	return clamp01(0.5*size + 0.5*stability)
}

// cv returns the coefficient of variation.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

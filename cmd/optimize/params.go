package main

import (
	"github.com/pthm-cable/critters/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	field func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters:
// food supply, metabolism and reproduction rate.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "growth_cap", Path: "terrain.growth_cap", Min: 0.05, Max: 0.5, Default: 0.20,
				field: func(c *config.Config) *float64 { return &c.Terrain.GrowthCap }},
			{Name: "feed_factor", Path: "terrain.feed_factor", Min: 0.03, Max: 0.3, Default: 0.1,
				field: func(c *config.Config) *float64 { return &c.Terrain.FeedFactor }},
			{Name: "upkeep", Path: "creature.upkeep", Min: 0.001, Max: 0.02, Default: 0.005,
				field: func(c *config.Config) *float64 { return &c.Creature.Upkeep }},
			{Name: "growth_efficiency", Path: "creature.growth_efficiency", Min: 0.002, Max: 0.05, Default: 0.01,
				field: func(c *config.Config) *float64 { return &c.Creature.GrowthEfficiency }},
			{Name: "repro_chance", Path: "reproduction.chance", Min: 0.0002, Max: 0.005, Default: 0.001,
				field: func(c *config.Config) *float64 { return &c.Reproduction.Chance }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
}

// ExtractFromConfig reads current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.field(cfg)
	}
	return v
}

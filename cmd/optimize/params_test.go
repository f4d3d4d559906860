package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/telemetry"
)

func TestParamVectorRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-12 {
			t.Errorf("%s: config %v, default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 1e6
	}
	pv.ApplyToConfig(cfg, values)

	for i, v := range pv.ExtractFromConfig(cfg) {
		if v != pv.Specs[i].Max {
			t.Errorf("%s = %v, want max %v", pv.Specs[i].Path, v, pv.Specs[i].Max)
		}
	}
}

func TestCopyConfigIsIndependent(t *testing.T) {
	base := config.Default()
	fe := NewFitnessEvaluator(NewParamVector(), 10, []int64{1}, base)

	c := fe.copyConfig()
	c.Terrain.GrowthCap = 0.49
	if base.Terrain.GrowthCap == 0.49 {
		t.Error("copy aliases base config")
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 8)
	for i := range steady {
		steady[i].Population = 100
	}
	swinging := make([]telemetry.WindowStats, 8)
	for i := range swinging {
		swinging[i].Population = 20 + 160*(i%2)
	}

	qs := computeQuality(steady, 100)
	qw := computeQuality(swinging, 100)
	if qs <= qw {
		t.Errorf("steady quality %v <= swinging %v", qs, qw)
	}
	if qs < 0 || qs > 1 {
		t.Errorf("quality %v outside [0,1]", qs)
	}
	if q := computeQuality(steady[:2], 100); q != 0 {
		t.Errorf("short run quality = %v, want 0", q)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 20
	cfg.Population.ReportEvery = 0
	fe := NewFitnessEvaluator(NewParamVector(), 50, []int64{1, 2}, cfg)

	f := fe.Evaluate(fe.params.DefaultVector())
	if f >= 0 {
		t.Errorf("fitness = %v, want negative survival", f)
	}
	if f < -50*1.2 {
		t.Errorf("fitness = %v exceeds tick cap", f)
	}
}

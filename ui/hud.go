package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/telemetry"
)

// HUDData holds what the side column shows.
type HUDData struct {
	Population  int
	TotalBirths int
	TotalFood   float64
	Season      float64
	OldestAge   int64
	Tick        int64
	State       game.State
	Perf        telemetry.PerfStats
	FPS         int32
	Status      string // last command result
}

// HUDDataFor collects the HUD values from a world.
func HUDDataFor(w *game.World) HUDData {
	return HUDData{
		Population:  w.Population(),
		TotalBirths: w.TotalBirths(),
		TotalFood:   w.TotalFood(),
		Season:      w.Season(),
		OldestAge:   w.OldestAge(),
		Tick:        w.Tick(),
		State:       w.State(),
		Perf:        w.PerfStats(),
		FPS:         rl.GetFPS(),
	}
}

// HUD renders the world summary in the side column.
type HUD struct {
	renderer *Renderer
	x, y     int32
}

// NewHUD creates a HUD whose first line starts at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition moves the HUD.
func (h *HUD) SetPosition(x, y int32) {
	h.x, h.y = x, y
}

// Draw renders the HUD and returns the y below it.
func (h *HUD) Draw(d HUDData) int32 {
	r := h.renderer
	y := h.y

	y = r.DrawLabelValue(h.x, y, "Pop", humanize.Comma(int64(d.Population)))
	y = r.DrawLabelValue(h.x, y, "Total", humanize.Comma(int64(d.TotalBirths)))
	y = r.DrawLabelValue(h.x, y, "Food", humanize.Comma(int64(d.TotalFood+0.5)))
	y = r.DrawLabelValue(h.x, y, "Season", fmt.Sprintf("%.4f", d.Season))
	y = r.DrawLabelValue(h.x, y, "Oldest", fmt.Sprintf("%s / %s", humanize.Comma(d.OldestAge), humanize.Comma(d.Tick)))

	y += r.Theme.Padding
	switch d.State {
	case game.StatePaused:
		rl.DrawText("PAUSED", h.x, y, r.Theme.FontSize, r.Theme.StatusColor)
		y += r.Theme.LineHeight
	case game.StateExtinct:
		rl.DrawText("EXTINCT  [R] reseed", h.x, y, r.Theme.FontSize, rl.Red)
		y += r.Theme.LineHeight
	}

	rl.DrawText(fmt.Sprintf("%d FPS  %.0f ticks/s  %v/tick", d.FPS, d.Perf.TicksPerSecond, d.Perf.AvgTickDuration),
		h.x, y, 12, rl.Gray)
	y += 18

	if d.Status != "" {
		rl.DrawText(d.Status, h.x, y, 12, r.Theme.LabelColor)
		y += 18
	}
	return y
}

// DrawControls renders the key legend along the bottom of the screen.
func (h *HUD) DrawControls(x, screenHeight int32) {
	const legend = "Arrows pan  +/- zoom  O origin  Space pause  R reseed  D dump brain  Click select"
	rl.DrawText(legend, x, screenHeight-16, 12, rl.Gray)
}

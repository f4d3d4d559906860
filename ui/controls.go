package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a command requested through the controls panel or the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionReseed
	ActionDumpBrain
	ActionSaveSnapshot
	ActionClearSelection
)

// ControlsPanel renders raygui buttons and the speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	maxSpeed int
}

// NewControlsPanel creates a panel at (x, y). maxSpeed bounds ticks per frame.
func NewControlsPanel(x, y, width int32, maxSpeed int) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		maxSpeed: max(maxSpeed, 1),
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// Draw renders the panel. It returns the clicked action, if any, and the
// possibly changed ticks per frame.
func (c *ControlsPanel) Draw(paused, hasSelection bool, speed int) (Action, int) {
	r := c.renderer
	padding := r.Theme.Padding
	const buttonH = 24
	const rows = 4
	panelH := int32(rows*(buttonH+6)+34) + padding*2

	r.DrawPanel(c.x, c.y, c.width, panelH)
	y := r.DrawSectionHeader(c.x+padding, c.y+padding, "Controls")

	bx := float32(c.x + padding)
	bw := float32(c.width-3*padding) / 2
	button := func(col int, label string) bool {
		rect := rl.Rectangle{X: bx + float32(col)*(bw+float32(padding)), Y: float32(y), Width: bw, Height: buttonH}
		return gui.Button(rect, label)
	}

	action := ActionNone
	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Resume"
	}
	if button(0, pauseLabel) {
		action = ActionTogglePause
	}
	if button(1, "Reseed") {
		action = ActionReseed
	}
	y += buttonH + 6

	if button(0, "Save brain") {
		action = ActionDumpBrain
	}
	if button(1, "Snapshot") {
		action = ActionSaveSnapshot
	}
	y += buttonH + 6

	if hasSelection && button(0, "Deselect") {
		action = ActionClearSelection
	}
	y += buttonH + 6

	rl.DrawText("Speed", c.x+padding, y+4, 12, r.Theme.LabelColor)
	slider := rl.Rectangle{X: bx + 50, Y: float32(y), Width: float32(c.width-2*padding) - 100, Height: 20}
	v := gui.SliderBar(slider, "", "", float32(speed), 1, float32(c.maxSpeed))
	speed = min(max(int(v+0.5), 1), c.maxSpeed)
	rl.DrawText(fmt.Sprintf("%dx", speed), int32(slider.X+slider.Width)+6, y+4, 12, r.Theme.ValueColor)

	return action, speed
}

// Height returns the panel height.
func (c *ControlsPanel) Height() int32 {
	return int32(4*(24+6)+34) + 2*c.renderer.Theme.Padding
}

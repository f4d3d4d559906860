package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/game"
)

// Panel dimensions
const (
	PanelWidth    = 320
	PanelPadding  = 10
	HeaderHeight  = 30
	NetworkHeight = 220
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

var senseOptions = map[string]string{
	"max":    "100",
	"labels": "B|A|L|R|Sz|Hd|Sp",
}

// Inspector draws the selected creature's state, senses and brain.
type Inspector struct {
	x, y int32
}

// NewInspector places the panel with its top-left corner at (x, y).
func NewInspector(x, y int32) *Inspector {
	return &Inspector{x: x, y: y}
}

// SetPosition moves the panel.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x, ins.y = x, y
}

// Contains reports whether a screen point falls on the panel.
func (ins *Inspector) Contains(sx, sy int32, in game.Inspection) bool {
	h := ins.height(in)
	return sx >= ins.x && sx < ins.x+PanelWidth && sy >= ins.y && sy < ins.y+h
}

// Draw renders the panel for one inspected creature.
func (ins *Inspector) Draw(in game.Inspection) {
	fields := ExtractFields(in.Creature)
	h := ins.height(in)

	rl.DrawRectangle(ins.x, ins.y, PanelWidth, h, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.x), Y: float32(ins.y), Width: PanelWidth, Height: float32(h)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.x, ins.y, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("CREATURE %d", in.Creature.ID), ins.x+PanelPadding, ins.y+7, 16, ColorHeaderText)

	x := ins.x + PanelPadding
	y := ins.y + HeaderHeight + PanelPadding
	y = DrawFields(x, y, fields)

	y = ins.separator(x, y)
	ins.drawSectionHeader(x, y, "SENSES")
	y += 20
	if len(in.Trace) > 0 {
		senses := make([]float32, len(in.Trace[0]))
		for i, v := range in.Trace[0] {
			senses[i] = float32(v)
		}
		y += DrawBarGroup(x, y, "Food", senses, senseOptions)
	}

	y = ins.separator(x, y)
	ins.drawSectionHeader(x, y, "BRAIN")
	y += 20
	DrawNetworkDiagram(x+50, y, PanelWidth-2*PanelPadding-90, NetworkHeight, in.Brain, in.Trace)
}

func (ins *Inspector) separator(x, y int32) int32 {
	y += 4
	rl.DrawLine(x, y, ins.x+PanelWidth-PanelPadding, y, ColorPanelBorder)
	return y + 8
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// height sums the rows Draw will use.
func (ins *Inspector) height(in game.Inspection) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, f := range ExtractFields(in.Creature) {
		switch f.Widget {
		case WidgetAngle:
			h += 44
		default:
			h += 18
		}
	}
	h += 12 + 20 + 44 // senses
	h += 12 + 20 + NetworkHeight
	return h + PanelPadding
}

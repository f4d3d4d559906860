package inspector

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/neural"
)

// Input labels for the network diagram, in sense vector order.
var InputLabels = []string{"Below", "Ahead", "Left", "Right", "Size", "Heading", "Speed"}

// Output labels for the network diagram.
var OutputLabels = []string{"Turn L", "Turn R", "Fast"}

// NetworkColors for activation visualization.
var (
	ColorNodeInactive = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorNodePositive = rl.Color{R: 255, G: 100, B: 100, A: 255}
	ColorNodeNegative = rl.Color{R: 100, G: 100, B: 255, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// minEdgeWeight hides near-zero connections.
const minEdgeWeight = 0.5

// DrawNetworkDiagram renders every layer of brain as a column of nodes, with
// edges for dense weights and node colours from trace. trace holds the sense
// vector followed by each layer's output, as returned by ForwardTrace.
func DrawNetworkDiagram(x, y, width, height int32, brain *neural.Brain, trace [][]float64) {
	if brain == nil {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	layers := brain.Layers()
	widths := make([]int, 0, len(layers)+1)
	widths = append(widths, brain.Inputs())
	for _, l := range layers {
		widths = append(widths, l.Outputs())
	}

	// One column per width, centred vertically
	colWidth := float32(width) / float32(len(widths))
	usable := float32(height - 20)
	nodes := make([][]rl.Vector2, len(widths))
	for c, n := range widths {
		spacing := usable / float32(n)
		top := float32(y) + 10 + (usable-float32(n)*spacing)/2 + spacing/2
		cx := float32(x) + colWidth*(float32(c)+0.5)
		nodes[c] = make([]rl.Vector2, n)
		for i := range nodes[c] {
			nodes[c][i] = rl.Vector2{X: cx, Y: top + float32(i)*spacing}
		}
	}

	for li, l := range layers {
		dense, ok := l.(*neural.Dense)
		if !ok {
			continue
		}
		for v := 0; v < dense.Outputs(); v++ {
			for u := 0; u < dense.Inputs(); u++ {
				w := dense.WeightAt(v, u)
				if math.Abs(w) < minEdgeWeight {
					continue
				}
				drawEdge(nodes[li][u], nodes[li+1][v], float32(w))
			}
		}
	}

	nodeRadius := float32(6)
	for c := range nodes {
		for i, pos := range nodes[c] {
			var activation float32
			if c < len(trace) && i < len(trace[c]) {
				activation = float32(trace[c][i])
			}
			drawNode(pos, nodeRadius, activation)
		}
	}

	for i, pos := range nodes[0] {
		if i < len(InputLabels) {
			labelWidth := rl.MeasureText(InputLabels[i], 10)
			rl.DrawText(InputLabels[i], int32(pos.X-nodeRadius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
		}
	}
	for i, pos := range nodes[len(nodes)-1] {
		if i < len(OutputLabels) {
			rl.DrawText(OutputLabels[i], int32(pos.X+nodeRadius+6), int32(pos.Y)-5, 10, ColorLabelDim)
		}
	}
}

func drawNode(pos rl.Vector2, radius, activation float32) {
	rl.DrawCircleV(pos, radius, activationColor(activation))
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

func drawEdge(from, to rl.Vector2, weight float32) {
	mag := float32(math.Abs(float64(weight)))
	thickness := min(max(mag*0.75, 0.5), 3)

	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	color.A = uint8(min(40+mag*30, 150))

	rl.DrawLineEx(from, to, thickness, color)
}

// activationColor returns red for positive, blue for negative and grey at zero.
func activationColor(activation float32) rl.Color {
	t := float32(math.Min(math.Abs(float64(activation)), 1))
	if t == 0 {
		return ColorNodeInactive
	}
	base := ColorNodePositive
	if activation < 0 {
		base = ColorNodeNegative
	}
	return lerpColor(ColorNodeInactive, base, t)
}

package inspector

import (
	"math"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/telemetry"
)

const (
	// History buffer size in telemetry windows
	historySize = 120

	seriesPopulation = 0
	seriesBirths     = 1
	seriesDeaths     = 2
	seriesFood       = 3
	numSeries        = 4
)

// Graph colors
var (
	colorHistoryTitle = rl.Color{R: 200, G: 200, B: 220, A: 255}
	colorHistoryBg    = rl.Color{R: 20, G: 20, B: 30, A: 230}
	colorGraphBg      = rl.Color{R: 15, G: 15, B: 25, A: 255}
	colorGraphGrid    = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder  = rl.Color{R: 60, G: 60, B: 70, A: 255}
)

// HistoryPanel graphs population and food over recent telemetry windows.
// Counts share the left axis; food has its own scale on the right.
type HistoryPanel struct {
	x, y, w, h int32

	history      [numSeries][]float64
	historyIndex int
	historyCount int

	seriesVisible [numSeries]bool
	seriesNames   [numSeries]string
	seriesColors  [numSeries]rl.Color
}

// NewHistoryPanel creates a panel occupying the given rectangle.
func NewHistoryPanel(x, y, w, h int32) *HistoryPanel {
	p := &HistoryPanel{
		x: x, y: y, w: w, h: h,
		seriesVisible: [numSeries]bool{true, true, true, true},
		seriesNames:   [numSeries]string{"Pop", "Births", "Deaths", "Food"},
		seriesColors: [numSeries]rl.Color{
			{R: 100, G: 149, B: 237, A: 255},
			{R: 150, G: 255, B: 150, A: 255},
			{R: 255, G: 100, B: 80, A: 255},
			{R: 220, G: 200, B: 80, A: 255},
		},
	}
	for i := range p.history {
		p.history[i] = make([]float64, historySize)
	}
	return p
}

// SetBounds moves and resizes the panel.
func (p *HistoryPanel) SetBounds(x, y, w, h int32) {
	p.x, p.y, p.w, p.h = x, y, w, h
}

// Record appends one telemetry window.
func (p *HistoryPanel) Record(s telemetry.WindowStats) {
	idx := p.historyIndex
	p.history[seriesPopulation][idx] = float64(s.Population)
	p.history[seriesBirths][idx] = float64(s.Births)
	p.history[seriesDeaths][idx] = float64(s.Deaths)
	p.history[seriesFood][idx] = s.TotalFood

	p.historyIndex = (p.historyIndex + 1) % historySize
	if p.historyCount < historySize {
		p.historyCount++
	}
}

// Reset clears the history, as after a reseed.
func (p *HistoryPanel) Reset() {
	p.historyIndex = 0
	p.historyCount = 0
}

// HandleInput toggles series when their legend entry is clicked.
func (p *HistoryPanel) HandleInput() bool {
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return false
	}
	mx, my := rl.GetMouseX(), rl.GetMouseY()
	legendX, legendY := p.x+10, p.y+p.h-22
	for i := 0; i < numSeries; i++ {
		itemX := legendX + int32(i)*80
		if mx >= itemX && mx < itemX+75 && my >= legendY && my < legendY+18 {
			p.seriesVisible[i] = !p.seriesVisible[i]
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *HistoryPanel) Draw() {
	rl.DrawRectangle(p.x, p.y, p.w, p.h, colorHistoryBg)
	rl.DrawRectangleLines(p.x, p.y, p.w, p.h, colorGraphBorder)
	rl.DrawText("HISTORY", p.x+10, p.y+6, 14, colorHistoryTitle)

	if p.historyCount == 0 {
		rl.DrawText("Waiting for data...", p.x+100, p.y+p.h/2-7, 14, ColorTextDim)
		return
	}

	gx, gy := p.x+10, p.y+24
	gw, gh := p.w-20, p.h-52
	p.drawGraph(gx, gy, gw, gh)
	p.drawLegend(p.x+10, p.y+p.h-22)
}

func (p *HistoryPanel) drawGraph(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, colorGraphBorder)
	for i := int32(1); i < 4; i++ {
		rl.DrawLine(x, y+h*i/4, x+w, y+h*i/4, colorGraphGrid)
	}

	if p.historyCount < 2 {
		return
	}

	counts := []int{seriesPopulation, seriesBirths, seriesDeaths}
	cMin, cMax := p.seriesRange(counts)
	fMin, fMax := p.seriesRange([]int{seriesFood})

	for _, s := range counts {
		if p.seriesVisible[s] {
			p.drawSeriesLine(x, y, w, h, s, cMin, cMax)
		}
	}
	if p.seriesVisible[seriesFood] {
		p.drawSeriesLine(x, y, w, h, seriesFood, fMin, fMax)

		maxLabel := humanize.SIWithDigits(fMax, 1, "")
		textW := rl.MeasureText(maxLabel, 9)
		rl.DrawText(maxLabel, x+w-textW-2, y+2, 9, ColorTextDim)
	}
	rl.DrawText(humanize.Comma(int64(cMax)), x+2, y+2, 9, ColorTextDim)
	rl.DrawText(humanize.Comma(int64(cMin)), x+2, y+h-10, 9, ColorTextDim)
}

// at returns the i-th oldest sample of a series.
func (p *HistoryPanel) at(series, i int) float64 {
	return p.history[series][(p.historyIndex-p.historyCount+i+historySize)%historySize]
}

// seriesRange finds min/max across the visible series with 10% padding.
func (p *HistoryPanel) seriesRange(series []int) (lo, hi float64) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		if !p.seriesVisible[s] {
			continue
		}
		for i := 0; i < p.historyCount; i++ {
			v := p.at(s, i)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 1
	}
	pad := math.Max((hi-lo)*0.1, 1)
	return math.Max(0, lo-pad), hi + pad
}

func (p *HistoryPanel) drawSeriesLine(x, y, w, h int32, series int, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	color := p.seriesColors[series]

	var prevX, prevY int32
	for i := 0; i < p.historyCount; i++ {
		v := p.at(series, i)
		px := x + int32(float64(i)*float64(w)/float64(p.historyCount-1))
		py := y + h - int32((v-lo)/span*float64(h))
		py = min(max(py, y), y+h)
		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, color)
		}
		prevX, prevY = px, py
	}
}

func (p *HistoryPanel) drawLegend(x, y int32) {
	for i := 0; i < numSeries; i++ {
		itemX := x + int32(i)*80
		color := p.seriesColors[i]
		textColor := ColorText
		if !p.seriesVisible[i] {
			color.A = 80
			textColor = ColorTextDim
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, color)
		rl.DrawText(p.seriesNames[i], itemX+14, y, 11, textColor)
	}
}

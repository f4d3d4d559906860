package inspector

import (
	"fmt"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow      = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 14, ColorText)
	return 18
}

// ratio maps v into [0, 1] over the field's min/max options.
func ratio(v float32, options map[string]string) float32 {
	lo, hi := GetMin(options), GetMax(options)
	if hi <= lo {
		return 0
	}
	r := (v - lo) / (hi - lo)
	return float32(math.Max(0, math.Min(1, float64(r))))
}

// DrawBar renders a horizontal progress bar.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	r := ratio(value, options)
	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*r), barHeight, lerpColor(ColorBarLow, ColorBarFill, r))

	rl.DrawText(FormatValue(value, options["fmt"]), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawBarGroup renders one vertical mini-bar per value, such as a sense vector.
func DrawBarGroup(x, y int32, name string, values []float32, options map[string]string) int32 {
	barWidth := int32(20)
	barHeight := int32(30)
	gap := int32(2)
	labels := parseLabels(options, len(values))
	labelHeight := int32(0)
	if labels != nil {
		labelHeight = 10
	}

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	for i, v := range values {
		r := ratio(v, options)
		bx := barX + int32(i)*(barWidth+gap)
		rl.DrawRectangle(bx, y, barWidth, barHeight, ColorBarBg)

		fillHeight := int32(float32(barHeight) * r)
		rl.DrawRectangle(bx, y+barHeight-fillHeight, barWidth, fillHeight, lerpColor(ColorBarLow, ColorBarFill, r))
	}

	for i, label := range labels {
		if label == "" {
			continue
		}
		lx := barX + int32(i)*(barWidth+gap) + barWidth/2
		textW := rl.MeasureText(label, 8)
		rl.DrawText(label, lx-textW/2, y+barHeight+2, 8, ColorTextDim)
	}

	return barHeight + labelHeight + 4
}

// DrawAngle renders a compass-style angle indicator.
func DrawAngle(x, y int32, name string, radians float32) int32 {
	size := int32(40)
	centerX := x + 80 + size/2
	centerY := y + size/2

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)

	rl.DrawCircle(centerX, centerY, float32(size/2), ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, float32(size/2), ColorTextDim)

	needleLen := float32(size/2 - 4)
	endX := float32(centerX) + needleLen*float32(math.Cos(float64(radians)))
	endY := float32(centerY) + needleLen*float32(math.Sin(float64(radians)))
	rl.DrawLineEx(
		rl.Vector2{X: float32(centerX), Y: float32(centerY)},
		rl.Vector2{X: endX, Y: endY},
		2,
		ColorAngleNeedle,
	)

	// Headings accumulate turns, so show the wrapped angle
	degrees := math.Mod(float64(radians)*180/math.Pi, 360)
	if degrees < 0 {
		degrees += 360
	}
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+80+size+5, y+size/2-7, 14, ColorTextDim)

	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 80
	indicatorSize := int32(14)
	color, text := ColorBoolOff, "OFF"
	if value {
		color, text = ColorBoolOn, "ON"
	}
	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)

	return 18
}

// DrawField renders a field using its widget type and returns the height used.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(field.Value); ok {
			return DrawBarGroup(x, y, field.Name, values, field.Options)
		}
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawAngle(x, y, field.Name, v)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// DrawFields renders fields top to bottom and returns the y below the last.
func DrawFields(x, y int32, fields []Field) int32 {
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
	return y
}

// parseLabels splits the labels option on "|". It returns nil unless there
// is exactly one label per value.
func parseLabels(options map[string]string, count int) []string {
	raw := options["labels"]
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	if len(parts) != count {
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}

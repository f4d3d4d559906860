package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/camera"
	"github.com/pthm-cable/critters/game"
)

// CreatureColour shades relative birthday on red and the colour tag on green,
// so the oldest creatures are the darkest red.
func CreatureColour(birthday, time int64, tag float64) color.RGBA {
	age := 0.0
	if time > 0 {
		age = float64(birthday) / float64(time)
	}
	return color.RGBA{R: unit(age), G: unit(tag), B: 0, A: 255}
}

// DrawCreatures draws each visible creature as a disc with a heading bar.
func DrawCreatures(cam *camera.Camera, creatures []game.CreatureView, time int64, selected uint32) {
	rl.BeginScissorMode(int32(cam.OffsetX), int32(cam.OffsetY), int32(cam.ViewportW), int32(cam.ViewportH))
	defer rl.EndScissorMode()

	for _, c := range creatures {
		x, y := float32(c.X), float32(c.Y)
		if !cam.IsVisible(x, y) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		size := float32(c.Size) * cam.Zoom

		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size/2, CreatureColour(c.Birthday, time, c.Colour))

		bar := rl.Rectangle{X: sx, Y: sy, Width: size, Height: 2}
		rl.DrawRectanglePro(bar, rl.Vector2{X: 0, Y: 1}, float32(c.Heading*180/math.Pi), rl.Black)

		if c.ID == selected {
			rl.DrawCircleLines(int32(sx), int32(sy), size/2+3, rl.White)
		}
	}
}

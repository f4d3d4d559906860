// Package renderer draws the terrain and creatures with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/camera"
	"github.com/pthm-cable/critters/systems"
)

// gridLineZoom is the zoom from which tile borders are drawn.
const gridLineZoom = 8

// TileRenderer keeps one texel per tile and draws it scaled by the camera.
type TileRenderer struct {
	tex         rl.Texture2D
	pixels      []color.RGBA
	w, h        int
	initialized bool
}

// NewTileRenderer creates a renderer for a w x h tile grid.
func NewTileRenderer(w, h int) *TileRenderer {
	return &TileRenderer{w: w, h: h, pixels: make([]color.RGBA, w*h)}
}

// Init creates the texture (must be called after the raylib window is created).
func (r *TileRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(r.w, r.h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)
	r.initialized = true
}

// TileColour shades food on red and terrain type on green.
func TileColour(food float64, ttype uint8) color.RGBA {
	return color.RGBA{
		R: unit(food / 100),
		G: unit(float64(ttype) / 5),
		B: 191,
		A: 255,
	}
}

// Update uploads the terrain's current food and types.
func (r *TileRenderer) Update(t *systems.Terrain) {
	if !r.initialized {
		r.Init()
	}
	food := t.FoodView()
	types := t.TypeView()
	if len(food) != len(r.pixels) {
		return
	}
	for i := range r.pixels {
		r.pixels[i] = TileColour(food[i], types[i])
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the visible tiles. The texture repeats, so a view past the
// right or bottom edge continues from the other side.
func (r *TileRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	cols, rows := cam.VisibleTiles()
	src := rl.Rectangle{X: cam.X, Y: cam.Y, Width: float32(cols), Height: float32(rows)}
	dst := rl.Rectangle{
		X:      cam.OffsetX,
		Y:      cam.OffsetY,
		Width:  float32(cols) * cam.Zoom,
		Height: float32(rows) * cam.Zoom,
	}

	rl.BeginScissorMode(int32(cam.OffsetX), int32(cam.OffsetY), int32(cam.ViewportW), int32(cam.ViewportH))
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)

	if cam.Zoom >= gridLineZoom {
		// Lines fall on tile boundaries, which sit at fractional origins when panned
		fx := cam.X - float32(int(cam.X))
		fy := cam.Y - float32(int(cam.Y))
		for i := 0; i <= cols; i++ {
			x := dst.X + (float32(i)-fx)*cam.Zoom
			rl.DrawLineV(rl.Vector2{X: x, Y: dst.Y}, rl.Vector2{X: x, Y: dst.Y + dst.Height}, rl.Black)
		}
		for j := 0; j <= rows; j++ {
			y := dst.Y + (float32(j)-fy)*cam.Zoom
			rl.DrawLineV(rl.Vector2{X: dst.X, Y: y}, rl.Vector2{X: dst.X + dst.Width, Y: y}, rl.Black)
		}
	}
	rl.EndScissorMode()
}

// Unload frees GPU resources.
func (r *TileRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

func unit(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}

// Package camera provides the viewport over the wrapping tile grid.
package camera

import "math"

// Camera maps tile coordinates to screen pixels.
// The world wraps, so the view continues past the right and bottom edges.
type Camera struct {
	// Origin is the world position shown at the viewport's top-left corner
	X, Y float32

	// Zoom is pixels per tile
	Zoom float32

	// Viewport placement on screen
	OffsetX, OffsetY     float32
	ViewportW, ViewportH float32

	// World dimensions in tiles
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	defaultZoom float32
}

// New creates a camera at the world origin.
func New(offsetX, offsetY, viewportW, viewportH, worldW, worldH, zoom, minZoom, maxZoom float32) *Camera {
	c := &Camera{
		OffsetX:     offsetX,
		OffsetY:     offsetY,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		WorldW:      worldW,
		WorldH:      worldH,
		MinZoom:     minZoom,
		MaxZoom:     maxZoom,
		defaultZoom: clamp(zoom, minZoom, maxZoom),
	}
	c.Zoom = c.defaultZoom
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.OffsetX + mod(wx-c.X, c.WorldW)*c.Zoom
	sy = c.OffsetY + mod(wy-c.Y, c.WorldH)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = mod(c.X+(sx-c.OffsetX)/c.Zoom, c.WorldW)
	wy = mod(c.Y+(sy-c.OffsetY)/c.Zoom, c.WorldH)
	return wx, wy
}

// InViewport reports whether a screen point lies inside the viewport.
func (c *Camera) InViewport(sx, sy float32) bool {
	return sx >= c.OffsetX && sx <= c.OffsetX+c.ViewportW &&
		sy >= c.OffsetY && sy <= c.OffsetY+c.ViewportH
}

// IsVisible reports whether a world point lands inside the viewport.
func (c *Camera) IsVisible(wx, wy float32) bool {
	return c.InViewport(c.WorldToScreen(wx, wy))
}

// VisibleTiles returns how many columns and rows the viewport shows,
// rounding partial tiles up and never exceeding the world.
func (c *Camera) VisibleTiles() (cols, rows int) {
	cols = int(math.Ceil(float64(c.ViewportW / c.Zoom)))
	rows = int(math.Ceil(float64(c.ViewportH / c.Zoom)))
	cols = min(cols, int(c.WorldW))
	rows = min(rows, int(c.WorldH))
	return cols, rows
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the origin by the given number of tiles, wrapping at the edges.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx, c.WorldW)
	c.Y = mod(c.Y+dy, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy adds delta pixels per tile.
func (c *Camera) ZoomBy(delta float32) {
	c.SetZoom(c.Zoom + delta)
}

// ResetOrigin moves the origin back to (0, 0) and keeps the zoom.
func (c *Camera) ResetOrigin() {
	c.X, c.Y = 0, 0
}

// Reset returns the camera to the origin and its starting zoom.
func (c *Camera) Reset() {
	c.ResetOrigin()
	c.Zoom = c.defaultZoom
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

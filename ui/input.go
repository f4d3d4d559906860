package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.apply(ActionTogglePause)
	case rl.IsKeyPressed(rl.KeyR):
		a.apply(ActionReseed)
	case rl.IsKeyPressed(rl.KeyD):
		a.apply(ActionDumpBrain)
	case rl.IsKeyPressed(rl.KeyS):
		a.apply(ActionSaveSnapshot)
	case rl.IsKeyPressed(rl.KeyC):
		a.apply(ActionClearSelection)
	case rl.IsKeyPressed(rl.KeyH):
		a.showHistory = !a.showHistory
	}

	a.handleCameraInput()
	a.handleMouse()
}

// handleCameraInput pans by whole tiles and zooms by one pixel per tile.
func (a *App) handleCameraInput() {
	step := a.cfg.Render.PanStep
	if rl.IsKeyPressed(rl.KeyRight) {
		a.cam.Pan(step, 0)
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		a.cam.Pan(-step, 0)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		a.cam.Pan(0, step)
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		a.cam.Pan(0, -step)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.cam.ZoomBy(1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.cam.ZoomBy(-1)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.cam.ZoomBy(wheel)
	}

	if rl.IsKeyPressed(rl.KeyO) {
		a.cam.ResetOrigin()
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.cam.Reset()
	}
}

// handleMouse selects the creature closest to a click inside the viewport.
func (a *App) handleMouse() {
	if a.showHistory && a.history.HandleInput() {
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}
	mouse := rl.GetMousePosition()
	if !a.cam.InViewport(mouse.X, mouse.Y) {
		return
	}
	if id, ok := a.world.Selected(); ok {
		if in, ok := a.world.Inspect(id); ok && a.inspect.Contains(int32(mouse.X), int32(mouse.Y), in) {
			return
		}
	}

	wx, wy := a.cam.ScreenToWorld(mouse.X, mouse.Y)
	c, ok := a.world.ClosestTo(float64(wx), float64(wy))
	if !ok {
		return
	}
	if err := a.world.Select(c.ID); err != nil {
		a.fail("select", err)
	}
}

package ui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/camera"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/inspector"
	"github.com/pthm-cable/critters/renderer"
)

// maxTicksPerFrame bounds the speed slider.
const maxTicksPerFrame = 200

// Options configures the viewer beyond the world config.
type Options struct {
	BrainDir    string // where dumped brains go
	SnapshotDir string
}

// App is the windowed viewer. It owns the world between frames: every
// world call happens on the raylib thread.
type App struct {
	world *game.World
	cfg   *config.Config
	opts  Options

	cam      *camera.Camera
	tiles    *renderer.TileRenderer
	hud      *HUD
	controls *ControlsPanel
	inspect  *inspector.Inspector
	history  *inspector.HistoryPanel

	ticksPerFrame int
	showHistory   bool
	status        string

	screenW, screenH int32
}

// NewApp builds the viewer around w. Call after rl.InitWindow.
func NewApp(w *game.World, opts Options) *App {
	cfg := w.Config()
	border := float32(cfg.Screen.Border)

	a := &App{
		world: w,
		cfg:   cfg,
		opts:  opts,
		cam: camera.New(border, border,
			float32(cfg.Derived.ViewW), float32(cfg.Derived.ViewH),
			float32(cfg.World.Width), float32(cfg.World.Height),
			cfg.Render.Zoom, cfg.Render.MinZoom, cfg.Render.MaxZoom),
		tiles:         renderer.NewTileRenderer(cfg.World.Width, cfg.World.Height),
		ticksPerFrame: max(cfg.Render.TicksPerFrame, 1),
		screenW:       int32(cfg.Screen.Width),
		screenH:       int32(cfg.Screen.Height),
	}
	a.hud = NewHUD(0, 0)
	a.controls = NewControlsPanel(0, 0, int32(cfg.Screen.SideWidth)-int32(cfg.Screen.Border), maxTicksPerFrame)
	a.inspect = inspector.NewInspector(0, 0)
	a.history = inspector.NewHistoryPanel(0, 0, 0, 0)
	a.layout()

	a.tiles.Init()
	w.AddStatsHook(a.history.Record)
	return a
}

// layout places the panels for the current screen size.
func (a *App) layout() {
	border := int32(a.cfg.Screen.Border)
	viewW := max(a.screenW-int32(a.cfg.Screen.SideWidth)-2*border, 1)
	viewH := max(a.screenH-2*border, 1)
	a.cam.Resize(float32(viewW), float32(viewH))

	sideX := border + viewW + border
	a.hud.SetPosition(sideX, border)
	a.controls.SetPosition(sideX, border+9*a.hud.renderer.Theme.LineHeight)
	a.inspect.SetPosition(border+viewW-inspector.PanelWidth-10, border+10)

	histH := int32(180)
	a.history.SetBounds(border+10, border+viewH-histH-10, min(viewW-20, 600), histH)
}

// Update handles input and advances the world.
func (a *App) Update() {
	a.handleResize()
	a.handleInput()

	if a.world.Running() {
		for i := 0; i < a.ticksPerFrame && a.world.Running(); i++ {
			a.world.Timeslice()
		}
		a.world.DrainOutput()
	}
	a.world.RecordFrame()
}

// Draw renders one frame.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	a.tiles.Update(a.world.Terrain())
	a.tiles.Draw(a.cam)

	selected, _ := a.world.Selected()
	renderer.DrawCreatures(a.cam, a.world.Creatures(), a.world.Tick(), selected)

	data := HUDDataFor(a.world)
	data.Status = a.status
	a.hud.Draw(data)

	_, hasSelection := a.world.Selected()
	action, speed := a.controls.Draw(a.world.State() == game.StatePaused, hasSelection, a.ticksPerFrame)
	a.ticksPerFrame = speed
	a.apply(action)

	if id, ok := a.world.Selected(); ok {
		if in, ok := a.world.Inspect(id); ok {
			a.inspect.Draw(in)
		}
	}
	if a.showHistory {
		a.history.Draw()
	}

	a.hud.DrawControls(int32(a.cfg.Screen.Border), a.screenH)
	rl.EndDrawing()
}

// Unload frees GPU resources.
func (a *App) Unload() {
	a.tiles.Unload()
}

func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW, a.screenH = w, h
	a.layout()
}

// apply runs a command and records its outcome for the HUD.
func (a *App) apply(action Action) {
	switch action {
	case ActionNone:
		return
	case ActionTogglePause:
		a.world.TogglePause()
		a.status = ""
	case ActionReseed:
		a.world.Reseed()
		a.history.Reset()
		a.status = fmt.Sprintf("reseeded %d creatures", a.world.Population())
	case ActionDumpBrain:
		path, err := a.world.DumpBrain(a.opts.BrainDir)
		if err != nil {
			a.fail("dump brain", err)
			return
		}
		a.status = "saved " + path
		slog.Info("brain saved", "path", path)
	case ActionSaveSnapshot:
		path, err := a.world.SaveSnapshot(a.opts.SnapshotDir)
		if err != nil {
			a.fail("snapshot", err)
			return
		}
		a.status = "saved " + path
		slog.Info("snapshot saved", "path", path)
	case ActionClearSelection:
		a.world.ClearSelection()
	}
}

func (a *App) fail(what string, err error) {
	a.status = what + " failed: " + err.Error()
	slog.Error(what+" failed", "error", err)
}

package main

import (
	"image/color"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/stage/config"
	"github.com/plus3/stage/debugui"
	"github.com/plus3/stage/debugui/ebitenui"
	"github.com/plus3/stage/render/ebitenrender"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
)

var background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Game switches between editing the scene and playing a copy of it. F5
// toggles play; stopping throws the copy away so the edited scene is
// untouched.
type Game struct {
	cfg     config.Config
	logger  *slog.Logger
	backend *ebitenui.Backend
	surface *ebitenrender.Surface
	panels  *debugui.Editor
	camera  *editorCamera

	editor  *scene.Scene
	runtime *scene.Scene

	canvas        *ebiten.Image
	width, height int
	keys          []ebiten.Key
}

// active returns the scene being shown.
func (g *Game) active() *scene.Scene {
	if g.runtime != nil {
		return g.runtime
	}
	return g.editor
}

func (g *Game) play() {
	runtime, err := g.editor.Copy(g.editor.Name() + " (play)")
	if err != nil {
		g.logger.Error("play failed", slog.Any("error", err))
		return
	}
	if err := runtime.StartRuntime(); err != nil {
		g.logger.Error("play failed", slog.Any("error", err))
		runtime.Dispose()
		return
	}
	g.runtime = runtime
}

func (g *Game) stop() {
	if g.runtime == nil {
		return
	}
	g.runtime.Dispose()
	g.runtime = nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if g.runtime != nil {
			g.stop()
		} else {
			g.play()
		}
	}

	dt := 1 / float64(ebiten.TPS())
	if g.canvas != nil {
		g.canvas.Fill(background)
		g.surface.SetTarget(g.canvas)
	}

	if g.runtime != nil {
		g.forwardInput()
		if err := g.runtime.UpdateRuntime(dt); err != nil {
			g.logger.Error("update failed", slog.Any("error", err))
		}
	} else {
		g.moveCamera(dt)
		g.editor.UpdateEditor(dt, g.camera.Camera(g.width, g.height))
	}

	g.backend.Frame(func() {
		g.panels.Render(g.active(), dt)
	})
	return nil
}

// forwardInput hands key and mouse transitions to the running scripts
// unless ImGui is using them.
func (g *Game) forwardInput() {
	input := g.panels.Input()
	if !input.WantCaptureKeyboard {
		g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
		for _, k := range g.keys {
			g.runtime.KeyPressed(script.Key(k))
		}
		g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
		for _, k := range g.keys {
			g.runtime.KeyReleased(script.Key(k))
		}
	}
	if !input.WantCaptureMouse {
		for _, b := range mouseButtons {
			if inpututil.IsMouseButtonJustPressed(b) {
				g.runtime.MouseButtonPressed(script.MouseButton(b))
			}
		}
	}
}

func (g *Game) moveCamera(dt float64) {
	if g.panels.Input().WantCaptureKeyboard {
		return
	}
	var dir mgl32.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir[0]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir[0]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir[1]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir[1]++
	}
	g.camera.Pan(dir, dt)

	if !g.panels.Input().WantCaptureMouse {
		if _, wy := ebiten.Wheel(); wy != 0 {
			g.camera.Zoom(1 - float32(wy)*0.1)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas != nil {
		screen.DrawImage(g.canvas, nil)
	}
	g.backend.Overlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(outsideWidth, outsideHeight)
		g.editor.ResizeViewport(outsideWidth, outsideHeight)
		if g.runtime != nil {
			g.runtime.ResizeViewport(outsideWidth, outsideHeight)
		}
	}
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

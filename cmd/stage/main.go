// Command stage edits and plays the demo scene. With -headless it runs the
// scene without a window and logs where everything ended up.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/stage/config"
	"github.com/plus3/stage/debugui"
	"github.com/plus3/stage/debugui/ebitenui"
	"github.com/plus3/stage/render/ebitenrender"
	"github.com/plus3/stage/scene"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file.")
	headless := flag.Bool("headless", false, "Run the demo without a window.")
	frames := flag.Int("frames", 0, "Frames to simulate when headless; 0 runs until interrupted.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = loaded
	}

	level, _ := cfg.Debug.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var err error
	if *headless {
		err = runHeadless(cfg, logger, *frames)
	} else {
		err = runWindow(cfg, logger)
	}
	if err != nil {
		logger.Error("stage failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func dependencies(cfg config.Config, logger *slog.Logger) scene.Dependencies {
	return scene.Dependencies{
		Scripts:       demoScripts(),
		Physics:       cfg.Physics.World(),
		ShowColliders: cfg.Debug.ShowColliders,
		Logger:        logger,
	}
}

func runHeadless(cfg config.Config, logger *slog.Logger, frames int) error {
	factory := scene.NewFactory(dependencies(cfg, logger))
	defer factory.Close()

	s := factory.New("demo")
	defer s.Dispose()
	buildDemo(s)
	s.ResizeViewport(cfg.Window.Width, cfg.Window.Height)

	if err := s.StartRuntime(); err != nil {
		return err
	}

	if frames > 0 {
		for i := 0; i < frames; i++ {
			if err := s.UpdateRuntime(1.0 / 60); err != nil {
				return err
			}
		}
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := s.Run(ctx, time.Second/60); err != nil && ctx.Err() == nil {
			return err
		}
	}

	logPositions(s, logger)
	return s.StopRuntime()
}

func runWindow(cfg config.Config, logger *slog.Logger) error {
	backend := ebitenui.NewBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	surface := ebitenrender.NewSurface()
	deps := dependencies(cfg, logger)
	deps.Surface = surface
	deps.Textures = ebitenrender.NewLoader()

	factory := scene.NewFactory(deps)
	defer factory.Close()

	editor := factory.New("demo")
	defer editor.Dispose()
	buildDemo(editor)

	game := &Game{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		surface: surface,
		editor:  editor,
		panels:  debugui.NewEditor(100, 240),
		camera:  newEditorCamera(cfg.Editor),
	}
	defer game.stop()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

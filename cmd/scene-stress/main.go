// Command scene-stress fills a running scene with falling bodies and scripts
// and reports how long frames take.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/config"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
)

// counter is attached to scripted bodies and counts the hooks it receives.
type counter struct {
	script.Base
	totals *totals
}

type totals struct {
	updates  atomic.Int64
	contacts atomic.Int64
}

func (c *counter) OnUpdate(*script.Context, float64) {
	c.totals.updates.Add(1)
}

func (c *counter) OnCollisionBegin(*script.Context, ecs.EntityId) {
	c.totals.contacts.Add(1)
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	bodyCount := flag.Int("bodies", 500, "The number of dynamic bodies to drop.")
	scripted := flag.Int("scripts", 100, "How many of the bodies carry a script.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	configPath := flag.String("config", "", "Path to a TOML config file.")
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

	logger.Info("starting scene stress test")

	var counts totals
	scripts := script.NewRegistry()
	scripts.Register("counter", func() script.Entity { return &counter{totals: &counts} })

	s := scene.New("stress", scene.Dependencies{
		Scripts: scripts,
		Physics: cfg.Physics.World(),
		Logger:  logger,
	})
	defer s.Dispose()

	logger.Info("populating scene", slog.Int("bodies", *bodyCount), slog.Int("scripts", *scripted))
	populate(s, rand.New(rand.NewSource(1)), *bodyCount, *scripted)

	if err := s.StartRuntime(); err != nil {
		logger.Error("start failed", slog.Any("error", err))
		os.Exit(1)
	}

	report := &Report{
		Duration:       *duration,
		Bodies:         *bodyCount,
		Scripts:        min(*scripted, *bodyCount),
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", slog.Duration("duration", *duration))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := s.UpdateRuntime(deltaTime.Seconds()); err != nil {
				logger.Error("update failed", slog.Any("error", err))
				break Loop
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Systems = s.Manager().Stats().Systems
	report.ScriptUpdates = counts.updates.Load()
	report.Contacts = counts.contacts.Load()
	report.Entities = s.EntityCount()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := s.StopRuntime(); err != nil {
		logger.Error("stop failed", slog.Any("error", err))
	}
	logger.Info("simulation finished")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("failed to generate report", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}

// populate adds a wide static floor and bodies scattered above it. The first
// scripted bodies carry the counter script.
func populate(s *scene.Scene, rng *rand.Rand, bodies, scripted int) {
	storage := s.Storage()

	floor := s.CreateEntity("Floor")
	ecs.Get[component.Transform](storage, floor).Scale = mgl32.Vec3{200, 1, 1}
	ecs.Add(storage, floor, component.RigidBody2D{Type: component.StaticBody})
	ecs.Add(storage, floor, component.NewBoxCollider2D())

	for i := 0; i < bodies; i++ {
		id := s.CreateEntity(fmt.Sprintf("Body %d", i))
		ecs.Get[component.Transform](storage, id).Translation = mgl32.Vec3{
			rng.Float32()*180 - 90,
			2 + rng.Float32()*50,
			0,
		}
		ecs.Add(storage, id, component.RigidBody2D{Type: component.DynamicBody})
		ecs.Add(storage, id, component.NewBoxCollider2D())
		if i < scripted {
			ecs.Add(storage, id, script.Component{TypeName: "counter"})
		}
	}
}

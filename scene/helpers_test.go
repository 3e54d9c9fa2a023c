package scene_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/physics"
	"github.com/plus3/stage/render"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
)

// journal records hook calls of every probe script in call order.
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) matching(prefix string) []string {
	var out []string
	for _, e := range j.entries {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			out = append(out, e)
		}
	}
	return out
}

// probe is a script that journals its hooks and can be told to panic.
type probe struct {
	script.Base
	log     *journal
	panicOn string

	Speed float32
	Label string
	Tint  mgl32.Vec4
}

func (p *probe) hook(ctx *script.Context, name string, other ecs.EntityId) {
	if other != 0 {
		p.log.add("%d:%s:%d", ctx.Entity(), name, other)
	} else {
		p.log.add("%d:%s", ctx.Entity(), name)
	}
	if p.panicOn == name {
		panic(name + " failed")
	}
}

func (p *probe) OnCreate(ctx *script.Context)             { p.hook(ctx, "create", 0) }
func (p *probe) OnUpdate(ctx *script.Context, dt float64) { p.hook(ctx, "update", 0) }
func (p *probe) OnDestroy(ctx *script.Context)            { p.hook(ctx, "destroy", 0) }

func (p *probe) OnKeyPressed(ctx *script.Context, key script.Key) {
	p.log.add("%d:key:%d", ctx.Entity(), key)
}

func (p *probe) OnCollisionBegin(ctx *script.Context, other ecs.EntityId) {
	p.hook(ctx, "collision-begin", other)
}

func (p *probe) OnCollisionEnd(ctx *script.Context, other ecs.EntityId) {
	p.hook(ctx, "collision-end", other)
}

func (p *probe) OnTriggerEnter(ctx *script.Context, other ecs.EntityId) {
	p.hook(ctx, "trigger-enter", other)
}

func (p *probe) OnTriggerExit(ctx *script.Context, other ecs.EntityId) {
	p.hook(ctx, "trigger-exit", other)
}

func (p *probe) Fields() []script.Field {
	return []script.Field{
		{Name: "Speed", Value: script.Float32(p.Speed)},
		{Name: "Label", Value: script.String(p.Label)},
		{Name: "Tint", Value: script.Vec4(p.Tint)},
	}
}

func (p *probe) SetField(name string, value script.Value) error {
	switch name {
	case "Speed":
		return script.Assign(&p.Speed, value)
	case "Label":
		return script.Assign(&p.Label, value)
	case "Tint":
		return script.Assign(&p.Tint, value)
	}
	return script.UnknownField(name)
}

type fixture struct {
	scene    *scene.Scene
	surface  *render.Recorder
	textures *render.MemoryLoader
	scripts  *script.Registry
	journal  *journal
	logs     *bytes.Buffer
	probes   []*probe
}

func newFixture(t *testing.T, configure ...func(*scene.Dependencies)) *fixture {
	t.Helper()
	f := &fixture{
		surface:  render.Discard(),
		textures: render.NewMemoryLoader(64, 64),
		scripts:  script.NewRegistry(),
		journal:  &journal{},
		logs:     &bytes.Buffer{},
	}
	f.scripts.Register("probe", func() script.Entity {
		p := &probe{log: f.journal}
		f.probes = append(f.probes, p)
		return p
	})

	deps := scene.Dependencies{
		Surface:  f.surface,
		Textures: f.textures,
		Scripts:  f.scripts,
		Logger:   slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	for _, fn := range configure {
		fn(&deps)
	}
	f.scene = scene.New("test", deps)
	t.Cleanup(f.scene.Dispose)
	return f
}

func withoutGravity(deps *scene.Dependencies) {
	deps.Physics = physics.Config{VelocityIterations: 6, PositionIterations: 2}
}

func withColliders(deps *scene.Dependencies) {
	deps.ShowColliders = true
}

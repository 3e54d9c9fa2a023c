package main

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
)

func demoScripts() *script.Registry {
	r := script.NewRegistry()
	r.Register("player", func() script.Entity { return &player{Speed: 4, JumpSpeed: 6} })
	r.Register("zone", func() script.Entity { return &zone{} })
	return r
}

// player walks with the arrow keys and jumps with space.
type player struct {
	script.Base
	Speed     float32
	JumpSpeed float32

	left, right bool
	jump        bool
}

func (p *player) OnKeyPressed(ctx *script.Context, key script.Key) {
	switch ebiten.Key(key) {
	case ebiten.KeyArrowLeft, ebiten.KeyA:
		p.left = true
	case ebiten.KeyArrowRight, ebiten.KeyD:
		p.right = true
	case ebiten.KeySpace:
		p.jump = true
	}
}

func (p *player) OnKeyReleased(ctx *script.Context, key script.Key) {
	switch ebiten.Key(key) {
	case ebiten.KeyArrowLeft, ebiten.KeyA:
		p.left = false
	case ebiten.KeyArrowRight, ebiten.KeyD:
		p.right = false
	}
}

func (p *player) OnUpdate(ctx *script.Context, dt float64) {
	s, ok := ctx.Host().(*scene.Scene)
	if !ok {
		return
	}
	body, ok := s.Body(ctx.Entity())
	if !ok {
		return
	}

	v := body.LinearVelocity()
	v[0] = 0
	if p.left {
		v[0] -= p.Speed
	}
	if p.right {
		v[0] += p.Speed
	}
	if p.jump {
		v[1] = p.JumpSpeed
		p.jump = false
	}
	body.SetLinearVelocity(v)
}

func (p *player) OnCollisionBegin(ctx *script.Context, other ecs.EntityId) {
	if s, ok := ctx.Host().(*scene.Scene); ok {
		s.Logger().Debug("player bumped", slog.String("other", s.EntityName(other)))
	}
}

func (p *player) Fields() []script.Field {
	return []script.Field{
		{Name: "Speed", Value: script.Float32(p.Speed)},
		{Name: "JumpSpeed", Value: script.Float32(p.JumpSpeed)},
	}
}

func (p *player) SetField(name string, v script.Value) error {
	switch name {
	case "Speed":
		return script.Assign(&p.Speed, v)
	case "JumpSpeed":
		return script.Assign(&p.JumpSpeed, v)
	}
	return script.UnknownField(name)
}

// zone counts what passes through it and tints itself while occupied.
type zone struct {
	script.Base
	Entered  int
	Occupied int
}

func (z *zone) OnTriggerEnter(ctx *script.Context, other ecs.EntityId) {
	z.Entered++
	z.Occupied++
	z.tint(ctx)
	if s, ok := ctx.Host().(*scene.Scene); ok {
		s.Logger().Info("zone entered",
			slog.String("zone", s.EntityName(ctx.Entity())),
			slog.String("by", s.EntityName(other)),
			slog.Int("total", z.Entered),
		)
	}
}

func (z *zone) OnTriggerExit(ctx *script.Context, other ecs.EntityId) {
	z.Occupied = max(z.Occupied-1, 0)
	z.tint(ctx)
}

func (z *zone) tint(ctx *script.Context) {
	sprite := script.Get[component.SpriteRenderer](ctx)
	if sprite == nil {
		return
	}
	if z.Occupied > 0 {
		sprite.Color = mgl32.Vec4{0.2, 0.9, 0.2, 0.4}
	} else {
		sprite.Color = zoneColor
	}
}

func (z *zone) Fields() []script.Field {
	return []script.Field{{Name: "Entered", Value: script.Int(z.Entered)}}
}

func (z *zone) SetField(name string, v script.Value) error {
	if name == "Entered" {
		return script.Assign(&z.Entered, v)
	}
	return script.UnknownField(name)
}

package script_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost is the smallest scene facade scripts can run against.
type fakeHost struct {
	storage *ecs.Storage
	next    ecs.EntityId
}

func newFakeHost() *fakeHost {
	registry := ecs.NewComponentRegistry()
	component.Register(registry)
	script.RegisterComponent(registry)
	return &fakeHost{storage: ecs.NewStorage(registry)}
}

func (h *fakeHost) Storage() *ecs.Storage { return h.storage }

func (h *fakeHost) FindEntityByName(name string) (ecs.EntityId, bool) {
	for id := range h.storage.Entities() {
		if tag := ecs.Get[component.Tag](h.storage, id); tag != nil && tag.Name == name {
			return id, true
		}
	}
	return 0, false
}

func (h *fakeHost) CreateEntity(name string) ecs.EntityId {
	h.next++
	_ = h.storage.Create(h.next)
	ecs.Add(h.storage, h.next, component.Tag{Name: name})
	ecs.Add(h.storage, h.next, component.NewTransform(mgl32.Vec3{}))
	return h.next
}

func (h *fakeHost) DestroyEntity(id ecs.EntityId) {
	h.storage.Delete(id)
}

type mover struct {
	script.Base
	Speed  float32
	Target mgl32.Vec3
	Label  string
}

func (m *mover) OnUpdate(ctx *script.Context, dt float64) {
	ctx.SetPosition(ctx.Position().Add(mgl32.Vec3{m.Speed * float32(dt), 0, 0}))
}

func (m *mover) Fields() []script.Field {
	return []script.Field{
		{Name: "Speed", Value: script.Float32(m.Speed)},
		{Name: "Target", Value: script.Vec3(m.Target)},
		{Name: "Label", Value: script.String(m.Label)},
	}
}

func (m *mover) SetField(name string, value script.Value) error {
	switch name {
	case "Speed":
		return script.Assign(&m.Speed, value)
	case "Target":
		return script.Assign(&m.Target, value)
	case "Label":
		return script.Assign(&m.Label, value)
	}
	return script.UnknownField(name)
}

func TestContextComponents(t *testing.T) {
	host := newFakeHost()
	id := host.CreateEntity("player")
	ctx := script.NewContext(host, id)

	assert.True(t, ctx.Valid())
	assert.True(t, script.Has[component.Transform](ctx))
	assert.False(t, script.Has[component.SpriteRenderer](ctx))

	sprite := script.Add(ctx, component.NewSpriteRenderer(mgl32.Vec4{1, 0, 0, 1}))
	require.NotNil(t, sprite)
	assert.Same(t, sprite, script.Get[component.SpriteRenderer](ctx))

	assert.True(t, script.Remove[component.SpriteRenderer](ctx))
	assert.Nil(t, script.Get[component.SpriteRenderer](ctx))

	found, ok := ctx.FindEntity("player")
	assert.True(t, ok)
	assert.Equal(t, id, found)

	other := ctx.CreateEntity("enemy")
	ctx.DestroyEntity(other)
	_, ok = ctx.FindEntity("enemy")
	assert.False(t, ok)

	host.DestroyEntity(id)
	assert.False(t, ctx.Valid())
	assert.Nil(t, script.Get[component.Transform](ctx))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, ctx.Scale())
}

func TestContextTransform(t *testing.T) {
	host := newFakeHost()
	ctx := script.NewContext(host, host.CreateEntity("camera"))

	ctx.SetPosition(mgl32.Vec3{1, 2, 3})
	ctx.SetScale(mgl32.Vec3{2, 2, 2})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, ctx.Position())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, ctx.Scale())

	assertVec := func(want, got mgl32.Vec3) {
		t.Helper()
		assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "want %v got %v", want, got)
	}

	assertVec(mgl32.Vec3{0, 0, -1}, ctx.Forward())
	assertVec(mgl32.Vec3{1, 0, 0}, ctx.Right())
	assertVec(mgl32.Vec3{0, 1, 0}, ctx.Up())

	ctx.SetRotation(mgl32.Vec3{0, mgl32.DegToRad(90), 0})
	assertVec(mgl32.Vec3{-1, 0, 0}, ctx.Forward())
	assertVec(mgl32.Vec3{0, 0, -1}, ctx.Right())

	ctx.SetRotation(mgl32.Vec3{mgl32.DegToRad(90), 0, 0})
	assertVec(mgl32.Vec3{0, 1, 0}, ctx.Forward())
	assertVec(mgl32.Vec3{0, 0, 1}, ctx.Up())
}

func TestRegistry(t *testing.T) {
	registry := script.NewRegistry()
	registry.Register("mover", func() script.Entity { return &mover{Speed: 1} })
	registry.Register("broken", func() script.Entity { panic("constructor bug") })
	registry.Register("empty", func() script.Entity { return nil })

	assert.Equal(t, []string{"broken", "empty", "mover"}, registry.Names())

	a, err := registry.New("mover")
	require.NoError(t, err)
	b, err := registry.New("mover")
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	_, err = registry.New("missing")
	assert.ErrorIs(t, err, script.ErrUnknownScript)

	_, err = registry.New("broken")
	var panicErr *ecs.PanicError
	assert.ErrorAs(t, err, &panicErr)

	_, err = registry.New("empty")
	assert.Error(t, err)
}

func TestCopyFields(t *testing.T) {
	src := &mover{Speed: 3, Target: mgl32.Vec3{1, 2, 3}, Label: "a"}
	dst := &mover{}
	require.NoError(t, script.CopyFields(dst, src))
	assert.Equal(t, src, dst)

	dst.Target[0] = 9
	assert.Equal(t, float32(1), src.Target[0])

	err := script.CopyFields(&struct{ script.Base }{}, src)
	assert.ErrorIs(t, err, script.ErrUnknownField)
}

func TestComponentClone(t *testing.T) {
	c := script.Component{TypeName: "mover", Instance: &mover{}}
	assert.True(t, c.Bound())

	clone := c.Clone()
	assert.Equal(t, "mover", clone.TypeName)
	assert.False(t, clone.Bound())
}

func TestInvoke(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	host := newFakeHost()
	ctx := script.NewContext(host, host.CreateEntity("e"))

	ran := false
	assert.True(t, script.Invoke(logger, ctx, "mover", script.HookUpdate, func() { ran = true }))
	assert.True(t, ran)
	assert.Empty(t, buf.String())

	ok := script.Invoke(logger, ctx, "mover", script.HookCollisionBegin, func() {
		panic(errors.New("bad collision"))
	})
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "hook=OnCollisionBegin")
	assert.Contains(t, buf.String(), "script=mover")
	assert.Contains(t, buf.String(), "bad collision")
}

func TestMoverUpdate(t *testing.T) {
	host := newFakeHost()
	ctx := script.NewContext(host, host.CreateEntity("m"))
	var s script.Entity = &mover{Speed: 2}

	for i := 0; i < 4; i++ {
		s.OnUpdate(ctx, 0.5)
	}
	assert.Equal(t, mgl32.Vec3{4, 0, 0}, ctx.Position())
}

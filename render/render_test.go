package render_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraViewProjection(t *testing.T) {
	cam := render.NewCamera(mgl32.Ident4(), mgl32.Translate3D(2, 3, 0))
	p := cam.ViewProjection().Mul4x1(mgl32.Vec4{2, 3, 0, 1})
	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, 0, p[1], 1e-6)
}

func TestRecorder(t *testing.T) {
	r := render.Discard()
	r.BeginScene(render.Camera{Projection: mgl32.Ident4()})
	r.DrawQuad(mgl32.Ident4(), render.Region{}, mgl32.Vec4{1, 1, 1, 1}, 4)
	assert.Empty(t, r.Quads(), "quads are published on EndScene")
	r.EndScene()

	quads := r.Quads()
	require.Len(t, quads, 1)
	assert.EqualValues(t, 4, quads[0].Entity)
	assert.Equal(t, 1, r.Scenes())

	r.BeginScene(render.Camera{})
	r.EndScene()
	assert.Empty(t, r.Quads())
}

func TestMemoryLoader(t *testing.T) {
	l := render.NewMemoryLoader(32, 16)
	tex, err := l.Load("a.png")
	require.NoError(t, err)
	assert.Equal(t, 32, tex.Width())
	assert.Equal(t, 16, tex.Height())
	assert.Equal(t, "a.png", tex.Path())
	assert.Equal(t, 1, l.Loads("a.png"))

	boom := errors.New("boom")
	l.Fail("b.png", boom)
	_, err = l.Load("b.png")
	assert.ErrorIs(t, err, boom)

	l.DisposeErr = boom
	tex, err = l.Load("c.png")
	require.NoError(t, err)
	assert.ErrorIs(t, tex.Dispose(), boom)
	assert.True(t, l.Textures()[1].Disposed())

	full := render.FullRegion(tex)
	assert.Equal(t, mgl32.Vec2{1, 1}, full.Max)
}

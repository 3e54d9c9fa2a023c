// Package render declares the drawing surface and texture loading the scene
// draws through, plus headless implementations of both.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/ecs"
)

// Camera is what a surface needs to place world geometry on screen.
type Camera struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

// NewCamera builds a camera from a projection and the camera's world
// transform.
func NewCamera(projection, transform mgl32.Mat4) Camera {
	return Camera{Projection: projection, View: transform.Inv()}
}

// ViewProjection returns Projection * View.
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.View)
}

// Region is a normalized rectangle of a texture. A nil texture draws a flat
// colored quad.
type Region struct {
	Texture Texture
	Min     mgl32.Vec2
	Max     mgl32.Vec2
}

// FullRegion covers the whole texture.
func FullRegion(texture Texture) Region {
	return Region{Texture: texture, Min: mgl32.Vec2{0, 0}, Max: mgl32.Vec2{1, 1}}
}

// Surface receives draw calls for one frame. Both draw calls draw the unit
// quad centered at the origin transformed by transform; DrawSprite repeats
// the whole texture tiling times across it. entity identifies the source for
// picking.
type Surface interface {
	BeginScene(camera Camera)
	DrawSprite(transform mgl32.Mat4, texture Texture, tint mgl32.Vec4, tiling float32, entity ecs.EntityId)
	DrawQuad(transform mgl32.Mat4, region Region, tint mgl32.Vec4, entity ecs.EntityId)
	EndScene()
}

// Texture is a loaded image.
type Texture interface {
	Width() int
	Height() int
	Path() string
	Dispose() error
}

// TextureLoader loads a texture by path, or creates it if the loader keeps
// its own cache.
type TextureLoader interface {
	Load(path string) (Texture, error)
}

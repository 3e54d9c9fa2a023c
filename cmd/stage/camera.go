package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/config"
	"github.com/plus3/stage/render"
)

// editorCamera is the free orthographic camera used while editing.
type editorCamera struct {
	position mgl32.Vec2
	zoom     float32
	speed    float32
}

func newEditorCamera(cfg config.Editor) *editorCamera {
	return &editorCamera{zoom: cfg.CameraZoom, speed: cfg.PanSpeed}
}

// Pan moves the camera by direction scaled by the pan speed.
func (c *editorCamera) Pan(direction mgl32.Vec2, dt float64) {
	c.position = c.position.Add(direction.Mul(c.speed * float32(dt)))
}

// Zoom scales the visible height, keeping it positive.
func (c *editorCamera) Zoom(factor float32) {
	if factor > 0 {
		c.zoom = max(c.zoom*factor, 0.5)
	}
}

// Camera returns the camera for a width x height viewport. zoom is the
// visible height in world units.
func (c *editorCamera) Camera(width, height int) render.Camera {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	halfH := c.zoom / 2
	halfW := halfH * aspect
	projection := mgl32.Ortho(-halfW, halfW, -halfH, halfH, -1, 1)
	return render.NewCamera(projection, mgl32.Translate3D(c.position[0], c.position[1], 0))
}

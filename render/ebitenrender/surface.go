// Package ebitenrender draws scenes with ebiten.
package ebitenrender

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/render"
)

// maxTiles caps how many copies DrawSprite makes along each axis.
const maxTiles = 16

// Surface draws quads onto an ebiten image. Only the 2D affine part of the
// camera and model matrices is honored, which covers orthographic cameras.
type Surface struct {
	target *ebiten.Image
	white  *ebiten.Image
	vp     mgl32.Mat4
	active bool
}

// NewSurface creates a surface. Call SetTarget before each frame.
func NewSurface() *Surface {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &Surface{white: white}
}

// SetTarget sets the image subsequent scenes draw into.
func (s *Surface) SetTarget(target *ebiten.Image) {
	s.target = target
}

func (s *Surface) BeginScene(camera render.Camera) {
	s.vp = camera.ViewProjection()
	s.active = s.target != nil
}

func (s *Surface) EndScene() {
	s.active = false
}

func (s *Surface) DrawSprite(transform mgl32.Mat4, texture render.Texture, tint mgl32.Vec4, tiling float32, entity ecs.EntityId) {
	n := int(math.Round(float64(tiling)))
	if n <= 1 {
		s.DrawQuad(transform, render.FullRegion(texture), tint, entity)
		return
	}
	n = min(n, maxTiles)

	size := 1 / float32(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := -0.5 + size*(float32(i)+0.5)
			y := -0.5 + size*(float32(j)+0.5)
			local := mgl32.Translate3D(x, y, 0).Mul4(mgl32.Scale3D(size, size, 1))
			s.DrawQuad(transform.Mul4(local), render.FullRegion(texture), tint, entity)
		}
	}
}

func (s *Surface) DrawQuad(transform mgl32.Mat4, region render.Region, tint mgl32.Vec4, _ ecs.EntityId) {
	if !s.active {
		return
	}

	src := s.white
	if tex, ok := region.Texture.(*Texture); ok && tex.image != nil {
		src = tex.subImage(region.Min, region.Max)
	}
	w := float64(src.Bounds().Dx())
	h := float64(src.Bounds().Dy())
	if w == 0 || h == 0 {
		return
	}

	var op ebiten.DrawImageOptions

	// Source pixels to the unit quad, y up.
	op.GeoM.Scale(1/w, -1/h)
	op.GeoM.Translate(-0.5, 0.5)

	// Unit quad to normalized device coordinates.
	m := s.vp.Mul4(transform)
	var affine ebiten.GeoM
	affine.SetElement(0, 0, float64(m.At(0, 0)))
	affine.SetElement(0, 1, float64(m.At(0, 1)))
	affine.SetElement(0, 2, float64(m.At(0, 3)))
	affine.SetElement(1, 0, float64(m.At(1, 0)))
	affine.SetElement(1, 1, float64(m.At(1, 1)))
	affine.SetElement(1, 2, float64(m.At(1, 3)))
	op.GeoM.Concat(affine)

	// Device coordinates to target pixels, y down.
	bounds := s.target.Bounds()
	op.GeoM.Scale(1, -1)
	op.GeoM.Translate(1, 1)
	op.GeoM.Scale(float64(bounds.Dx())/2, float64(bounds.Dy())/2)
	op.GeoM.Translate(float64(bounds.Min.X), float64(bounds.Min.Y))

	op.ColorScale.Scale(tint[0]*tint[3], tint[1]*tint[3], tint[2]*tint[3], tint[3])
	op.Filter = ebiten.FilterNearest

	s.target.DrawImage(src, &op)
}

// Texture is an ebiten image loaded from disk.
type Texture struct {
	image *ebiten.Image
	path  string
}

// NewTexture wraps an existing image.
func NewTexture(img *ebiten.Image, path string) *Texture {
	return &Texture{image: img, path: path}
}

// Image returns the backing image, nil after Dispose.
func (t *Texture) Image() *ebiten.Image {
	return t.image
}

func (t *Texture) Width() int {
	if t.image == nil {
		return 0
	}
	return t.image.Bounds().Dx()
}

func (t *Texture) Height() int {
	if t.image == nil {
		return 0
	}
	return t.image.Bounds().Dy()
}

func (t *Texture) Path() string {
	return t.path
}

func (t *Texture) Dispose() error {
	if t.image != nil {
		t.image.Deallocate()
		t.image = nil
	}
	return nil
}

// subImage maps a normalized region (v up) to the pixel rectangle (y down).
func (t *Texture) subImage(min, max mgl32.Vec2) *ebiten.Image {
	b := t.image.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	rect := image.Rect(
		b.Min.X+int(min[0]*w), b.Min.Y+int((1-max[1])*h),
		b.Min.X+int(max[0]*w), b.Min.Y+int((1-min[1])*h),
	)
	if rect == b {
		return t.image
	}
	return t.image.SubImage(rect).(*ebiten.Image)
}

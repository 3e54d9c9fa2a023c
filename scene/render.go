package scene

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/render"
)

const colliderLineWidth = 0.04

var (
	colliderColor = mgl32.Vec4{0, 1, 0, 1}
	sensorColor   = mgl32.Vec4{1, 0, 0, 1}
)

// UpdateEditor draws the scene from an externally supplied camera without
// stepping physics or scripts.
func (s *Scene) UpdateEditor(_ float64, camera render.Camera) {
	if s.disposed {
		return
	}
	surface := s.deps.Surface
	surface.BeginScene(camera)
	s.drawEntities(surface)
	surface.EndScene()

	if s.deps.ShowColliders {
		s.drawColliders(camera)
	}
}

// RuntimeCamera returns the camera of the primary camera entity.
func (s *Scene) RuntimeCamera() (render.Camera, bool) {
	id, ok := s.PrimaryCameraEntity()
	if !ok {
		return render.Camera{}, false
	}
	cam := ecs.Get[component.Camera](s.storage, id)
	tr := ecs.Get[component.Transform](s.storage, id)
	if tr == nil {
		return render.Camera{}, false
	}
	return render.NewCamera(cam.Camera.Projection, tr.Matrix()), true
}

// PrimaryCameraEntity returns the first entity whose Camera is primary.
func (s *Scene) PrimaryCameraEntity() (ecs.EntityId, bool) {
	view := ecs.NewView[struct {
		ecs.EntityId
		*component.Camera
	}](s.storage)
	for id, item := range view.Iter() {
		if item.Camera.Primary {
			return id, true
		}
	}
	return 0, false
}

// ResizeViewport records the viewport size and updates every camera that
// does not keep a fixed aspect ratio.
func (s *Scene) ResizeViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.viewportWidth = width
	s.viewportHeight = height

	view := ecs.NewView[struct{ *component.Camera }](s.storage)
	for item := range view.Values() {
		if !item.Camera.FixedAspectRatio {
			item.Camera.Camera.SetViewportSize(width, height)
		}
	}
}

// ViewportSize returns the last size passed to ResizeViewport.
func (s *Scene) ViewportSize() (int, int) {
	return s.viewportWidth, s.viewportHeight
}

// drawEntities submits sprites, sub textures and tile maps in entity order.
func (s *Scene) drawEntities(surface render.Surface) {
	view := ecs.NewView[struct {
		ecs.EntityId
		*component.Transform
		Sprite  *component.SpriteRenderer `ecs:"optional"`
		Sub     *component.SubTexture     `ecs:"optional"`
		TileMap *component.TileMap        `ecs:"optional"`
	}](s.storage)

	for id := range s.storage.Entities() {
		item := view.Get(id)
		if item == nil {
			continue
		}
		model := item.Transform.Matrix()

		if sr := item.Sprite; sr != nil {
			surface.DrawSprite(model, s.texture(sr.TexturePath), sr.Color, sr.TilingFactor, id)
		}
		if sub := item.Sub; sub != nil {
			min, max := sub.Region()
			region := render.Region{Texture: s.texture(sub.TexturePath), Min: min, Max: max}
			surface.DrawQuad(model, region, sub.Color, id)
		}
		if tm := item.TileMap; tm != nil {
			s.drawTileMap(surface, model, tm, id)
		}
	}
}

func (s *Scene) drawTileMap(surface render.Surface, model mgl32.Mat4, tm *component.TileMap, id ecs.EntityId) {
	atlas := s.tileAtlas(tm)
	size := tm.TileSize
	if size <= 0 {
		size = 1
	}
	scale := mgl32.Scale3D(size, size, 1)

	for y := 0; y < tm.Height; y++ {
		for x := 0; x < tm.Width; x++ {
			index := tm.Tile(x, y)
			if index < 0 {
				continue
			}
			min, max := tm.TileRegion(index)
			cell := mgl32.Translate3D((float32(x)+0.5)*size, (float32(y)+0.5)*size, 0).Mul4(scale)
			surface.DrawQuad(model.Mul4(cell), render.Region{Texture: atlas, Min: min, Max: max}, tm.Color, id)
		}
	}
}

// drawColliders outlines every box collider, red for sensors.
func (s *Scene) drawColliders(camera render.Camera) {
	view := ecs.NewView[struct {
		ecs.EntityId
		*component.Transform
		*component.BoxCollider2D
	}](s.storage)

	surface := s.deps.Surface
	surface.BeginScene(camera)
	for id, item := range view.Iter() {
		tr := item.Transform
		half := item.BoxCollider2D.HalfExtents(tr.Scale)
		frame := mgl32.Translate3D(tr.Translation[0], tr.Translation[1], tr.Translation[2]).
			Mul4(mgl32.HomogRotate3DZ(tr.Rotation[2])).
			Mul4(mgl32.Translate3D(item.BoxCollider2D.Offset[0], item.BoxCollider2D.Offset[1], 0))

		color := colliderColor
		if item.BoxCollider2D.IsSensor {
			color = sensorColor
		}
		for _, edge := range outline(half) {
			surface.DrawQuad(frame.Mul4(edge), render.Region{}, color, id)
		}
	}
	surface.EndScene()
}

// outline returns the four edge quads of a box with the given half extents.
func outline(half mgl32.Vec2) [4]mgl32.Mat4 {
	w, h := half[0]*2, half[1]*2
	return [4]mgl32.Mat4{
		mgl32.Translate3D(0, half[1], 0).Mul4(mgl32.Scale3D(w, colliderLineWidth, 1)),
		mgl32.Translate3D(0, -half[1], 0).Mul4(mgl32.Scale3D(w, colliderLineWidth, 1)),
		mgl32.Translate3D(half[0], 0, 0).Mul4(mgl32.Scale3D(colliderLineWidth, h, 1)),
		mgl32.Translate3D(-half[0], 0, 0).Mul4(mgl32.Scale3D(colliderLineWidth, h, 1)),
	}
}

// texture returns a cached texture, loading it on first use. Failed loads
// are cached as nil so they are reported once.
func (s *Scene) texture(path string) render.Texture {
	if path == "" || s.deps.Textures == nil {
		return nil
	}
	if tex, ok := s.textures[path]; ok {
		return tex
	}

	tex, err := s.deps.Textures.Load(path)
	if err != nil {
		s.logger.Error("texture not loaded", slog.String("path", path), slog.Any("error", err))
		tex = nil
	}
	s.textures[path] = tex
	return tex
}

func tileCacheKey(tm *component.TileMap) string {
	return fmt.Sprintf("%s|%d|%d", tm.TexturePath, tm.Columns, tm.Rows)
}

// tileAtlas returns the atlas texture of a tile map from the per-scene tile
// cache.
func (s *Scene) tileAtlas(tm *component.TileMap) render.Texture {
	if tm.TexturePath == "" || s.deps.Textures == nil {
		return nil
	}
	key := tileCacheKey(tm)
	if tex, ok := s.tileCache[key]; ok {
		return tex
	}

	tex, err := s.deps.Textures.Load(tm.TexturePath)
	if err != nil {
		s.logger.Error("tile atlas not loaded", slog.String("key", key), slog.Any("error", err))
		tex = nil
	}
	s.tileCache[key] = tex
	return tex
}

// TileCacheLen returns the number of cached tile atlases.
func (s *Scene) TileCacheLen() int {
	return len(s.tileCache)
}

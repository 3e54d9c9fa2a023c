package render

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/ecs"
)

// Quad is one recorded DrawQuad call.
type Quad struct {
	Transform mgl32.Mat4
	Region    Region
	Tint      mgl32.Vec4
	Tiling    float32
	Entity    ecs.EntityId
}

// Recorder is a Surface that keeps the quads of the last completed scene.
// It is used by headless runs and tests.
type Recorder struct {
	mu      sync.Mutex
	camera  Camera
	pending []Quad
	last    []Quad
	scenes  int
}

// Discard returns a Surface that records nothing beyond the last frame.
func Discard() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BeginScene(camera Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera = camera
	r.pending = r.pending[:0]
}

func (r *Recorder) DrawSprite(transform mgl32.Mat4, texture Texture, tint mgl32.Vec4, tiling float32, entity ecs.EntityId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, Quad{Transform: transform, Region: FullRegion(texture), Tint: tint, Tiling: tiling, Entity: entity})
}

func (r *Recorder) DrawQuad(transform mgl32.Mat4, region Region, tint mgl32.Vec4, entity ecs.EntityId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, Quad{Transform: transform, Region: region, Tint: tint, Tiling: 1, Entity: entity})
}

func (r *Recorder) EndScene() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = append(r.last[:0], r.pending...)
	r.scenes++
}

// Quads returns the quads drawn in the last completed scene.
func (r *Recorder) Quads() []Quad {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Quad(nil), r.last...)
}

// Scenes returns the number of completed scenes.
func (r *Recorder) Scenes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scenes
}

// Camera returns the camera of the most recent BeginScene.
func (r *Recorder) Camera() Camera {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.camera
}

// MemoryTexture is a texture with no pixels.
type MemoryTexture struct {
	path     string
	width    int
	height   int
	disposed bool
	err      error
}

func (t *MemoryTexture) Width() int   { return t.width }
func (t *MemoryTexture) Height() int  { return t.height }
func (t *MemoryTexture) Path() string { return t.path }

// Disposed reports whether Dispose has been called.
func (t *MemoryTexture) Disposed() bool { return t.disposed }

func (t *MemoryTexture) Dispose() error {
	t.disposed = true
	return t.err
}

// MemoryLoader hands out MemoryTextures and counts loads per path.
type MemoryLoader struct {
	mu       sync.Mutex
	Width    int
	Height   int
	loads    map[string]int
	textures []*MemoryTexture
	fail     map[string]error
	// DisposeErr is returned by Dispose of every texture loaded after it is set.
	DisposeErr error
}

// NewMemoryLoader returns a loader producing width x height textures.
func NewMemoryLoader(width, height int) *MemoryLoader {
	return &MemoryLoader{
		Width:  width,
		Height: height,
		loads:  make(map[string]int),
		fail:   make(map[string]error),
	}
}

// Fail makes loading path return err.
func (l *MemoryLoader) Fail(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[path] = err
}

func (l *MemoryLoader) Load(path string) (Texture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fail[path]; err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	l.loads[path]++
	tex := &MemoryTexture{path: path, width: l.Width, height: l.Height, err: l.DisposeErr}
	l.textures = append(l.textures, tex)
	return tex, nil
}

// Loads returns how many times path was loaded.
func (l *MemoryLoader) Loads(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[path]
}

// Textures returns every texture handed out so far.
func (l *MemoryLoader) Textures() []*MemoryTexture {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*MemoryTexture(nil), l.textures...)
}

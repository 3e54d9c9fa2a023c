package ebitenrender

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/plus3/stage/render"
)

// Loader reads image files from disk. Every Load decodes the file again;
// scenes keep their own caches.
type Loader struct{}

// NewLoader creates a loader.
func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(path string) (render.Texture, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return NewTexture(img, path), nil
}

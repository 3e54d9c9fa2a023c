package component

import "github.com/go-gl/mathgl/mgl32"

// SpriteRenderer draws a tinted quad, textured when TexturePath is set.
type SpriteRenderer struct {
	Color        mgl32.Vec4
	TexturePath  string
	TilingFactor float32
}

// NewSpriteRenderer returns an untextured sprite of the given color.
func NewSpriteRenderer(color mgl32.Vec4) SpriteRenderer {
	return SpriteRenderer{Color: color, TilingFactor: 1}
}

// SubTexture draws one region of a texture atlas laid out as a uniform grid
// of Columns x Rows cells. Cell is the zero-based (column, row) of the
// region's bottom-left cell and Span its size in cells.
type SubTexture struct {
	TexturePath string
	Columns     int
	Rows        int
	Cell        [2]int
	Span        [2]int
	Color       mgl32.Vec4
}

// Region returns the normalized texture rectangle covered by the sub texture.
func (s SubTexture) Region() (min, max mgl32.Vec2) {
	return gridRegion(s.Columns, s.Rows, s.Cell[0], s.Cell[1], max1(s.Span[0]), max1(s.Span[1]))
}

// TileMap draws a grid of tiles picked from an atlas texture. Tiles holds one
// atlas index per map cell in row-major order starting at the bottom-left;
// negative indexes are empty cells.
type TileMap struct {
	TexturePath string
	Columns     int
	Rows        int
	Width       int
	Height      int
	TileSize    float32
	Tiles       []int
	Color       mgl32.Vec4
}

// NewTileMap returns an empty width x height map over a columns x rows atlas.
func NewTileMap(texturePath string, columns, rows, width, height int) TileMap {
	tiles := make([]int, width*height)
	for i := range tiles {
		tiles[i] = -1
	}
	return TileMap{
		TexturePath: texturePath,
		Columns:     columns,
		Rows:        rows,
		Width:       width,
		Height:      height,
		TileSize:    1,
		Tiles:       tiles,
		Color:       mgl32.Vec4{1, 1, 1, 1},
	}
}

// Clone deep-copies the tile slice.
func (m *TileMap) Clone() TileMap {
	clone := *m
	clone.Tiles = append([]int(nil), m.Tiles...)
	return clone
}

// Tile returns the atlas index at (x, y), or -1 when out of range or empty.
func (m *TileMap) Tile(x, y int) int {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return -1
	}
	idx := y*m.Width + x
	if idx >= len(m.Tiles) {
		return -1
	}
	return m.Tiles[idx]
}

// SetTile stores an atlas index at (x, y). Out of range writes are ignored.
func (m *TileMap) SetTile(x, y, index int) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if len(m.Tiles) != m.Width*m.Height {
		tiles := make([]int, m.Width*m.Height)
		for i := range tiles {
			tiles[i] = -1
		}
		copy(tiles, m.Tiles)
		m.Tiles = tiles
	}
	m.Tiles[y*m.Width+x] = index
}

// TileRegion returns the normalized atlas rectangle of a tile index.
func (m *TileMap) TileRegion(index int) (min, max mgl32.Vec2) {
	if m.Columns <= 0 {
		return mgl32.Vec2{}, mgl32.Vec2{}
	}
	return gridRegion(m.Columns, m.Rows, index%m.Columns, index/m.Columns, 1, 1)
}

func gridRegion(columns, rows, col, row, spanX, spanY int) (min, max mgl32.Vec2) {
	if columns <= 0 || rows <= 0 {
		return mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}
	}
	w := 1 / float32(columns)
	h := 1 / float32(rows)
	min = mgl32.Vec2{float32(col) * w, float32(row) * h}
	max = mgl32.Vec2{float32(col+spanX) * w, float32(row+spanY) * h}
	return min, max
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Package ebitenui runs Dear ImGui on top of an ebiten game.
package ebitenui

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// Backend wraps the ebiten ImGui backend.
type Backend struct {
	*ebitenbackend.EbitenBackend
}

// NewBackend creates the ImGui context and the game window. ImGui's ini
// persistence is disabled.
func NewBackend(title string, width, height int) *Backend {
	b := &Backend{EbitenBackend: ebitenbackend.NewEbitenBackend()}
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return b
}

// Frame runs fn inside one ImGui frame. Call it from the game's Update.
func (b *Backend) Frame(fn func()) {
	b.BeginFrame()
	defer b.EndFrame()
	fn()
}

// Overlay draws the last ImGui frame over screen.
func (b *Backend) Overlay(screen *ebiten.Image) {
	b.Draw(screen)
}

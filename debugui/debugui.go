// Package debugui draws the editor panels with Dear ImGui: a scene
// hierarchy, a component inspector and system statistics.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
)

// InputState reports whether ImGui consumed this frame's input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Editor owns the panels and the current selection. Render must be called
// between the backend's BeginFrame and EndFrame.
type Editor struct {
	Hierarchy *Hierarchy
	Inspector *Inspector
	Stats     *Stats

	input InputState
}

// NewEditor creates the panels. history is the number of frames the stats
// plots keep.
func NewEditor(pageSize, history int) *Editor {
	return &Editor{
		Hierarchy: NewHierarchy(pageSize),
		Inspector: &Inspector{},
		Stats:     NewStats(history),
	}
}

// Render draws every panel for s. dt is the last frame time in seconds.
func (e *Editor) Render(s *scene.Scene, dt float64) {
	e.Hierarchy.Render(s)
	e.Inspector.Render(s, e.Hierarchy.Selected())
	e.Stats.Render(s, dt)

	io := imgui.CurrentIO()
	e.input = InputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}

// Input returns the capture state recorded by the last Render.
func (e *Editor) Input() InputState {
	return e.input
}

// Selected returns the entity picked in the hierarchy.
func (e *Editor) Selected() ecs.EntityId {
	return e.Hierarchy.Selected()
}

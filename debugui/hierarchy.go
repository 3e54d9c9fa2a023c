package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
)

// Hierarchy lists the scene's entities and edits the entity set.
type Hierarchy struct {
	rows          []EntityRow
	version       uint64
	sceneID       string
	selected      ecs.EntityId
	filter        string
	pageSize      int
	page          int
	sortColumn    int
	sortAscending bool
}

// NewHierarchy shows pageSize entities per page.
func NewHierarchy(pageSize int) *Hierarchy {
	return &Hierarchy{pageSize: pageSize, sortAscending: true}
}

// Selected returns the selected entity, or zero.
func (h *Hierarchy) Selected() ecs.EntityId {
	return h.selected
}

// Select changes the selection.
func (h *Hierarchy) Select(id ecs.EntityId) {
	h.selected = id
}

func (h *Hierarchy) refresh(s *scene.Scene) {
	version := s.Storage().Version()
	if h.rows != nil && h.version == version && h.sceneID == s.ID().String() {
		return
	}
	h.rows = CollectRows(s)
	SortRows(h.rows, h.sortColumn, h.sortAscending)
	h.version = version
	h.sceneID = s.ID().String()
	if h.selected != 0 && !s.Storage().Exists(h.selected) {
		h.selected = 0
	}
}

func (h *Hierarchy) Render(s *scene.Scene) {
	if !imgui.BeginV("Scene Hierarchy", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	h.refresh(s)

	state := "editing"
	if s.Running() {
		state = "running"
	}
	imgui.Text(fmt.Sprintf("%s (%s)", s.Name(), state))

	if imgui.Button("Create Entity") {
		h.selected = s.CreateEntity("Entity")
	}
	if h.selected != 0 {
		imgui.SameLine()
		if imgui.Button("Duplicate") {
			if dup, ok := s.DuplicateEntity(h.selected); ok {
				h.selected = dup
			}
		}
		imgui.SameLine()
		if imgui.Button("Delete") {
			s.DestroyEntity(h.selected)
			h.selected = 0
		}
	}
	h.refresh(s)

	imgui.InputTextWithHint("##filter", "Filter...", &h.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		h.filter = ""
	}

	rows := FilterRows(h.rows, h.filter)
	pageRows, pages := Page(rows, h.page, h.pageSize)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("Entities", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		specs := imgui.TableGetSortSpecs()
		if specs.SpecsDirty() && specs.SpecsCount() > 0 {
			spec := specs.Specs()
			h.sortColumn = int(spec.ColumnIndex())
			h.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortRows(h.rows, h.sortColumn, h.sortAscending)
			specs.SetSpecsDirty(false)
		}

		for _, row := range pageRows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.ID), h.selected == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				h.selected = row.ID
			}
			imgui.TableNextColumn()
			imgui.Text(row.Name)
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.Components)))
		}
		imgui.EndTable()
	}

	if pages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", h.page+1, pages, len(rows)))
		imgui.SameLine()
		if imgui.Button("Prev") && h.page > 0 {
			h.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && h.page < pages-1 {
			h.page++
		}
	} else {
		h.page = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(rows)))
	}

	imgui.End()
}

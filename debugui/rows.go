package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
)

// EntityRow is one line of the hierarchy table.
type EntityRow struct {
	ID         ecs.EntityId
	Name       string
	Components []string
}

// Sort columns of the hierarchy table.
const (
	ColumnID = iota
	ColumnName
	ColumnComponents
	ColumnCount
)

// CollectRows lists every entity of s in creation order.
func CollectRows(s *scene.Scene) []EntityRow {
	storage := s.Storage()
	rows := make([]EntityRow, 0, storage.Len())
	for id := range storage.Entities() {
		types := storage.Components(id)
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, t.Name())
		}
		rows = append(rows, EntityRow{ID: id, Name: s.EntityName(id), Components: names})
	}
	return rows
}

// SortRows orders rows by one of the Column constants.
func SortRows(rows []EntityRow, column int, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool
		switch column {
		case ColumnName:
			less = a.Name < b.Name
		case ColumnComponents:
			less = strings.Join(a.Components, ",") < strings.Join(b.Components, ",")
		case ColumnCount:
			less = len(a.Components) < len(b.Components)
		default:
			less = a.ID < b.ID
		}
		if !ascending {
			return !less
		}
		return less
	})
}

// FilterRows keeps rows whose id, name or component names contain text,
// ignoring case.
func FilterRows(rows []EntityRow, text string) []EntityRow {
	if text == "" {
		return rows
	}
	needle := strings.ToLower(text)
	filtered := make([]EntityRow, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(fmt.Sprintf("%d", row.ID), needle) ||
			strings.Contains(strings.ToLower(row.Name), needle) ||
			strings.Contains(strings.ToLower(strings.Join(row.Components, " ")), needle) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// Page returns the rows of page (zero based) and the page count.
func Page(rows []EntityRow, page, size int) ([]EntityRow, int) {
	if size <= 0 || len(rows) == 0 {
		return rows, 1
	}
	pages := (len(rows) + size - 1) / size
	page = min(max(page, 0), pages-1)
	start := page * size
	end := min(start+size, len(rows))
	return rows[start:end], pages
}

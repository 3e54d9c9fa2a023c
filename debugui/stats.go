package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/stage/scene"
)

// History is a fixed-size ring of samples.
type History struct {
	samples []float32
	next    int
	full    bool
}

// NewHistory keeps the last size samples.
func NewHistory(size int) *History {
	return &History{samples: make([]float32, max(size, 1))}
}

// Push records a sample, overwriting the oldest once full.
func (h *History) Push(v float32) {
	h.samples[h.next] = v
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.full = true
	}
}

// Samples returns the recorded samples, oldest first.
func (h *History) Samples() []float32 {
	if !h.full {
		return append([]float32(nil), h.samples[:h.next]...)
	}
	out := make([]float32, 0, len(h.samples))
	out = append(out, h.samples[h.next:]...)
	return append(out, h.samples[:h.next]...)
}

// Average returns the mean of the recorded samples.
func (h *History) Average() float32 {
	samples := h.Samples()
	if len(samples) == 0 {
		return 0
	}
	var sum float32
	for _, v := range samples {
		sum += v
	}
	return sum / float32(len(samples))
}

// Stats shows frame timing, storage counts and per-system execution times.
type Stats struct {
	size    int
	frames  *History
	systems map[string]*History
	order   []string
}

// NewStats keeps history frames of samples per plot.
func NewStats(history int) *Stats {
	return &Stats{
		size:    history,
		frames:  NewHistory(history),
		systems: make(map[string]*History),
	}
}

// Record samples the frame time and the last duration of every system.
func (st *Stats) Record(s *scene.Scene, dt float64) {
	st.frames.Push(float32(dt * 1000))
	for _, sys := range s.Manager().Stats().Systems {
		h, ok := st.systems[sys.Name]
		if !ok {
			h = NewHistory(st.size)
			st.systems[sys.Name] = h
			st.order = append(st.order, sys.Name)
		}
		h.Push(float32(sys.LastDuration) / float32(time.Millisecond))
	}
}

// FrameTime returns the frame time history in milliseconds.
func (st *Stats) FrameTime() *History {
	return st.frames
}

// System returns the duration history of a system in milliseconds.
func (st *Stats) System(name string) (*History, bool) {
	h, ok := st.systems[name]
	return h, ok
}

func (st *Stats) Render(s *scene.Scene, dt float64) {
	st.Record(s, dt)

	if !imgui.BeginV("Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	storage := s.Storage().Stats()
	avg := st.frames.Average()
	imgui.Text(fmt.Sprintf("Scene: %s", s.ID()))
	imgui.Text(fmt.Sprintf("Entities: %d", storage.EntityCount))
	imgui.Text(fmt.Sprintf("Bodies: %d", s.World().BodyCount()))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}

	frames := st.frames.Samples()
	if len(frames) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &frames[0], int32(len(frames)))
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStats", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Priority")
			imgui.TableSetupColumn("Shared")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Faults")
			imgui.TableSetupColumn("Avg")
			imgui.TableHeadersRow()

			for _, sys := range s.Manager().Stats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.Priority))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%t", sys.Shared))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.FaultCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
			}
			imgui.EndTable()
		}

		if implot.BeginPlotV("System Time", imgui.NewVec2(-1, 200), 0) {
			implot.SetupAxesV("Frame", "ms", 0, implot.AxisFlagsAutoFit)
			for _, name := range st.order {
				samples := st.systems[name].Samples()
				if len(samples) > 0 {
					implot.PlotLineFloatPtrInt(name, &samples[0], int32(len(samples)))
				}
			}
			implot.EndPlot()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Components") {
		for _, c := range storage.ComponentTypes {
			imgui.BulletText(fmt.Sprintf("%s: %d", c.Type, c.Count))
		}
		imgui.TreePop()
	}
}

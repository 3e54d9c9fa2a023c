package main

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 5 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 5*time.Millisecond, s.Max)
	assert.Equal(t, 3*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:     time.Second,
		Bodies:       10,
		Scripts:      2,
		TotalUpdates: 60,
		Systems: []ecs.SystemStats{
			{Name: "physics", Priority: 100, ExecutionCount: 60, AvgDuration: time.Millisecond},
			{Name: "scripts", Priority: 200, Shared: true, ExecutionCount: 60},
		},
		GCPauseMetrics: true,
	}
	r.MemStatsStart.HeapAlloc = 1024 * 1024
	r.MemStatsEnd.HeapAlloc = 3 * 1024 * 1024
	r.MemStatsEnd.PauseTotalNs = uint64(2 * time.Millisecond)

	var out bytes.Buffer
	require.NoError(t, r.Generate(&out))

	text := out.String()
	assert.Contains(t, text, "**Dynamic Bodies:** 10")
	assert.Contains(t, text, "| physics | 100 | false | 60 | 0 | 1ms |")
	assert.Contains(t, text, "| scripts | 200 | true | 60 |")
	assert.Contains(t, text, "1.00 MiB (start) -> 3.00 MiB (end) -> delta: 2097152 bytes")
	assert.Contains(t, text, "**Total GC Pause:** 2ms")
}

func TestPopulate(t *testing.T) {
	var counts totals
	scripts := script.NewRegistry()
	scripts.Register("counter", func() script.Entity { return &counter{totals: &counts} })

	s := scene.New("stress", scene.Dependencies{Scripts: scripts})
	defer s.Dispose()
	populate(s, rand.New(rand.NewSource(1)), 20, 5)

	assert.Equal(t, 21, s.EntityCount())
	require.NoError(t, s.StartRuntime())
	for i := 0; i < 10; i++ {
		require.NoError(t, s.UpdateRuntime(1.0/60))
	}
	assert.Equal(t, int64(50), counts.updates.Load())
	assert.Equal(t, 21, s.World().BodyCount())
}

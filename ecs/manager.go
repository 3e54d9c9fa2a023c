package ecs

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"time"
)

// ManagerStats provides statistics about system execution.
type ManagerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Priority       int
	Shared         bool
	ExecutionCount int64
	FaultCount     int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	faultCount     int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type systemEntry struct {
	system      System
	name        string
	priority    int
	shared      bool
	initialized bool
	acquired    bool
	stats       systemStatsInternal
}

// Manager holds systems ordered by priority and drives their lifecycle for
// one scene. Shared systems are borrowed from a SharedSystems registry: the
// Manager initializes and updates them but never shuts them down itself.
type Manager struct {
	storage     *Storage
	host        Host
	shared      *SharedSystems
	logger      *slog.Logger
	entries     []*systemEntry
	frame       *UpdateFrame
	initialized bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSharedSystems sets the registry that owns shared systems.
func WithSharedSystems(shared *SharedSystems) ManagerOption {
	return func(m *Manager) {
		m.shared = shared
	}
}

// WithLogger sets the logger used to report isolated system faults.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHost sets the scene facade handed to systems through the frame.
func WithHost(host Host) ManagerOption {
	return func(m *Manager) {
		m.host = host
	}
}

// NewManager creates a new manager for the given storage.
func NewManager(storage *Storage, opts ...ManagerOption) *Manager {
	m := &Manager{
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.frame = newUpdateFrame(storage, m.host)
	return m
}

// Register inserts a system keeping the collection sorted by priority. If the
// Manager has already been initialized the system is initialized immediately.
// Query fields of private systems are bound to the Manager's storage.
func (m *Manager) Register(system System, shared bool) error {
	if system == nil || isNilPointer(system) {
		return ErrNilSystem
	}
	if m.indexOf(system) >= 0 {
		return &SystemError{System: system.Name(), Phase: "register", Err: ErrSystemAlreadyRegistered}
	}

	if !shared {
		m.initializeQueries(system)
	}

	entry := &systemEntry{
		system:   system,
		name:     system.Name(),
		priority: system.Priority(),
		shared:   shared,
		stats: systemStatsInternal{
			minDuration: time.Duration(1<<63 - 1),
		},
	}

	// Insert after every entry with priority <= ours so equal priorities keep
	// registration order.
	pos := slices.IndexFunc(m.entries, func(e *systemEntry) bool {
		return e.priority > entry.priority
	})
	if pos < 0 {
		pos = len(m.entries)
	}
	m.entries = slices.Insert(m.entries, pos, entry)

	if m.initialized {
		m.initEntry(entry)
	}
	return nil
}

// Unregister removes a system from scheduling. A private system is shut
// down; a shared one is only released back to its registry.
func (m *Manager) Unregister(system System) error {
	if system == nil || isNilPointer(system) {
		return ErrNilSystem
	}
	idx := m.indexOf(system)
	if idx < 0 {
		return &SystemError{System: system.Name(), Phase: "unregister", Err: ErrSystemNotRegistered}
	}

	entry := m.entries[idx]
	m.entries = slices.Delete(m.entries, idx, idx+1)
	m.teardownEntry(entry)
	return nil
}

// Init initializes every system in priority order. Systems already
// initialized by this Manager are skipped, so Init is idempotent.
func (m *Manager) Init() {
	m.initialized = true
	m.frame.DeltaTime = 0
	for _, entry := range slices.Clone(m.entries) {
		m.initEntry(entry)
	}
}

// Initialized reports whether Init has been called since the last Shutdown.
func (m *Manager) Initialized() bool {
	return m.initialized
}

func (m *Manager) initEntry(entry *systemEntry) {
	if entry.initialized {
		return
	}

	if entry.shared && m.shared != nil && !entry.acquired {
		if err := m.shared.acquire(entry.system); err != nil {
			m.report(entry, PhaseInit, err)
			return
		}
		entry.acquired = true
	}

	if err := Protect(func() error { return entry.system.Init(m.frame) }); err != nil {
		m.report(entry, PhaseInit, err)
		if entry.acquired {
			entry.acquired = false
			m.shared.abandon(entry.system)
		}
		return
	}
	entry.initialized = true
}

// Update runs every initialized system once, strictly in ascending priority
// order. A system that fails or panics is logged and skipped for this frame;
// the remaining systems still run.
func (m *Manager) Update(dt float64) {
	m.frame.DeltaTime = dt

	for _, entry := range slices.Clone(m.entries) {
		if !entry.initialized {
			continue
		}

		start := time.Now()
		err := Protect(func() error { return entry.system.Update(m.frame) })
		duration := time.Since(start)

		stats := &entry.stats
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}

		if err != nil {
			stats.faultCount++
			m.report(entry, PhaseUpdate, err)
		}
	}
}

// Run updates all systems repeatedly at the given interval until the context is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			m.Update(dt)
		}
	}
}

// Shutdown tears systems down in reverse priority order: every initialized
// system is detached from this Manager's scene, private systems are shut
// down and shared systems are released to their registry, which shuts them
// down once the last reference is gone. Calling Shutdown again is a no-op
// until the Manager is initialized again.
func (m *Manager) Shutdown() {
	for i := len(m.entries) - 1; i >= 0; i-- {
		m.teardownEntry(m.entries[i])
	}
	m.initialized = false
}

func (m *Manager) teardownEntry(entry *systemEntry) {
	if entry.initialized {
		if detacher, ok := entry.system.(Detacher); ok {
			if err := Protect(func() error { return detacher.Detach(m.frame) }); err != nil {
				m.report(entry, PhaseDetach, err)
			}
		}

		if !entry.shared {
			if err := Protect(entry.system.Shutdown); err != nil {
				m.report(entry, PhaseShutdown, err)
			}
		}
		entry.initialized = false
	}
	m.releaseEntry(entry)
}

func (m *Manager) releaseEntry(entry *systemEntry) {
	if !entry.acquired {
		return
	}
	entry.acquired = false
	if err := m.shared.release(entry.system); err != nil {
		m.report(entry, PhaseShutdown, err)
	}
}

func (m *Manager) report(entry *systemEntry, phase string, err error) {
	m.logger.Error("system fault",
		slog.String("system", entry.name),
		slog.String("phase", phase),
		slog.Int("priority", entry.priority),
		slog.Bool("shared", entry.shared),
		slog.Any("error", err),
	)
}

// Systems returns the registered systems in execution order.
func (m *Manager) Systems() []System {
	systems := make([]System, len(m.entries))
	for i, entry := range m.entries {
		systems[i] = entry.system
	}
	return systems
}

// Len returns the number of registered systems.
func (m *Manager) Len() int {
	return len(m.entries)
}

// IsShared reports whether the system was registered as shared.
func (m *Manager) IsShared(system System) bool {
	idx := m.indexOf(system)
	return idx >= 0 && m.entries[idx].shared
}

func (m *Manager) indexOf(system System) int {
	return slices.IndexFunc(m.entries, func(e *systemEntry) bool {
		return e.system == system
	})
}

func (m *Manager) initializeQueries(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		if strings.HasPrefix(field.Type().Name(), "Query[") {
			initMethod := field.Addr().MethodByName("Init")
			if !initMethod.IsValid() {
				panic("Init method not found on Query field: " + fieldType.Name)
			}

			initMethod.Call([]reflect.Value{
				reflect.ValueOf(m.storage),
			})
		}
	}
}

// Stats returns statistics about system execution.
func (m *Manager) Stats() *ManagerStats {
	stats := &ManagerStats{
		SystemCount: len(m.entries),
		Systems:     make([]SystemStats, len(m.entries)),
	}

	var totalExecs int64
	for i, entry := range m.entries {
		internal := entry.stats
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			Priority:       entry.priority,
			Shared:         entry.shared,
			ExecutionCount: internal.executionCount,
			FaultCount:     internal.faultCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}

func isNilPointer(system System) bool {
	v := reflect.ValueOf(system)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

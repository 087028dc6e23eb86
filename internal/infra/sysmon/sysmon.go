// Package sysmon samples host load to size the probe worker pool.
package sysmon

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	loadThreshold      = 80.0
	goroutineThreshold = 500
	maxSnapshotAge     = 30 * time.Second
)

type Snapshot struct {
	CPUPercent float64
	MemPercent float64
	Goroutines int
	Taken      time.Time
}

// Monitor caches the latest host load snapshot.
type Monitor struct {
	mu     sync.Mutex
	sample time.Duration
	last   Snapshot
}

// New returns a monitor that measures CPU usage over the sample interval.
func New(sample time.Duration) *Monitor {
	if sample <= 0 {
		sample = 500 * time.Millisecond
	}
	return &Monitor{sample: sample}
}

// Update takes a fresh snapshot. Metrics the host cannot report stay zero.
func (m *Monitor) Update() Snapshot {
	s := Snapshot{
		Goroutines: runtime.NumGoroutine(),
		Taken:      time.Now(),
	}
	if v, err := mem.VirtualMemory(); err == nil {
		s.MemPercent = v.UsedPercent
	}
	if p, err := cpu.Percent(m.sample, false); err == nil && len(p) > 0 {
		s.CPUPercent = p[0]
	}

	m.mu.Lock()
	m.last = s
	m.mu.Unlock()
	return s
}

func (m *Monitor) Last() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// RecommendedConcurrency scales max down when the host is busy, taking a new
// snapshot when the cached one is stale.
func (m *Monitor) RecommendedConcurrency(max int) int {
	s := m.Last()
	if time.Since(s.Taken) > maxSnapshotAge {
		s = m.Update()
	}
	return Recommend(s, max)
}

// Recommend halves max when CPU or memory use is above 80%, and takes three
// quarters of it when more than 500 goroutines are running. The result is
// at least 1.
func Recommend(s Snapshot, max int) int {
	n := max
	switch {
	case s.CPUPercent > loadThreshold || s.MemPercent > loadThreshold:
		n = max / 2
	case s.Goroutines > goroutineThreshold:
		n = max * 3 / 4
	}
	if n < 1 {
		return 1
	}
	return n
}

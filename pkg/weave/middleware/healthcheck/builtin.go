package healthcheck

import (
	"context"
	"fmt"
	"time"
)

// DiskIndicator reports Down when free space on Path drops below
// MinFreeBytes. Check() is implemented per-OS in builtin_disk_*.go since
// free-space probing isn't portable across syscall.Statfs_t layouts.
type DiskIndicator struct {
	Path         string
	MinFreeBytes uint64
}

// NewDiskIndicator defaults to checking "/" for at least 100MB free.
func NewDiskIndicator() *DiskIndicator {
	return &DiskIndicator{Path: "/", MinFreeBytes: 100 * 1024 * 1024}
}

func (d *DiskIndicator) WithPath(path string) *DiskIndicator    { d.Path = path; return d }
func (d *DiskIndicator) WithMinFreeMB(mb uint64) *DiskIndicator { d.MinFreeBytes = mb * 1024 * 1024; return d }
func (d *DiskIndicator) WithMinFreeGB(gb uint64) *DiskIndicator {
	d.MinFreeBytes = gb * 1024 * 1024 * 1024
	return d
}

func (d *DiskIndicator) Name() string { return "disk" }

// MemoryIndicator carries Degraded/Unhealthy thresholds as fractions of the
// process's memory limit. Go has no portable equivalent of the original's
// OS memory probe, so Check always reports Up with the thresholds as
// configured in its details; it takes no live reading — callers wire a
// CustomIndicator for a real cgroup/rss-backed check when that matters.
type MemoryIndicator struct {
	DegradedThreshold float64
	UnhealthyThreshold float64
}

// NewMemoryIndicator defaults to 80%/95% thresholds.
func NewMemoryIndicator() *MemoryIndicator {
	return &MemoryIndicator{DegradedThreshold: 0.80, UnhealthyThreshold: 0.95}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (m *MemoryIndicator) WithDegradedThreshold(t float64) *MemoryIndicator {
	m.DegradedThreshold = clamp01(t)
	return m
}

func (m *MemoryIndicator) WithUnhealthyThreshold(t float64) *MemoryIndicator {
	m.UnhealthyThreshold = clamp01(t)
	return m
}

func (m *MemoryIndicator) Name() string          { return "memory" }
func (m *MemoryIndicator) Timeout() time.Duration { return 5 * time.Second }

func (m *MemoryIndicator) Check(context.Context) Result {
	return Healthy().
		Detail("degraded_threshold", fmt.Sprintf("%.0f%%", m.DegradedThreshold*100)).
		Detail("unhealthy_threshold", fmt.Sprintf("%.0f%%", m.UnhealthyThreshold*100))
}

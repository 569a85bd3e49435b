package pipeline

import (
	"slices"
	"sync"
	"time"
)

type scanSample struct {
	at       time.Time
	duration time.Duration
	routes   int
	failed   bool
}

// StatsSnapshot aggregates the per-file scans inside the stats window.
type StatsSnapshot struct {
	Files  int     `json:"files"`
	Failed int     `json:"failed"`
	Routes int     `json:"routes"`
	MinMs  float64 `json:"min_ms"`
	MaxMs  float64 `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// ScanStats keeps per-file scan latencies for a rolling window.
type ScanStats struct {
	mu      sync.Mutex
	samples []scanSample
	window  time.Duration
}

func NewScanStats(window time.Duration) *ScanStats {
	if window <= 0 {
		window = time.Hour
	}
	return &ScanStats{samples: make([]scanSample, 0, 256), window: window}
}

// Record adds one scanned file. Nil receivers ignore the call.
func (s *ScanStats) Record(d time.Duration, routes int, failed bool) {
	if s == nil {
		return
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.samples = append(s.samples, scanSample{at: now, duration: max(d, 0), routes: routes, failed: failed})
}

func (s *ScanStats) Snapshot() StatsSnapshot {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)

	var snap StatsSnapshot
	if len(s.samples) == 0 {
		return snap
	}
	ms := make([]float64, 0, len(s.samples))
	var sum float64
	for _, sm := range s.samples {
		v := float64(sm.duration) / float64(time.Millisecond)
		ms = append(ms, v)
		sum += v
		snap.Routes += sm.routes
		if sm.failed {
			snap.Failed++
		}
	}
	slices.Sort(ms)

	snap.Files = len(ms)
	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = sum / float64(len(ms))
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	return snap
}

func (s *ScanStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm scanSample) bool { return sm.at.Before(cutoff) })
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}
	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}

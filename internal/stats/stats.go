// Package stats keeps rolling latency figures for each tool.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
	failed   bool
}

// Snapshot is a point-in-time aggregate of one tool's samples.
type Snapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Latency tracks recent run durations within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 64),
		maxAge:  maxAge,
	}
}

// Record adds one run. Negative durations count as zero.
func (l *Latency) Record(d time.Duration, failed bool) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	l.samples = append(l.samples, sample{at: now, duration: d, failed: failed})
}

func (l *Latency) Snapshot() Snapshot {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	if len(l.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, 0, len(l.samples))
	var sum int64
	failures := 0
	for _, s := range l.samples {
		ms := s.duration.Milliseconds()
		values = append(values, ms)
		sum += ms
		if s.failed {
			failures++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count:    len(values),
		Failures: failures,
		MinMs:    values[0],
		MaxMs:    values[len(values)-1],
		AvgMs:    float64(sum) / float64(len(values)),
		P50Ms:    percentile(values, 50),
		P95Ms:    percentile(values, 95),
		P99Ms:    percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.maxAge)
	keep := 0
	for _, s := range l.samples {
		if !s.at.Before(cutoff) {
			l.samples[keep] = s
			keep++
		}
	}
	l.samples = l.samples[:keep]
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}
	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}

// Registry holds one Latency per tool name.
type Registry struct {
	mu     sync.Mutex
	tools  map[string]*Latency
	maxAge time.Duration
}

func NewRegistry(maxAge time.Duration) *Registry {
	return &Registry{tools: make(map[string]*Latency), maxAge: maxAge}
}

func (r *Registry) tool(name string) *Latency {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.tools[name]
	if !ok {
		l = NewLatency(r.maxAge)
		r.tools[name] = l
	}
	return l
}

// Record adds a run of the named tool.
func (r *Registry) Record(name string, d time.Duration, err error) {
	r.tool(name).Record(d, err != nil)
}

// Track returns a func that records the time since Track was called.
//
//	done := reg.Track("combine")
//	out, err := run()
//	done(err)
func (r *Registry) Track(name string) func(error) {
	start := time.Now()
	return func(err error) { r.Record(name, time.Since(start), err) }
}

// Snapshot returns every tool's aggregate, keyed by tool name.
func (r *Registry) Snapshot() map[string]Snapshot {
	r.mu.Lock()
	names := make([]string, 0, len(r.tools))
	tools := make([]*Latency, 0, len(r.tools))
	for n, l := range r.tools {
		names = append(names, n)
		tools = append(tools, l)
	}
	r.mu.Unlock()

	out := make(map[string]Snapshot, len(names))
	for i, n := range names {
		out[n] = tools[i].Snapshot()
	}
	return out
}

// Package profiler records per-stage timings for training and benchmark runs.
package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Profiler collects durations by stage name
type Profiler struct {
	mu    sync.RWMutex
	times map[string][]time.Duration
	order []string
	clock func() time.Time
}

// New creates an empty profiler
func New() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
		clock: time.Now,
	}
}

// Timer is a running measurement
type Timer struct {
	profiler *Profiler
	stage    string
	start    time.Time
}

// Start begins timing a stage
func (p *Profiler) Start(stage string) *Timer {
	return &Timer{
		profiler: p,
		stage:    stage,
		start:    p.clock(),
	}
}

// Stop records the elapsed time
func (t *Timer) Stop() time.Duration {
	d := t.profiler.clock().Sub(t.start)
	t.profiler.Record(t.stage, d)
	return d
}

// Record adds a measurement
func (p *Profiler) Record(stage string, d time.Duration) {
	p.mu.Lock()
	if _, ok := p.times[stage]; !ok {
		p.order = append(p.order, stage)
	}
	p.times[stage] = append(p.times[stage], d)
	p.mu.Unlock()
}

// Time runs fn as stage and records its duration even when it fails
func (p *Profiler) Time(stage string, fn func() error) error {
	timer := p.Start(stage)
	defer timer.Stop()
	return fn()
}

// Stats summarises one stage
type Stats struct {
	Stage   string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
	Median  time.Duration
	P95     time.Duration
	P99     time.Duration
}

// Stats returns statistics for a stage
func (p *Profiler) Stats(stage string) Stats {
	p.mu.RLock()
	times := append([]time.Duration(nil), p.times[stage]...)
	p.mu.RUnlock()

	if len(times) == 0 {
		return Stats{Stage: stage}
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	var total time.Duration
	for _, t := range times {
		total += t
	}

	return Stats{
		Stage:   stage,
		Count:   len(times),
		Total:   total,
		Average: total / time.Duration(len(times)),
		Min:     times[0],
		Max:     times[len(times)-1],
		Median:  times[len(times)/2],
		P95:     percentile(times, 0.95),
		P99:     percentile(times, 0.99),
	}
}

// percentile uses nearest rank on sorted durations
func percentile(sorted []time.Duration, q float64) time.Duration {
	idx := int(float64(len(sorted))*q+0.999999) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// All returns statistics for every stage in first-recorded order
func (p *Profiler) All() []Stats {
	p.mu.RLock()
	stages := append([]string(nil), p.order...)
	p.mu.RUnlock()

	out := make([]Stats, 0, len(stages))
	for _, stage := range stages {
		out = append(out, p.Stats(stage))
	}
	return out
}

// Report writes a timing table
func (p *Profiler) Report(w io.Writer) {
	stats := p.All()
	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	fmt.Fprintf(w, "⏱️  Stage Timings\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-20s %8s %10s %8s %8s %8s %8s\n",
		"Stage", "Count", "Total", "Avg", "Min", "Max", "P95")
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────────────\n")

	for _, s := range stats {
		fmt.Fprintf(w, "%-20s %8d %10s %8s %8s %8s %8s\n",
			truncate(s.Stage, 20),
			s.Count,
			FormatDuration(s.Total),
			FormatDuration(s.Average),
			FormatDuration(s.Min),
			FormatDuration(s.Max),
			FormatDuration(s.P95),
		)
	}

	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
}

// FormatDuration formats a duration for display
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

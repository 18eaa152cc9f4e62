package profiler

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStats(t *testing.T) {
	p := New()
	for i := 1; i <= 100; i++ {
		p.Record("score", time.Duration(i)*time.Millisecond)
	}

	s := p.Stats("score")
	if s.Count != 100 {
		t.Fatalf("Count = %d, expected 100", s.Count)
	}
	if s.Min != time.Millisecond || s.Max != 100*time.Millisecond {
		t.Errorf("Min/Max = %v/%v", s.Min, s.Max)
	}
	if s.Average != 50500*time.Microsecond {
		t.Errorf("Average = %v, expected 50.5ms", s.Average)
	}
	if s.P95 != 95*time.Millisecond || s.P99 != 99*time.Millisecond {
		t.Errorf("P95/P99 = %v/%v", s.P95, s.P99)
	}

	if empty := p.Stats("missing"); empty.Count != 0 {
		t.Errorf("unknown stage has %d samples", empty.Count)
	}
}

func TestTimeRecordsOnError(t *testing.T) {
	p := New()
	now := time.Unix(0, 0)
	p.clock = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	boom := errors.New("boom")
	if err := p.Time("fit", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Time returned %v", err)
	}

	s := p.Stats("fit")
	if s.Count != 1 || s.Total != time.Second {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestReportKeepsStageOrder(t *testing.T) {
	p := New()
	p.Record("load", time.Millisecond)
	p.Record("fit", 2*time.Millisecond)
	p.Record("evaluate", 3*time.Millisecond)

	var buf bytes.Buffer
	p.Report(&buf)
	out := buf.String()

	load := strings.Index(out, "load")
	fit := strings.Index(out, "fit")
	eval := strings.Index(out, "evaluate")
	if load < 0 || fit < load || eval < fit {
		t.Errorf("stages out of order:\n%s", out)
	}

	buf.Reset()
	New().Report(&buf)
	if !strings.Contains(buf.String(), "No timing data") {
		t.Errorf("empty report = %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5μs"},
		{2500 * time.Microsecond, "2.50ms"},
		{1500 * time.Millisecond, "1.500s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}

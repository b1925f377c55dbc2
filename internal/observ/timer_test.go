package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerAccumulatesByName(t *testing.T) {
	tm := NewTimer()
	for i := 0; i < 3; i++ {
		idx := tm.Begin("collect")
		tm.End(idx, "")
	}
	tm.Add("resolve", 2*time.Millisecond)

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "collect" || rep.Phases[0].Runs != 3 {
		t.Fatalf("unexpected collect phase: %+v", rep.Phases[0])
	}
	if rep.Phases[1].DurationMS < 2 {
		t.Fatalf("resolve duration lost: %+v", rep.Phases[1])
	}
	if !strings.Contains(tm.Summary(), "total") {
		t.Fatalf("summary misses total line")
	}
	tm.End(42, "ignored")
}

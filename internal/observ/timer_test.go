package observ

import (
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	cur := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	parse := tm.Begin("parse")
	tm.End(parse, "3 modules")
	resolve := tm.Begin("resolve")
	tm.End(resolve, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Stages) != 2 {
		t.Fatalf("stages = %d", len(r.Stages))
	}
	if r.Stages[0].DurationMS != 2 || r.Stages[0].Note != "3 modules" {
		t.Fatalf("parse stage = %+v", r.Stages[0])
	}
	if r.TotalMS != 4 {
		t.Fatalf("total = %v", r.TotalMS)
	}

	want := "timings:\n" +
		"  parse            2.00 ms  // 3 modules\n" +
		"  resolve          2.00 ms\n" +
		"  total            4.00 ms\n"
	if got := r.String(); got != want {
		t.Fatalf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestEmptyReport(t *testing.T) {
	var tm *Timer
	if r := tm.Report(); r.TotalMS != 0 || r.Stages != nil {
		t.Fatalf("nil timer report = %+v", r)
	}
	if r := NewTimer().Report(); len(r.Stages) != 0 {
		t.Fatalf("empty timer report = %+v", r)
	}
}

package gesture

import (
	"testing"
	"time"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func TestShortHoldAborts(t *testing.T) {
	c := New(DefaultHold)
	out := c.Handle(Event{Kind: HoldBegin, At: at(0)})
	if out.To != Armed {
		t.Fatalf("expected armed, got %s", out.To)
	}
	if c.Ready(at(1999)) {
		t.Fatalf("expected not ready before threshold")
	}
	out = c.Handle(Event{Kind: HoldEnd, At: at(1999)})
	if out.To != Idle || !out.Aborted || out.Started || out.Completed {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if c.State() != Idle {
		t.Fatalf("expected idle, got %s", c.State())
	}
}

func TestHoldExactlyAtThresholdStarts(t *testing.T) {
	c := New(DefaultHold)
	c.Handle(Event{Kind: HoldBegin, At: at(0)})
	out := c.Handle(Event{Kind: HoldEnd, At: at(2000)})
	if out.To != Running || !out.Started || out.Aborted {
		t.Fatalf("a hold of exactly the threshold must start, got %+v", out)
	}
	if c.State() != Running {
		t.Fatalf("expected running, got %s", c.State())
	}
}

func TestLongHoldStartsAndStops(t *testing.T) {
	c := New(DefaultHold)
	c.Handle(Event{Kind: HoldBegin, At: at(0)})
	if !c.Ready(at(2000)) {
		t.Fatalf("expected ready at threshold")
	}
	out := c.Handle(Event{Kind: HoldEnd, At: at(2500)})
	if out.To != Running || !out.Started {
		t.Fatalf("expected running, got %+v", out)
	}
	if d := c.Display(at(2500)); d != 0 {
		t.Fatalf("expected display reset to zero, got %v", d)
	}
	if d := c.Display(at(3734)); d != 1234*time.Millisecond {
		t.Fatalf("unexpected running display %v", d)
	}

	out = c.Handle(Event{Kind: HoldBegin, At: at(12500)})
	if !out.Completed || out.To != Armed {
		t.Fatalf("expected completed solve and re-arm, got %+v", out)
	}
	if out.Elapsed != 10*time.Second {
		t.Fatalf("expected 10s, got %v", out.Elapsed)
	}
	if d := c.Display(at(13000)); d != 10*time.Second {
		t.Fatalf("expected last elapsed on display, got %v", d)
	}
	if c.Ready(at(14000)) {
		t.Fatalf("re-armed hold should measure from stop time")
	}
	if !c.Ready(at(14500)) {
		t.Fatalf("expected ready 2s after stop")
	}
}

func TestReleaseWhileRunningIsIgnored(t *testing.T) {
	c := New(DefaultHold)
	c.Handle(Event{Kind: HoldBegin, At: at(0)})
	c.Handle(Event{Kind: HoldEnd, At: at(2000)})
	out := c.Handle(Event{Kind: HoldEnd, At: at(2500)})
	if out.Changed() || c.State() != Running {
		t.Fatalf("expected release to be ignored while running: %+v", out)
	}
}

func TestRepeatedHoldBeginWhileArmed(t *testing.T) {
	c := New(DefaultHold)
	c.Handle(Event{Kind: HoldBegin, At: at(0)})
	for ms := 30; ms < 2100; ms += 30 {
		if out := c.Handle(Event{Kind: HoldBegin, At: at(ms)}); out.Changed() {
			t.Fatalf("repeat hold-begin changed state: %+v", out)
		}
	}
	out := c.Handle(Event{Kind: HoldEnd, At: at(2100)})
	if out.To != Running {
		t.Fatalf("armed time must not be reset by repeats, got %+v", out)
	}
}

func TestHoldEndWhileIdle(t *testing.T) {
	c := New(0)
	if c.Hold() != DefaultHold {
		t.Fatalf("expected default hold, got %v", c.Hold())
	}
	if out := c.Handle(Event{Kind: HoldEnd, At: at(0)}); out.Changed() {
		t.Fatalf("expected no-op, got %+v", out)
	}
}

func TestAbort(t *testing.T) {
	c := New(DefaultHold)
	if out := c.Abort(); out.Changed() {
		t.Fatalf("abort from idle should be a no-op")
	}
	c.Handle(Event{Kind: HoldBegin, At: at(0)})
	if out := c.Abort(); !out.Aborted || c.State() != Idle {
		t.Fatalf("expected abort to idle, got %+v", out)
	}
}

func TestSetHoldAppliesToCurrentHold(t *testing.T) {
	c := New(DefaultHold)
	c.Handle(Event{Kind: HoldBegin, At: at(0)})
	c.SetHold(500 * time.Millisecond)
	out := c.Handle(Event{Kind: HoldEnd, At: at(600)})
	if out.To != Running {
		t.Fatalf("expected running with lowered threshold, got %+v", out)
	}
}

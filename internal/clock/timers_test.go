package clock

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	var m Manual
	start := m.Now()
	if !start.Equal(time.Unix(0, 0)) {
		t.Errorf("expected epoch, got %v", start)
	}
	if got := m.Advance(time.Second); !got.Equal(start.Add(time.Second)) {
		t.Errorf("expected +1s, got %v", got)
	}

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(at)
	if !c.Now().Equal(at) {
		t.Errorf("expected %v, got %v", at, c.Now())
	}
}

func TestTimersFireAtDeadline(t *testing.T) {
	clk := NewManual(time.Unix(100, 0))
	timers := NewTimers(clk)

	fired := 0
	timers.AfterFunc(3*time.Second, func() { fired++ })

	if n := timers.Fire(clk.Advance(2999 * time.Millisecond)); n != 0 || fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}
	if n := timers.Fire(clk.Advance(time.Millisecond)); n != 1 || fired != 1 {
		t.Fatalf("expected one firing at the deadline, got %d", fired)
	}
	if n := timers.Fire(clk.Advance(time.Hour)); n != 0 || fired != 1 {
		t.Errorf("timer must be single shot, fired %d", fired)
	}
	if timers.Len() != 0 {
		t.Errorf("expected empty queue, got %d", timers.Len())
	}
}

func TestTimersOrder(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))
	timers := NewTimers(clk)

	var got []string
	timers.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	timers.AfterFunc(time.Second, func() { got = append(got, "a") })
	timers.AfterFunc(2*time.Second, func() { got = append(got, "c") })

	timers.Fire(clk.Advance(5 * time.Second))

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestTimerStop(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))
	timers := NewTimers(clk)

	fired := false
	tm := timers.AfterFunc(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Error("expected first stop to succeed")
	}
	if tm.Stop() {
		t.Error("expected second stop to report false")
	}
	timers.Fire(clk.Advance(time.Minute))
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestTimerStoppedByEarlierCallback(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))
	timers := NewTimers(clk)

	fired := false
	var second interface{ Stop() bool }
	timers.AfterFunc(time.Second, func() { second.Stop() })
	second = timers.AfterFunc(2*time.Second, func() { fired = true })

	if n := timers.Fire(clk.Advance(3 * time.Second)); n != 1 {
		t.Errorf("expected one firing, got %d", n)
	}
	if fired {
		t.Error("timer stopped inside the same Fire still ran")
	}
}

func TestTimersScheduledFromCallbackWait(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))
	timers := NewTimers(clk)

	inner := false
	timers.AfterFunc(0, func() {
		timers.AfterFunc(0, func() { inner = true })
	})

	timers.Poll()
	if inner {
		t.Error("nested timer must wait for the next poll")
	}
	timers.Poll()
	if !inner {
		t.Error("nested timer did not fire on the next poll")
	}
}

func TestNewTimersDefaultsToRealClock(t *testing.T) {
	timers := NewTimers(nil)
	done := false
	timers.AfterFunc(0, func() { done = true })
	timers.Poll()
	if !done {
		t.Error("zero delay timer should fire on the first poll")
	}
}

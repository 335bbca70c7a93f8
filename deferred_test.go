package impactfx

import (
	"testing"
	"time"
)

func TestDeferredQueue_RunsDueActionsOnce(t *testing.T) {
	start := time.Now()
	q := NewDeferredQueue(start)

	runs := 0
	q.ScheduleAfter(100*time.Millisecond, func() { runs++ })

	if ran := q.Tick(start.Add(50 * time.Millisecond)); ran != 0 {
		t.Errorf("nothing is due yet, ran %d actions", ran)
	}
	if ran := q.Tick(start.Add(150 * time.Millisecond)); ran != 1 {
		t.Errorf("expected 1 action to run, got %d", ran)
	}
	if ran := q.Tick(start.Add(300 * time.Millisecond)); ran != 0 {
		t.Errorf("actions must run exactly once, got %d extra runs", ran)
	}
	if runs != 1 {
		t.Errorf("action ran %d times, want 1", runs)
	}
}

func TestDeferredQueue_DrainsInDueOrder(t *testing.T) {
	start := time.Now()
	q := NewDeferredQueue(start)

	var order []string
	q.ScheduleAfter(30*time.Millisecond, func() { order = append(order, "c") })
	q.ScheduleAfter(10*time.Millisecond, func() { order = append(order, "a") })
	q.ScheduleAfter(20*time.Millisecond, func() { order = append(order, "b") })

	q.Tick(start.Add(time.Second))

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("expected due-time order [a b c], got %v", order)
	}
	if q.Len() != 0 {
		t.Errorf("queue should be empty, %d pending", q.Len())
	}
}

func TestDeferredQueue_SameDueTimeKeepsScheduleOrder(t *testing.T) {
	start := time.Now()
	q := NewDeferredQueue(start)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.ScheduleAfter(10*time.Millisecond, func() { order = append(order, i) })
	}

	q.Tick(start.Add(20 * time.Millisecond))

	for i, got := range order {
		if got != i {
			t.Fatalf("same-due actions must run in scheduling order, got %v", order)
		}
	}
}

func TestDeferredQueue_ZeroDelayRunsNextTick(t *testing.T) {
	start := time.Now()
	q := NewDeferredQueue(start)

	ran := false
	q.ScheduleAfter(0, func() { ran = true })

	q.Tick(start)
	if !ran {
		t.Errorf("zero-delay actions are due immediately")
	}
}

package impactfx

import (
	"container/heap"
	"time"
)

type deferredAction struct {
	due time.Time
	seq uint64
	run func()
}

type actionHeap []deferredAction

func (h actionHeap) Len() int { return len(h) }
func (h actionHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h actionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *actionHeap) Push(x any) { *h = append(*h, x.(deferredAction)) }
func (h *actionHeap) Pop() any {
	old := *h
	n := len(old)
	a := old[n-1]
	old[n-1].run = nil
	*h = old[:n-1]
	return a
}

// DeferredQueue is a time-ordered queue of pending actions, drained by the
// host's per-tick update. It shares the caller's single-threaded discipline:
// scheduling never blocks and actions run exactly once, on the tick their
// due time has passed. Actions scheduled at the same due time run in
// scheduling order.
type DeferredQueue struct {
	now     time.Time
	seq     uint64
	pending actionHeap
}

func NewDeferredQueue(now time.Time) *DeferredQueue {
	q := &DeferredQueue{now: now}
	heap.Init(&q.pending)
	return q
}

// ScheduleAfter enqueues run to execute once at least d after the queue's
// current time. There is no cancellation; actions that may outlive their
// subject must tolerate it being gone.
func (q *DeferredQueue) ScheduleAfter(d time.Duration, run func()) {
	q.seq++
	heap.Push(&q.pending, deferredAction{
		due: q.now.Add(d),
		seq: q.seq,
		run: run,
	})
}

// Tick advances the queue's clock and runs every action that has come due.
// Returns the number of actions executed.
func (q *DeferredQueue) Tick(now time.Time) int {
	q.now = now
	ran := 0
	for len(q.pending) > 0 && !q.pending[0].due.After(now) {
		action := heap.Pop(&q.pending).(deferredAction)
		action.run()
		ran++
	}
	return ran
}

func (q *DeferredQueue) Len() int {
	return len(q.pending)
}

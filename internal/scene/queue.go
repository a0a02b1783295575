// Package scene runs editor tasks on a single scene goroutine.
//
// Input handlers on other goroutines Enqueue work; the scene goroutine
// drains the queue once per tick, so every terrain and alpha-map write
// happens on one goroutine in submission order.
package scene

import "sync"

// Queue is a FIFO of tasks. Enqueue never blocks.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends task. It is safe to call from any goroutine.
func (q *Queue) Enqueue(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, task)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs every task pending at the time of the call, in order, and
// returns how many ran. Tasks enqueued while draining run on the next call.
func (q *Queue) Drain() int {
	q.mu.Lock()
	tasks := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

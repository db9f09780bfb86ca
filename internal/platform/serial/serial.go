// Package serial runs commands one at a time per key. The payroll service
// uses it to funnel every "apply mutation, then persist" for a period
// through a single queue, so two overlapping saves of the same period can
// never interleave and the last writer always wins with a complete state.
package serial

import (
	"context"
	"sync"
)

type command struct {
	ctx  context.Context
	run  func(context.Context) error
	done chan error
}

// queue is one key's channel plus the count of commands accepted but not
// yet executed. The worker exits and removes the key once it hits zero.
type queue struct {
	ch      chan command
	pending int
}

type Runner struct {
	mu     sync.Mutex
	queues map[string]*queue
	buffer int
}

func New(buffer int) *Runner {
	if buffer <= 0 {
		buffer = 16
	}
	return &Runner{queues: make(map[string]*queue), buffer: buffer}
}

// Do enqueues run on the key's queue and waits for it to finish. Commands
// for the same key execute strictly in submission order; different keys do
// not block each other.
func (r *Runner) Do(ctx context.Context, key string, run func(context.Context) error) error {
	cmd := command{ctx: ctx, run: run, done: make(chan error, 1)}

	r.mu.Lock()
	q, ok := r.queues[key]
	if !ok {
		q = &queue{ch: make(chan command, r.buffer)}
		r.queues[key] = q
		go r.work(key, q)
	}
	q.pending++
	r.mu.Unlock()

	select {
	case q.ch <- cmd:
	case <-ctx.Done():
		// Already counted as pending, so the command must still reach
		// the worker; it gets discarded there as expired.
		go func() { q.ch <- cmd }()
		return ctx.Err()
	}

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) work(key string, q *queue) {
	for cmd := range q.ch {
		if err := cmd.ctx.Err(); err != nil {
			cmd.done <- err
		} else {
			cmd.done <- cmd.run(cmd.ctx)
		}

		r.mu.Lock()
		q.pending--
		if q.pending == 0 {
			delete(r.queues, key)
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

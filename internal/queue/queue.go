// Package queue provides the write serializer: a process-wide FIFO that runs
// at most one mutating storage operation at a time, regardless of caller
// concurrency. It is process-local concurrency control, not a distributed
// lock; across multiple instances the only safety net is the storage
// backend's atomic transaction.
package queue

import (
	"context"
	"errors"
	"fmt"
)

// ErrQueueClosed is returned by Enqueue after Close has been called.
var ErrQueueClosed = errors.New("write queue is closed")

// Serializer executes operations strictly one at a time in submission order.
// An operation's error is returned to its own caller only; it never stops the
// queue.
type Serializer interface {
	Enqueue(ctx context.Context, op func(ctx context.Context) error) error
}

type job struct {
	ctx    context.Context
	op     func(ctx context.Context) error
	result chan error
}

// FIFO is the production Serializer: a single worker goroutine draining an
// unbuffered job channel. Blocked senders are released in submission order,
// which is what gives the total order over mutations.
type FIFO struct {
	jobs    chan job
	closing chan struct{}
	stopped chan struct{}
}

// NewFIFO creates a serializer and starts its worker.
func NewFIFO() *FIFO {
	f := &FIFO{
		jobs:    make(chan job),
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go f.run()
	return f
}

// Enqueue submits an operation and blocks until it has run, returning the
// operation's own error. The context applies to the wait for a slot; once the
// operation is accepted it runs to completion with that same context.
func (f *FIFO) Enqueue(ctx context.Context, op func(ctx context.Context) error) error {
	j := job{
		ctx:    ctx,
		op:     op,
		result: make(chan error, 1),
	}

	select {
	case f.jobs <- j:
	case <-f.closing:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-j.result
}

// Close stops accepting new operations, lets queued ones finish, and waits
// for the worker to exit.
func (f *FIFO) Close() {
	close(f.closing)
	<-f.stopped
}

func (f *FIFO) run() {
	defer close(f.stopped)

	for {
		select {
		case j := <-f.jobs:
			j.result <- runOne(j)
		case <-f.closing:
			// Drain senders that already won the submit race.
			for {
				select {
				case j := <-f.jobs:
					j.result <- runOne(j)
				default:
					return
				}
			}
		}
	}
}

// runOne executes a single operation, converting a panic into an error so one
// misbehaving operation cannot take the queue down with it.
func runOne(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queued operation panicked: %v", r)
		}
	}()
	return j.op(j.ctx)
}

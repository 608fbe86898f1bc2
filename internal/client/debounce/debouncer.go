// Package debounce turns a rapidly changing input into a stabilized value.
package debounce

import (
	"sync"
	"time"
)

// Debouncer emits the most recent input once no newer input has arrived for
// the configured delay. Each input cancels the pending timer, so at most one
// emission is scheduled at any time and a superseded value is never emitted.
// An emission happens only when the stabilized value actually changes.
//
// emit runs on the Debouncer's own goroutine and must not call Push or Stop
// synchronously.
type Debouncer[T comparable] struct {
	delay time.Duration
	emit  func(T)

	in   chan T
	done chan struct{}
	exit chan struct{}
	stop sync.Once

	mu     sync.RWMutex
	stable T
}

// New starts a Debouncer whose stabilized value is initially initial.
// Stop must be called to release its goroutine.
func New[T comparable](initial T, delay time.Duration, emit func(T)) *Debouncer[T] {
	d := &Debouncer[T]{
		delay:  delay,
		emit:   emit,
		in:     make(chan T),
		done:   make(chan struct{}),
		exit:   make(chan struct{}),
		stable: initial,
	}
	go d.loop()
	return d
}

// Push submits a new input value. It is a no-op after Stop.
func (d *Debouncer[T]) Push(v T) {
	select {
	case d.in <- v:
	case <-d.done:
	}
}

// Value returns the current stabilized value.
func (d *Debouncer[T]) Value() T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stable
}

// Stop cancels any pending emission and waits for the goroutine to exit.
func (d *Debouncer[T]) Stop() {
	d.stop.Do(func() { close(d.done) })
	<-d.exit
}

func (d *Debouncer[T]) loop() {
	defer close(d.exit)

	timer := time.NewTimer(d.delay)
	timer.Stop()

	var pending T
	for {
		select {
		case v := <-d.in:
			pending = v
			timer.Reset(d.delay)

		case <-timer.C:
			d.mu.Lock()
			changed := pending != d.stable
			d.stable = pending
			d.mu.Unlock()
			if changed && d.emit != nil {
				d.emit(pending)
			}

		case <-d.done:
			timer.Stop()
			return
		}
	}
}

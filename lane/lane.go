/*
DESCRIPTION
  lane.go provides a scheduler of independent, ordered execution lanes. Work
  submitted to a lane runs in submission order on that lane's goroutine; work
  on different lanes is unordered unless events and waits are used to impose
  an ordering, or the host joins the lanes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lane provides ordered asynchronous execution lanes with events,
// lane-side waits and host-side joins.
package lane

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ausocean/utils/logging"
)

// ID identifies a lane of a Scheduler.
type ID int

// The lanes of a Scheduler. There is one lane per frame channel and one lane
// for the merge and downstream stages.
const (
	Channel0 ID = iota
	Channel1
	Channel2
	Merge
	numLanes
)

// Channels holds the per-channel lanes in channel order.
var Channels = []ID{Channel0, Channel1, Channel2}

// All holds every lane.
var All = []ID{Channel0, Channel1, Channel2, Merge}

// ForChannel returns the lane bound to frame channel c.
func ForChannel(c int) ID { return ID(c) }

func (id ID) String() string {
	switch id {
	case Channel0, Channel1, Channel2:
		return fmt.Sprintf("channel%d", int(id))
	case Merge:
		return "merge"
	default:
		return fmt.Sprintf("lane(%d)", int(id))
	}
}

// queueLen is the number of operations that may be queued on a lane before
// Submit blocks.
const queueLen = 64

// Errors returned by the Scheduler.
var (
	ErrReleased = errors.New("lane has not been acquired")
	ErrClosed   = errors.New("scheduler is closed")
	ErrUnknown  = errors.New("unknown lane")
)

// OpError records the failure of an operation on a lane.
type OpError struct {
	Lane ID
	Op   string
	Err  error
}

func (e *OpError) Error() string { return fmt.Sprintf("%v lane: %s: %v", e.Lane, e.Op, e.Err) }

func (e *OpError) Unwrap() error { return e.Err }

type op struct {
	name   string
	fn     func() error
	always bool // Run even when the lane has failed.
}

// Lane is an ordered queue of operations executed by a single goroutine.
type Lane struct {
	id      ID
	ops     chan op
	pending sync.WaitGroup

	mu   sync.Mutex
	held bool
	err  error // Sticky until reported by Join.
}

// failure returns the error the lane is currently failed with, if any.
func (l *Lane) failure() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Lane) run(log logging.Logger, wg *sync.WaitGroup) {
	defer wg.Done()
	for o := range l.ops {
		if l.failure() != nil && !o.always {
			log.Debug("skipping operation on failed lane", "lane", l.id.String(), "op", o.name)
			l.pending.Done()
			continue
		}

		err := o.fn()
		if err != nil {
			var oe *OpError
			if !errors.As(err, &oe) {
				err = &OpError{Lane: l.id, Op: o.name, Err: err}
			}
			log.Debug("lane operation failed", "lane", l.id.String(), "op", o.name, "error", err.Error())
			l.mu.Lock()
			if l.err == nil {
				l.err = err
			}
			l.mu.Unlock()
		}
		l.pending.Done()
	}
}

// Event completes once all work submitted to its lane before the event was
// recorded has run. It carries the failure state of the lane at that point.
type Event struct {
	lane ID
	done chan struct{}
	err  error
}

// Done returns a channel that is closed when the event completes.
func (e *Event) Done() <-chan struct{} { return e.done }

// Err returns the error the recording lane was failed with when the event
// completed. It must only be called after Done is closed.
func (e *Event) Err() error { return e.err }

// Scheduler owns a fixed set of lanes and their goroutines.
type Scheduler struct {
	log    logging.Logger
	lanes  [numLanes]*Lane
	wg     sync.WaitGroup

	// mu is read held by enqueue across its send so that Close cannot close
	// a lane's queue under it.
	mu     sync.RWMutex
	closed bool
}

// New returns a Scheduler with all lanes started and released.
func New(log logging.Logger) *Scheduler {
	s := &Scheduler{log: log}
	for i := range s.lanes {
		l := &Lane{id: ID(i), ops: make(chan op, queueLen)}
		s.lanes[i] = l
		s.wg.Add(1)
		go l.run(log, &s.wg)
	}
	return s
}

func (s *Scheduler) lane(id ID) (*Lane, error) {
	if id < 0 || id >= numLanes {
		return nil, fmt.Errorf("%v: %w", id, ErrUnknown)
	}
	return s.lanes[id], nil
}

func (s *Scheduler) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Acquire marks the given lanes as held by the caller so that work may be
// submitted to them.
func (s *Scheduler) Acquire(ids ...ID) error {
	if s.isClosed() {
		return ErrClosed
	}
	for _, id := range ids {
		l, err := s.lane(id)
		if err != nil {
			return err
		}
		l.mu.Lock()
		l.held = true
		l.mu.Unlock()
	}
	return nil
}

func (s *Scheduler) enqueue(id ID, o op) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	l, err := s.lane(id)
	if err != nil {
		return err
	}

	l.mu.Lock()
	held, failed := l.held, l.err
	l.mu.Unlock()
	if !held {
		return fmt.Errorf("cannot submit %q to %v: %w", o.name, id, ErrReleased)
	}
	if failed != nil && !o.always {
		return failed
	}

	l.pending.Add(1)
	l.ops <- o
	return nil
}

// Submit queues fn on lane id. If the lane has failed, the failure is
// returned and fn is not queued; the failure remains pending until Join.
func (s *Scheduler) Submit(id ID, name string, fn func() error) error {
	return s.enqueue(id, op{name: name, fn: fn})
}

// Record queues an event on lane id and returns it.
func (s *Scheduler) Record(id ID) (*Event, error) {
	ev := &Event{lane: id, done: make(chan struct{})}
	l, err := s.lane(id)
	if err != nil {
		return nil, err
	}
	err = s.enqueue(id, op{
		name:   "record",
		always: true,
		fn: func() error {
			ev.err = l.failure()
			close(ev.done)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Wait queues a barrier on lane id that blocks the lane until every given
// event has completed. If an event's lane had failed, lane id fails with the
// same error so that dependent work is not run.
func (s *Scheduler) Wait(id ID, events ...*Event) error {
	return s.Submit(id, "wait", func() error {
		var first error
		for _, ev := range events {
			<-ev.done
			if first == nil && ev.err != nil {
				first = ev.err
			}
		}
		return first
	})
}

// Join blocks the calling goroutine until all work submitted to the given
// lanes has completed, releases the lanes and returns any errors they
// failed with. Each distinct error is reported once.
func (s *Scheduler) Join(ids ...ID) error {
	var errs []error
	for _, id := range ids {
		l, err := s.lane(id)
		if err != nil {
			return err
		}
		l.pending.Wait()

		l.mu.Lock()
		err, l.err = l.err, nil
		l.held = false
		l.mu.Unlock()

		if err != nil && !contains(errs, err) {
			errs = append(errs, err)
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

func contains(errs []error, err error) bool {
	for _, e := range errs {
		if e == err {
			return true
		}
	}
	return false
}

// Close drains and stops all lanes. It waits for any Submit in progress, and
// later submissions return ErrClosed. It is safe to call more than once.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	for _, l := range s.lanes {
		close(l.ops)
	}
	s.wg.Wait()
	return nil
}

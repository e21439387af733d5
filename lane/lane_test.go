/*
DESCRIPTION
  lane_test.go provides testing for the lane scheduler.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package lane

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

func newScheduler(t *testing.T) *Scheduler {
	s := New((*logging.TestLogger)(t))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSubmissionOrder(t *testing.T) {
	s := newScheduler(t)
	err := s.Acquire(Merge)
	if err != nil {
		t.Fatalf("did not expect error from Acquire: %v", err)
	}

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		err := s.Submit(Merge, "append", func() error {
			got = append(got, i)
			return nil
		})
		if err != nil {
			t.Fatalf("did not expect error from Submit: %v", err)
		}
	}

	err = s.Join(Merge)
	if err != nil {
		t.Fatalf("did not expect error from Join: %v", err)
	}

	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	if !cmp.Equal(got, want) {
		t.Errorf("operations ran out of order: %v", got)
	}
}

// TestChannelLanesConcurrent checks that the channel lanes run at the same
// time by having each operation wait until all three have started.
func TestChannelLanesConcurrent(t *testing.T) {
	s := newScheduler(t)
	err := s.Acquire(Channels...)
	if err != nil {
		t.Fatalf("did not expect error from Acquire: %v", err)
	}

	var started sync.WaitGroup
	started.Add(len(Channels))
	all := make(chan struct{})
	go func() { started.Wait(); close(all) }()

	for _, id := range Channels {
		err := s.Submit(id, "rendezvous", func() error {
			started.Done()
			select {
			case <-all:
				return nil
			case <-time.After(5 * time.Second):
				return errors.New("lanes did not run concurrently")
			}
		})
		if err != nil {
			t.Fatalf("did not expect error from Submit: %v", err)
		}
	}

	err = s.Join(Channels...)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWaitBarrier(t *testing.T) {
	s := newScheduler(t)
	err := s.Acquire(All...)
	if err != nil {
		t.Fatalf("did not expect error from Acquire: %v", err)
	}

	var mu sync.Mutex
	var done [3]bool
	var events []*Event
	for i, id := range Channels {
		i := i
		err := s.Submit(id, "work", func() error {
			time.Sleep(time.Duration(10*(3-i)) * time.Millisecond)
			mu.Lock()
			done[i] = true
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatalf("did not expect error from Submit: %v", err)
		}
		ev, err := s.Record(id)
		if err != nil {
			t.Fatalf("did not expect error from Record: %v", err)
		}
		events = append(events, ev)
	}

	err = s.Wait(Merge, events...)
	if err != nil {
		t.Fatalf("did not expect error from Wait: %v", err)
	}

	var seen [3]bool
	err = s.Submit(Merge, "check", func() error {
		mu.Lock()
		seen = done
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("did not expect error from Submit: %v", err)
	}

	err = s.Join(All...)
	if err != nil {
		t.Fatalf("did not expect error from Join: %v", err)
	}
	if seen != [3]bool{true, true, true} {
		t.Errorf("merge lane ran before channel lanes completed: %v", seen)
	}
}

func TestFailureSurfaces(t *testing.T) {
	s := newScheduler(t)
	errBoom := errors.New("boom")

	err := s.Acquire(Channel0)
	if err != nil {
		t.Fatalf("did not expect error from Acquire: %v", err)
	}

	ran := false
	err = s.Submit(Channel0, "fail", func() error { return errBoom })
	if err != nil {
		t.Fatalf("did not expect error from Submit: %v", err)
	}
	ev, err := s.Record(Channel0)
	if err != nil {
		t.Fatalf("did not expect error from Record: %v", err)
	}
	<-ev.Done()
	if !errors.Is(ev.Err(), errBoom) {
		t.Errorf("event did not carry lane failure: %v", ev.Err())
	}

	err = s.Submit(Channel0, "after", func() error { ran = true; return nil })
	if !errors.Is(err, errBoom) {
		t.Errorf("expected failure on next submit, got %v", err)
	}

	err = s.Join(Channel0)
	var oe *OpError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OpError from Join, got %v", err)
	}
	if oe.Lane != Channel0 || oe.Op != "fail" {
		t.Errorf("unexpected OpError: %+v", oe)
	}
	if ran {
		t.Error("operation ran on failed lane")
	}

	// The failure is cleared once reported.
	err = s.Acquire(Channel0)
	if err != nil {
		t.Fatalf("did not expect error from Acquire: %v", err)
	}
	err = s.Submit(Channel0, "ok", func() error { return nil })
	if err != nil {
		t.Errorf("did not expect error after failure was reported: %v", err)
	}
	err = s.Join(Channel0)
	if err != nil {
		t.Errorf("did not expect error from Join: %v", err)
	}
}

func TestWaitPropagatesFailure(t *testing.T) {
	s := newScheduler(t)
	errBoom := errors.New("boom")

	err := s.Acquire(Channel1, Merge)
	if err != nil {
		t.Fatalf("did not expect error from Acquire: %v", err)
	}
	err = s.Submit(Channel1, "fail", func() error { return errBoom })
	if err != nil {
		t.Fatalf("did not expect error from Submit: %v", err)
	}
	ev, err := s.Record(Channel1)
	if err != nil {
		t.Fatalf("did not expect error from Record: %v", err)
	}
	err = s.Wait(Merge, ev)
	if err != nil {
		t.Fatalf("did not expect error from Wait: %v", err)
	}

	ran := false
	err = s.Submit(Merge, "dependent", func() error { ran = true; return nil })
	if err != nil && !errors.Is(err, errBoom) {
		t.Fatalf("unexpected error from Submit: %v", err)
	}

	err = s.Join(Channel1, Merge)
	if !errors.Is(err, errBoom) {
		t.Errorf("expected propagated failure, got %v", err)
	}
	var oe *OpError
	if errors.As(err, &oe) && oe.Lane != Channel1 {
		t.Errorf("expected failure to be attributed to %v, got %v", Channel1, oe.Lane)
	}
	if ran {
		t.Error("dependent operation ran after upstream failure")
	}
}

func TestReleasedAfterJoin(t *testing.T) {
	s := newScheduler(t)
	err := s.Submit(Merge, "unheld", func() error { return nil })
	if !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased before Acquire, got %v", err)
	}

	s.Acquire(Merge)
	s.Join(Merge)
	err = s.Submit(Merge, "joined", func() error { return nil })
	if !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased after Join, got %v", err)
	}
}

func TestClose(t *testing.T) {
	s := New((*logging.TestLogger)(t))
	for i := 0; i < 3; i++ {
		err := s.Close()
		if err != nil {
			t.Fatalf("did not expect error from Close call %d: %v", i, err)
		}
	}
	err := s.Acquire(Merge)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

// Submissions racing Close either queue work that Close then drains, or
// fail with ErrClosed.
func TestSubmitDuringClose(t *testing.T) {
	s := New((*logging.TestLogger)(t))
	if err := s.Acquire(All...); err != nil {
		t.Fatalf("did not expect error from Acquire: %v", err)
	}

	var accepted, ran atomic.Int64
	var wg sync.WaitGroup
	for _, id := range All {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				err := s.Submit(id, "count", func() error {
					ran.Add(1)
					return nil
				})
				switch {
				case err == nil:
					accepted.Add(1)
				case errors.Is(err, ErrClosed):
					return
				default:
					t.Errorf("unexpected error from Submit on %v: %v", id, err)
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("did not expect error from Close: %v", err)
	}
	wg.Wait()
	if accepted.Load() != ran.Load() {
		t.Errorf("accepted %d operations but ran %d", accepted.Load(), ran.Load())
	}
}

/*
DESCRIPTION
  session.go provides Session, which owns the filters, background model,
  buffers and execution lanes used to detect moving regions in a sequence
  of frames.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package detect provides motion detection over colour frames.
//
// Each frame is split into its three channels, which are edge enhanced and
// normalised concurrently on their own lanes. The merge lane then recombines
// them, thresholds the result and classifies it against an adaptive
// background model. The foreground mask is cleaned with median filtering and
// morphological opening and closing, and the bounding rectangles of its
// regions are returned when their area is in the configured range.
package detect

import (
	"fmt"
	"image"
	"sync"

	"github.com/ausocean/utils/logging"
	"github.com/google/uuid"

	"github.com/ausocean/edgemotion/bgsub"
	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/filter"
	"github.com/ausocean/edgemotion/frame"
	"github.com/ausocean/edgemotion/lane"
)

// Session detects motion in frames of a fixed size. A Session is safe for
// concurrent use, though calls to Detect are serialised.
type Session struct {
	id  string
	log logging.Logger
	w   int
	h   int

	sched *lane.Scheduler
	edge  *edgeEnhancer
	clean *cleaner
	model *bgsub.Model
	reg   *regions

	// Merge lane buffers.
	planes [frame.Channels]*frame.Plane // Normalised edge planes as seen by the merge.
	merged *frame.Frame
	binary *frame.Frame
	fg     *frame.Plane

	// afterNormalize, if set, may replace a channel's normalised plane before
	// it is merged.
	afterNormalize func(ch int, p *frame.Plane) *frame.Plane

	mu     sync.Mutex
	closed bool
}

// New returns a Session for frames of size w×h configured by c. Unset fields
// of c are defaulted. Any failure to construct a filter or the background
// model is reported as an Error of kind KindInitialization.
func New(w, h int, c config.Config) (*Session, error) {
	if c.Logger == nil {
		return nil, initError("config", fmt.Errorf("no logger"))
	}
	err := c.Validate()
	if err != nil {
		return nil, initError("config", err)
	}
	if w <= 0 || h <= 0 {
		return nil, initError("config", fmt.Errorf("frame size %dx%d: %w", w, h, frame.ErrEmpty))
	}

	s := &Session{
		id:     uuid.New().String(),
		log:    c.Logger,
		w:      w,
		h:      h,
		merged: frame.NewFrame(w, h),
		binary: frame.NewFrame(w, h),
		fg:     frame.NewPlane(w, h),
	}

	s.edge, err = newEdgeEnhancer(w, h, c)
	if err != nil {
		return nil, initError("edge enhancement", err)
	}
	s.clean, err = newCleaner(w, h, c)
	if err != nil {
		return nil, initError("mask cleanup", err)
	}
	s.reg, err = newRegions(w, h, c)
	if err != nil {
		return nil, initError("region extraction", err)
	}
	s.model, err = bgsub.New(w, h, bgsub.Params{
		LearningRate: c.LearningRate,
		VarThreshold: c.VarThreshold,
		Warmup:       int(c.BackgroundWarmup),
	})
	if err != nil {
		return nil, initError("background model", err)
	}

	s.sched = lane.New(c.Logger)
	s.log.Info("detection session initialised", "session", s.id, "width", w, "height", h)
	return s, nil
}

// ID returns a unique identifier for the session, for log correlation.
func (s *Session) ID() string { return s.id }

// Size returns the frame dimensions of the session.
func (s *Session) Size() (w, h int) { return s.w, s.h }

// State returns the state of the background model.
func (s *Session) State() bgsub.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.State()
}

// Detect processes f and returns the bounding rectangles of the moving
// regions found in it, in a deterministic order. f is not retained.
func (s *Session) Detect(f *frame.Frame) ([]image.Rectangle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &Error{Kind: KindProcessing, Stage: "detect", Err: ErrShutdown}
	}
	if f.Empty() {
		return nil, &Error{Kind: KindProcessing, Stage: "input", Err: frame.ErrEmpty}
	}
	if f.Width != s.w || f.Height != s.h {
		return nil, &Error{
			Kind:  KindDimensionMismatch,
			Stage: "input",
			Err:   fmt.Errorf("frame %dx%d, session %dx%d: %w", f.Width, f.Height, s.w, s.h, frame.ErrDimensionMismatch),
		}
	}

	err := s.sched.Acquire(lane.All...)
	if err != nil {
		return nil, classify("acquire", err)
	}
	err = s.schedule(f)
	joinErr := s.sched.Join(lane.All...)
	if joinErr != nil {
		err = joinErr
	}
	if err != nil {
		err = classify("schedule", err)
		s.log.Debug("frame failed", "session", s.id, "error", err.Error())
		return nil, err
	}

	rects, err := s.reg.find(s.clean.mask)
	if err != nil {
		return nil, classify("region extraction", err)
	}
	s.log.Debug("frame processed", "session", s.id, "regions", len(rects), "background", s.model.State().String())
	return rects, nil
}

// schedule submits the work for one frame to the lanes. The lanes must be
// joined afterwards whether or not it succeeds.
func (s *Session) schedule(f *frame.Frame) error {
	e := s.edge
	err := s.sched.Submit(lane.Merge, "split", func() error { return frame.Split(&e.src, f) })
	if err != nil {
		return err
	}
	split, err := s.sched.Record(lane.Merge)
	if err != nil {
		return err
	}

	var done [frame.Channels]*lane.Event
	for c := 0; c < frame.Channels; c++ {
		id := lane.ForChannel(c)
		err = s.sched.Wait(id, split)
		if err != nil {
			return err
		}
		err = s.sched.Submit(id, "edge", func() error {
			err := e.enhance(c)
			if err != nil {
				return err
			}
			s.planes[c] = e.edge[c]
			if s.afterNormalize != nil {
				s.planes[c] = s.afterNormalize(c, e.edge[c])
			}
			return nil
		})
		if err != nil {
			return err
		}
		done[c], err = s.sched.Record(id)
		if err != nil {
			return err
		}
	}

	// No channel's output may be merged before all three are complete.
	err = s.sched.Wait(lane.Merge, done[:]...)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"merge", func() error { return frame.Merge(s.merged, &s.planes) }},
		{"threshold", func() error {
			return filter.ThresholdFrame(s.binary, s.merged, e.thresh, 0xff)
		}},
		{"background", func() error { return s.model.Apply(s.fg, s.binary) }},
		{"cleanup", func() error { return s.clean.apply(s.fg) }},
	}
	for _, st := range steps {
		err = s.sched.Submit(lane.Merge, st.name, st.fn)
		if err != nil {
			return err
		}
	}
	return nil
}

// Shutdown stops the session's lanes and releases its background model. It
// is safe to call more than once; later calls do nothing.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.sched.Close()
	merr := s.model.Close()
	if err == nil {
		err = merr
	}
	s.log.Info("detection session shut down", "session", s.id)
	return err
}

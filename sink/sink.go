/*
DESCRIPTION
  sink.go provides the Sink interface through which frames and their
  detections are presented, along with logging and fan-out sinks.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sink provides destinations for frames annotated with the regions
// detected in them.
package sink

import (
	"errors"
	"image"
	"image/color"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/edgemotion/frame"
)

// ErrStopped is returned by Present when the user has asked for the run to
// end, e.g. by pressing Esc in a preview window.
var ErrStopped = errors.New("stop requested")

// Sink is a destination for frames and their detections.
type Sink interface {
	// Present presents f with rects marked on it. f is not modified or
	// retained.
	Present(f *frame.Frame, rects []image.Rectangle) error

	// Close releases the resources held by the sink.
	Close() error
}

// BoxColour is the colour of drawn detection boxes.
var BoxColour = color.RGBA{R: 0, G: 0xff, B: 0, A: 0xff}

// Draw draws a 1 pixel outline of each of rects onto f in c. Parts of
// rectangles outside f are clipped.
func Draw(f *frame.Frame, rects []image.Rectangle, c color.RGBA) {
	b := f.Bounds()
	set := func(x, y int) {
		if !(image.Point{x, y}).In(b) {
			return
		}
		o := f.Offset(x, y)
		f.Pix[o], f.Pix[o+1], f.Pix[o+2] = c.B, c.G, c.R
	}
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			set(x, r.Min.Y)
			set(x, r.Max.Y-1)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			set(r.Min.X, y)
			set(r.Max.X-1, y)
		}
	}
}

// Log is a Sink that logs the detections of each frame.
type Log struct {
	log    logging.Logger
	frames int
}

// NewLog returns a Log sink writing to l.
func NewLog(l logging.Logger) *Log { return &Log{log: l} }

// Present implements Sink.
func (s *Log) Present(f *frame.Frame, rects []image.Rectangle) error {
	s.frames++
	if len(rects) == 0 {
		s.log.Debug("no motion", "frame", s.frames)
		return nil
	}
	for _, r := range rects {
		s.log.Info("motion detected", "frame", s.frames, "x", r.Min.X, "y", r.Min.Y, "width", r.Dx(), "height", r.Dy())
	}
	return nil
}

// Close implements Sink.
func (s *Log) Close() error { return nil }

// Multi presents to each of its sinks in turn. Present stops at the first
// error; Close closes every sink and returns the first error.
type Multi []Sink

// Present implements Sink.
func (m Multi) Present(f *frame.Frame, rects []image.Rectangle) error {
	for _, s := range m {
		err := s.Present(f, rects)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close implements Sink.
func (m Multi) Close() error {
	var first error
	for _, s := range m {
		err := s.Close()
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

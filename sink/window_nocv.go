//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  window_nocv.go replaces window.go when OpenCV is not available.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sink

import (
	"errors"
	"image"

	"github.com/ausocean/edgemotion/frame"
)

// ErrNoDisplay is returned by NewWindow when built without OpenCV.
var ErrNoDisplay = errors.New("display requires building with the withcv tag")

// Window is unavailable without OpenCV.
type Window struct{}

// NewWindow always returns ErrNoDisplay.
func NewWindow(title string) (*Window, error) { return nil, ErrNoDisplay }

// Present implements Sink.
func (w *Window) Present(f *frame.Frame, rects []image.Rectangle) error { return ErrNoDisplay }

// Close implements Sink.
func (w *Window) Close() error { return nil }

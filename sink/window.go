//go:build withcv
// +build withcv

/*
DESCRIPTION
  window.go provides a Sink that displays frames and their detections in an
  OpenCV window.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sink

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/device/capture"
	"github.com/ausocean/edgemotion/frame"
)

// keyEsc is the key code returned by WaitKey for the escape key.
const keyEsc = 27

// Window is a Sink displaying frames in an OpenCV window. Pressing Esc in
// the window causes Present to return ErrStopped.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) (*Window, error) {
	return &Window{win: gocv.NewWindow(title)}, nil
}

// Present implements Sink.
func (w *Window) Present(f *frame.Frame, rects []image.Rectangle) error {
	im, err := capture.ToMat(f)
	if err != nil {
		return fmt.Errorf("could not convert frame: %w", err)
	}
	defer im.Close()

	for _, r := range rects {
		gocv.Rectangle(&im, r, BoxColour, 1)
	}
	w.win.IMShow(im)
	if w.win.WaitKey(1) == keyEsc {
		return ErrStopped
	}
	return nil
}

// Close implements Sink.
func (w *Window) Close() error { return w.win.Close() }

//go:build withcv
// +build withcv

/*
DESCRIPTION
  mog_cv.go provides the Gaussian mixture using OpenCV's MOG2 background
  subtractor with shadow detection disabled.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgsub

import (
	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/frame"
)

type mixture struct {
	rate    float64
	history int
	varT    float64
	sub     gocv.BackgroundSubtractorMOG2
	closed  bool
}

func newMixture(w, h int, p Params) *mixture {
	m := &mixture{rate: p.LearningRate, history: p.Warmup, varT: p.VarThreshold}
	m.sub = gocv.NewBackgroundSubtractorMOG2WithParams(m.history, m.varT, false)
	return m
}

func (m *mixture) reset() {
	if m.closed {
		return
	}
	m.sub.Close()
	m.sub = gocv.NewBackgroundSubtractorMOG2WithParams(m.history, m.varT, false)
}

func (m *mixture) close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.sub.Close()
}

func (m *mixture) apply(mask *frame.Plane, f *frame.Frame, first bool) error {
	in, err := f.Mat()
	if err != nil {
		return err
	}
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()
	m.sub.ApplyWithParams(in, &out, m.rate)

	// MOG2 has no modes before its first frame and reports every pixel as
	// foreground; the first frame only seeds the model.
	if first {
		clear(mask.Pix)
		return nil
	}
	return mask.SetMat(out)
}

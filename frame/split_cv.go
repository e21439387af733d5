//go:build withcv
// +build withcv

/*
DESCRIPTION
  split_cv.go provides the channel split and merge using OpenCV, and the
  conversions between frames, planes and gocv Mats.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Mat returns a Mat header over the pixels of p. The Mat shares storage
// with p and must be closed by the caller.
func (p *Plane) Mat() (gocv.Mat, error) {
	if p.Empty() {
		return gocv.Mat{}, ErrEmpty
	}
	return gocv.NewMatFromBytes(p.Height, p.Width, gocv.MatTypeCV8UC1, p.Pix)
}

// SetMat copies the single channel 8-bit Mat m into p.
func (p *Plane) SetMat(m gocv.Mat) error {
	if m.Type() != gocv.MatTypeCV8UC1 {
		return fmt.Errorf("unsupported mat type %v for plane", m.Type())
	}
	if m.Cols() != p.Width || m.Rows() != p.Height {
		return fmt.Errorf("mat %dx%d, plane %dx%d: %w", m.Cols(), m.Rows(), p.Width, p.Height, ErrDimensionMismatch)
	}
	copy(p.Pix, m.ToBytes())
	return nil
}

// Mat returns a Mat header over the pixels of f. The Mat shares storage
// with f and must be closed by the caller.
func (f *Frame) Mat() (gocv.Mat, error) {
	if f.Empty() {
		return gocv.Mat{}, ErrEmpty
	}
	return gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
}

// SetMat copies the three channel 8-bit Mat m into f.
func (f *Frame) SetMat(m gocv.Mat) error {
	if m.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("unsupported mat type %v for frame", m.Type())
	}
	if m.Cols() != f.Width || m.Rows() != f.Height {
		return fmt.Errorf("mat %dx%d, frame %dx%d: %w", m.Cols(), m.Rows(), f.Width, f.Height, ErrDimensionMismatch)
	}
	copy(f.Pix, m.ToBytes())
	return nil
}

func split(dst *[Channels]*Plane, src *Frame) error {
	in, err := src.Mat()
	if err != nil {
		return err
	}
	defer in.Close()

	mv := gocv.Split(in)
	defer func() {
		for _, m := range mv {
			m.Close()
		}
	}()
	if len(mv) != Channels {
		return fmt.Errorf("split gave %d channels", len(mv))
	}
	for c, m := range mv {
		err = dst[c].SetMat(m)
		if err != nil {
			return fmt.Errorf("%v: %w", Channel(c), err)
		}
	}
	return nil
}

func merge(dst *Frame, src *[Channels]*Plane) error {
	mv := make([]gocv.Mat, 0, Channels)
	defer func() {
		for _, m := range mv {
			m.Close()
		}
	}()
	for c, p := range src {
		m, err := p.Mat()
		if err != nil {
			return fmt.Errorf("%v: %w", Channel(c), err)
		}
		mv = append(mv, m)
	}

	out := gocv.NewMat()
	defer out.Close()
	gocv.Merge(mv, &out)
	return dst.SetMat(out)
}

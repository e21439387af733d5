//go:build withcv
// +build withcv

/*
DESCRIPTION
  morph_cv.go provides the morphology passes using OpenCV. OpenCV's default
  morphology border ignores pixels outside the image, as the pure Go passes
  do.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/frame"
)

// mat returns the structuring element as an 8-bit Mat, which the caller must
// close.
func (k Kernel) mat() (gocv.Mat, error) {
	b := make([]uint8, len(k.mask))
	for i, in := range k.mask {
		if in {
			b[i] = 1
		}
	}
	return gocv.NewMatFromBytes(k.Height, k.Width, gocv.MatTypeCV8UC1, b)
}

func (m *Morphology) run(dst, src, tmp *frame.Plane) error {
	k, err := m.kernel.mat()
	if err != nil {
		return fmt.Errorf("%v filter kernel: %w", m.op, err)
	}
	defer k.Close()
	in, err := src.Mat()
	if err != nil {
		return fmt.Errorf("%v filter: %w", m.op, err)
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()
	switch {
	case m.op == Open && len(m.passes) == 2:
		gocv.MorphologyEx(in, &out, gocv.MorphOpen, k)
	case m.op == Close && len(m.passes) == 2:
		gocv.MorphologyEx(in, &out, gocv.MorphClose, k)
	default:
		cur := in.Clone()
		for _, dilate := range m.passes {
			if dilate {
				gocv.Dilate(cur, &out, k)
			} else {
				gocv.Erode(cur, &out, k)
			}
			out.CopyTo(&cur)
		}
		cur.Close()
	}
	return dst.SetMat(out)
}

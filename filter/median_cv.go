//go:build withcv
// +build withcv

/*
DESCRIPTION
  median_cv.go provides the median filter using OpenCV's MedianBlur, which
  replicates edge pixels.

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

func (m *Median) run(dst, src *frame.Plane) error {
	in, err := src.Mat()
	if err != nil {
		return fmt.Errorf("median filter: %w", err)
	}
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()
	gocv.MedianBlur(in, &out, m.size)
	return dst.SetMat(out)
}

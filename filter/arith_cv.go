//go:build withcv
// +build withcv

/*
DESCRIPTION
  arith_cv.go provides the pixelwise operations using OpenCV.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/frame"
)

// binary applies op to the Mats of a and b and copies the result to dst.
func binary(dst, a, b *frame.Plane, op func(a, b gocv.Mat, dst *gocv.Mat)) error {
	ma, err := a.Mat()
	if err != nil {
		return err
	}
	defer ma.Close()
	mb, err := b.Mat()
	if err != nil {
		return err
	}
	defer mb.Close()
	out := gocv.NewMat()
	defer out.Close()
	op(ma, mb, &out)
	return dst.SetMat(out)
}

// 8-bit Subtract saturates at zero.
func subtract(dst, a, b *frame.Plane) error { return binary(dst, a, b, gocv.Subtract) }

func absDiff(dst, a, b *frame.Plane) error { return binary(dst, a, b, gocv.AbsDiff) }

func normalize(dst, src *frame.Plane) error {
	in, err := src.Mat()
	if err != nil {
		return err
	}
	defer in.Close()

	// OpenCV maps a constant plane to zero.
	lo, hi, _, _ := gocv.MinMaxLoc(in)
	if lo == hi {
		copy(dst.Pix, src.Pix)
		return nil
	}
	out := gocv.NewMat()
	defer out.Close()
	gocv.Normalize(in, &out, 0, 255, gocv.NormMinMax)
	return dst.SetMat(out)
}

func threshold(dst, src []uint8, thresh, maxVal uint8) error {
	in, err := gocv.NewMatFromBytes(1, len(src), gocv.MatTypeCV8UC1, src)
	if err != nil {
		return err
	}
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()
	gocv.Threshold(in, &out, float32(thresh), float32(maxVal), gocv.ThresholdBinary)
	copy(dst, out.ToBytes())
	return nil
}

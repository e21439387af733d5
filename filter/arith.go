/*
DESCRIPTION
  arith.go provides pixelwise operations: saturating and absolute
  differences, min-max normalisation and binary thresholding.

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

	"github.com/ausocean/edgemotion/frame"
)

func checkTriple(dst, a, b *frame.Plane) error {
	if a.Empty() || b.Empty() || dst.Empty() {
		return frame.ErrEmpty
	}
	if !frame.SameSize(dst, a, b) {
		return frame.ErrDimensionMismatch
	}
	return nil
}

// Subtract sets dst to a-b, saturating at zero.
func Subtract(dst, a, b *frame.Plane) error {
	err := checkTriple(dst, a, b)
	if err != nil {
		return fmt.Errorf("subtract: %w", err)
	}
	return subtract(dst, a, b)
}

// AbsDiff sets dst to |a-b|.
func AbsDiff(dst, a, b *frame.Plane) error {
	err := checkTriple(dst, a, b)
	if err != nil {
		return fmt.Errorf("absdiff: %w", err)
	}
	return absDiff(dst, a, b)
}

// Normalize linearly rescales src so that its minimum maps to 0 and its
// maximum to 255, rounding to nearest. Ties round up in pure Go and to even
// with OpenCV. A constant plane has no range to stretch and is copied
// unchanged. dst may be src.
func Normalize(dst, src *frame.Plane) error {
	if src.Empty() || dst.Empty() {
		return fmt.Errorf("normalize: %w", frame.ErrEmpty)
	}
	if !frame.SameSize(dst, src) {
		return fmt.Errorf("normalize: %w", frame.ErrDimensionMismatch)
	}
	return normalize(dst, src)
}

// Threshold sets each element of dst to maxVal where the corresponding
// element of src is greater than thresh, and to zero otherwise. dst may be
// src.
func Threshold(dst, src []uint8, thresh, maxVal uint8) error {
	if len(dst) != len(src) {
		return fmt.Errorf("threshold: dst has %d elements, src %d: %w", len(dst), len(src), frame.ErrDimensionMismatch)
	}
	if len(src) == 0 {
		return nil
	}
	return threshold(dst, src, thresh, maxVal)
}

// ThresholdPlane applies Threshold to a Plane.
func ThresholdPlane(dst, src *frame.Plane, thresh, maxVal uint8) error {
	if src.Empty() || dst.Empty() {
		return fmt.Errorf("threshold: %w", frame.ErrEmpty)
	}
	if !frame.SameSize(dst, src) {
		return fmt.Errorf("threshold: %w", frame.ErrDimensionMismatch)
	}
	return Threshold(dst.Pix, src.Pix, thresh, maxVal)
}

// ThresholdFrame applies Threshold to every channel of a Frame.
func ThresholdFrame(dst, src *frame.Frame, thresh, maxVal uint8) error {
	if src.Empty() || dst.Empty() {
		return fmt.Errorf("threshold: %w", frame.ErrEmpty)
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("threshold: %w", frame.ErrDimensionMismatch)
	}
	return Threshold(dst.Pix, src.Pix, thresh, maxVal)
}

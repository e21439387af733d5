/*
DESCRIPTION
  kernel.go provides structuring elements for the morphology filters.

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
	"image"
	"math"
	"strings"
)

// Shape is the shape of a structuring element.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeCross
	ShapeEllipse
)

func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeCross:
		return "cross"
	case ShapeEllipse:
		return "ellipse"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// ParseShape returns the Shape named by s.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "rect":
		return ShapeRect, nil
	case "cross":
		return ShapeCross, nil
	case "ellipse":
		return ShapeEllipse, nil
	default:
		return 0, fmt.Errorf("unknown kernel shape %q: %w", s, ErrKernel)
	}
}

// Kernel is a binary structuring element with its anchor at the centre.
type Kernel struct {
	Width  int
	Height int
	Anchor image.Point
	mask   []bool
}

// NewKernel returns a structuring element of the given shape and size,
// constructed the same way as OpenCV's getStructuringElement.
func NewKernel(s Shape, w, h int) (Kernel, error) {
	if w <= 0 || h <= 0 {
		return Kernel{}, fmt.Errorf("kernel size %dx%d: %w", w, h, ErrKernel)
	}
	if s < ShapeRect || s > ShapeEllipse {
		return Kernel{}, fmt.Errorf("%v: %w", s, ErrKernel)
	}

	k := Kernel{Width: w, Height: h, Anchor: image.Pt(w/2, h/2), mask: make([]bool, w*h)}
	r, c := h/2, w/2
	var invR2 float64
	if r != 0 {
		invR2 = 1 / float64(r*r)
	}
	for i := 0; i < h; i++ {
		var j1, j2 int
		switch {
		case s == ShapeRect || (s == ShapeCross && i == k.Anchor.Y):
			j2 = w
		case s == ShapeCross:
			j1, j2 = k.Anchor.X, k.Anchor.X+1
		default:
			dy := i - r
			if abs(dy) <= r {
				dx := int(math.Round(float64(c) * math.Sqrt(float64(r*r-dy*dy)*invR2)))
				j1 = max(c-dx, 0)
				j2 = min(c+dx+1, w)
			}
		}
		for j := j1; j < j2; j++ {
			k.mask[i*w+j] = true
		}
	}
	return k, nil
}

// Contains reports whether (x, y), in kernel coordinates, is part of the element.
func (k Kernel) Contains(x, y int) bool { return k.mask[y*k.Width+x] }

// offsets returns the set elements of k relative to its anchor.
func (k Kernel) offsets() []image.Point {
	var offs []image.Point
	for y := 0; y < k.Height; y++ {
		for x := 0; x < k.Width; x++ {
			if k.Contains(x, y) {
				offs = append(offs, image.Pt(x-k.Anchor.X, y-k.Anchor.Y))
			}
		}
	}
	return offs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

/*
DESCRIPTION
  contour.go provides border following over binary masks, using the
  algorithm of Suzuki and Abe, together with the area and bounding
  rectangle of the borders found.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package contour finds the borders of connected regions in binary masks.
//
// Borders are found with the border following algorithm of S. Suzuki and
// K. Abe, "Topological Structural Analysis of Digitized Binary Images by
// Border Following", CVGIP 30, 1985. Both outer borders and hole borders
// are returned, in the raster order of their starting pixels, with their
// parent in the border hierarchy. Built with the withcv tag, the borders,
// areas and bounding rectangles come from OpenCV, whose findContours
// implements the same algorithm.
package contour

import (
	"image"

	"github.com/ausocean/edgemotion/frame"
)

// Contour is a closed border of a connected region.
type Contour struct {
	// Points are the border vertices with collinear runs compressed to
	// their end points.
	Points []image.Point

	// Hole is true for a border between a region and a hole inside it.
	Hole bool

	// Parent is the index of the enclosing border, or -1 if there is none.
	Parent int
}

// Area returns the area enclosed by the contour's vertices.
func (c Contour) Area() float64 { return Area(c.Points) }

// Bounds returns the smallest rectangle containing every border pixel.
func (c Contour) Bounds() image.Rectangle { return BoundingRect(c.Points) }

// Find returns the borders of the non-zero regions of mask. The mask is not
// modified.
func Find(mask *frame.Plane) ([]Contour, error) {
	if mask.Empty() {
		return nil, frame.ErrEmpty
	}
	return NewFinder(mask.Width, mask.Height).Find(mask)
}

// Find returns the borders of the non-zero regions of mask.
func (f *Finder) Find(mask *frame.Plane) ([]Contour, error) {
	if mask.Empty() {
		return nil, frame.ErrEmpty
	}
	if w, h := f.size(); mask.Width != w || mask.Height != h {
		return nil, frame.ErrDimensionMismatch
	}
	return f.find(mask)
}

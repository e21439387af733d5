//go:build withcv
// +build withcv

/*
DESCRIPTION
  contour_cv.go provides border following, areas and bounding rectangles
  using OpenCV.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package contour

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/frame"
)

// Finder finds contours in masks of a fixed size. A Finder is not safe for
// concurrent use.
type Finder struct {
	w, h int
}

// NewFinder returns a Finder for masks of size w×h.
func NewFinder(w, h int) *Finder { return &Finder{w: w, h: h} }

func (f *Finder) size() (w, h int) { return f.w, f.h }

// Hierarchy entries are next, previous, first child and parent.
const hierParent = 3

func (f *Finder) find(mask *frame.Plane) ([]Contour, error) {
	m, err := mask.Mat()
	if err != nil {
		return nil, err
	}
	defer m.Close()
	hier := gocv.NewMat()
	defer hier.Close()
	pv := gocv.FindContoursWithParams(m, &hier, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer pv.Close()

	n := pv.Size()
	if n == 0 {
		return nil, nil
	}
	if hier.Cols() != n {
		return nil, fmt.Errorf("hierarchy has %d entries for %d contours", hier.Cols(), n)
	}
	cs := make([]Contour, n)
	for i := range cs {
		cs[i].Points = pv.At(i).ToPoints()
		cs[i].Parent = int(hier.GetVeciAt(0, i)[hierParent])
	}

	// Borders alternate between outer and hole with depth in the tree.
	for i := range cs {
		for p := cs[i].Parent; p >= 0; p = cs[p].Parent {
			cs[i].Hole = !cs[i].Hole
		}
	}

	// OpenCV's order is not raster order. Each border starts at a distinct
	// pixel, so sorting by start point restores it.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		pa, pb := cs[order[a]].Points[0], cs[order[b]].Points[0]
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		return pa.X < pb.X
	})
	rank := make([]int, n)
	for r, i := range order {
		rank[i] = r
	}
	out := make([]Contour, n)
	for r, i := range order {
		out[r] = cs[i]
		if p := cs[i].Parent; p >= 0 {
			out[r].Parent = rank[p]
		}
	}
	return out, nil
}

// Area returns the absolute area of the polygon with the given vertices.
func Area(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	pv := gocv.NewPointVectorFromPoints(pts)
	defer pv.Close()
	return gocv.ContourArea(pv)
}

// BoundingRect returns the smallest rectangle containing every point, each
// point being taken as a whole pixel.
func BoundingRect(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	pv := gocv.NewPointVectorFromPoints(pts)
	defer pv.Close()
	return gocv.BoundingRect(pv)
}

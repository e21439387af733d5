//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  contour_nocv.go provides the pure Go border follower, used when OpenCV is
  not available.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package contour

import (
	"image"
	"math"

	"github.com/ausocean/edgemotion/frame"
)

// Neighbour offsets in clockwise order starting east, as (row, column).
var dirs = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

// Finder finds contours in masks of a fixed size, reusing its label image
// between calls. A Finder is not safe for concurrent use.
type Finder struct {
	w, h   int // Padded dimensions.
	labels []int32
}

// NewFinder returns a Finder for masks of size w×h.
func NewFinder(w, h int) *Finder {
	return &Finder{w: w + 2, h: h + 2, labels: make([]int32, (w+2)*(h+2))}
}

func (f *Finder) size() (w, h int) { return f.w - 2, f.h - 2 }

func (f *Finder) find(mask *frame.Plane) ([]Contour, error) {
	// Copy the mask into the label image with a one pixel zero frame, so
	// that no border touches the edge.
	clear(f.labels)
	for y := 0; y < mask.Height; y++ {
		row := mask.Pix[y*mask.Width : (y+1)*mask.Width]
		for x, v := range row {
			if v != 0 {
				f.labels[(y+1)*f.w+x+1] = 1
			}
		}
	}

	var (
		contours []Contour
		nbd      int32 = 1 // Label 1 is the frame, a hole border with no parent.
	)

	// Label n belongs to contours[n-2]; the frame has no entry.
	isHole := func(n int32) bool { return n == 1 || contours[n-2].Hole }
	parentOf := func(n int32) int {
		if n == 1 {
			return -1
		}
		return contours[n-2].Parent
	}
	index := func(n int32) int {
		if n == 1 {
			return -1
		}
		return int(n - 2)
	}

	for i := 1; i < f.h-1; i++ {
		lnbd := int32(1)
		for j := 1; j < f.w-1; j++ {
			v := f.labels[i*f.w+j]
			if v == 0 {
				continue
			}

			var (
				hole   bool
				from   [2]int
				follow = true
			)
			switch {
			case v == 1 && f.labels[i*f.w+j-1] == 0:
				from = [2]int{i, j - 1}
			case v >= 1 && f.labels[i*f.w+j+1] == 0:
				hole = true
				from = [2]int{i, j + 1}
				if v > 1 {
					lnbd = v
				}
			default:
				follow = false
			}

			if follow {
				nbd++
				parent := index(lnbd)
				if hole == isHole(lnbd) {
					parent = parentOf(lnbd)
				}
				pts := f.follow(i, j, from, nbd)
				contours = append(contours, Contour{Points: compress(pts), Hole: hole, Parent: parent})
			}

			if v := f.labels[i*f.w+j]; v != 1 {
				lnbd = abs(v)
			}
		}
	}
	return contours, nil
}

// follow traces the border starting at (i, j), whose 0-valued neighbour is
// at from, labelling it nbd. It returns the border pixels in mask
// coordinates.
func (f *Finder) follow(i, j int, from [2]int, nbd int32) []image.Point {
	at := func(p [2]int) int32 { return f.labels[p[0]*f.w+p[1]] }
	dirTo := func(c, p [2]int) int {
		for d, o := range dirs {
			if c[0]+o[0] == p[0] && c[1]+o[1] == p[1] {
				return d
			}
		}
		panic("contour: points are not neighbours")
	}

	start := [2]int{i, j}

	// Search clockwise from the 0-valued neighbour for the first non-zero
	// pixel.
	d0 := dirTo(start, from)
	var (
		p1    [2]int
		found bool
	)
	for k := 0; k < 8; k++ {
		d := (d0 + k) % 8
		p := [2]int{i + dirs[d][0], j + dirs[d][1]}
		if at(p) != 0 {
			p1, found = p, true
			break
		}
	}
	if !found {
		f.labels[i*f.w+j] = -nbd
		return []image.Point{image.Pt(j-1, i-1)}
	}

	var (
		pts = []image.Point{image.Pt(j-1, i-1)}
		p2  = p1
		p3  = start
	)
	for {
		// Search counterclockwise around p3, starting after p2.
		d := dirTo(p3, p2)
		var (
			p4        [2]int
			eastEmpty bool
		)
		for k := 1; k <= 8; k++ {
			dd := (d - k + 8) % 8
			p := [2]int{p3[0] + dirs[dd][0], p3[1] + dirs[dd][1]}
			if at(p) != 0 {
				p4 = p
				break
			}
			if dd == 0 {
				eastEmpty = true
			}
		}

		idx := p3[0]*f.w + p3[1]
		switch {
		case eastEmpty:
			f.labels[idx] = -nbd
		case f.labels[idx] == 1:
			f.labels[idx] = nbd
		}

		if p4 == start && p3 == p1 {
			return pts
		}
		p2, p3 = p3, p4
		pts = append(pts, image.Pt(p3[1]-1, p3[0]-1))
	}
}

// compress removes the interior points of horizontal, vertical and
// diagonal runs from a closed chain of neighbouring points.
func compress(pts []image.Point) []image.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	out := pts[:0:0]
	for k := range pts {
		prev, next := pts[(k+n-1)%n], pts[(k+1)%n]
		if k == 0 || pts[k].Sub(prev) != next.Sub(pts[k]) {
			out = append(out, pts[k])
		}
	}
	return out
}

// Area returns the absolute area of the polygon with the given vertices,
// computed with the shoelace formula.
func Area(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var s int
	prev := pts[len(pts)-1]
	for _, p := range pts {
		s += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return math.Abs(float64(s)) / 2
}

// BoundingRect returns the smallest rectangle containing every point, each
// point being taken as a whole pixel.
func BoundingRect(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

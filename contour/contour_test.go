/*
DESCRIPTION
  contour_test.go provides testing for border following.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package contour

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/edgemotion/frame"
)

func rect(p *frame.Plane, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.Set(x, y, v)
		}
	}
}

func TestFindRectangle(t *testing.T) {
	tests := []struct {
		r    image.Rectangle
		area float64
	}{
		{r: image.Rect(10, 10, 35, 30), area: 456},
		{r: image.Rect(30, 30, 80, 70), area: 1911},
		{r: image.Rect(0, 0, 5, 5), area: 16},
		{r: image.Rect(95, 75, 100, 80), area: 16},
	}

	for i, test := range tests {
		mask := frame.NewPlane(100, 80)
		rect(mask, test.r, 255)
		cs, err := Find(mask)
		if err != nil {
			t.Fatalf("did not expect error for test %d: %v", i, err)
		}
		if len(cs) != 1 {
			t.Fatalf("got %d contours for test %d, want 1", len(cs), i)
		}
		c := cs[0]
		if c.Hole || c.Parent != -1 {
			t.Errorf("test %d: got hole=%v parent=%d, want outer border with no parent", i, c.Hole, c.Parent)
		}
		if got := c.Bounds(); got != test.r {
			t.Errorf("test %d: got bounds %v, want %v", i, got, test.r)
		}
		if got := c.Area(); got != test.area {
			t.Errorf("test %d: got area %v, want %v", i, got, test.area)
		}
		if len(c.Points) != 4 {
			t.Errorf("test %d: got %d vertices, want 4: %v", i, len(c.Points), c.Points)
		}
	}
}

func TestFindSinglePixel(t *testing.T) {
	mask := frame.NewPlane(5, 5)
	mask.Set(2, 3, 1)
	cs, err := Find(mask)
	if err != nil {
		t.Fatal(err)
	}
	want := []Contour{{Points: []image.Point{{2, 3}}, Parent: -1}}
	if !cmp.Equal(cs, want) {
		t.Errorf("got %v, want %v", cs, want)
	}
	if a := cs[0].Area(); a != 0 {
		t.Errorf("got area %v, want 0", a)
	}
	if b := cs[0].Bounds(); b != image.Rect(2, 3, 3, 4) {
		t.Errorf("got bounds %v", b)
	}
}

func TestFindHierarchy(t *testing.T) {
	// A ring containing a dot.
	mask := frame.NewPlane(20, 20)
	rect(mask, image.Rect(2, 2, 18, 18), 255)
	rect(mask, image.Rect(5, 5, 15, 15), 0)
	rect(mask, image.Rect(9, 9, 11, 11), 255)

	cs, err := Find(mask)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 3 {
		t.Fatalf("got %d contours, want 3: %+v", len(cs), cs)
	}

	type summary struct {
		Hole   bool
		Parent int
		Bounds image.Rectangle
	}
	var got []summary
	for _, c := range cs {
		got = append(got, summary{c.Hole, c.Parent, c.Bounds()})
	}
	want := []summary{
		{Hole: false, Parent: -1, Bounds: image.Rect(2, 2, 18, 18)},
		// The hole border runs through the ring pixels around the hole.
		{Hole: true, Parent: 0, Bounds: image.Rect(4, 4, 16, 16)},
		{Hole: false, Parent: 1, Bounds: image.Rect(9, 9, 11, 11)},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected hierarchy\ngot: %+v\nwant: %+v", got, want)
	}
}

func TestFindOrder(t *testing.T) {
	mask := frame.NewPlane(40, 40)
	rect(mask, image.Rect(20, 5, 30, 10), 1)
	rect(mask, image.Rect(2, 20, 8, 30), 1)
	rect(mask, image.Rect(2, 2, 6, 6), 1)

	cs, err := Find(mask)
	if err != nil {
		t.Fatal(err)
	}
	var got []image.Rectangle
	for _, c := range cs {
		got = append(got, c.Bounds())
	}
	want := []image.Rectangle{
		image.Rect(2, 2, 6, 6),
		image.Rect(20, 5, 30, 10),
		image.Rect(2, 20, 8, 30),
	}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFinderReuse(t *testing.T) {
	f := NewFinder(30, 30)
	a := frame.NewPlane(30, 30)
	rect(a, image.Rect(3, 3, 10, 10), 1)
	b := frame.NewPlane(30, 30)
	rect(b, image.Rect(12, 12, 20, 25), 1)

	first, err := f.Find(a)
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.Find(b)
	if err != nil {
		t.Fatal(err)
	}
	again, err := f.Find(a)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(first, again) {
		t.Errorf("results changed between calls\nfirst: %v\nagain: %v", first, again)
	}

	_, err = f.Find(frame.NewPlane(31, 30))
	if !errors.Is(err, frame.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	_, err = f.Find(&frame.Plane{})
	if !errors.Is(err, frame.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestArea(t *testing.T) {
	tests := []struct {
		pts  []image.Point
		want float64
	}{
		{pts: nil, want: 0},
		{pts: []image.Point{{0, 0}, {4, 0}}, want: 0},
		{pts: []image.Point{{0, 0}, {4, 0}, {4, 3}}, want: 6},
		{pts: []image.Point{{0, 0}, {0, 3}, {4, 3}, {4, 0}}, want: 12},
	}
	for i, test := range tests {
		if got := Area(test.pts); got != test.want {
			t.Errorf("test %d: got %v, want %v", i, got, test.want)
		}
	}
}

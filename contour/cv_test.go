//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv_test.go checks the OpenCV backed contour extraction: its ordering and
  hierarchy, and its areas and rectangles against direct OpenCV calls.

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
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/frame"
)

func TestMatchesOpenCV(t *testing.T) {
	const w, h = 120, 90
	rnd := rand.New(rand.NewSource(3))
	mask := frame.NewPlane(w, h)
	for i := 0; i < 12; i++ {
		x, y := rnd.Intn(w-10), rnd.Intn(h-10)
		rw, rh := 2+rnd.Intn(25), 2+rnd.Intn(25)
		for yy := y; yy < min(y+rh, h); yy++ {
			for xx := x; xx < min(x+rw, w); xx++ {
				mask.Set(xx, yy, 0xff)
			}
		}
	}

	cs, err := Find(mask)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	var gotAreas []float64
	var gotRects []image.Rectangle
	for _, c := range cs {
		gotAreas = append(gotAreas, c.Area())
		gotRects = append(gotRects, c.Bounds())
	}

	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, append([]uint8(nil), mask.Pix...))
	if err != nil {
		t.Fatalf("could not create mat: %v", err)
	}
	defer m.Close()
	pv := gocv.FindContours(m, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer pv.Close()
	var wantAreas []float64
	var wantRects []image.Rectangle
	for i := 0; i < pv.Size(); i++ {
		wantAreas = append(wantAreas, gocv.ContourArea(pv.At(i)))
		wantRects = append(wantRects, gocv.BoundingRect(pv.At(i)))
	}

	for i, c := range cs {
		if i > 0 {
			a, b := cs[i-1].Points[0], c.Points[0]
			if a.Y > b.Y || a.Y == b.Y && a.X >= b.X {
				t.Errorf("contour %d starts at %v, after contour %d at %v", i, b, i-1, a)
			}
		}
		if c.Parent >= i {
			t.Errorf("contour %d has parent %d, which is not before it", i, c.Parent)
		}
		wantHole := c.Parent >= 0 && !cs[c.Parent].Hole
		if c.Hole != wantHole {
			t.Errorf("contour %d: got hole %t, want %t", i, c.Hole, wantHole)
		}
	}

	sort.Float64s(gotAreas)
	sort.Float64s(wantAreas)
	if !cmp.Equal(gotAreas, wantAreas) {
		t.Errorf("contour areas differ from OpenCV (-got +want):\n%s", cmp.Diff(gotAreas, wantAreas))
	}
	byOrigin := func(r []image.Rectangle) func(i, j int) bool {
		return func(i, j int) bool {
			if r[i].Min.Y != r[j].Min.Y {
				return r[i].Min.Y < r[j].Min.Y
			}
			if r[i].Min.X != r[j].Min.X {
				return r[i].Min.X < r[j].Min.X
			}
			return r[i].Max.Y*w+r[i].Max.X < r[j].Max.Y*w+r[j].Max.X
		}
	}
	sort.Slice(gotRects, byOrigin(gotRects))
	sort.Slice(wantRects, byOrigin(wantRects))
	if !cmp.Equal(gotRects, wantRects) {
		t.Errorf("bounding rectangles differ from OpenCV (-got +want):\n%s", cmp.Diff(gotRects, wantRects))
	}
}

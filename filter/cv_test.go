//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv_test.go checks that the OpenCV backed filters build their structuring
  elements as OpenCV does, and agree with direct OpenCV calls.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/frame"
)

func toMat(t *testing.T, p *frame.Plane) gocv.Mat {
	t.Helper()
	m, err := p.Mat()
	if err != nil {
		t.Fatalf("could not create mat: %v", err)
	}
	return m
}

func TestMorphologyMatchesOpenCV(t *testing.T) {
	shapes := map[Shape]gocv.MorphShape{
		ShapeRect:    gocv.MorphRect,
		ShapeCross:   gocv.MorphCross,
		ShapeEllipse: gocv.MorphEllipse,
	}
	src := randomPlane(41, 29, 1)
	for shape, cvShape := range shapes {
		for _, size := range []int{3, 5, 7} {
			k, err := NewKernel(shape, size, size)
			if err != nil {
				t.Fatalf("could not create kernel: %v", err)
			}
			cvK := gocv.GetStructuringElement(cvShape, image.Pt(size, size))

			for _, op := range []MorphOp{Erode, Dilate} {
				m, err := NewMorphology(op, k, 1)
				if err != nil {
					t.Fatalf("could not create morphology: %v", err)
				}
				got := frame.NewPlane(src.Width, src.Height)
				err = m.Apply(got, src, nil)
				if err != nil {
					t.Fatalf("did not expect error: %v", err)
				}

				in := toMat(t, src)
				out := gocv.NewMat()
				if op == Erode {
					gocv.Erode(in, &out, cvK)
				} else {
					gocv.Dilate(in, &out, cvK)
				}
				want := out.ToBytes()
				in.Close()
				out.Close()

				if !cmp.Equal(got.Pix, want) {
					t.Errorf("%v %v %dx%d differs from OpenCV", shape, op, size, size)
				}
			}
			cvK.Close()
		}
	}
}

func TestMedianMatchesOpenCV(t *testing.T) {
	src := randomPlane(37, 23, 2)
	for _, size := range []int{3, 5} {
		med, err := NewMedian(size)
		if err != nil {
			t.Fatalf("could not create median: %v", err)
		}
		got := frame.NewPlane(src.Width, src.Height)
		err = med.Apply(got, src)
		if err != nil {
			t.Fatalf("did not expect error: %v", err)
		}

		in := toMat(t, src)
		out := gocv.NewMat()
		gocv.MedianBlur(in, &out, size)
		want := out.ToBytes()
		in.Close()
		out.Close()

		if !cmp.Equal(got.Pix, want) {
			t.Errorf("median %d differs from OpenCV", size)
		}
	}
}

func TestNormalizeConstantPlane(t *testing.T) {
	src := frame.NewPlane(9, 7)
	for i := range src.Pix {
		src.Pix[i] = 77
	}
	dst := frame.NewPlane(9, 7)
	err := Normalize(dst, src)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(dst, src) {
		t.Error("constant plane was not copied unchanged")
	}
}

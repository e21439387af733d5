//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  morph_nocv.go provides the pure Go morphology passes, used when OpenCV is
  not available.

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

	"github.com/ausocean/edgemotion/frame"
)

func (m *Morphology) run(dst, src, tmp *frame.Plane) error {
	// Alternate between dst and tmp so that the final pass lands in dst.
	in := src
	for i, dilate := range m.passes {
		out := dst
		if (len(m.passes)-1-i)%2 == 1 {
			out = tmp
		}
		rank(out, in, m.offs, dilate)
		in = out
	}
	return nil
}

// rank sets each pixel of dst to the maximum (dilate) or minimum (erode) of
// src over the structuring element. Pixels outside the image are ignored.
func rank(dst, src *frame.Plane, offs []image.Point, dilate bool) {
	w, h := src.Width, src.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			if !dilate {
				v = 0xff
			}
			for _, o := range offs {
				sx, sy := x+o.X, y+o.Y
				if sx < 0 || sy < 0 || sx >= w || sy >= h {
					continue
				}
				p := src.Pix[sy*w+sx]
				if dilate && p > v || !dilate && p < v {
					v = p
				}
			}
			dst.Pix[y*w+x] = v
		}
	}
}

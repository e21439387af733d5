//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  median_nocv.go provides the pure Go median filter, used when OpenCV is not
  available.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import "github.com/ausocean/edgemotion/frame"

func (m *Median) run(dst, src *frame.Plane) error {
	w, h, r := src.Width, src.Height, m.size/2
	win := make([]uint8, m.size*m.size)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -r; dy <= r; dy++ {
				sy := clamp(y+dy, 0, h-1)
				row := src.Pix[sy*w : sy*w+w]
				for dx := -r; dx <= r; dx++ {
					// Insertion sort as we go; windows are small.
					v := row[clamp(x+dx, 0, w-1)]
					i := n
					for i > 0 && win[i-1] > v {
						win[i] = win[i-1]
						i--
					}
					win[i] = v
					n++
				}
			}
			dst.Pix[y*w+x] = win[n/2]
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

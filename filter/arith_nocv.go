//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  arith_nocv.go provides the pure Go pixelwise operations, used when OpenCV
  is not available.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import "github.com/ausocean/edgemotion/frame"

func subtract(dst, a, b *frame.Plane) error {
	for i := range dst.Pix {
		if a.Pix[i] > b.Pix[i] {
			dst.Pix[i] = a.Pix[i] - b.Pix[i]
		} else {
			dst.Pix[i] = 0
		}
	}
	return nil
}

func absDiff(dst, a, b *frame.Plane) error {
	for i := range dst.Pix {
		if a.Pix[i] > b.Pix[i] {
			dst.Pix[i] = a.Pix[i] - b.Pix[i]
		} else {
			dst.Pix[i] = b.Pix[i] - a.Pix[i]
		}
	}
	return nil
}

func normalize(dst, src *frame.Plane) error {
	lo, hi := uint8(0xff), uint8(0)
	for _, v := range src.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		copy(dst.Pix, src.Pix)
		return nil
	}

	var lut [256]uint8
	rng := int(hi - lo)
	for v := int(lo); v <= int(hi); v++ {
		lut[v] = uint8(((v-int(lo))*255*2 + rng) / (2 * rng))
	}
	for i, v := range src.Pix {
		dst.Pix[i] = lut[v]
	}
	return nil
}

func threshold(dst, src []uint8, thresh, maxVal uint8) error {
	for i, v := range src {
		if v > thresh {
			dst[i] = maxVal
		} else {
			dst[i] = 0
		}
	}
	return nil
}

//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  split_nocv.go provides the pure Go channel split and merge, used when
  OpenCV is not available.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

func split(dst *[Channels]*Plane, src *Frame) error {
	b, g, r := dst[Blue].Pix, dst[Green].Pix, dst[Red].Pix
	for i, j := 0, 0; i < len(b); i, j = i+1, j+Channels {
		b[i] = src.Pix[j]
		g[i] = src.Pix[j+1]
		r[i] = src.Pix[j+2]
	}
	return nil
}

func merge(dst *Frame, src *[Channels]*Plane) error {
	b, g, r := src[Blue].Pix, src[Green].Pix, src[Red].Pix
	for i, j := 0, 0; i < len(b); i, j = i+1, j+Channels {
		dst.Pix[j] = b[i]
		dst.Pix[j+1] = g[i]
		dst.Pix[j+2] = r[i]
	}
	return nil
}

/*
DESCRIPTION
  image.go provides conversion between Frames and the standard library's
  image types so that frames can be decoded from and encoded to JPEG.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import (
	"image"
	"image/color"
)

// FromImage converts img into a BGR Frame.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())

	// Decoded JPEGs are almost always YCbCr; avoid the interface conversions
	// of At for them.
	if yc, ok := img.(*image.YCbCr); ok {
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				yi := yc.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := yc.COffset(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(yc.Y[yi], yc.Cb[ci], yc.Cr[ci])
				o := f.Offset(x, y)
				f.Pix[o], f.Pix[o+1], f.Pix[o+2] = bl, g, r
			}
		}
		return f
	}

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := f.Offset(x, y)
			f.Pix[o], f.Pix[o+1], f.Pix[o+2] = uint8(bl>>8), uint8(g>>8), uint8(r>>8)
		}
	}
	return f
}

// ToImage converts a BGR Frame into an opaque RGBA image.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for i, j := 0, 0; i < len(f.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = f.Pix[i+2]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i]
		img.Pix[j+3] = 0xff
	}
	return img
}

// Gray returns p as an image.Gray sharing p's pixel storage.
func (p *Plane) Gray() *image.Gray {
	return &image.Gray{Pix: p.Pix, Stride: p.Width, Rect: image.Rect(0, 0, p.Width, p.Height)}
}

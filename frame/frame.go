/*
DESCRIPTION
  frame.go provides the pixel containers used by the detection pipeline: a
  three channel interleaved Frame and a single channel Plane, along with the
  split and merge operations that convert between them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides dense 8-bit frame and plane types and the channel
// split/merge operations used by the detection pipeline.
package frame

import (
	"errors"
	"fmt"
	"image"
)

// Channels is the number of interleaved channels in a Frame.
const Channels = 3

// Errors returned by frame operations.
var (
	ErrEmpty             = errors.New("empty or zero dimension image")
	ErrDimensionMismatch = errors.New("image dimensions do not match")
)

// Channel identifies one of the colour planes of a Frame. Channels are
// numbered in storage order, which for OpenCV captures and decoded JPEGs is
// blue, green, red.
type Channel int

const (
	Blue Channel = iota
	Green
	Red
)

func (c Channel) String() string {
	switch c {
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Red:
		return "red"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Frame is a dense image with three interleaved 8-bit channels. The stride
// is always 3*Width.
type Frame struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewFrame returns a zeroed Frame of the given size.
func NewFrame(w, h int) *Frame {
	return &Frame{Pix: make([]uint8, w*h*Channels), Width: w, Height: h}
}

// Empty reports whether f holds no pixels or has inconsistent storage.
func (f *Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0 || len(f.Pix) != f.Width*f.Height*Channels
}

// Bounds returns the frame bounds as an image.Rectangle anchored at the origin.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// Offset returns the index of channel 0 of the pixel at (x, y).
func (f *Frame) Offset(x, y int) int { return (y*f.Width + x) * Channels }

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := &Frame{Pix: make([]uint8, len(f.Pix)), Width: f.Width, Height: f.Height}
	copy(c.Pix, f.Pix)
	return c
}

// Plane is a dense single channel 8-bit image with stride Width.
type Plane struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewPlane returns a zeroed Plane of the given size.
func NewPlane(w, h int) *Plane {
	return &Plane{Pix: make([]uint8, w*h), Width: w, Height: h}
}

// Empty reports whether p holds no pixels or has inconsistent storage.
func (p *Plane) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0 || len(p.Pix) != p.Width*p.Height
}

// At returns the value at (x, y).
func (p *Plane) At(x, y int) uint8 { return p.Pix[y*p.Width+x] }

// Set sets the value at (x, y).
func (p *Plane) Set(x, y int, v uint8) { p.Pix[y*p.Width+x] = v }

// Clone returns a deep copy of p.
func (p *Plane) Clone() *Plane {
	c := &Plane{Pix: make([]uint8, len(p.Pix)), Width: p.Width, Height: p.Height}
	copy(c.Pix, p.Pix)
	return c
}

// SameSize reports whether all the given planes share the dimensions of the first.
func SameSize(planes ...*Plane) bool {
	for _, p := range planes[1:] {
		if p.Width != planes[0].Width || p.Height != planes[0].Height {
			return false
		}
	}
	return true
}

// Split decomposes src into its three channel planes, written to dst in
// channel order. The destination planes must already be allocated with the
// dimensions of src.
func Split(dst *[Channels]*Plane, src *Frame) error {
	if src.Empty() {
		return ErrEmpty
	}
	for c, p := range dst {
		if p.Empty() {
			return fmt.Errorf("destination plane %v: %w", Channel(c), ErrEmpty)
		}
		if p.Width != src.Width || p.Height != src.Height {
			return fmt.Errorf("destination plane %v is %dx%d, frame is %dx%d: %w", Channel(c), p.Width, p.Height, src.Width, src.Height, ErrDimensionMismatch)
		}
	}

	return split(dst, src)
}

// Merge interleaves the three planes in src, in channel order, into dst. All
// planes must share the dimensions of dst.
func Merge(dst *Frame, src *[Channels]*Plane) error {
	if dst.Empty() {
		return ErrEmpty
	}
	for c, p := range src {
		if p.Empty() {
			return fmt.Errorf("source plane %v: %w", Channel(c), ErrEmpty)
		}
	}
	if !SameSize(src[:]...) {
		return fmt.Errorf("planes differ in size: %w", ErrDimensionMismatch)
	}
	if src[0].Width != dst.Width || src[0].Height != dst.Height {
		return fmt.Errorf("planes are %dx%d, frame is %dx%d: %w", src[0].Width, src[0].Height, dst.Width, dst.Height, ErrDimensionMismatch)
	}

	return merge(dst, src)
}

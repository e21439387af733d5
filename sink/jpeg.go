/*
DESCRIPTION
  jpeg.go provides a Sink that writes annotated frames as JPEG images, one
  after another, forming an MJPEG stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/ausocean/utils/ioext"

	"github.com/ausocean/edgemotion/frame"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 90

// JPEG is a Sink writing each frame, with its detections drawn on it, as a
// JPEG image to one or more destinations.
type JPEG struct {
	dst     io.WriteCloser
	quality int
	buf     bytes.Buffer
}

// NewJPEG returns a JPEG sink writing to all of dsts. A quality of 0 selects
// DefaultQuality.
func NewJPEG(quality int, dsts ...io.WriteCloser) (*JPEG, error) {
	if len(dsts) == 0 {
		return nil, fmt.Errorf("no destinations")
	}
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("invalid JPEG quality: %d", quality)
	}
	dst := dsts[0]
	if len(dsts) > 1 {
		dst = ioext.MultiWriteCloser(dsts...)
	}
	return &JPEG{dst: dst, quality: quality}, nil
}

// Present implements Sink. Each frame is written with a single call to Write.
func (s *JPEG) Present(f *frame.Frame, rects []image.Rectangle) error {
	if f.Empty() {
		return frame.ErrEmpty
	}
	img := f.Clone()
	Draw(img, rects, BoxColour)

	s.buf.Reset()
	err := jpeg.Encode(&s.buf, img.ToImage(), &jpeg.Options{Quality: s.quality})
	if err != nil {
		return fmt.Errorf("could not encode frame: %w", err)
	}
	_, err = s.dst.Write(s.buf.Bytes())
	if err != nil {
		return fmt.Errorf("could not write frame: %w", err)
	}
	return nil
}

// Close implements Sink, closing the destinations.
func (s *JPEG) Close() error { return s.dst.Close() }

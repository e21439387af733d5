/*
NAME
  lex.go

DESCRIPTION
  lex.go provides a lexer to extract separate JPEG images from a JPEG stream.
  This could either be a series of descrete JPEG images, or an MJPEG stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg provides lexing of MJPEG streams into JPEG images.
package jpeg

import (
	"bufio"
	"bytes"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Log is used by the lexer for debug output. It may be nil.
var Log logging.Logger

// JPEG markers.
var (
	soi = []byte{0xff, 0xd8} // Start of image.
	eoi = []byte{0xff, 0xd9} // End of image.
)

// ErrNotJPEG is returned when the stream does not start with an SOI marker
// where an image is expected.
var ErrNotJPEG = errors.New("not JPEG frame start")

// Lexer splits a stream of concatenated JPEG images.
type Lexer struct {
	r *bufio.Reader
}

// NewLexer returns a Lexer reading from src.
func NewLexer(src io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(src)}
}

// Next returns the next complete JPEG image in the stream. It returns io.EOF
// if the stream ends cleanly between images, and io.ErrUnexpectedEOF if it
// ends inside one. Nested images, such as embedded thumbnails, are kept
// within their enclosing image.
func (l *Lexer) Next() ([]byte, error) {
	buf := make([]byte, 2, 4<<10)
	n, err := io.ReadFull(l.r, buf)
	switch {
	case n == 0 && err == io.EOF:
		return nil, io.EOF
	case n < 2:
		return nil, io.ErrUnexpectedEOF
	}

	if !bytes.Equal(buf, soi) {
		return nil, errors.Wrapf(ErrNotJPEG, "got %#v", buf)
	}

	nImg := 1
	var last byte
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, errors.Wrap(err, "could not read JPEG data")
		}

		buf = append(buf, b)

		if last == soi[0] && b == soi[1] {
			nImg++
		}
		if last == eoi[0] && b == eoi[1] {
			nImg--
		}
		if nImg == 0 {
			if Log != nil {
				Log.Debug("lexed JPEG image", "len(buf)", len(buf))
			}
			return buf, nil
		}

		last = b
	}
}

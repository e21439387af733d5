/*
DESCRIPTION
  filter.go provides the package errors and argument checks shared by the
  image filters.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides the image filters used by the detection
// pipeline: morphology, median denoising, saturating arithmetic, min-max
// normalisation and binary thresholding. Filters that need configuration are
// constructed once and are safe for concurrent use afterwards.
package filter

import (
	"errors"
	"fmt"

	"github.com/ausocean/edgemotion/frame"
)

// Errors returned by the filters.
var (
	ErrKernel  = errors.New("invalid kernel")
	ErrAliased = errors.New("destination must not share storage with source")
)

// checkPair checks that dst and src are usable, equally sized, and do not
// share storage.
func checkPair(dst, src *frame.Plane) error {
	if src.Empty() || dst.Empty() {
		return frame.ErrEmpty
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("dst %dx%d, src %dx%d: %w", dst.Width, dst.Height, src.Width, src.Height, frame.ErrDimensionMismatch)
	}
	if aliased(dst, src) {
		return ErrAliased
	}
	return nil
}

func aliased(a, b *frame.Plane) bool { return &a.Pix[0] == &b.Pix[0] }

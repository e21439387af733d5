/*
DESCRIPTION
  median.go provides a median denoising filter with replicated borders.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"fmt"

	"github.com/ausocean/edgemotion/frame"
)

// Median is a square median filter of odd width.
type Median struct {
	size int
}

// NewMedian returns a Median with the given odd, positive kernel width.
func NewMedian(size int) (*Median, error) {
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("median width must be odd and positive, got %d: %w", size, ErrKernel)
	}
	return &Median{size: size}, nil
}

// Size returns the kernel width.
func (m *Median) Size() int { return m.size }

// Apply writes the median of each size×size neighbourhood of src into dst.
// Neighbourhoods extending past the image edge use the nearest edge pixel.
func (m *Median) Apply(dst, src *frame.Plane) error {
	err := checkPair(dst, src)
	if err != nil {
		return fmt.Errorf("median filter: %w", err)
	}

	return m.run(dst, src)
}

/*
DESCRIPTION
  morph.go provides the morphology filter: erosion, dilation, opening and
  closing with a fixed structuring element.

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
	"image"

	"github.com/ausocean/edgemotion/frame"
)

// MorphOp is a morphological operation.
type MorphOp int

const (
	Erode MorphOp = iota
	Dilate
	Open  // Erosion then dilation.
	Close // Dilation then erosion.
)

func (op MorphOp) String() string {
	switch op {
	case Erode:
		return "erode"
	case Dilate:
		return "dilate"
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("morph(%d)", int(op))
	}
}

// Morphology applies a morphological operation with a fixed structuring
// element. It holds no mutable state, so a single Morphology may be used
// from several goroutines at once.
type Morphology struct {
	op     MorphOp
	kernel Kernel
	offs   []image.Point
	passes []bool // true for a dilation pass, false for an erosion pass.
}

// NewMorphology returns a Morphology performing op with kernel k, repeating
// each constituent erosion or dilation the given number of times.
func NewMorphology(op MorphOp, k Kernel, iterations int) (*Morphology, error) {
	if k.Width <= 0 || k.Height <= 0 || len(k.mask) != k.Width*k.Height {
		return nil, fmt.Errorf("%v filter: %w", op, ErrKernel)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%v filter: iterations must be positive, got %d: %w", op, iterations, ErrKernel)
	}

	rep := func(dilate bool) []bool {
		p := make([]bool, iterations)
		for i := range p {
			p[i] = dilate
		}
		return p
	}

	var passes []bool
	switch op {
	case Erode:
		passes = rep(false)
	case Dilate:
		passes = rep(true)
	case Open:
		passes = append(rep(false), rep(true)...)
	case Close:
		passes = append(rep(true), rep(false)...)
	default:
		return nil, fmt.Errorf("unknown morphology operation %v: %w", op, ErrKernel)
	}

	return &Morphology{op: op, kernel: k, offs: k.offsets(), passes: passes}, nil
}

// Op returns the operation m performs.
func (m *Morphology) Op() MorphOp { return m.op }

// Apply writes the result of m applied to src into dst. When m needs more
// than one pass, tmp holds intermediate results; if tmp is nil one is
// allocated. dst, src and tmp must be distinct planes of equal size.
func (m *Morphology) Apply(dst, src, tmp *frame.Plane) error {
	err := checkPair(dst, src)
	if err != nil {
		return fmt.Errorf("%v filter: %w", m.op, err)
	}
	if len(m.passes) > 1 {
		if tmp == nil {
			tmp = frame.NewPlane(src.Width, src.Height)
		}
		err = checkPair(tmp, src)
		if err == nil && aliased(tmp, dst) {
			err = ErrAliased
		}
		if err != nil {
			return fmt.Errorf("%v filter scratch: %w", m.op, err)
		}
	}

	return m.run(dst, src, tmp)
}

/*
DESCRIPTION
  mog.go provides an adaptive Gaussian mixture background model, after
  Zivkovic's improved adaptive GMM, for classifying pixels of a frame as
  foreground or background.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bgsub provides a per-pixel Gaussian mixture background model.
package bgsub

import (
	"errors"
	"fmt"
	"math"

	"github.com/ausocean/edgemotion/frame"
)

// Default parameter values.
const (
	DefaultLearningRate = 0.01
	DefaultVarThreshold = 16.0
)

// Mask values.
const (
	Background = 0
	Foreground = 255
)

// Errors returned by the model.
var (
	ErrSize   = errors.New("frame size does not match background model")
	ErrParams = errors.New("invalid background model parameters")
)

// State is the lifecycle state of a Model.
type State int

const (
	Uninitialized State = iota // No frame seen yet.
	Warming                    // Fewer frames than the warm-up period seen.
	SteadyState
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Warming:
		return "warming"
	case SteadyState:
		return "steady"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Params holds the tunable parameters of a Model.
type Params struct {
	// LearningRate is the weight given to each new frame, in (0, 1].
	LearningRate float64

	// VarThreshold is the squared Mahalanobis distance below which a
	// sample is considered to match a background mode.
	VarThreshold float64

	// Warmup is the number of frames after which the model reports
	// SteadyState. If zero, ceil(1/LearningRate) is used.
	Warmup int
}

// Model is a per-pixel adaptive mixture of Gaussians over three-channel
// frames. A Model is not safe for concurrent use.
type Model struct {
	w, h   int
	warmup int
	frames int
	mix    *mixture
}

// New returns a Model for frames of size w×h. The model must be closed
// when no longer needed.
func New(w, h int, p Params) (*Model, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("background model size %dx%d: %w", w, h, frame.ErrEmpty)
	}
	if p.LearningRate <= 0 || p.LearningRate > 1 || math.IsNaN(p.LearningRate) {
		return nil, fmt.Errorf("learning rate %v not in (0, 1]: %w", p.LearningRate, ErrParams)
	}
	if p.VarThreshold <= 0 {
		return nil, fmt.Errorf("variance threshold %v not positive: %w", p.VarThreshold, ErrParams)
	}
	if p.Warmup < 0 {
		return nil, fmt.Errorf("warm-up %d is negative: %w", p.Warmup, ErrParams)
	}
	if p.Warmup == 0 {
		p.Warmup = int(math.Ceil(1 / p.LearningRate))
	}
	return &Model{w: w, h: h, warmup: p.Warmup, mix: newMixture(w, h, p)}, nil
}

// State returns the lifecycle state of the model.
func (m *Model) State() State {
	switch {
	case m.frames == 0:
		return Uninitialized
	case m.frames < m.warmup:
		return Warming
	default:
		return SteadyState
	}
}

// Frames returns the number of frames the model has been updated with.
func (m *Model) Frames() int { return m.frames }

// Size returns the frame dimensions the model was created for.
func (m *Model) Size() (w, h int) { return m.w, m.h }

// Reset discards all learnt state.
func (m *Model) Reset() {
	m.mix.reset()
	m.frames = 0
}

// Close releases the resources held by the model. It is safe to call more
// than once.
func (m *Model) Close() error {
	return m.mix.close()
}

// Apply classifies each pixel of f, writing Foreground or Background into
// mask, and updates the model with f. The first frame seeds the model and
// is classified entirely as background. Sizes are checked before the model
// is touched, so a failed call leaves it unchanged.
func (m *Model) Apply(mask *frame.Plane, f *frame.Frame) error {
	if f.Empty() || mask.Empty() {
		return fmt.Errorf("background model: %w", frame.ErrEmpty)
	}
	if f.Width != m.w || f.Height != m.h {
		return fmt.Errorf("frame %dx%d, model %dx%d: %w: %w", f.Width, f.Height, m.w, m.h, ErrSize, frame.ErrDimensionMismatch)
	}
	if mask.Width != m.w || mask.Height != m.h {
		return fmt.Errorf("mask %dx%d, model %dx%d: %w: %w", mask.Width, mask.Height, m.w, m.h, ErrSize, frame.ErrDimensionMismatch)
	}

	err := m.mix.apply(mask, f, m.frames == 0)
	if err != nil {
		return fmt.Errorf("background model: %w", err)
	}
	m.frames++
	return nil
}

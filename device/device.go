/*
DESCRIPTION
  device.go provides FrameSource, an interface that describes a configurable
  video device that can be started and stopped, and from which decoded
  frames can be obtained.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for input devices
// that can be started and stopped from which video frames can be obtained.
package device

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/frame"
)

// FrameSource describes a configurable video device from which decoded
// frames can be obtained.
type FrameSource interface {
	// Name returns the name of the FrameSource.
	Name() string

	// Set allows for configuration of the FrameSource using a Config struct.
	// All, some or none of the fields of the Config struct may be used for
	// configuration by an implementation. An implementation should specify
	// what fields are considered.
	Set(c config.Config) error

	// Start will start the FrameSource capturing; after which the Next method
	// may be called to obtain frames.
	Start() error

	// Next returns the next frame. It returns io.EOF at the end of the
	// stream. The returned frame is owned by the caller.
	Next() (*frame.Frame, error)

	// Stop will stop the FrameSource from capturing. From this point calls
	// to Next will no longer be successful.
	Stop() error

	// IsRunning is used to determine if the device is running.
	IsRunning() bool
}

// MultiError implements the built in error interface. MultiError is used here
// to collect multiple errors during validation of configuration parameters
// for FrameSources.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}

// ErrNotRunning is returned when a device is used before Start or after Stop.
var ErrNotRunning = errors.New("device is not running")

// ManualInput is an implementation of the FrameSource interface that
// represents a manual input mechanism, i.e. frames are written to this input
// through software. Each Write blocks until the frame is taken by Next.
type ManualInput struct {
	mu        sync.Mutex
	isRunning bool
	frames    chan *frame.Frame
	done      chan struct{}
}

// NewManualInput provides a new ManualInput.
func NewManualInput() *ManualInput {
	return &ManualInput{}
}

// Name returns the name of ManualInput i.e. "ManualInput".
func (m *ManualInput) Name() string { return "ManualInput" }

// Set is a stub to satisfy the FrameSource interface; no configuration
// fields are required by ManualInput.
func (m *ManualInput) Set(c config.Config) error { return nil }

// Start prepares the ManualInput for writing.
func (m *ManualInput) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = make(chan *frame.Frame)
	m.done = make(chan struct{})
	m.isRunning = true
	return nil
}

// Stop ends the stream; pending and subsequent calls to Next return io.EOF.
func (m *ManualInput) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isRunning {
		close(m.done)
	}
	m.isRunning = false
	return nil
}

// IsRunning returns the value of the isRunning flag to indicate if Start has
// been called (and Stop has not been called after).
func (m *ManualInput) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}

func (m *ManualInput) chans() (chan *frame.Frame, chan struct{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames, m.done, m.isRunning
}

// Write hands f to the next call to Next.
func (m *ManualInput) Write(f *frame.Frame) error {
	frames, done, running := m.chans()
	if !running {
		return fmt.Errorf("manual input can't write: %w", ErrNotRunning)
	}
	select {
	case frames <- f:
		return nil
	case <-done:
		return fmt.Errorf("manual input stopped during write: %w", ErrNotRunning)
	}
}

// Next returns the next frame written to the ManualInput.
func (m *ManualInput) Next() (*frame.Frame, error) {
	frames, done, _ := m.chans()
	if frames == nil {
		return nil, fmt.Errorf("manual input can't read: %w", ErrNotRunning)
	}
	select {
	case f := <-frames:
		return f, nil
	case <-done:
		return nil, io.EOF
	}
}

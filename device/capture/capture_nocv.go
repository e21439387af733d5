//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  capture_nocv.go replaces the OpenCV capture device when edgemotion is built
  without OpenCV. Starting it always fails.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package capture

import (
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/device"
	"github.com/ausocean/edgemotion/frame"
)

// Capture is a stand-in for the OpenCV capture device.
type Capture struct {
	log  logging.Logger
	path string
}

// New returns a new Capture.
func New(l logging.Logger) *Capture { return &Capture{log: l} }

// Name returns the name of the device.
func (c *Capture) Name() string { return "Capture" }

// Set records the input path.
func (c *Capture) Set(cfg config.Config) error {
	c.path = cfg.InputPath
	return nil
}

// Start always fails.
func (c *Capture) Start() error {
	return fmt.Errorf("cannot open %s: %w", c.path, ErrNoOpenCV)
}

// Stop does nothing.
func (c *Capture) Stop() error { return nil }

// IsRunning always returns false.
func (c *Capture) IsRunning() bool { return false }

// Next always fails.
func (c *Capture) Next() (*frame.Frame, error) {
	return nil, fmt.Errorf("capture can't read: %w", device.ErrNotRunning)
}

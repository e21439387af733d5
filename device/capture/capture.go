//go:build withcv
// +build withcv

/*
DESCRIPTION
  capture.go provides an implementation of the FrameSource interface backed
  by an OpenCV VideoCapture, so that any video file, stream or camera OpenCV
  can open may be used as input.

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
	"io"
	"sync"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/device"
	"github.com/ausocean/edgemotion/frame"
)

// Capture is an implementation of the FrameSource interface for an OpenCV
// VideoCapture.
type Capture struct {
	log  logging.Logger
	path string
	set  bool

	mu  sync.Mutex
	vc  *gocv.VideoCapture
	img gocv.Mat
}

// New returns a new Capture.
func New(l logging.Logger) *Capture { return &Capture{log: l} }

// Name returns the name of the device.
func (c *Capture) Name() string { return "Capture" }

// Set sets the capture path, a file, URL or device index, from the
// InputPath field of cfg.
func (c *Capture) Set(cfg config.Config) error {
	if cfg.InputPath == "" {
		return fmt.Errorf("no input path")
	}
	c.path = cfg.InputPath
	c.set = true
	return nil
}

// Start opens the capture.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		return fmt.Errorf("capture has not been set with config")
	}
	vc, err := gocv.OpenVideoCapture(c.path)
	if err != nil {
		return fmt.Errorf("could not open video capture %s: %w", c.path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("could not open video capture %s", c.path)
	}
	c.vc = vc
	c.img = gocv.NewMat()
	c.log.Info("opened video capture", "path", c.path,
		"width", vc.Get(gocv.VideoCaptureFrameWidth), "height", vc.Get(gocv.VideoCaptureFrameHeight))
	return nil
}

// Stop releases the capture.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vc == nil {
		return nil
	}
	err := c.vc.Close()
	c.img.Close()
	c.vc = nil
	return err
}

// IsRunning is used to determine if the capture is open.
func (c *Capture) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vc != nil
}

// Next reads the next frame. An empty read is taken as the end of the
// stream.
func (c *Capture) Next() (*frame.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vc == nil {
		return nil, fmt.Errorf("capture can't read: %w", device.ErrNotRunning)
	}
	if ok := c.vc.Read(&c.img); !ok || c.img.Empty() {
		return nil, io.EOF
	}
	return FromMat(c.img)
}

// FromMat copies an 8-bit three channel Mat into a new Frame.
func FromMat(m gocv.Mat) (*frame.Frame, error) {
	if m.Empty() {
		return nil, frame.ErrEmpty
	}
	f := frame.NewFrame(m.Cols(), m.Rows())
	err := f.SetMat(m)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ToMat copies f into a new Mat, which the caller must close.
func ToMat(f *frame.Frame) (gocv.Mat, error) {
	m, err := f.Mat()
	if err != nil {
		return m, err
	}
	defer m.Close()
	return m.Clone(), nil
}

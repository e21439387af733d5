//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  capture_nocv_test.go checks the behaviour of the capture device when built
  without OpenCV.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package capture

import (
	"errors"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/device"
)

func TestStartWithoutOpenCV(t *testing.T) {
	c := New((*logging.TestLogger)(t))
	err := c.Set(config.Config{InputPath: "clip.avi"})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); !errors.Is(err, ErrNoOpenCV) {
		t.Errorf("expected ErrNoOpenCV, got %v", err)
	}
	if c.IsRunning() {
		t.Error("capture reports running")
	}
	if _, err := c.Next(); !errors.Is(err, device.ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

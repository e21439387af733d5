/*
DESCRIPTION
  doc.go contains the package documentation and build independent
  declarations of the capture package.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package capture provides an implementation of FrameSource using an OpenCV
// VideoCapture. It requires the withcv build tag; without it the device
// reports ErrNoOpenCV when started.
package capture

import (
	"errors"

	"github.com/ausocean/edgemotion/device"
)

// ErrNoOpenCV is returned by Start when edgemotion is built without OpenCV.
var ErrNoOpenCV = errors.New("built without OpenCV support (use the withcv tag)")

var _ device.FrameSource = (*Capture)(nil)

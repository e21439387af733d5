/*
DESCRIPTION
  file.go provides an implementation of the FrameSource interface for MJPEG
  files, i.e. files of concatenated JPEG images.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides an implementation of FrameSource for MJPEG files.
package file

import (
	"bytes"
	"image/jpeg"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	lex "github.com/ausocean/edgemotion/codec/jpeg"
	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/device"
	"github.com/ausocean/edgemotion/frame"
)

// MJPEGFile is an implementation of the FrameSource interface for an MJPEG
// file.
type MJPEGFile struct {
	f         *os.File
	lexer     *lex.Lexer
	path      string
	loop      bool
	fps       uint
	ticker    *time.Ticker
	isRunning bool
	log       logging.Logger
	set       bool
	mu        sync.Mutex
}

// New returns a new MJPEGFile.
func New(l logging.Logger) *MJPEGFile { return &MJPEGFile{log: l} }

// NewWith returns a new MJPEGFile with required params provided i.e. the Set
// method does not need to be called.
func NewWith(l logging.Logger, path string, loop bool, fps uint) *MJPEGFile {
	return &MJPEGFile{log: l, path: path, loop: loop, fps: fps, set: true}
}

// Name returns the name of the device.
func (m *MJPEGFile) Name() string {
	return "File"
}

// Set sets the file path, looping and frame pacing from the InputPath, Loop
// and FileFPS fields of c.
func (m *MJPEGFile) Set(c config.Config) error {
	var errs device.MultiError
	if c.InputPath == "" {
		errs = append(errs, errors.New("no input path"))
	}
	if c.Input != config.InputFile && c.Input != config.NothingDefined {
		errs = append(errs, errors.Errorf("input type %d is not a file", c.Input))
	}
	if errs != nil {
		return errs
	}
	m.path = c.InputPath
	m.loop = c.Loop
	m.fps = c.FileFPS
	m.set = true
	return nil
}

// Start will open the file at the configured path.
func (m *MJPEGFile) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return errors.New("MJPEGFile has not been set with config")
	}
	var err error
	m.f, err = os.Open(m.path)
	if err != nil {
		return errors.Wrap(err, "could not open media file")
	}
	m.lexer = lex.NewLexer(m.f)
	if m.fps > 0 {
		m.ticker = time.NewTicker(time.Second / time.Duration(m.fps))
	}
	m.isRunning = true
	return nil
}

// Stop will close the file such that any further calls to Next will fail.
func (m *MJPEGFile) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	m.isRunning = false
	return err
}

// Next returns the next frame of the file, paced to the configured frame
// rate. At the end of the file Next returns io.EOF, unless looping, in which
// case reading restarts from the beginning.
func (m *MJPEGFile) Next() (*frame.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil, errors.Wrap(device.ErrNotRunning, "MJPEG file is closed")
	}

	img, err := m.lexer.Next()
	if err == io.EOF && m.loop {
		m.log.Info("looping input file")
		_, err = m.f.Seek(0, io.SeekStart)
		if err != nil {
			return nil, errors.Wrap(err, "could not seek to start of file for input loop")
		}
		m.lexer = lex.NewLexer(m.f)
		img, err = m.lexer.Next()
	}
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not lex JPEG")
	}

	if m.ticker != nil {
		<-m.ticker.C
	}

	f, err := Decode(img)
	if err != nil {
		return nil, err
	}
	m.log.Debug("read frame", "bytes", len(img), "width", f.Width, "height", f.Height)
	return f, nil
}

// IsRunning is used to determine if the MJPEGFile device is running.
func (m *MJPEGFile) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f != nil && m.isRunning
}

// Decode decodes a JPEG image into a Frame.
func Decode(b []byte) (*frame.Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode JPEG")
	}
	return frame.FromImage(img), nil
}

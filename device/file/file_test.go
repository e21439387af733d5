/*
DESCRIPTION
  file_test.go provides testing for the MJPEGFile device.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package file

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/device"
)

// writeMJPEG writes n w×h JPEG images of increasing grey level to a
// temporary file and returns its path.
func writeMJPEG(t *testing.T, n, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		img := image.NewGray(image.Rect(0, 0, w, h))
		for j := range img.Pix {
			img.Pix[j] = uint8(40 * i)
		}
		err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100})
		if err != nil {
			t.Fatalf("could not encode test image: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "test.mjpeg")
	err := os.WriteFile(path, buf.Bytes(), 0o644)
	if err != nil {
		t.Fatalf("could not write test file: %v", err)
	}
	return path
}

func TestNext(t *testing.T) {
	path := writeMJPEG(t, 3, 16, 8)
	d := New((*logging.TestLogger)(t))
	err := d.Set(config.Config{InputPath: path, Input: config.InputFile})
	if err != nil {
		t.Fatalf("could not set device: %v", err)
	}
	err = d.Start()
	if err != nil {
		t.Fatalf("could not start device: %v", err)
	}
	defer d.Stop()

	for i := 0; i < 3; i++ {
		f, err := d.Next()
		if err != nil {
			t.Fatalf("did not expect error for frame %d: %v", i, err)
		}
		if f.Width != 16 || f.Height != 8 {
			t.Errorf("frame %d has size %dx%d, want 16x8", i, f.Width, f.Height)
		}
		want := 40 * i
		got := int(f.Pix[f.Offset(8, 4)])
		if got < want-2 || got > want+2 {
			t.Errorf("frame %d has level %d, want about %d", i, got, want)
		}
	}
	_, err = d.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF at end of file, got %v", err)
	}
}

func TestLoop(t *testing.T) {
	path := writeMJPEG(t, 2, 8, 8)
	d := NewWith((*logging.TestLogger)(t), path, true, 0)
	err := d.Start()
	if err != nil {
		t.Fatalf("could not start device: %v", err)
	}
	defer d.Stop()

	for i := 0; i < 5; i++ {
		_, err := d.Next()
		if err != nil {
			t.Fatalf("did not expect error for frame %d of looped input: %v", i, err)
		}
	}
}

func TestPacing(t *testing.T) {
	const fps = 50
	path := writeMJPEG(t, 4, 8, 8)
	d := NewWith((*logging.TestLogger)(t), path, false, fps)
	err := d.Start()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Stop()

	start := time.Now()
	for i := 0; i < 4; i++ {
		_, err := d.Next()
		if err != nil {
			t.Fatal(err)
		}
	}
	if el, want := time.Since(start), 4*time.Second/fps; el < want {
		t.Errorf("read 4 frames in %v, want at least %v", el, want)
	}
}

func TestIsRunning(t *testing.T) {
	path := writeMJPEG(t, 1, 8, 8)
	d := NewWith((*logging.TestLogger)(t), path, false, 0)
	if d.IsRunning() {
		t.Error("device is running before start")
	}
	if _, err := d.Next(); !errors.Is(err, device.ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}

	err := d.Start()
	if err != nil {
		t.Fatalf("could not start device %v", err)
	}
	if !d.IsRunning() {
		t.Error("device isn't running, when it should be")
	}

	err = d.Stop()
	if err != nil {
		t.Error(err.Error())
	}
	if d.IsRunning() {
		t.Error("device is running, when it should not be")
	}
}

func TestSetErrors(t *testing.T) {
	d := New((*logging.TestLogger)(t))
	err := d.Set(config.Config{Input: config.InputCapture})
	var me device.MultiError
	if !errors.As(err, &me) || len(me) != 2 {
		t.Errorf("expected two errors, got %v", err)
	}
	if err := d.Start(); err == nil {
		t.Error("expected error starting unset device")
	}
}

func TestDecodeColour(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 20, B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100})
	if err != nil {
		t.Fatal(err)
	}
	f, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	// Frames are stored blue, green, red.
	o := f.Offset(4, 4)
	want := []int{100, 20, 200}
	for c, w := range want {
		if got := int(f.Pix[o+c]); got < w-6 || got > w+6 {
			t.Errorf("channel %d: got %d, want about %d", c, got, w)
		}
	}

	_, err = Decode([]byte{0xff, 0xd8, 0xff, 0xd9})
	if err == nil {
		t.Error("expected error decoding empty JPEG")
	}
}

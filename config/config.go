/*
NAME
  config.go

DESCRIPTION
  config.go provides the Config struct holding the parameters of a motion
  detection run, with defaulting of unset fields.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for edgemotion.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Enums to define inputs and failure policies.
const (
	NothingDefined = iota

	InputFile    // An MJPEG file, i.e. concatenated JPEG images.
	InputCapture // Anything OpenCV can open: video files and cameras.

	OnErrorAbort // Stop the run on the first failed frame.
	OnErrorSkip  // Log the failure and continue with the next frame.
)

// Config provides parameters relevant to a detection run. A new config must
// be passed to the constructor of a Pipeline or Session. Unset fields are
// given defaults by Validate; a zero value always means unset.
type Config struct {
	// Logger holds an implementation of the Logger interface as defined in
	// the logging package. This must be set for the config to be used.
	Logger logging.Logger

	// LogLevel is the verbosity level of the logger.
	LogLevel int8

	// Input defines the input source. Valid values are defined by the Input*
	// consts. If unset it is chosen from the extension of InputPath.
	Input uint8

	// InputPath is the path of the input video or capture device.
	InputPath string

	FileFPS uint // Rate at which frames from a file source are processed. Zero means as fast as possible.
	Loop    bool // If true, restart reading the input after an io.EOF.

	// OutputPath is the path of an MJPEG file to which annotated frames are
	// written. Empty means no file output.
	OutputPath string

	// Edge enhancement.
	DilateSize       uint // Width of the square dilation kernel.
	DilateIterations uint // Number of dilation passes.
	MedianSize       uint // Width of the median kernel; must be odd.
	EdgeSigned       bool // Use original-denoised with saturation instead of the absolute difference.

	// Threshold is the intensity above which a merged edge value is kept.
	Threshold uint

	// Background model.
	LearningRate     float64 // Weight of each new frame, in (0, 1].
	VarThreshold     float64 // Squared Mahalanobis distance for a background match.
	BackgroundWarmup uint    // Frames before the model is considered warm. Zero means ceil(1/LearningRate).

	// Mask cleanup.
	MorphSize  uint   // Width of the opening and closing kernel.
	MorphShape string // One of rect, cross or ellipse.

	// Region filtering. A region is retained when MinArea < area <= MaxArea.
	MinArea float64
	MaxArea float64

	// OnError defines the behaviour when a frame fails to process. Valid
	// values are OnErrorAbort and OnErrorSkip.
	OnError uint8
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

// LogInvalidField logs that the named field was bad or unset and has been
// given the value def.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

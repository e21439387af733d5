/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyBackgroundWarmup = "BackgroundWarmup"
	KeyDilateIterations = "DilateIterations"
	KeyDilateSize       = "DilateSize"
	KeyEdgeSigned       = "EdgeSigned"
	KeyFileFPS          = "FileFPS"
	KeyInput            = "Input"
	KeyInputPath        = "InputPath"
	KeyLearningRate     = "LearningRate"
	KeyLogging          = "logging"
	KeyLoop             = "Loop"
	KeyMaxArea          = "MaxArea"
	KeyMedianSize       = "MedianSize"
	KeyMinArea          = "MinArea"
	KeyMorphShape       = "MorphShape"
	KeyMorphSize        = "MorphSize"
	KeyOnError          = "OnError"
	KeyOutputPath       = "OutputPath"
	KeyThreshold        = "Threshold"
	KeyVarThreshold     = "VarThreshold"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	// General defaults.
	DefaultInputPath = "/home/Videos/data/vidTest1.avi"
	defaultVerbosity = logging.Info
	defaultOnError   = OnErrorAbort
	defaultFileFPS   = 0

	// Edge enhancement defaults.
	defaultDilateSize       = 3
	defaultDilateIterations = 1
	defaultMedianSize       = 3
	defaultThreshold        = 128

	// Background model defaults.
	defaultLearningRate = 0.01
	defaultVarThreshold = 16.0

	// Cleanup and region defaults.
	defaultMorphSize  = 3
	defaultMorphShape = "cross"
	defaultMinArea    = 1000.0
	defaultMaxArea    = 10000.0
)

// Variables describes the variables that can be used to configure a run.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyBackgroundWarmup,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.BackgroundWarmup = parseUint(KeyBackgroundWarmup, v, c) },
	},
	{
		Name:     KeyDilateIterations,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.DilateIterations = parseUint(KeyDilateIterations, v, c) },
		Validate: func(c *Config) { c.DilateIterations = lessThanOrEqual(KeyDilateIterations, c.DilateIterations, 0, c, defaultDilateIterations) },
	},
	{
		Name:     KeyDilateSize,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.DilateSize = parseUint(KeyDilateSize, v, c) },
		Validate: func(c *Config) { c.DilateSize = lessThanOrEqual(KeyDilateSize, c.DilateSize, 0, c, defaultDilateSize) },
	},
	{
		Name:   KeyEdgeSigned,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.EdgeSigned = parseBool(KeyEdgeSigned, v, c) },
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
		Validate: func(c *Config) {
			if c.InputPath == "" {
				c.LogInvalidField(KeyInputPath, DefaultInputPath)
				c.InputPath = DefaultInputPath
			}
		},
	},
	{
		Name:   KeyInput,
		Type:   "enum:file,capture",
		Update: func(c *Config, v string) { c.Input = parseEnum(KeyInput, v, map[string]uint8{"file": InputFile, "capture": InputCapture}, c) },
		Validate: func(c *Config) {
			switch c.Input {
			case InputFile, InputCapture:
			case NothingDefined:
				c.Input = InputFor(c.InputPath)
			default:
				c.LogInvalidField(KeyInput, InputFor(c.InputPath))
				c.Input = InputFor(c.InputPath)
			}
		},
	},
	{
		Name:   KeyFileFPS,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FileFPS = parseUint(KeyFileFPS, v, c) },
		Validate: func(c *Config) {
			if c.FileFPS > 0 && c.Input != InputFile {
				c.LogInvalidField(KeyFileFPS, defaultFileFPS)
				c.FileFPS = defaultFileFPS
			}
		},
	},
	{
		Name: KeyLearningRate,
		Type: typeFloat,
		Update: func(c *Config, v string) {
			c.LearningRate = parseFloat(KeyLearningRate, v, c)
		},
		Validate: func(c *Config) {
			if c.LearningRate == 0 {
				c.LogInvalidField(KeyLearningRate, defaultLearningRate)
				c.LearningRate = defaultLearningRate
			}
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLoop,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Loop = parseBool(KeyLoop, v, c) },
	},
	{
		Name:   KeyMaxArea,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.MaxArea = parseFloat(KeyMaxArea, v, c) },
		Validate: func(c *Config) {
			if c.MaxArea == 0 {
				c.LogInvalidField(KeyMaxArea, defaultMaxArea)
				c.MaxArea = defaultMaxArea
			}
		},
	},
	{
		Name:     KeyMedianSize,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.MedianSize = parseUint(KeyMedianSize, v, c) },
		Validate: func(c *Config) { c.MedianSize = lessThanOrEqual(KeyMedianSize, c.MedianSize, 0, c, defaultMedianSize) },
	},
	{
		Name:   KeyMinArea,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.MinArea = parseFloat(KeyMinArea, v, c) },
		Validate: func(c *Config) {
			if c.MinArea == 0 {
				c.LogInvalidField(KeyMinArea, defaultMinArea)
				c.MinArea = defaultMinArea
			}
		},
	},
	{
		Name:   KeyMorphShape,
		Type:   "enum:rect,cross,ellipse",
		Update: func(c *Config, v string) { c.MorphShape = strings.ToLower(v) },
		Validate: func(c *Config) {
			if c.MorphShape == "" {
				c.LogInvalidField(KeyMorphShape, defaultMorphShape)
				c.MorphShape = defaultMorphShape
			}
		},
	},
	{
		Name:     KeyMorphSize,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.MorphSize = parseUint(KeyMorphSize, v, c) },
		Validate: func(c *Config) { c.MorphSize = lessThanOrEqual(KeyMorphSize, c.MorphSize, 0, c, defaultMorphSize) },
	},
	{
		Name:   KeyOnError,
		Type:   "enum:abort,skip",
		Update: func(c *Config, v string) { c.OnError = parseEnum(KeyOnError, v, map[string]uint8{"abort": OnErrorAbort, "skip": OnErrorSkip}, c) },
		Validate: func(c *Config) {
			switch c.OnError {
			case OnErrorAbort, OnErrorSkip:
			default:
				c.LogInvalidField(KeyOnError, "abort")
				c.OnError = defaultOnError
			}
		},
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
	},
	{
		Name:     KeyThreshold,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.Threshold = parseUint(KeyThreshold, v, c) },
		Validate: func(c *Config) { c.Threshold = lessThanOrEqual(KeyThreshold, c.Threshold, 0, c, defaultThreshold) },
	},
	{
		Name:   KeyVarThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.VarThreshold = parseFloat(KeyVarThreshold, v, c) },
		Validate: func(c *Config) {
			if c.VarThreshold == 0 {
				c.LogInvalidField(KeyVarThreshold, defaultVarThreshold)
				c.VarThreshold = defaultVarThreshold
			}
		},
	},
}

// InputFor returns the input type suited to the file at path. MJPEG files
// are read directly; anything else is left to OpenCV.
func InputFor(path string) uint8 {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mjpeg", ".mjpg", ".jpeg", ".jpg":
		return InputFile
	default:
		return InputCapture
	}
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

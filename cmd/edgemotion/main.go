/*
DESCRIPTION
  edgemotion detects moving regions in a video by edge enhancement and
  adaptive background subtraction, and presents them as boxes drawn on the
  original frames.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// edgemotion is a command line motion detector.
//
// Usage:
//
//	edgemotion [flags] [input]
//
// The input is a video file or capture device path; MJPEG files are read
// natively and anything else through OpenCV.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/daemon"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/edgemotion/codec/jpeg"
	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/device"
	"github.com/ausocean/edgemotion/device/capture"
	"github.com/ausocean/edgemotion/device/file"
	"github.com/ausocean/edgemotion/pipeline"
	"github.com/ausocean/edgemotion/report"
	"github.com/ausocean/edgemotion/sink"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
)

const windowTitle = "edgemotion"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "path of a Key=Value config file, watched for changes")
		outPath     = flag.String("out", "", "path of an MJPEG file for annotated frames")
		display     = flag.Bool("display", false, "show annotated frames in a window (requires withcv)")
		plotPath    = flag.String("plot", "", "path of a PNG chart of the run")
		logPath     = flag.String("log", "", "path of a rotated log file, in addition to stderr")
		verbose     = flag.Bool("v", false, "log debug messages")
		showVersion = flag.Bool("version", false, "show version")
	)
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return exitOK
	}

	verbosity := int8(logging.Info)
	if *verbose {
		verbosity = logging.Debug
	}
	var w io.Writer = os.Stderr
	if *logPath != "" {
		// Create lumberjack logger to handle logging to file.
		fileLog := &lumberjack.Logger{
			Filename:   *logPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		defer fileLog.Close()
		w = io.MultiWriter(os.Stderr, fileLog)
	}
	log := logging.New(verbosity, w, logSuppress)
	log.Info("starting edgemotion", "version", version)
	jpeg.Log = log

	cfg, err := loadConfig(log, verbosity, *configPath, flag.Arg(0), *outPath)
	if err != nil {
		log.Error("could not load config", "error", err.Error())
		return exitError
	}

	var in device.FrameSource
	switch cfg.Input {
	case config.InputFile:
		in = file.New(log)
	default:
		in = capture.New(log)
	}

	out, err := outputs(log, cfg, *display)
	if err != nil {
		log.Error("could not set up outputs", "error", err.Error())
		return exitError
	}
	defer func() {
		err := out.Close()
		if err != nil {
			log.Error("could not close outputs", "error", err.Error())
		}
	}()

	rec := &report.Recorder{}
	p, err := pipeline.New(cfg, in, out, rec)
	if err != nil {
		log.Error("could not initialise pipeline", "error", err.Error())
		return exitError
	}
	err = p.Start()
	if err != nil {
		log.Error("could not start pipeline", "error", err.Error())
		return exitError
	}
	notify(log, daemon.SdNotifyReady)

	if *configPath != "" {
		stopWatch, err := watch(log, *configPath, p.Update)
		if err != nil {
			log.Warning("could not watch config file", "error", err.Error())
		} else {
			defer stopWatch()
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		s, ok := <-sig
		if !ok {
			return
		}
		log.Info("received signal, stopping", "signal", s.String())
		p.Stop()
	}()

	runErr := p.Wait()
	notify(log, daemon.SdNotifyStopping)
	summarize(log, rec, *plotPath)

	if runErr != nil {
		log.Error("run failed", "error", runErr.Error())
		return exitError
	}
	log.Info("run finished")
	return exitOK
}

// loadConfig builds the run config from the config file, if any, the input
// argument and the output flag, in increasing order of precedence.
func loadConfig(log logging.Logger, verbosity int8, configPath, input, out string) (config.Config, error) {
	cfg := config.Config{Logger: log, LogLevel: verbosity}
	if configPath != "" {
		vars, err := config.ReadVarsFile(configPath)
		if err != nil {
			return cfg, err
		}
		cfg.Update(vars)
	}
	if input != "" {
		cfg.InputPath = input
		cfg.Input = config.NothingDefined
	}
	if out != "" {
		cfg.OutputPath = out
	}
	err := cfg.Validate()
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// outputs returns the sinks selected by cfg and the display flag.
func outputs(log logging.Logger, cfg config.Config, display bool) (sink.Multi, error) {
	out := sink.Multi{sink.NewLog(log)}
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("could not create output file: %w", err)
		}
		js, err := sink.NewJPEG(0, f)
		if err != nil {
			f.Close()
			return nil, err
		}
		out = append(out, js)
		log.Info("writing annotated frames", "path", cfg.OutputPath)
	}
	if display {
		win, err := sink.NewWindow(windowTitle)
		if err != nil {
			out.Close()
			return nil, err
		}
		out = append(out, win)
	}
	return out, nil
}

// notify sends state to systemd, if running under it.
func notify(log logging.Logger, state string) {
	ok, err := daemon.SdNotify(false, state)
	switch {
	case err != nil:
		log.Warning("could not notify systemd", "state", state, "error", err.Error())
	case ok:
		log.Debug("notified systemd", "state", state)
	}
}

// summarize logs the run statistics and writes the chart, if requested.
func summarize(log logging.Logger, rec *report.Recorder, plotPath string) {
	s, err := rec.Summarize()
	if err != nil {
		log.Info("no statistics", "error", err.Error())
		return
	}
	s.Log(log)
	if plotPath == "" {
		return
	}

	f, err := os.Create(plotPath)
	if err != nil {
		log.Error("could not create plot file", "error", err.Error())
		return
	}
	defer f.Close()
	err = rec.Plot(f)
	if err != nil {
		log.Error("could not plot run", "error", err.Error())
		return
	}
	log.Info("wrote plot", "path", plotPath)
}

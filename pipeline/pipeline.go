/*
DESCRIPTION
  pipeline.go provides Pipeline, which reads frames from a FrameSource,
  detects motion in them and presents the results to a Sink.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline provides the processing loop of a motion detection run.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/detect"
	"github.com/ausocean/edgemotion/device"
	"github.com/ausocean/edgemotion/frame"
	"github.com/ausocean/edgemotion/report"
	"github.com/ausocean/edgemotion/sink"
)

// ErrRunning is returned by Start when the pipeline is already running.
var ErrRunning = errors.New("pipeline already running")

// Pipeline controls a detection run; providing methods to start, stop and
// reconfigure it.
type Pipeline struct {
	// cfg is the configuration of the current session; pending holds an
	// update that takes effect at the next frame boundary.
	cfg     config.Config
	pending *config.Config

	input  device.FrameSource
	output sink.Sink
	rec    *report.Recorder

	// sess is created for the size of the first frame, and replaced when the
	// config is updated. It is only touched by the processing routine.
	sess *detect.Session

	// mu guards cfg, pending, running, err and the channels.
	mu      sync.Mutex
	running bool
	err     error

	// stop is closed to request the processing routine to return; done is
	// closed once it has.
	stop    chan struct{}
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New returns a Pipeline reading from in and presenting to out. rec may be
// nil if statistics are not wanted. The config is validated here.
func New(c config.Config, in device.FrameSource, out sink.Sink, rec *report.Recorder) (*Pipeline, error) {
	if c.Logger == nil {
		return nil, errors.New("config has no logger")
	}
	if in == nil || out == nil {
		return nil, errors.New("pipeline needs an input and an output")
	}
	c.Logger.Debug("validating config")
	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("config struct is bad: %w", err)
	}
	c.Logger.SetLevel(c.LogLevel)
	c.Logger.Info("config validated")
	if rec == nil {
		rec = &report.Recorder{}
	}
	return &Pipeline{cfg: c, input: in, output: out, rec: rec}, nil
}

// Config returns a copy of the pipeline's current config.
func (p *Pipeline) Config() config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Recorder returns the recorder of per-frame statistics.
func (p *Pipeline) Recorder() *report.Recorder { return p.rec }

// Start configures and starts the input and starts the processing routine.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	log := p.cfg.Logger
	if p.running {
		log.Warning("start called, but pipeline already running")
		return ErrRunning
	}

	log.Debug("setting up input", "device", p.input.Name())
	err := p.input.Set(p.cfg)
	if err != nil {
		return fmt.Errorf("could not set up input: %w", err)
	}
	err = p.input.Start()
	if err != nil {
		return fmt.Errorf("could not start input device: %w", err)
	}
	log.Info("input started", "device", p.input.Name())

	p.stop = make(chan struct{})
	p.stopped = false
	p.done = make(chan struct{})
	p.err = nil
	p.running = true

	p.wg.Add(1)
	go p.processFrom(p.stop, p.done)
	return nil
}

// Stop requests the processing routine to return at the next frame
// boundary, stops the input and waits for the routine to finish.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	log := p.cfg.Logger
	if !p.running {
		p.mu.Unlock()
		log.Warning("stop called but pipeline isn't running")
		return
	}
	if !p.stopped {
		close(p.stop)
		p.stopped = true
	}
	p.mu.Unlock()
	log.Debug("stopping input")
	err := p.input.Stop()
	if err != nil {
		log.Error("could not stop input", "error", err.Error())
	} else {
		log.Info("input stopped")
	}

	log.Debug("waiting for routines to finish")
	p.wg.Wait()
	log.Info("routines finished")
}

// Wait blocks until the processing routine has returned, and returns the
// error that ended the run, if any. The end of the input and user requested
// stops are not errors.
func (p *Pipeline) Wait() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Running reports whether the processing routine is running.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Update takes a map of variables and their values and applies them to a
// copy of the current config. The running session is discarded and a new
// one built from the updated config at the next frame boundary; filters and
// background state are never modified in place.
func (p *Pipeline) Update(vars map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := p.cfg
	if p.pending != nil {
		c = *p.pending
	}
	c.Logger.Debug("checking vars", "vars", vars)
	c.Update(vars)
	err := c.Validate()
	if err != nil {
		return fmt.Errorf("updated config is bad: %w", err)
	}
	c.Logger.SetLevel(c.LogLevel)
	p.pending = &c
	c.Logger.Info("config update pending")
	return nil
}

// processFrom runs the detection loop until the input ends, a stop is
// requested or a frame fails under the abort policy.
func (p *Pipeline) processFrom(stop, done chan struct{}) {
	defer p.wg.Done()

	err := p.loop(stop)
	if err != nil {
		p.logger().Error("pipeline failed", "error", err.Error())
	}

	if p.sess != nil {
		serr := p.sess.Shutdown()
		if serr != nil {
			p.logger().Error("could not shut down session", "error", serr.Error())
		}
		p.sess = nil
	}

	if p.input.IsRunning() {
		ierr := p.input.Stop()
		if ierr != nil {
			p.logger().Error("could not stop input", "error", ierr.Error())
		}
	}

	p.mu.Lock()
	p.err = err
	p.running = false
	p.mu.Unlock()
	close(done)
}

func (p *Pipeline) logger() logging.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Logger
}

func (p *Pipeline) loop(stop chan struct{}) error {
	log := p.logger()
	for n := 0; ; n++ {
		select {
		case <-stop:
			log.Info("stop requested")
			return nil
		default:
		}

		f, err := p.input.Next()
		switch {
		case err == io.EOF:
			log.Info("end of input", "frames", n)
			return nil
		case err != nil:
			select {
			case <-stop:
				log.Info("stop requested")
				return nil
			default:
			}
			return fmt.Errorf("could not read frame %d: %w", n, err)
		}

		err = p.process(f)
		switch {
		case err == nil:
		case errors.Is(err, sink.ErrStopped):
			log.Info("stop requested by output")
			return nil
		case errors.Is(err, detect.ErrInitialization):
			return err
		case p.Config().OnError == config.OnErrorSkip:
			log.Warning("skipping failed frame", "frame", n, "error", err.Error())
		default:
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}
}

// process detects motion in f and presents the result.
func (p *Pipeline) process(f *frame.Frame) error {
	err := p.session(f)
	if err != nil {
		return err
	}

	start := time.Now()
	rects, err := p.sess.Detect(f)
	p.rec.Record(time.Since(start), len(rects), err != nil)
	if err != nil {
		return err
	}
	return p.output.Present(f, rects)
}

// session ensures that p.sess exists for frames the size of f and reflects
// any pending config update. A failed update leaves the current session in
// place.
func (p *Pipeline) session(f *frame.Frame) error {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	cfg := p.cfg
	p.mu.Unlock()

	if pending == nil && p.sess != nil {
		return nil
	}
	if pending != nil {
		cfg = *pending
	}

	s, err := detect.New(f.Width, f.Height, cfg)
	if err != nil {
		if p.sess == nil {
			return err
		}
		cfg.Logger.Error("could not apply config update; keeping current session", "error", err.Error())
		return nil
	}

	if p.sess != nil {
		err = p.sess.Shutdown()
		if err != nil {
			cfg.Logger.Warning("could not shut down previous session", "error", err.Error())
		}
		cfg.Logger.Info("session replaced", "old", p.sess.ID(), "new", s.ID())
	}
	p.sess = s

	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
	return nil
}

/*
DESCRIPTION
  report.go provides a Recorder which collects per-frame processing
  statistics for a run, summarises them and charts them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package report provides collection, summary and plotting of per-frame
// detection statistics.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to summarise or plot.
var ErrNoData = errors.New("no frames recorded")

// Sample holds the statistics of one frame.
type Sample struct {
	Frame   int
	Latency time.Duration
	Regions int
	Failed  bool
}

// Recorder collects samples. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

// Record adds a sample for the next frame.
func (r *Recorder) Record(latency time.Duration, regions int, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, Sample{Frame: len(r.samples), Latency: latency, Regions: regions, Failed: failed})
}

// Samples returns a copy of the recorded samples.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.samples...)
}

// Summary describes a run.
type Summary struct {
	Frames       int
	Failed       int
	MotionFrames int // Frames with at least one region.
	Regions      int
	MeanRegions  float64

	// Latency statistics are over successful frames only.
	MeanLatency time.Duration
	StdLatency  time.Duration
	P50Latency  time.Duration
	P95Latency  time.Duration
	MaxLatency  time.Duration
}

// Summarize computes the Summary of the recorded samples.
func (r *Recorder) Summarize() (Summary, error) {
	samples := r.Samples()
	if len(samples) == 0 {
		return Summary{}, ErrNoData
	}

	s := Summary{Frames: len(samples)}
	var lat, regions []float64
	for _, smp := range samples {
		if smp.Failed {
			s.Failed++
			continue
		}
		if smp.Regions > 0 {
			s.MotionFrames++
		}
		s.Regions += smp.Regions
		lat = append(lat, float64(smp.Latency))
		regions = append(regions, float64(smp.Regions))
	}
	if len(lat) == 0 {
		return s, nil
	}

	s.MeanRegions = stat.Mean(regions, nil)
	mean := stat.Mean(lat, nil)
	s.MeanLatency = time.Duration(mean)
	if len(lat) > 1 {
		s.StdLatency = time.Duration(stat.StdDev(lat, nil))
	}
	sort.Float64s(lat)
	s.P50Latency = time.Duration(stat.Quantile(0.5, stat.Empirical, lat, nil))
	s.P95Latency = time.Duration(stat.Quantile(0.95, stat.Empirical, lat, nil))
	s.MaxLatency = time.Duration(lat[len(lat)-1])
	return s, nil
}

// Log writes s to l.
func (s Summary) Log(l logging.Logger) {
	l.Info("run summary",
		"frames", s.Frames,
		"failed", s.Failed,
		"motion frames", s.MotionFrames,
		"regions", s.Regions,
		"mean regions", s.MeanRegions,
		"mean latency", s.MeanLatency.String(),
		"latency stddev", s.StdLatency.String(),
		"p50 latency", s.P50Latency.String(),
		"p95 latency", s.P95Latency.String(),
		"max latency", s.MaxLatency.String(),
	)
}

// Chart dimensions.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// Plot writes a PNG chart of per-frame latency and region count to w.
func (r *Recorder) Plot(w io.Writer) error {
	samples := r.Samples()
	if len(samples) == 0 {
		return ErrNoData
	}

	latPts := make(plotter.XYs, 0, len(samples))
	regPts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		if s.Failed {
			continue
		}
		x := float64(s.Frame)
		latPts = append(latPts, plotter.XY{X: x, Y: float64(s.Latency) / float64(time.Millisecond)})
		regPts = append(regPts, plotter.XY{X: x, Y: float64(s.Regions)})
	}
	if len(latPts) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Motion detection"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Latency (ms) / regions"
	p.Add(plotter.NewGrid())

	latLine, err := plotter.NewLine(latPts)
	if err != nil {
		return fmt.Errorf("could not create latency line: %w", err)
	}
	latLine.Width = vg.Points(1)
	latLine.Color = color.RGBA{B: 0xc0, A: 0xff}

	regLine, err := plotter.NewLine(regPts)
	if err != nil {
		return fmt.Errorf("could not create region line: %w", err)
	}
	regLine.Width = vg.Points(1)
	regLine.Color = color.RGBA{G: 0xa0, A: 0xff}

	p.Add(latLine, regLine)
	p.Legend.Add("latency (ms)", latLine)
	p.Legend.Add("regions", regLine)
	p.Legend.Top = true

	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("could not create chart writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	if err != nil {
		return fmt.Errorf("could not write chart: %w", err)
	}
	return nil
}

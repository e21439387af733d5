/*
DESCRIPTION
  stages.go provides the processing stages of a detection session: edge
  enhancement of the channel planes, cleanup of the foreground mask and
  extraction of region rectangles.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package detect

import (
	"fmt"
	"image"

	"github.com/ausocean/edgemotion/config"
	"github.com/ausocean/edgemotion/contour"
	"github.com/ausocean/edgemotion/filter"
	"github.com/ausocean/edgemotion/frame"
)

// edgeEnhancer holds the filters and per-channel buffers for edge
// enhancement. Channel c's buffers are touched only by channel c's lane,
// apart from src, which the merge lane fills before the channels start.
type edgeEnhancer struct {
	dilate *filter.Morphology
	median *filter.Median
	signed bool
	thresh uint8

	src      [frame.Channels]*frame.Plane
	dilated  [frame.Channels]*frame.Plane
	denoised [frame.Channels]*frame.Plane
	edge     [frame.Channels]*frame.Plane
	tmp      [frame.Channels]*frame.Plane
}

func newEdgeEnhancer(w, h int, c config.Config) (*edgeEnhancer, error) {
	if c.Threshold > 0xff {
		return nil, fmt.Errorf("threshold %d exceeds 255", c.Threshold)
	}
	k, err := filter.NewKernel(filter.ShapeRect, int(c.DilateSize), int(c.DilateSize))
	if err != nil {
		return nil, fmt.Errorf("dilation kernel: %w", err)
	}
	dil, err := filter.NewMorphology(filter.Dilate, k, int(c.DilateIterations))
	if err != nil {
		return nil, err
	}
	med, err := filter.NewMedian(int(c.MedianSize))
	if err != nil {
		return nil, err
	}

	e := &edgeEnhancer{dilate: dil, median: med, signed: c.EdgeSigned, thresh: uint8(c.Threshold)}
	for i := 0; i < frame.Channels; i++ {
		e.src[i] = frame.NewPlane(w, h)
		e.dilated[i] = frame.NewPlane(w, h)
		e.denoised[i] = frame.NewPlane(w, h)
		e.edge[i] = frame.NewPlane(w, h)
		e.tmp[i] = frame.NewPlane(w, h)
	}
	return e, nil
}

// enhance computes the normalised edge plane of channel c: the difference
// between the plane and its dilated, denoised version, stretched to the full
// intensity range.
func (e *edgeEnhancer) enhance(c int) error {
	err := e.dilate.Apply(e.dilated[c], e.src[c], e.tmp[c])
	if err != nil {
		return err
	}
	err = e.median.Apply(e.denoised[c], e.dilated[c])
	if err != nil {
		return err
	}
	if e.signed {
		err = filter.Subtract(e.edge[c], e.src[c], e.denoised[c])
	} else {
		err = filter.AbsDiff(e.edge[c], e.src[c], e.denoised[c])
	}
	if err != nil {
		return err
	}
	return filter.Normalize(e.edge[c], e.edge[c])
}

// cleaner removes speckle from and fills holes in the foreground mask.
type cleaner struct {
	median *filter.Median
	open   *filter.Morphology
	close  *filter.Morphology
	thresh uint8 // Binarisation level applied after each morphological step.

	mask    *frame.Plane // Result.
	work    *frame.Plane
	scratch *frame.Plane
}

func newCleaner(w, h int, c config.Config) (*cleaner, error) {
	if c.Threshold > 0xff {
		return nil, fmt.Errorf("threshold %d exceeds 255", c.Threshold)
	}
	shape, err := filter.ParseShape(c.MorphShape)
	if err != nil {
		return nil, err
	}
	k, err := filter.NewKernel(shape, int(c.MorphSize), int(c.MorphSize))
	if err != nil {
		return nil, fmt.Errorf("morphology kernel: %w", err)
	}
	med, err := filter.NewMedian(int(c.MedianSize))
	if err != nil {
		return nil, err
	}
	open, err := filter.NewMorphology(filter.Open, k, 1)
	if err != nil {
		return nil, err
	}
	cl, err := filter.NewMorphology(filter.Close, k, 1)
	if err != nil {
		return nil, err
	}
	return &cleaner{
		median:  med,
		open:    open,
		close:   cl,
		thresh:  uint8(c.Threshold),
		mask:    frame.NewPlane(w, h),
		work:    frame.NewPlane(w, h),
		scratch: frame.NewPlane(w, h),
	}, nil
}

// apply cleans fg into cl.mask.
func (cl *cleaner) apply(fg *frame.Plane) error {
	err := cl.median.Apply(cl.mask, fg)
	if err != nil {
		return err
	}
	err = cl.open.Apply(cl.work, cl.mask, cl.scratch)
	if err != nil {
		return err
	}
	err = filter.ThresholdPlane(cl.work, cl.work, cl.thresh, 0xff)
	if err != nil {
		return err
	}
	err = cl.close.Apply(cl.mask, cl.work, cl.scratch)
	if err != nil {
		return err
	}
	return filter.ThresholdPlane(cl.mask, cl.mask, cl.thresh, 0xff)
}

// regions extracts the bounding rectangles of mask regions whose area is in
// (min, max].
type regions struct {
	finder *contour.Finder
	min    float64
	max    float64
}

func newRegions(w, h int, c config.Config) (*regions, error) {
	if c.MinArea < 0 || c.MaxArea <= c.MinArea {
		return nil, fmt.Errorf("area range (%v, %v] is empty or negative", c.MinArea, c.MaxArea)
	}
	return &regions{finder: contour.NewFinder(w, h), min: c.MinArea, max: c.MaxArea}, nil
}

func (r *regions) find(mask *frame.Plane) ([]image.Rectangle, error) {
	cs, err := r.finder.Find(mask)
	if err != nil {
		return nil, err
	}
	rects := []image.Rectangle{}
	for _, c := range cs {
		a := c.Area()
		if a > r.min && a <= r.max {
			rects = append(rects, c.Bounds())
		}
	}
	return rects, nil
}

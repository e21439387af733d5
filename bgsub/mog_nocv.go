//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  mog_nocv.go provides the pure Go Gaussian mixture, used when OpenCV is not
  available. The update follows OpenCV's MOG2 without shadow detection.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgsub

import "github.com/ausocean/edgemotion/frame"

// Mixture parameters. These are the usual values for the adaptive GMM.
const (
	nMixtures       = 5    // Maximum modes per pixel.
	backgroundRatio = 0.9  // Weight fraction of the modes that describe the background.
	varThresholdGen = 9.0  // Squared Mahalanobis distance under which a sample updates a mode.
	varInit         = 15.0 // Variance of a new mode.
	varMin          = 4.0
	varMax          = 5 * varInit
	complexityRed   = 0.05 // Complexity reduction prior.
)

type mixture struct {
	alphaT float32
	tb     float32

	// Per pixel storage; mode i of pixel p is at index p*nMixtures+i.
	weight   []float32
	variance []float32
	mean     []float32 // frame.Channels values per mode.
	modes    []uint8   // Number of modes in use per pixel.
}

func newMixture(w, h int, p Params) *mixture {
	n := w * h
	return &mixture{
		alphaT:   float32(p.LearningRate),
		tb:       float32(p.VarThreshold),
		weight:   make([]float32, n*nMixtures),
		variance: make([]float32, n*nMixtures),
		mean:     make([]float32, n*nMixtures*frame.Channels),
		modes:    make([]uint8, n),
	}
}

func (m *mixture) reset() {
	clear(m.weight)
	clear(m.variance)
	clear(m.mean)
	clear(m.modes)
}

func (m *mixture) close() error { return nil }

func (m *mixture) apply(mask *frame.Plane, f *frame.Frame, first bool) error {
	if first {
		m.seed(mask, f)
		return nil
	}
	for p := range m.modes {
		mask.Pix[p] = m.update(p, f.Pix[p*frame.Channels:p*frame.Channels+frame.Channels])
	}
	return nil
}

func (m *mixture) seed(mask *frame.Plane, f *frame.Frame) {
	for p := range m.modes {
		g := p * nMixtures
		m.modes[p] = 1
		m.weight[g] = 1
		m.variance[g] = varInit
		for c := 0; c < frame.Channels; c++ {
			m.mean[g*frame.Channels+c] = float32(f.Pix[p*frame.Channels+c])
		}
		mask.Pix[p] = Background
	}
}

// update folds the sample px into the mixture of pixel p and returns its
// classification.
func (m *mixture) update(p int, px []uint8) uint8 {
	var (
		g      = p * nMixtures
		w      = m.weight[g : g+nMixtures]
		v      = m.variance[g : g+nMixtures]
		mu     = m.mean[g*frame.Channels : (g+nMixtures)*frame.Channels]
		alphaT = m.alphaT
		alpha1 = 1 - alphaT
		prune  = -alphaT * complexityRed
		n      = int(m.modes[p])

		total      float32
		fits       bool
		background bool
	)

	for mode := 0; mode < n; mode++ {
		weight := alpha1*w[mode] + prune
		swaps := 0
		if !fits {
			vr := v[mode]
			var diff [frame.Channels]float32
			var dist2 float32
			for c := range diff {
				diff[c] = mu[mode*frame.Channels+c] - float32(px[c])
				dist2 += diff[c] * diff[c]
			}

			if total < backgroundRatio && dist2 < m.tb*vr {
				background = true
			}

			if dist2 < varThresholdGen*vr {
				fits = true
				weight += alphaT
				k := alphaT / weight
				for c := range diff {
					mu[mode*frame.Channels+c] -= k * diff[c]
				}
				vr += k * (dist2 - vr)
				v[mode] = min(max(vr, varMin), varMax)

				// Keep modes sorted by descending weight.
				for i := mode; i > 0; i-- {
					if weight < w[i-1] {
						break
					}
					swaps++
					m.swap(w, v, mu, i, i-1)
				}
			}
		}

		if weight < -prune {
			weight = 0
			n--
		}
		w[mode-swaps] = weight
		total += weight
	}

	if total > 0 {
		inv := 1 / total
		for mode := 0; mode < n; mode++ {
			w[mode] *= inv
		}
	}

	if !fits {
		mode := n
		if n == nMixtures {
			mode = nMixtures - 1
		} else {
			n++
		}
		if n == 1 {
			w[mode] = 1
		} else {
			w[mode] = alphaT
			for i := 0; i < n-1; i++ {
				w[i] *= alpha1
			}
		}
		for c := 0; c < frame.Channels; c++ {
			mu[mode*frame.Channels+c] = float32(px[c])
		}
		v[mode] = varInit

		for i := n - 1; i > 0; i-- {
			if alphaT < w[i-1] {
				break
			}
			m.swap(w, v, mu, i, i-1)
		}
	}

	m.modes[p] = uint8(n)
	if background {
		return Background
	}
	return Foreground
}

func (m *mixture) swap(w, v, mu []float32, i, j int) {
	w[i], w[j] = w[j], w[i]
	v[i], v[j] = v[j], v[i]
	for c := 0; c < frame.Channels; c++ {
		a, b := i*frame.Channels+c, j*frame.Channels+c
		mu[a], mu[b] = mu[b], mu[a]
	}
}

package pixelsnap

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// estimateStep returns the median spacing between strong profile peaks.
// ok is false when fewer than two peaks survive filtering.
func estimateStep(profile []float64, opt Options) (step float64, ok bool) {
	if len(profile) == 0 {
		return 0, false
	}
	maxVal := floats.Max(profile)
	if maxVal == 0 {
		return 0, false
	}

	threshold := maxVal * opt.PeakThresholdMultiplier
	var peaks []int
	for i := 1; i < len(profile)-1; i++ {
		v := profile[i]
		if v > threshold && v > profile[i-1] && v > profile[i+1] {
			if len(peaks) > 0 && i-peaks[len(peaks)-1] < opt.PeakDistanceFilter {
				continue
			}
			peaks = append(peaks, i)
		}
	}
	if len(peaks) < 2 {
		return 0, false
	}

	gaps := make([]int, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		gaps[i-1] = peaks[i] - peaks[i-1]
	}
	slices.Sort(gaps)
	// Lower median for even counts.
	return float64(gaps[(len(gaps)-1)/2]), true
}

// resolveSteps reconciles the per-axis estimates into one step per axis.
func resolveSteps(stepX float64, okX bool, stepY float64, okY bool, w, h int, opt Options) (float64, float64) {
	switch {
	case okX && okY:
		ratio := max(stepX, stepY) / min(stepX, stepY)
		if ratio > opt.MaxStepRatio {
			s := min(stepX, stepY)
			return s, s
		}
		avg := (stepX + stepY) / 2
		return avg, avg
	case okX:
		return stepX, stepX
	case okY:
		return stepY, stepY
	}
	fallback := max(float64(min(w, h))/float64(opt.FallbackTargetSegments), 1)
	return fallback, fallback
}

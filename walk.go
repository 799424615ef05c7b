package pixelsnap

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func profileMean(profile []float64) float64 {
	if len(profile) == 0 {
		return 0
	}
	return floats.Sum(profile) / float64(len(profile))
}

// strongestEdge returns the first index of the largest profile value in
// [lo, hi). An empty range yields (lo, -1).
func strongestEdge(profile []float64, lo, hi int) (idx int, val float64) {
	idx, val = lo, -1
	for i := max(lo, 0); i < min(hi, len(profile)); i++ {
		if profile[i] > val {
			val = profile[i]
			idx = i
		}
	}
	return idx, val
}

// walk places cuts every step pixels, pulling each one onto the strongest
// nearby edge when that edge clears mean*WalkerStrengthThreshold.
func walk(profile []float64, step float64, limit int, opt Options) []int {
	if len(profile) == 0 {
		return []int{0, limit}
	}

	cuts := []int{0}
	window := max(step*opt.WalkerSearchWindowRatio, opt.WalkerMinSearchWindow)
	threshold := profileMean(profile) * opt.WalkerStrengthThreshold
	lim := float64(limit)

	pos := 0.0
	for pos < lim {
		target := pos + step
		if target >= lim {
			cuts = append(cuts, limit)
			break
		}
		start := max(int(math.Floor(target-window)), int(math.Floor(pos+1)))
		end := min(int(math.Ceil(target+window)), limit)
		if end <= start {
			pos = target
			continue
		}

		idx, val := strongestEdge(profile, start, end)
		if val > threshold {
			cuts = append(cuts, idx)
			pos = float64(idx)
		} else {
			cuts = append(cuts, int(math.Floor(target)))
			pos = target
		}
	}
	return cuts
}

// snapUniformCuts splits [0,limit] into evenly sized cells of roughly
// targetStep, nudging each cut onto a strong nearby edge when one exists.
func snapUniformCuts(profile []float64, limit int, targetStep float64, minRequired int, opt Options) []int {
	if limit == 0 {
		return []int{0}
	}
	if limit == 1 {
		return []int{0, 1}
	}

	cells := 0
	if targetStep > 0 && !math.IsInf(targetStep, 0) {
		cells = int(math.Round(float64(limit) / targetStep))
	}
	cells = min(max(cells, minRequired-1, 1), limit)

	cellWidth := float64(limit) / float64(cells)
	window := max(cellWidth*opt.WalkerSearchWindowRatio, opt.WalkerMinSearchWindow)
	threshold := profileMean(profile) * opt.WalkerStrengthThreshold

	cuts := []int{0}
	for i := 1; i < cells; i++ {
		target := cellWidth * float64(i)
		prev := cuts[len(cuts)-1]
		if prev+1 >= limit {
			break
		}
		start := max(int(math.Floor(target-window)), prev+1, 0)
		end := min(int(math.Ceil(target+window)), limit-1)
		if end < start {
			start, end = prev+1, prev+1
		}

		idx, val := strongestEdge(profile, start, end+1)
		if val <= threshold {
			idx = int(math.Round(target))
			if idx <= prev {
				idx = prev + 1
			}
			if idx >= limit {
				idx = max(limit-1, prev+1)
			}
		}
		cuts = append(cuts, idx)
	}
	if cuts[len(cuts)-1] != limit {
		cuts = append(cuts, limit)
	}
	return sanitizeCuts(cuts, limit)
}

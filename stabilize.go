package pixelsnap

import (
	"math"
	"slices"
)

// sanitizeCuts clamps cuts into [0,limit], adds both ends and returns them
// sorted without duplicates.
func sanitizeCuts(cuts []int, limit int) []int {
	if limit == 0 {
		return []int{0}
	}
	out := make([]int, 0, len(cuts)+2)
	out = append(out, 0, limit)
	for _, c := range cuts {
		out = append(out, min(max(c, 0), limit))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func cellCount(cuts []int) int {
	return max(len(cuts)-1, 0)
}

// stabilizeCuts checks one axis against its sibling's raw cuts and
// regenerates it with snapUniformCuts when it has too few cuts or its cell
// size disagrees with the sibling by more than MaxStepRatio.
func stabilizeCuts(profile []float64, cuts []int, limit int, siblingCuts []int, siblingLimit int, opt Options) []int {
	if limit == 0 {
		return []int{0}
	}

	cuts = sanitizeCuts(cuts, limit)
	minRequired := min(max(opt.MinCutsPerAxis, 2), limit+1)
	axisCells := cellCount(cuts)
	siblingCells := cellCount(siblingCuts)
	siblingHasGrid := siblingLimit > 0 && siblingCells > 0 && siblingCells >= max(minRequired-1, 0)

	skewed := false
	if siblingHasGrid && axisCells > 0 {
		axisStep := float64(limit) / float64(axisCells)
		siblingStep := float64(siblingLimit) / float64(siblingCells)
		ratio := axisStep / siblingStep
		skewed = ratio > opt.MaxStepRatio || ratio < 1/opt.MaxStepRatio
	}
	if len(cuts) >= minRequired && !skewed {
		return cuts
	}

	var targetStep float64
	switch {
	case siblingHasGrid:
		targetStep = float64(siblingLimit) / float64(siblingCells)
	case opt.FallbackTargetSegments > 1:
		targetStep = float64(limit) / float64(opt.FallbackTargetSegments)
	case axisCells > 0:
		targetStep = float64(limit) / float64(axisCells)
	default:
		targetStep = float64(limit)
	}
	if math.IsInf(targetStep, 0) || math.IsNaN(targetStep) || targetStep <= 0 {
		targetStep = 1
	}
	return snapUniformCuts(profile, limit, targetStep, minRequired, opt)
}

// stabilizeBothAxes stabilizes each axis against the other's raw cuts, then
// re-snaps any axis whose cells are still much larger than the other's.
// Each axis only ever sees the sibling's raw cuts.
func stabilizeBothAxes(profileX, profileY []float64, rawCols, rawRows []int, w, h int, opt Options) (cols, rows []int) {
	cols = stabilizeCuts(profileX, rawCols, w, rawRows, h, opt)
	rows = stabilizeCuts(profileY, rawRows, h, rawCols, w, opt)

	colStep := float64(w) / float64(max(cellCount(cols), 1))
	rowStep := float64(h) / float64(max(cellCount(rows), 1))
	if max(colStep, rowStep)/min(colStep, rowStep) <= opt.MaxStepRatio {
		return cols, rows
	}

	target := min(colStep, rowStep)
	if colStep > target*1.2 {
		cols = snapUniformCuts(profileX, w, target, opt.MinCutsPerAxis, opt)
	}
	if rowStep > target*1.2 {
		rows = snapUniformCuts(profileY, h, target, opt.MinCutsPerAxis, opt)
	}
	return cols, rows
}

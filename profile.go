package pixelsnap

import (
	"image"
	"math"
)

// luminancePlane returns Rec.601 luma per pixel. Fully transparent pixels
// count as black so sprite silhouettes produce strong edges.
func luminancePlane(img *image.NRGBA) []float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	lum := make([]float64, w*h)
	for i := range lum {
		off := i * 4
		if img.Pix[off+3] == 0 {
			continue
		}
		lum[i] = 0.299*float64(img.Pix[off]) + 0.587*float64(img.Pix[off+1]) + 0.114*float64(img.Pix[off+2])
	}
	return lum
}

// edgeProfiles sums absolute central-difference gradients per column and per
// row. Border columns and rows have no two-sided neighborhood and stay zero.
func edgeProfiles(img *image.NRGBA) (cols, rows []float64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	lum := luminancePlane(img)

	cols = make([]float64, w)
	rows = make([]float64, h)
	for y := range h {
		row := y * w
		for x := 1; x < w-1; x++ {
			cols[x] += math.Abs(lum[row+x+1] - lum[row+x-1])
		}
	}
	for x := range w {
		for y := 1; y < h-1; y++ {
			rows[y] += math.Abs(lum[(y+1)*w+x] - lum[(y-1)*w+x])
		}
	}
	return cols, rows
}

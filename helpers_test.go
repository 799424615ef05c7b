package pixelsnap

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
	gray  = color.NRGBA{128, 128, 128, 255}
)

func newImage(t *testing.T, w, h int, fill func(x, y int) color.NRGBA) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	return img
}

// checkerboard alternates white and black blocks of cell x cell pixels.
func checkerboard(t *testing.T, w, h, cell int) *image.NRGBA {
	t.Helper()
	return newImage(t, w, h, func(x, y int) color.NRGBA {
		if (x/cell+y/cell)%2 == 0 {
			return white
		}
		return black
	})
}

// softCheckerboard is a checkerboard whose seams are drawn in gray, the way
// an upscaled and blurred sprite looks after quantization.
func softCheckerboard(t *testing.T, w, h, cell int) *image.NRGBA {
	t.Helper()
	return newImage(t, w, h, func(x, y int) color.NRGBA {
		if (x%cell == 0 && x > 0) || (y%cell == 0 && y > 0) {
			return gray
		}
		if (x/cell+y/cell)%2 == 0 {
			return white
		}
		return black
	})
}

// noise returns random pixels; roughly one in eight is fully transparent.
func noise(t *testing.T, w, h int, seed int64) *image.NRGBA {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	return newImage(t, w, h, func(x, y int) color.NRGBA {
		if rng.Intn(8) == 0 {
			return color.NRGBA{}
		}
		return color.NRGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(1 + rng.Intn(255))}
	})
}

func distinctOpaqueRGB(img *image.NRGBA) int {
	seen := make(map[[3]uint8]struct{})
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] != 0 {
			seen[[3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}] = struct{}{}
		}
	}
	return len(seen)
}

func zeros(n int) []float64 { return make([]float64, n) }

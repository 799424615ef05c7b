package pixelsnap

import (
	"image"

	"golang.org/x/sync/errgroup"
)

func packRGBA(p []uint8) uint32 {
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
}

// resample builds one output pixel per grid cell using the most frequent
// exact RGBA value in the cell. Ties go to the lexicographically smallest
// (R, G, B, A), which is also the smallest packed key.
func resample(img *image.NRGBA, cols, rows []int, workers int) *image.NRGBA {
	if len(cols) < 2 || len(rows) < 2 {
		return img
	}
	outW, outH := len(cols)-1, len(rows)-1
	out := image.NewNRGBA(image.Rect(0, 0, outW, outH))

	if workers <= 1 {
		counts := make(map[uint32]int)
		for yi := range outH {
			resampleRow(img, out, cols, rows, yi, counts)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for yi := range outH {
		g.Go(func() error {
			resampleRow(img, out, cols, rows, yi, make(map[uint32]int))
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func resampleRow(img, out *image.NRGBA, cols, rows []int, yi int, counts map[uint32]int) {
	srcW, srcH := img.Rect.Dx(), img.Rect.Dy()
	ys, ye := rows[yi], min(rows[yi+1], srcH)
	for xi := range len(cols) - 1 {
		xs, xe := cols[xi], min(cols[xi+1], srcW)
		if xe <= xs || ye <= ys {
			continue
		}

		clear(counts)
		for y := ys; y < ye; y++ {
			row := y * img.Stride
			for x := xs; x < xe; x++ {
				off := row + x*4
				counts[packRGBA(img.Pix[off:off+4])]++
			}
		}

		var best uint32
		bestCount := 0
		for key, n := range counts {
			if n > bestCount || (n == bestCount && key < best) {
				best, bestCount = key, n
			}
		}

		off := out.PixOffset(xi, yi)
		out.Pix[off] = uint8(best >> 24)
		out.Pix[off+1] = uint8(best >> 16)
		out.Pix[off+2] = uint8(best >> 8)
		out.Pix[off+3] = uint8(best)
	}
}

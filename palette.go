package pixelsnap

import (
	"cmp"
	"image"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// paletteOf lists the distinct RGB values of non-transparent pixels,
// most frequent first. Equal counts are ordered by RGB.
func paletteOf(img *image.NRGBA) []colorful.Color {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	counts := make(map[uint32]int)
	for y := range h {
		row := y * img.Stride
		for x := range w {
			p := img.Pix[row+x*4 : row+x*4+4]
			if p[3] == 0 {
				continue
			}
			counts[uint32(p[0])<<16|uint32(p[1])<<8|uint32(p[2])]++
		}
	}

	keys := make([]uint32, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b uint32) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	out := make([]colorful.Color, len(keys))
	for i, k := range keys {
		out[i] = colorful.Color{
			R: float64(k>>16&0xff) / 255.0,
			G: float64(k>>8&0xff) / 255.0,
			B: float64(k&0xff) / 255.0,
		}
	}
	return out
}

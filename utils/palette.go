package utils

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod is the inverse of PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "dominantcolor", "":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q (want dominantcolor or kmeans)", s)
}

// ExtractPalette picks k representative colors of img. The kmeans method
// falls back to dominantcolor when clustering yields nothing.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	if method == PaletteMethodKMeans {
		if p := ExtractKMeansPalette(img, k); len(p) != 0 {
			return p
		}
		log.Warn().Int("k", k).Msg("kmeans palette empty, falling back to dominantcolor")
	}
	return ExtractDominantPalette(img, k)
}

// candidate is a palette color weighted by how much of the image it covers.
type candidate struct {
	col    colorful.Color
	weight float64
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	found := dominantcolor.FindWeight(img, max(24, k*8))
	cands := make([]candidate, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, candidate{col: col, weight: c.Weight})
	}
	if len(cands) == 0 {
		cands = append(cands, candidate{col: colorful.Color{R: 0.5, G: 0.5, B: 0.5}, weight: 1})
	}
	return pickDiverse(cands, k)
}

// maxKMeansSamples bounds the observations handed to kmeans.
const maxKMeansSamples = 12000

func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	b := img.Bounds()
	area := b.Dx() * b.Dy()
	if area == 0 {
		return nil
	}
	stride := 1
	if area > maxKMeansSamples {
		stride = int(math.Sqrt(float64(area)/maxKMeansSamples)) + 1
	}

	var obs clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += stride {
		for x := b.Min.X; x < b.Max.X; x += stride {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255})
		}
	}
	if len(obs) == 0 {
		return nil
	}

	// Over-partition, then keep the k most distinct clusters.
	parts, err := kmeans.New().Partition(obs, min(max(k*4, k+2), len(obs)))
	if err != nil {
		log.Debug().Err(err).Msg("kmeans partition failed")
		return nil
	}
	cands := make([]candidate, 0, len(parts))
	for _, p := range parts {
		if len(p.Observations) == 0 || len(p.Center) < 3 {
			continue
		}
		col := colorful.Color{R: p.Center[0], G: p.Center[1], B: p.Center[2]}
		cands = append(cands, candidate{col: col, weight: float64(len(p.Observations))})
	}
	return pickDiverse(cands, k)
}

// pickDiverse starts from the heaviest candidate and greedily adds the one
// farthest in Lab from everything chosen so far, biased toward heavy
// candidates.
func pickDiverse(cands []candidate, k int) []colorful.Color {
	k = min(k, len(cands))
	if k <= 0 {
		return nil
	}
	heaviest := 0.0
	for i := range cands {
		cands[i].col = cands[i].col.Clamped()
		cands[i].weight = max(cands[i].weight, 1e-6)
		heaviest = max(heaviest, cands[i].weight)
	}
	slices.SortStableFunc(cands, func(a, b candidate) int { return cmp.Compare(b.weight, a.weight) })

	picked := []colorful.Color{cands[0].col}
	// nearest[i] is the Lab distance from cands[i] to the closest pick.
	nearest := make([]float64, len(cands))
	for i := range cands {
		nearest[i] = cands[i].col.DistanceLab(picked[0])
	}
	nearest[0] = -1

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if nearest[i] < 0 {
				continue
			}
			score := nearest[i] * (0.55 + 0.45*math.Sqrt(c.weight/heaviest))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		next := cands[best].col
		picked = append(picked, next)
		nearest[best] = -1
		for i := range cands {
			if nearest[i] >= 0 {
				nearest[i] = min(nearest[i], cands[i].col.DistanceLab(next))
			}
		}
	}
	return picked
}

// UniquePalette lists the distinct colors of the non-transparent pixels of
// img, most frequent first.
func UniquePalette(img image.Image) []colorful.Color {
	b := img.Bounds()
	counts := make(map[color.NRGBA]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			c.A = 255
			counts[c]++
		}
	}
	keys := make([]color.NRGBA, 0, len(counts))
	for c := range counts {
		keys = append(keys, c)
	}
	slices.SortFunc(keys, func(a, b color.NRGBA) int {
		return cmp.Or(
			cmp.Compare(counts[b], counts[a]),
			cmp.Compare(a.R, b.R),
			cmp.Compare(a.G, b.G),
			cmp.Compare(a.B, b.B),
		)
	})
	out := make([]colorful.Color, len(keys))
	for i, c := range keys {
		out[i], _ = colorful.MakeColor(c)
	}
	return out
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	luminance := func(c colorful.Color) float64 {
		r, g, b := c.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortStableFunc(palette, func(a, b colorful.Color) int {
		return cmp.Compare(luminance(a), luminance(b))
	})
}

// RemapToPalette replaces the color of every non-transparent pixel with the
// palette entry nearest in CIE Lab. Alpha is kept and fully transparent
// pixels are copied as they are. An empty palette yields a plain copy.
func RemapToPalette(img image.Image, palette []colorful.Color) *image.NRGBA {
	out := cloneNRGBA(img)
	if len(palette) == 0 {
		return out
	}

	entries := make([][3]uint8, len(palette))
	for i, p := range palette {
		entries[i][0], entries[i][1], entries[i][2] = p.Clamped().RGB255()
	}
	memo := make(map[[3]uint8][3]uint8)
	for i := 0; i < len(out.Pix); i += 4 {
		px := out.Pix[i : i+4 : i+4]
		if px[3] == 0 {
			continue
		}
		key := [3]uint8{px[0], px[1], px[2]}
		mapped, ok := memo[key]
		if !ok {
			mapped = entries[nearestLab(key, palette)]
			memo[key] = mapped
		}
		px[0], px[1], px[2] = mapped[0], mapped[1], mapped[2]
	}
	return out
}

// cloneNRGBA returns a zero-origin NRGBA copy of img. NRGBA sources keep
// the color of fully transparent pixels.
func cloneNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	src, ok := img.(*image.NRGBA)
	if !ok {
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
		return out
	}
	for y := range b.Dy() {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:], src.Pix[off:off+b.Dx()*4])
	}
	return out
}

func nearestLab(c [3]uint8, palette []colorful.Color) int {
	src := colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
	best, bestD := 0, math.Inf(1)
	for i, p := range palette {
		if d := src.DistanceLab(p); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// SavePalette writes the palette as a strip of tileSize squares.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		tile := image.Rect(i*tileSize, 0, (i+1)*tileSize, tileSize)
		draw.Draw(img, tile, image.NewUniform(color.NRGBA{r, g, b, 255}), image.Point{}, draw.Src)
	}
	return SaveImage(img, filename)
}

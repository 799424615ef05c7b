package pixelsnap

import (
	"image"
	"image/color"
	"math"
)

type rgb [3]float64

func distSq(p, c rgb) float64 {
	dr := p[0] - c[0]
	dg := p[1] - c[1]
	db := p[2] - c[2]
	return dr*dr + dg*dg + db*db
}

func nearestCentroid(p rgb, centroids []rgb) int {
	best := 0
	bestD := math.Inf(1)
	for j, c := range centroids {
		if d := distSq(p, c); d < bestD {
			bestD = d
			best = j
		}
	}
	return best
}

// quantize reduces the opaque pixels of img to at most KColors colors with
// seeded k-means++. Transparent pixels are copied verbatim and never take
// part in clustering. With no opaque pixels img itself is returned.
func quantize(img *image.NRGBA, opt Options) (*image.NRGBA, []color.NRGBA) {
	n := img.Rect.Dx() * img.Rect.Dy()
	pix := img.Pix

	opaque := make([]rgb, 0, n)
	for i := range n {
		off := i * 4
		if pix[off+3] != 0 {
			opaque = append(opaque, rgb{float64(pix[off]), float64(pix[off+1]), float64(pix[off+2])})
		}
	}
	if len(opaque) == 0 {
		return img, nil
	}

	centroids := seedCentroids(opaque, min(opt.KColors, len(opaque)), newMulberry32(opt.KSeed))
	lloyd(opaque, centroids, opt.MaxKmeansIterations)

	rounded := make([]rgb, len(centroids))
	palette := make([]color.NRGBA, len(centroids))
	for j, c := range centroids {
		rounded[j] = rgb{math.Round(c[0]), math.Round(c[1]), math.Round(c[2])}
		palette[j] = color.NRGBA{uint8(rounded[j][0]), uint8(rounded[j][1]), uint8(rounded[j][2]), 255}
	}

	out := image.NewNRGBA(img.Rect)
	for i := range n {
		off := i * 4
		a := pix[off+3]
		if a == 0 {
			copy(out.Pix[off:off+4], pix[off:off+4])
			continue
		}
		p := rgb{float64(pix[off]), float64(pix[off+1]), float64(pix[off+2])}
		c := rounded[nearestCentroid(p, centroids)]
		out.Pix[off] = uint8(c[0])
		out.Pix[off+1] = uint8(c[1])
		out.Pix[off+2] = uint8(c[2])
		out.Pix[off+3] = a
	}
	return out, palette
}

// seedCentroids implements k-means++ initialization.
func seedCentroids(points []rgb, k int, rng *mulberry32) []rgb {
	n := len(points)
	centroids := make([]rgb, 0, k)
	centroids = append(centroids, points[rng.intn(n)])

	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}
	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		sum := 0.0
		for i, p := range points {
			if d := distSq(p, last); d < nearest[i] {
				nearest[i] = d
			}
			sum += nearest[i]
		}
		if sum <= 0 {
			centroids = append(centroids, points[rng.intn(n)])
		} else {
			centroids = append(centroids, points[rng.weighted(nearest)])
		}
	}
	return centroids
}

// lloyd refines centroids in place. It stops after maxIter rounds or once
// no centroid moves more than 0.01 (squared) between rounds.
func lloyd(points []rgb, centroids []rgb, maxIter int) {
	k := len(centroids)
	prev := make([]rgb, k)
	copy(prev, centroids)
	sums := make([]rgb, k)
	counts := make([]int, k)

	for iter := range maxIter {
		clear(sums)
		clear(counts)
		for _, p := range points {
			j := nearestCentroid(p, centroids)
			sums[j][0] += p[0]
			sums[j][1] += p[1]
			sums[j][2] += p[2]
			counts[j]++
		}
		for j := range k {
			if counts[j] > 0 {
				c := float64(counts[j])
				centroids[j] = rgb{sums[j][0] / c, sums[j][1] / c, sums[j][2] / c}
			}
		}

		if iter > 0 {
			maxMove := 0.0
			for j := range k {
				maxMove = max(maxMove, distSq(centroids[j], prev[j]))
			}
			if maxMove < 0.01 {
				break
			}
		}
		copy(prev, centroids)
	}
}

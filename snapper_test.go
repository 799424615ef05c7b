package pixelsnap

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnap_SoftCheckerboard(t *testing.T) {
	img := softCheckerboard(t, 32, 32, 8)
	for _, k := range []int{3, 16} {
		s, err := New(WithKColors(k))
		require.NoError(t, err)
		res, err := s.Run(img)
		require.NoError(t, err)

		assert.Equal(t, []int{0, 8, 16, 24, 32}, res.ColCuts)
		assert.Equal(t, []int{0, 8, 16, 24, 32}, res.RowCuts)
		assert.True(t, res.DetectedX)
		assert.True(t, res.DetectedY)
		assert.Equal(t, 8.0, res.StepX)
		assert.Equal(t, 8.0, res.StepY)
		require.Equal(t, 4, res.Width())
		require.Equal(t, 4, res.Height())
		assert.Equal(t, 32, res.SrcWidth)
		assert.Equal(t, 32, res.SrcHeight)

		for y := range 4 {
			for x := range 4 {
				want := black
				if (x+y)%2 == 0 {
					want = white
				}
				assert.Equal(t, want, res.Image.NRGBAAt(x, y), "cell %d,%d", x, y)
			}
		}
		require.Len(t, res.Palette, 2)
		assert.Equal(t, "#000000", res.Palette[0].Hex())
		assert.Equal(t, "#ffffff", res.Palette[1].Hex())
	}
}

func TestSnap_HardCheckerboardKeepsEveryPixel(t *testing.T) {
	// Hard 2px blocks produce plateaus, not peaks, so no spacing is detected
	// and the one-pixel fallback grid reproduces the input.
	img := checkerboard(t, 4, 4, 2)
	s, err := New(WithKColors(2))
	require.NoError(t, err)
	res, err := s.Run(img)
	require.NoError(t, err)

	assert.False(t, res.DetectedX)
	assert.False(t, res.DetectedY)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.ColCuts)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.RowCuts)
	assert.Equal(t, img.Pix, res.Image.Pix)
}

func TestSnap_InputUnchanged(t *testing.T) {
	img := noise(t, 24, 20, 1)
	before := bytes.Clone(img.Pix)
	_, err := Snap(img, WithKColors(4))
	require.NoError(t, err)
	assert.Equal(t, before, img.Pix)
}

func TestSnap_Deterministic(t *testing.T) {
	img := noise(t, 37, 29, 2)
	a, err := Snap(img)
	require.NoError(t, err)
	b, err := Snap(img)
	require.NoError(t, err)
	assert.Equal(t, a.Rect, b.Rect)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestSnap_WorkersDoNotChangeOutput(t *testing.T) {
	img := softCheckerboard(t, 64, 48, 4)
	want, err := Snap(img, WithWorkers(0))
	require.NoError(t, err)
	for _, n := range []int{1, 4} {
		got, err := Snap(img, WithWorkers(n))
		require.NoError(t, err)
		assert.Equal(t, want.Pix, got.Pix, "workers=%d", n)
	}
}

func TestSnap_GridInvariants(t *testing.T) {
	for seed := range int64(6) {
		w, h := 20+int(seed)*7, 15+int(seed)*5
		s, err := New(WithKColors(int(seed) + 2))
		require.NoError(t, err)
		res, err := s.Run(noise(t, w, h, seed))
		require.NoError(t, err)

		for _, axis := range []struct {
			cuts  []int
			limit int
			cells int
		}{{res.ColCuts, w, res.Width()}, {res.RowCuts, h, res.Height()}} {
			require.NotEmpty(t, axis.cuts)
			assert.Equal(t, 0, axis.cuts[0])
			assert.Equal(t, axis.limit, axis.cuts[len(axis.cuts)-1])
			assert.Equal(t, len(axis.cuts)-1, axis.cells)
			for i := 1; i < len(axis.cuts); i++ {
				assert.Greater(t, axis.cuts[i], axis.cuts[i-1])
			}
		}
		assert.LessOrEqual(t, res.Width(), w)
		assert.LessOrEqual(t, res.Height(), h)
		assert.LessOrEqual(t, len(res.Palette), int(seed)+2)
	}
}

func TestSnap_SingleColorGradient(t *testing.T) {
	img := newImage(t, 16, 16, func(x, y int) color.NRGBA {
		return color.NRGBA{uint8(x * 16), uint8(y * 16), 100, 255}
	})
	s, err := New(WithKColors(1))
	require.NoError(t, err)
	res, err := s.Run(img)
	require.NoError(t, err)
	assert.Equal(t, 1, distinctOpaqueRGB(res.Image))
	assert.Len(t, res.Palette, 1)
}

func TestSnap_AllTransparent(t *testing.T) {
	img := newImage(t, 8, 8, func(x, y int) color.NRGBA {
		return color.NRGBA{uint8(x), uint8(y), 0, 0}
	})
	s, err := New()
	require.NoError(t, err)
	res, err := s.Run(img)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, res.Image.Pix)
	assert.Empty(t, res.Palette)
}

func TestSnap_SubImageOrigin(t *testing.T) {
	src := softCheckerboard(t, 32, 32, 8)
	canvas := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(canvas, image.Rect(5, 3, 37, 35), src, image.Point{}, draw.Src)
	sub := canvas.SubImage(image.Rect(5, 3, 37, 35))

	want, err := Snap(src)
	require.NoError(t, err)
	got, err := Snap(sub)
	require.NoError(t, err)
	assert.Equal(t, want.Rect, got.Rect)
	assert.Equal(t, want.Pix, got.Pix)
}

func TestSnap_NonNRGBAInput(t *testing.T) {
	src := softCheckerboard(t, 32, 32, 8)
	rgba := image.NewRGBA(src.Rect)
	draw.Draw(rgba, rgba.Rect, src, image.Point{}, draw.Src)

	want, err := Snap(src)
	require.NoError(t, err)
	got, err := Snap(rgba)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, got.Pix)
}

func TestSnap_MinimumSize(t *testing.T) {
	out, err := Snap(noise(t, 3, 3, 4))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.Rect.Dx(), 1)
	assert.GreaterOrEqual(t, out.Rect.Dy(), 1)
}

func TestSnap_Errors(t *testing.T) {
	_, err := Snap(nil)
	assert.ErrorIs(t, err, ErrNilImage)

	for _, size := range [][2]int{{2, 5}, {5, 2}, {1, 1}, {0, 4}} {
		_, err := Snap(image.NewNRGBA(image.Rect(0, 0, size[0], size[1])))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "%v", size)
		var dimErr *DimensionError
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, size[0], dimErr.Width)
	}

	_, err = Snap(checkerboard(t, 8, 8, 2), WithKColors(0))
	assert.ErrorIs(t, err, ErrInvalidKColors)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "KColors", cfgErr.Field)
}

func TestSnap_LogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := Snap(softCheckerboard(t, 16, 16, 4), WithLogger(logger))
	require.NoError(t, err)
	for _, stage := range []string{"quantize", "step", "cuts", "resample"} {
		assert.Contains(t, buf.String(), `"stage":"`+stage+`"`)
	}
}

func TestFromPix(t *testing.T) {
	pix := make([]uint8, 3*4*4)
	img, err := FromPix(3, 4, pix)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 4), img.Rect)
	pix[0] = 7
	assert.Equal(t, uint8(7), img.Pix[0], "buffer is shared")

	_, err = FromPix(3, 4, pix[:10])
	var sizeErr *BufferSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 10, sizeErr.Len)

	_, err = FromPix(0, 4, nil)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/setanarut/pixelsnap/utils"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSprite saves a 32x32 checkerboard of 8px cells with gray seams.
func writeSprite(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := range 32 {
		for x := range 32 {
			c := color.NRGBA{0, 0, 0, 255}
			switch {
			case (x%8 == 0 && x > 0) || (y%8 == 0 && y > 0):
				c = color.NRGBA{128, 128, 128, 255}
			case (x/8+y/8)%2 == 0:
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	require.NoError(t, utils.SaveImage(img, path))
}

// execute runs the root command with fresh flag values; cobra keeps flag
// state between Execute calls.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(reset)
	}
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	return rootCmd.Execute()
}

func TestSnapCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sprite.png")
	out := filepath.Join(dir, "snapped.png")
	cfg := filepath.Join(dir, "snap.yaml")
	writeSprite(t, in)
	require.NoError(t, os.WriteFile(cfg, []byte("k_colors: 8\n"), 0o644))

	require.NoError(t, execute(t, "snap", "-i", in, "-o", out, "--config", cfg, "--k-colors", "3", "--scale", "2"))

	img, err := utils.ReadImage(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, color.NRGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, color.NRGBAModel.Convert(img.At(2, 0)))
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")
	writeSprite(t, a)
	writeSprite(t, b)
	outDir := filepath.Join(dir, "out")

	require.NoError(t, execute(t, "batch", "-o", outDir, a, b))
	for _, name := range []string{"a.png", "b.png"} {
		img, err := utils.ReadImage(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	}
}

func TestPaletteCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sprite.png")
	out := filepath.Join(dir, "swatch.png")
	writeSprite(t, in)

	require.NoError(t, execute(t, "palette", "-i", in, "-o", out, "--method", "unique", "--tile", "2"))
	img, err := utils.ReadImage(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, color.NRGBAModel.Convert(img.At(0, 0)))
}

func TestSnapCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "snap", "-i", filepath.Join(dir, "nope.png"), "-o", filepath.Join(dir, "x.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

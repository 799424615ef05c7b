package main

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/pixelsnap"
	"github.com/setanarut/pixelsnap/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Snap a single image",
	RunE:  runSnap,
}

func init() {
	snapCmd.Flags().StringP("input", "i", "", "Input image (png, jpeg, gif, webp, bmp, tiff)")
	snapCmd.Flags().StringP("output", "o", "", "Output PNG file")
	addPipelineFlags(snapCmd.Flags())
	snapCmd.Flags().String("palette-from", "", "Lock output colors to a palette taken from this image")
	snapCmd.Flags().Int("palette-size", 16, "Number of colors taken from --palette-from")
	snapCmd.Flags().String("palette-method", "dominantcolor", "Palette extraction method (dominantcolor, kmeans)")
	snapCmd.MarkFlagRequired("input")
	snapCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(snapCmd)
}

// addPipelineFlags registers the flags shared by snap and batch.
func addPipelineFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML option file")
	fs.Int("k-colors", 16, "Quantization palette size")
	fs.Int("seed", 42, "k-means++ seed")
	fs.Int("max-iterations", 15, "Maximum k-means iterations")
	fs.Int("workers", 0, "Resampling row workers (0 = sequential)")
	fs.Int("scale", 1, "Nearest-neighbor upscale factor for the written image")
}

// pipelineOptions loads --config and applies only the flags the user set.
func pipelineOptions(cmd *cobra.Command) (pixelsnap.Options, error) {
	fs := cmd.Flags()
	opt := pixelsnap.DefaultOptions()
	if path, _ := fs.GetString("config"); path != "" {
		var err error
		if opt, err = pixelsnap.LoadOptions(path); err != nil {
			return opt, err
		}
	}
	for flag, field := range map[string]*int{
		"k-colors":       &opt.KColors,
		"seed":           &opt.KSeed,
		"max-iterations": &opt.MaxKmeansIterations,
		"workers":        &opt.Workers,
	} {
		if fs.Changed(flag) {
			*field, _ = fs.GetInt(flag)
		}
	}

	log, err := newLogger(cmd)
	if err != nil {
		return opt, err
	}
	opt.Logger = &log
	return opt, nil
}

func runSnap(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	scale, _ := cmd.Flags().GetInt("scale")
	paletteFrom, _ := cmd.Flags().GetString("palette-from")
	paletteSize, _ := cmd.Flags().GetInt("palette-size")
	methodStr, _ := cmd.Flags().GetString("palette-method")

	method, err := utils.ParsePaletteMethod(methodStr)
	if err != nil {
		return err
	}
	opt, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	s, err := pixelsnap.NewWithOptions(opt)
	if err != nil {
		return err
	}

	var palette []colorful.Color
	if paletteFrom != "" {
		ref, err := utils.ReadImage(paletteFrom)
		if err != nil {
			return fmt.Errorf("reading palette reference: %w", err)
		}
		palette = utils.ExtractPalette(ref, paletteSize, method)
		opt.Logger.Info().Int("colors", len(palette)).Str("method", method.String()).Msg("palette locked")
	}

	img, err := utils.ReadImage(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	res, err := s.Run(img)
	if err != nil {
		return fmt.Errorf("snapping: %w", err)
	}
	if err := writeResult(res, palette, scale, outputPath); err != nil {
		return err
	}

	fmt.Printf("Snapped %dx%d → %dx%d (%d colors)\n", res.SrcWidth, res.SrcHeight, res.Width(), res.Height(), len(res.Palette))
	fmt.Printf("Output: %s\n", outputPath)
	return nil
}

// writeResult applies the optional palette lock and preview scale, then
// saves the snapped image.
func writeResult(res *pixelsnap.Result, palette []colorful.Color, scale int, path string) error {
	var out image.Image = res.Image
	if len(palette) > 0 {
		out = utils.RemapToPalette(out, palette)
	}
	if scale > 1 {
		out = utils.Upscale(out, scale)
	}
	if err := utils.SaveImage(out, path); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

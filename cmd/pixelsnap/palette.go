package main

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/pixelsnap/utils"
	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Extract a palette and write it as a swatch strip",
	RunE:  runPalette,
}

func init() {
	paletteCmd.Flags().StringP("input", "i", "", "Input image")
	paletteCmd.Flags().StringP("output", "o", "", "Output swatch PNG")
	paletteCmd.Flags().IntP("colors", "k", 8, "Number of colors")
	paletteCmd.Flags().String("method", "dominantcolor", "Extraction method (dominantcolor, kmeans, unique)")
	paletteCmd.Flags().Int("tile", 64, "Swatch tile size in pixels")
	paletteCmd.MarkFlagRequired("input")
	paletteCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	k, _ := cmd.Flags().GetInt("colors")
	methodStr, _ := cmd.Flags().GetString("method")
	tile, _ := cmd.Flags().GetInt("tile")

	img, err := utils.ReadImage(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var palette []colorful.Color
	if methodStr == "unique" {
		palette = utils.UniquePalette(img)
	} else {
		method, err := utils.ParsePaletteMethod(methodStr)
		if err != nil {
			return err
		}
		palette = utils.ExtractPalette(img, k, method)
	}
	utils.SortPaletteByBrightness(palette)

	if err := utils.SavePalette(palette, tile, outputPath); err != nil {
		return fmt.Errorf("writing palette: %w", err)
	}
	for _, c := range palette {
		fmt.Println(c.Hex())
	}
	return nil
}

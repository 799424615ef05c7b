package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/setanarut/pixelsnap"
	"github.com/setanarut/pixelsnap/utils"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Snap many images concurrently with the same options",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringP("output", "o", "", "Output directory")
	addPipelineFlags(batchCmd.Flags())
	batchCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("output")
	scale, _ := cmd.Flags().GetInt("scale")

	opt, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	s, err := pixelsnap.NewWithOptions(opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	imgs := make([]image.Image, len(args))
	for i, path := range args {
		if imgs[i], err = utils.ReadImage(path); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}

	results, err := s.RunAll(cmd.Context(), imgs)
	if err != nil {
		return fmt.Errorf("snapping: %w", err)
	}
	for i, res := range results {
		name := strings.TrimSuffix(filepath.Base(args[i]), filepath.Ext(args[i])) + ".png"
		out := filepath.Join(outDir, name)
		if err := writeResult(res, nil, scale, out); err != nil {
			return err
		}
		fmt.Printf("%s: %dx%d → %dx%d\n", args[i], res.SrcWidth, res.SrcHeight, res.Width(), res.Height())
	}
	return nil
}

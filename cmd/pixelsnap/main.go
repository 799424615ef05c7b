package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/setanarut/pixelsnap/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "pixelsnap",
	Short:         "Snap soft, off-grid pixel art onto its true pixel grid",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
}

func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	formatStr, _ := cmd.Flags().GetString("log-format")
	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		return zerolog.Nop(), err
	}
	format, err := logger.ParseFormat(formatStr)
	if err != nil {
		return zerolog.Nop(), err
	}
	return logger.New(level, format), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

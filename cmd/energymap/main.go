// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// energymap saves the energy map of an image, which shows what the
// seam search in seamcarve sees
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rescribe.xyz/seamcarve"
	"rescribe.xyz/seamcarve/energy"
)

const usage = `Calculates the energy of each pixel of an image and saves it as
a grayscale image, scaled so the highest energy is white. The border
which is never carved is also white.`

func newRootCmd() *cobra.Command {
	var workers int
	var verbose bool
	cmd := &cobra.Command{
		Use:          "energymap [flags] inimg outimg",
		Short:        "energymap saves the energy map of an image",
		Long:         usage,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			return run(cmd.Context(), args[0], args[1], workers, logger)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "goroutines to use (0 for one per CPU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose")
	return cmd
}

func run(ctx context.Context, in, out string, workers int, logger *log.Logger) error {
	img, err := seamcarve.Load(in)
	if err != nil {
		return err
	}
	e, err := energy.Map(ctx, img, workers)
	if err != nil {
		return fmt.Errorf("Error calculating energy of %s: %w", in, err)
	}
	if hi, ok := e.Max(energy.Sentinel); ok {
		logger.Debug("Calculated energy", "image", in, "size", img, "max", hi)
	} else {
		logger.Warn("Image is too small to have any energy", "image", in, "size", img)
	}
	return seamcarve.Save(out, energy.Scale(e))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// seamcarve shrinks an image by removing its least interesting rows
// and columns
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rescribe.xyz/seamcarve"
	"rescribe.xyz/seamcarve/grid"
)

const usage = `Removes seams of low energy from an image, first rows and then
columns, so that it shrinks without squashing the parts that carry
information. The image is converted to grayscale.

The source and destination can be local files or s3://bucket/key
locations. If no destination is given the result is saved beside the
source, with "_carved.png" in place of its extension.

Settings for rows, cols, workers, region and tempdir can be kept in a
TOML config file; flags given on the command line take precedence.`

type options struct {
	src, dst string
	rows     int
	cols     int
	workers  int
	verbose  bool
	graph    string
	pdf      string
	config   string
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:          "seamcarve [flags] source-filename",
		Short:        "seamcarve shrinks an image by removing low energy seams",
		Long:         usage,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if o.src != "" && o.src != args[0] {
					return fmt.Errorf("%w: two different source files given", seamcarve.ErrInvalidArgument)
				}
				o.src = args[0]
			}
			if o.src == "" {
				_ = cmd.Usage()
				return fmt.Errorf("%w: no source file given", seamcarve.ErrInvalidArgument)
			}

			conf, err := loadConfig(cmd, o.config)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				o.rows = conf.Rows
			}
			if !cmd.Flags().Changed("cols") {
				o.cols = conf.Cols
			}
			if !cmd.Flags().Changed("workers") {
				o.workers = conf.Workers
			}

			logger := newLogger(cmd.ErrOrStderr(), o.verbose)
			return run(cmd.Context(), o, conf, logger)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.src, "source-filename", "i", "", "image to carve")
	f.StringVarP(&o.dst, "destination-filename", "o", "", "where to save the carved image")
	f.IntVarP(&o.rows, "rows", "r", seamcarve.DefaultRows, "number of row seams to remove")
	f.IntVarP(&o.cols, "cols", "c", seamcarve.DefaultCols, "number of column seams to remove")
	f.IntVarP(&o.workers, "workers", "w", 0, "goroutines to use for each seam (0 for one per CPU)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log each seam as it is removed")
	f.StringVar(&o.graph, "graph", "", "save a graph of seam energies to this PNG file")
	f.StringVar(&o.pdf, "pdf", "", "save a PDF report comparing the source and result")
	f.StringVar(&o.config, "config", "", "TOML config file (default "+seamcarve.DefaultConfigPath()+")")
	return cmd
}

// loadConfig reads the named config file, or the default one if it
// exists
func loadConfig(cmd *cobra.Command, path string) (seamcarve.Config, error) {
	if cmd.Flags().Changed("config") {
		return seamcarve.LoadConfig(path, true)
	}
	return seamcarve.LoadConfig(seamcarve.DefaultConfigPath(), false)
}

// storer returns something which can reach every location used
func storer(conf seamcarve.Config, logger *log.Logger, locs ...seamcarve.Location) (seamcarve.Storer, error) {
	for _, l := range locs {
		if !l.Remote() {
			continue
		}
		conn := &seamcarve.AwsConn{Region: conf.Region, Logger: logger}
		if err := conn.Init(); err != nil {
			return nil, fmt.Errorf("Error setting up cloud connection: %w", err)
		}
		return conn, nil
	}
	conn := &seamcarve.LocalConn{Root: filepath.Join(conf.TempDir, "storage"), Logger: logger}
	if err := conn.Init(); err != nil {
		return nil, err
	}
	return conn, nil
}

func run(ctx context.Context, o options, conf seamcarve.Config, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := seamcarve.ParseLocation(o.src)
	if err != nil {
		return err
	}
	if o.dst == "" {
		o.dst = seamcarve.CarvedName(o.src)
	}
	dst, err := seamcarve.ParseLocation(o.dst)
	if err != nil {
		return err
	}

	conn, err := storer(conf, logger, src, dst)
	if err != nil {
		return err
	}

	stage := filepath.Join(conf.TempDir, "stage")
	path, err := seamcarve.Stage(conn, src, stage)
	if err != nil {
		return err
	}
	if src.Remote() {
		defer os.Remove(path)
	}

	img, err := seamcarve.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("Loaded image", "source", src, "size", img, "rows", o.rows, "cols", o.cols, "workers", o.workers)

	carver := seamcarve.Carver{Workers: o.workers, Logger: logger}
	start := time.Now()
	carved, steps, err := carver.Carve(ctx, img, o.rows, o.cols)
	if err != nil {
		return fmt.Errorf("Error carving %s: %w", src, err)
	}
	elapsed := time.Since(start).Round(time.Millisecond)
	logger.Infof("Carved %s from %s to %s (%s)", src, img, carved, elapsed)

	out := o.dst
	if dst.Remote() {
		if err = os.MkdirAll(stage, 0700); err != nil {
			return fmt.Errorf("Error creating staging directory %s: %w", stage, err)
		}
		out = seamcarve.StageName(stage, dst)
		defer os.Remove(out)
	}
	if err = seamcarve.Save(out, carved); err != nil {
		return err
	}
	if err = seamcarve.Publish(conn, dst, out); err != nil {
		return err
	}
	logger.Info("Saved carved image", "destination", dst)

	if o.graph != "" {
		if err = saveGraph(o.graph, steps, filepath.Base(o.src)); err != nil {
			return err
		}
		logger.Debug("Saved graph", "path", o.graph)
	}

	if o.pdf != "" {
		if err = saveReport(o.pdf, o, img, carved, elapsed); err != nil {
			return err
		}
		logger.Debug("Saved report", "path", o.pdf)
	}

	return nil
}

func saveGraph(path string, steps []seamcarve.Step, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Error creating graph file %s: %w", path, err)
	}
	err = seamcarve.Graph(steps, title, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("Error saving graph %s: %w", path, err)
	}
	return nil
}

func saveReport(path string, o options, src, dst *grid.Grid, elapsed time.Duration) error {
	var p seamcarve.Report
	if err := p.Setup(); err != nil {
		return fmt.Errorf("Error setting up PDF: %w", err)
	}
	lines := []string{
		fmt.Sprintf("Source: %s (%s)", o.src, src),
		fmt.Sprintf("Destination: %s (%s)", o.dst, dst),
		fmt.Sprintf("Row seams removed: %d", o.rows),
		fmt.Sprintf("Column seams removed: %d", o.cols),
		fmt.Sprintf("Time taken: %s", elapsed),
	}
	if err := p.AddSummary(filepath.Base(o.src), lines); err != nil {
		return fmt.Errorf("Error adding summary to PDF: %w", err)
	}
	if err := p.AddImage("Source", src.ToGray()); err != nil {
		return fmt.Errorf("Error adding source image to PDF: %w", err)
	}
	if err := p.AddImage("Carved", dst.ToGray()); err != nil {
		return fmt.Errorf("Error adding carved image to PDF: %w", err)
	}
	if err := p.Save(path); err != nil {
		return fmt.Errorf("Error saving PDF %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

//go:build !(js && wasm)

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vosslab/hilbert-curve-brick/config"
	"github.com/vosslab/hilbert-curve-brick/logger"
	"github.com/vosslab/hilbert-curve-brick/utils"
)

// cliOptions are flags that steer the command rather than the run itself.
type cliOptions struct {
	configPath string
	unpack     string
}

func bindFlags(fs *flag.FlagSet, cfg *config.Config, cli *cliOptions) {
	fs.StringVar(&cli.configPath, "config", "", "load settings from a JSON file; explicit flags win")
	fs.StringVar(&cli.unpack, "unpack", "", "unpack a .voplpack into -o as .vopl files and exit")

	fs.IntVar(&cfg.Dimension, "d", cfg.Dimension, "cube dimension, a power of two")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output directory")
	fs.StringVar(&cfg.Prefix, "p", cfg.Prefix, "filename prefix")
	fs.StringVar(&cfg.Axis, "axis", cfg.Axis, "slicing axis: x, y or z")
	fs.IntVar(&cfg.Begin, "b", cfg.Begin, "first slice index")
	fs.IntVar(&cfg.End, "e", cfg.End, "last slice index, inclusive (-1 = last)")
	fs.BoolVar(&cfg.Grid, "grid", cfg.Grid, "draw the brick grid")
	fs.BoolFunc("no-grid", "disable the brick grid", func(string) error {
		cfg.Grid = false
		return nil
	})
	fs.BoolFunc("no-connectors", "do not draw connectors between consecutive cells", func(string) error {
		cfg.Connectors = false
		return nil
	})
	fs.BoolFunc("no-pngs", "skip the PNG slices", func(string) error {
		cfg.WritePNGs = false
		return nil
	})
	fs.IntVar(&cfg.TargetSize, "s", cfg.TargetSize, "target image size in pixels")
	fs.IntVar(&cfg.CellSize, "cell", cfg.CellSize, "cell size in pixels (0 = from -s)")
	fs.IntVar(&cfg.BrickSize, "brick", cfg.BrickSize, "cells between grid lines")
	fs.IntVar(&cfg.LineWidth, "line", cfg.LineWidth, "grid line width in pixels")
	fs.StringVar(&cfg.Scope, "scope", cfg.Scope, "gradient scope: global or slice")
	fs.StringVar(&cfg.Gradient, "gradient", cfg.Gradient, "gradient name or #hex,#hex,...")
	fs.BoolVar(&cfg.Invert, "invert", cfg.Invert, "dark background")
	fs.BoolVar(&cfg.Label, "label", cfg.Label, "stamp the layer label")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel slice writers (0 = GOMAXPROCS)")

	fs.StringVar(&cfg.VOPLPack, "voplpack", cfg.VOPLPack, "also write the brick volume as .voplpack")
	fs.StringVar(&cfg.PackCompression, "pack-comp", cfg.PackCompression, "voplpack compression: none, zlib or zstd")
	fs.StringVar(&cfg.GLB, "glb", cfg.GLB, "also write the brick volume as .glb")
	fs.StringVar(&cfg.LDraw, "ldr", cfg.LDraw, "also write an LDraw brick model")
	fs.IntVar(&cfg.LDrawColor, "ldr-color", cfg.LDrawColor, "LDraw color code")
	fs.IntVar(&cfg.LDrawScale, "ldr-scale", cfg.LDrawScale, "LDraw xz zoom")
	fs.IntVar(&cfg.LDrawScaleY, "ldr-scale-y", cfg.LDrawScaleY, "LDraw y zoom (0 = -y)")
	fs.IntVar(&cfg.ScaleY, "y", cfg.ScaleY, "vertical stretch of exported volumes")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging")
}

// usageError marks a bad command line as opposed to a bad run.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// parseFlags layers defaults, then the -config file, then the flags given
// on the command line.
func parseFlags(args []string, stderr io.Writer) (config.Config, cliOptions, error) {
	var cli cliOptions
	cfg := config.Default()

	// first pass only finds -config and rejects bad flags
	probe := flag.NewFlagSet("hilbert-brick", flag.ContinueOnError)
	probe.SetOutput(io.Discard)
	bindFlags(probe, &cfg, &cli)
	if err := probe.Parse(args); err != nil {
		// parse again with output on so usage is printed
		fs := flag.NewFlagSet("hilbert-brick", flag.ContinueOnError)
		fs.SetOutput(stderr)
		bindFlags(fs, &cfg, &cli)
		return cfg, cli, usageError{fs.Parse(args)}
	}

	cfg = config.Default()
	if cli.configPath != "" {
		loaded, err := config.Load(cli.configPath)
		if err != nil {
			return cfg, cli, err
		}
		cfg = loaded
	}
	fs := flag.NewFlagSet("hilbert-brick", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bindFlags(fs, &cfg, &cli)
	if err := fs.Parse(args); err != nil {
		return cfg, cli, usageError{err}
	}
	if fs.NArg() > 0 {
		return cfg, cli, usageError{fmt.Errorf("unexpected arguments: %v", fs.Args())}
	}
	return cfg, cli, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, cli, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		var ue usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}

	level := logger.LevelInfo
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	log := logger.New(stderr, level, "")

	if cli.unpack != "" {
		files, err := utils.UnpackToDir(cli.unpack, cfg.OutputDir)
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		log.Info("unpacked %d chunks into %s", len(files), cfg.OutputDir)
		fmt.Fprintln(stdout, "Operation completed!")
		return 0
	}

	paths, err := utils.Run(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if len(paths) > 0 {
		log.Info("%d slices in %s", len(paths), cfg.OutputDir)
	}
	fmt.Fprintln(stdout, "Operation completed!")
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

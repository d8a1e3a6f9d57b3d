package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/regmap/atdf"
	"github.com/wippyai/regmap/errors"
	"github.com/wippyai/regmap/header"
	"github.com/wippyai/regmap/sfr"
)

func main() {
	var (
		input    = flag.String("i", "", "Input .atdf file")
		output   = flag.String("o", "", "Output file name (overrides the default)")
		quiet    = flag.Bool("q", false, "Suppress progress output")
		verbose  = flag.Bool("v", false, "Verbose logging with a model dump")
		multiple = flag.Bool("m", false, "Convert every .atdf file in the working directory")
		doxygen  = flag.Bool("d", false, "Doxygen-style comments in the header")
		symbols  = flag.Bool("s", false, "Emit the acronym symbol list instead of a header")
		tui      = flag.Bool("tui", false, "Browse the memory map interactively")
	)
	flag.Parse()

	if *input == "" && !*multiple {
		fmt.Fprintln(os.Stderr, "Usage: regmap -i <file.atdf> [-o name] [-d] [-s] [-q] [-v]")
		fmt.Fprintln(os.Stderr, "       regmap -m  (every .atdf in the working directory)")
		fmt.Fprintln(os.Stderr, "       regmap -i <file.atdf> -tui  (interactive browser)")
		os.Exit(1)
	}

	installLogger(*quiet, *verbose)

	if *tui {
		if *input == "" {
			fmt.Fprintln(os.Stderr, "Error: -tui needs an input file (-i)")
			os.Exit(1)
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -tui needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := header.Options{Doxygen: *doxygen}

	if *multiple {
		if err := convertAll(*symbols, *quiet, *verbose, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := convert(*input, *output, *symbols, *quiet, *verbose, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// installLogger wires a real zap logger into the library packages. Quiet
// mode keeps the default no-op loggers; verbose mode gets development
// output at debug level.
func installLogger(quiet, verbose bool) {
	if quiet {
		return
	}

	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create logger: %v\n", err)
		os.Exit(1)
	}

	atdf.SetLogger(logger.Named("atdf"))
	sfr.SetLogger(logger.Named("sfr"))
	header.SetLogger(logger.Named("header"))
}

// convertAll converts every .atdf file in the working directory, one
// goroutine per file. The inputs share nothing, so each either succeeds or
// lands in the batch error on its own.
func convertAll(symbols, quiet, verbose bool, opts header.Options) error {
	paths, err := filepath.Glob("*.atdf")
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.InvalidInput(errors.PhaseIngest, "no .atdf files in the working directory")
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		batch errors.BatchError
	)
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := convert(path, "", symbols, quiet, verbose, opts); err != nil {
				mu.Lock()
				batch.Add(path, err)
				mu.Unlock()
			}
		}(path)
	}
	wg.Wait()

	if !batch.Empty() {
		return &batch
	}
	return nil
}

// convert runs the full pipeline for one input file: decode, merge,
// assemble, emit. The default output name is the input name with its
// extension swapped for .h or .sym.
func convert(input, output string, symbols, quiet, verbose bool, opts header.Options) error {
	part := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	doc, err := atdf.DecodeFile(input)
	if err != nil {
		return err
	}

	start, length, err := doc.Window()
	if err != nil {
		return err
	}

	raws, err := doc.Registers()
	if err != nil {
		return err
	}

	dev, err := sfr.NewDevice(part, raws, start, length)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("%s: %d registers over [%#x, %#x)\n", part, dev.Regs.Len(), start, uint64(start)+uint64(length))
		for _, d := range dev.Diagnostics() {
			fmt.Printf("  warning: %s\n", d)
		}
	}
	if verbose {
		dump(dev)
	}

	if output == "" {
		if symbols {
			output = part + ".sym"
		} else {
			output = part + ".h"
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.WriteFailed(output, err)
	}
	defer f.Close()

	if symbols {
		return header.EmitSymbols(f, dev)
	}
	return header.Emit(f, dev, part, opts)
}

// dump prints the canonical model, register by register.
func dump(dev *sfr.Device) {
	for _, reg := range dev.Regs.Sorted() {
		fmt.Printf("  %#04x %-10s size=%d mask=%#x %s\n", reg.Addr, reg.Name, reg.Size, reg.Mask, reg.Caption)
		for _, bit := range reg.Bits {
			fmt.Printf("         b%-2d %-10s %s\n", bit.Pos, bit.Name, bit.Caption)
		}
	}
}

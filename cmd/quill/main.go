package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"quill/internal/config"
	"quill/internal/logger"
	"quill/internal/runner"
	"quill/pkg/color"
	"quill/pkg/diag"

	"github.com/charmbracelet/log"
)

// Main entry point for the quill interpreter.
func main() {
	options := config.Default()
	options.RegisterFlags(flag.CommandLine)

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] [file]\n", os.Args[0])
		fmt.Println("Without a file or -e, an interactive prompt is started.")
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if err := options.Load(flag.CommandLine); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	// the config file may have changed these
	logger.Init(options.Verbose, options.NoColor)
	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) > 0 {
		options.SourceFile = args[0]
	}

	r := runner.New(options, os.Stdout, os.Stderr)

	var err error
	switch {
	case options.Eval != "":
		err = r.RunSource(options.Eval)
	case options.SourceFile != "":
		err = r.RunFile(options.SourceFile)
	default:
		err = r.Repl()
	}

	var d *diag.Error
	switch {
	case err == nil:
	case errors.As(err, &d):
		// already reported with its source snippet
		os.Exit(1)
	case errors.Is(err, runner.ErrNoInput):
		log.Fatal("No input provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	default:
		log.Fatal("Execution failed", "error", err)
	}
}

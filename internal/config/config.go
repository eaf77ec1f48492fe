package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when -config is not given
const DefaultFile = ".quill.yaml"

type Config struct {
	Help         bool   `yaml:"-"`              // Show help message
	Verbose      bool   `yaml:"verbose"`        // Enable debug logging
	NoColor      bool   `yaml:"no_color"`       // Disable colored output
	DumpTokens   bool   `yaml:"dump_tokens"`    // Print the token table before running
	DumpAST      bool   `yaml:"dump_ast"`       // Print the syntax tree before running
	MaxCallDepth int    `yaml:"max_call_depth"` // Maximum nested function calls
	HistoryFile  string `yaml:"history_file"`   // REPL history, relative paths are under $HOME
	Prompt       string `yaml:"prompt"`         // REPL prompt
	ConfigFile   string `yaml:"-"`              // Path of the YAML config file
	Eval         string `yaml:"-"`              // Source passed with -e
	SourceFile   string `yaml:"-"`              // Path to the source file, empty for the REPL
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		MaxCallDepth: 2048,
		HistoryFile:  ".quill_history",
		Prompt:       "js> ",
	}
}

// RegisterFlags binds the command line flags to c, using its current values as defaults
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.Help, "h", false, "Show help")
	flags.BoolVar(&c.Verbose, "v", c.Verbose, "Verbose mode")
	flags.BoolVar(&c.NoColor, "n", c.NoColor, "No color")
	flags.BoolVar(&c.DumpTokens, "dump-tokens", c.DumpTokens, "Print the token table before running")
	flags.BoolVar(&c.DumpAST, "dump-ast", c.DumpAST, "Print the syntax tree before running")
	flags.IntVar(&c.MaxCallDepth, "max-depth", c.MaxCallDepth, "Maximum call depth")
	flags.StringVar(&c.HistoryFile, "history", c.HistoryFile, "REPL history file")
	flags.StringVar(&c.Prompt, "prompt", c.Prompt, "REPL prompt")
	flags.StringVar(&c.ConfigFile, "config", "", "YAML config file (default "+DefaultFile+" if present)")
	flags.StringVar(&c.Eval, "e", "", "Evaluate the given source and exit")
}

// Load merges the YAML config file into c after flags were parsed.
// Flags given on the command line keep precedence over file values.
func (c *Config) Load(flags *flag.FlagSet) error {
	path := c.ConfigFile
	required := path != ""
	if !required {
		path = DefaultFile
	}

	explicit := map[string]string{}
	flags.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })

	if err := c.loadFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return err
	}
	log.Debug("Loaded config", "file", path)

	for name, value := range explicit {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("config: reapply -%s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", abs, err)
	}
	return nil
}

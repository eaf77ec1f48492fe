package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Config, *flag.FlagSet) {
	t.Helper()
	cfg := new(Config)
	*cfg = Default()
	fs := flag.NewFlagSet("quill", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cfg, fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, _ := parse(t)
	assert.Equal(t, 2048, cfg.MaxCallDepth)
	assert.Equal(t, "js> ", cfg.Prompt)
	assert.Equal(t, ".quill_history", cfg.HistoryFile)
	assert.False(t, cfg.Verbose)
}

func TestFlags(t *testing.T) {
	cfg, fs := parse(t, "-v", "-n", "-dump-ast", "-max-depth", "64", "-e", "1 + 1", "main.js")
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.DumpAST)
	assert.False(t, cfg.DumpTokens)
	assert.Equal(t, 64, cfg.MaxCallDepth)
	assert.Equal(t, "1 + 1", cfg.Eval)
	assert.Equal(t, []string{"main.js"}, fs.Args())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "verbose: true\nmax_call_depth: 100\nprompt: '> '\ndump_tokens: true\n")
	cfg, fs := parse(t, "-config", path)

	require.NoError(t, cfg.Load(fs))
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.DumpTokens)
	assert.Equal(t, 100, cfg.MaxCallDepth)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.Equal(t, ".quill_history", cfg.HistoryFile, "unset keys keep their default")
}

func TestFlagsWinOverFile(t *testing.T) {
	path := writeConfig(t, "max_call_depth: 100\nno_color: true\nhistory_file: /tmp/h\n")
	cfg, fs := parse(t, "-config", path, "-max-depth", "7", "-history", "")

	require.NoError(t, cfg.Load(fs))
	assert.Equal(t, 7, cfg.MaxCallDepth)
	assert.Equal(t, "", cfg.HistoryFile)
	assert.True(t, cfg.NoColor)
}

func TestUnknownKey(t *testing.T) {
	path := writeConfig(t, "verbose: true\ncolour: false\n")
	cfg, fs := parse(t, "-config", path)

	err := cfg.Load(fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestMissingFile(t *testing.T) {
	cfg, fs := parse(t, "-config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, cfg.Load(fs), "an explicit config file must exist")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, fs = parse(t)
	assert.NoError(t, cfg.Load(fs), "the default file is optional")
	assert.Equal(t, Default().MaxCallDepth, cfg.MaxCallDepth)
}

func TestEmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	cfg, fs := parse(t, "-config", path)
	require.NoError(t, cfg.Load(fs))
	cfg.ConfigFile = ""
	assert.Equal(t, Default(), *cfg)
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axon-debug/internal/errors"
	"github.com/toyz/axon-debug/internal/utils"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	valid := writeFile(t, dir, "valid.rs", "#[debug_handler]\nasync fn ok() -> StatusCode { StatusCode::OK }\n")
	invalid := writeFile(t, dir, "invalid.rs", "#[debug_handler]\nfn sync_handler() {}\n")

	tests := []struct {
		name   string
		args   []string
		code   int
		stdout string
		stderr string
	}{
		{name: "clean", args: []string{valid}, code: exitOK},
		{name: "invalid handler", args: []string{"-no-color", invalid}, code: exitInvalid, stdout: "error[async-handler]: handlers must be async functions"},
		{name: "release skips", args: []string{"-release", invalid}, code: exitOK},
		{name: "json", args: []string{"-format", "json", invalid}, code: exitInvalid, stdout: `"rule": "async-handler"`},
		{name: "missing file", args: []string{filepath.Join(dir, "missing.rs")}, code: exitError, stderr: "missing.rs"},
		{name: "no paths", args: []string{}, code: exitError, stderr: "at least one path is required"},
		{name: "bad flag", args: []string{"-bogus"}, code: exitError},
		{name: "bad format", args: []string{"-format", "xml", valid}, code: exitError, stderr: "xml"},
		{name: "version", args: []string{"-version"}, code: exitOK, stdout: "axon-debug dev"},
		{name: "help", args: []string{"-h"}, code: exitOK, stderr: "Usage: axon-debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.code, code, "stderr: %s", stderr.String())
			if tt.stdout != "" {
				assert.Contains(t, stdout.String(), tt.stdout)
			}
			if tt.stderr != "" {
				assert.Contains(t, stderr.String(), tt.stderr)
			}
		})
	}
}

func TestRun_UnknownConfigKeyHint(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "axon-debug.toml", "colour = \"never\"\n")
	path := writeFile(t, dir, "main.rs", "")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitError, run([]string{path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown keys: colour")
	assert.Contains(t, stderr.String(), "hint: known keys: profile, format")
}

func TestRun_Verbose(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "axon-debug.toml", "framework-version = \"0.7.0\"\n")
	path := writeFile(t, dir, "main.rs", "#[debug_handler]\nasync fn ok() {}\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-verbose", path}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "using configuration")
	assert.Contains(t, stderr.String(), "handlers: 1")
}

func TestReportError_MultipleErrorHints(t *testing.T) {
	dir := t.TempDir()
	_, err := utils.NewFileProcessor().ReadFiles([]string{
		filepath.Join(dir, "a.rs"),
		filepath.Join(dir, "b.rs"),
	})
	require.Error(t, err)

	var out bytes.Buffer
	console := utils.NewConsole(utils.ConsoleWarn)
	console.SetOutput(&out)
	reportError(console, fmt.Errorf("reading sources: %w", err))

	got := out.String()
	assert.Contains(t, got, "a.rs")
	assert.Contains(t, got, "b.rs")
	assert.Equal(t, 1, strings.Count(got, "hint: the file was moved or deleted"), "repeated hints are printed once")
}

func TestHints(t *testing.T) {
	multi := errors.NewMultipleErrors()
	multi.Add(errors.New(errors.ConfigurationErrorCode, "one").WithSuggestion("first"))
	multi.Add(errors.Wrap(errors.FileSystemErrorCode, "two",
		errors.New(errors.FileSystemErrorCode, "inner").WithSuggestion("second")))

	assert.Equal(t, []string{"first", "second"}, hints(fmt.Errorf("wrapped: %w", multi)))
	assert.Empty(t, hints(nil))
}

// Package engine orchestrates the Lua to JavaScript pipeline: read the
// source script, translate it, write the output, and optionally hand the
// result to the dnscontrol binary.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/luajs/internal/parser"
	"github.com/leapstack-labs/luajs/internal/transpiler"
)

// Defaults for the pipeline file names and the spawned binary.
const (
	DefaultSource  = "dnscontrol.lua"
	DefaultOutput  = "dnscontrol.js"
	DefaultCommand = "dnscontrol"
)

// Engine drives the translate-and-run pipeline.
type Engine struct {
	source  string
	output  string
	command string
	check   bool
	logger  *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Source is the path of the Lua script to translate.
	Source string
	// Output is the path the JavaScript result is written to.
	Output string
	// Command is the binary Run hands the output to.
	Command string
	// Check validates the emitted JavaScript before writing it.
	Check bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine, filling in defaults for unset fields.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		source:  cfg.Source,
		output:  cfg.Output,
		command: cfg.Command,
		check:   cfg.Check,
		logger:  logger,
	}
	if e.source == "" {
		e.source = DefaultSource
	}
	if e.output == "" {
		e.output = DefaultOutput
	}
	if e.command == "" {
		e.command = DefaultCommand
	}
	return e
}

// Render translates Lua source text into JavaScript source text.
func Render(src []byte) ([]byte, error) {
	block, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return transpiler.Translate(block)
}

// RenderFile translates the Lua file at path into JavaScript.
func (e *Engine) RenderFile(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	js, err := Render(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return js, nil
}

// Build translates the source script and writes the JavaScript output.
// Nothing is written when translation or validation fails.
func (e *Engine) Build(ctx context.Context) error {
	start := time.Now()
	e.logger.Debug("translating", "source", e.source)

	js, err := e.RenderFile(e.source)
	if err != nil {
		return err
	}

	if e.check {
		if err := checkSyntax(e.output, js); err != nil {
			return err
		}
	}

	if err := os.WriteFile(e.output, js, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	e.logger.Info("build complete",
		"source", e.source,
		"output", e.output,
		"bytes", len(js),
		"elapsed", time.Since(start))
	return nil
}

// Run builds the output and then spawns the configured command with the
// given arguments, inheriting this process's standard streams. A failed
// build skips the spawn entirely.
func (e *Engine) Run(ctx context.Context, args []string) error {
	if err := e.Build(ctx); err != nil {
		return err
	}

	e.logger.Debug("spawning", "command", e.command, "args", args)

	cmd := exec.CommandContext(ctx, e.command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", e.command, err)
	}
	return nil
}

// checkSyntax parses the emitted JavaScript and reports the first syntax
// error, if any.
func checkSyntax(name string, js []byte) error {
	result := api.Transform(string(js), api.TransformOptions{
		Loader:     api.LoaderJS,
		Sourcefile: name,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		line := 0
		if msg.Location != nil {
			line = msg.Location.Line
		}
		return fmt.Errorf("emitted JavaScript failed validation at %s:%d: %s", name, line, msg.Text)
	}
	return nil
}

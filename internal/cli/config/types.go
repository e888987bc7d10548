// Package config provides configuration management for the luajs CLI.
//
// Configuration is layered: built-in defaults, then a luajs.yaml project
// file, then LUAJS_ environment variables, then command-line flags.
package config

import (
	"github.com/leapstack-labs/luajs/internal/engine"
)

// Config holds all CLI configuration options.
type Config struct {
	// Source is the Lua script to translate.
	Source string `koanf:"source"`
	// Output is the JavaScript file to write.
	Output string `koanf:"output"`
	// Command is the binary the run command spawns.
	Command string `koanf:"command"`
	// Check validates the emitted JavaScript before writing it.
	Check bool `koanf:"check"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultSource  = engine.DefaultSource
	DefaultOutput  = engine.DefaultOutput
	DefaultCommand = engine.DefaultCommand
)

// Package commands implements the luajs subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/luajs/internal/cli/config"
	"github.com/leapstack-labs/luajs/internal/engine"
)

// newEngine builds an engine from the command's loaded configuration.
func newEngine(cmd *cobra.Command) *engine.Engine {
	cfg := config.GetConfig(cmd.Context())
	return engine.New(engine.Config{
		Source:  cfg.Source,
		Output:  cfg.Output,
		Command: cfg.Command,
		Check:   cfg.Check,
		Logger:  config.GetLogger(cmd.Context()),
	})
}

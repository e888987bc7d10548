// Package cli provides the command-line interface for luajs.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/luajs/internal/cli/commands"
	"github.com/leapstack-labs/luajs/internal/cli/config"
	"github.com/leapstack-labs/luajs/internal/cli/output"
	"github.com/leapstack-labs/luajs/internal/engine"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "luajs [-- dnscontrol args...]",
		Short: "luajs - Lua frontend for dnscontrol",
		Long: `luajs translates a Lua DNS configuration script into the JavaScript
file dnscontrol expects, then hands control to the dnscontrol binary.

Running luajs without a subcommand translates the source script and
forwards all arguments to dnscontrol, so it can stand in wherever
dnscontrol itself would be invoked.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)

			ctx := context.WithValue(cmd.Context(), config.ConfigKey(), cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		// Bare invocation: translate, then forward everything to dnscontrol.
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig(cmd.Context())
			e := engine.New(engine.Config{
				Source:  cfg.Source,
				Output:  cfg.Output,
				Command: cfg.Command,
				Check:   cfg.Check,
				Logger:  config.GetLogger(cmd.Context()),
			})
			return e.Run(cmd.Context(), args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Lua frontend for dnscontrol
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./luajs.yaml)")
	rootCmd.PersistentFlags().String("source", "", "Lua script to translate (default: dnscontrol.lua)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "JavaScript file to write (default: dnscontrol.js)")
	rootCmd.PersistentFlags().String("command", "", "binary the run command spawns (default: dnscontrol)")
	rootCmd.PersistentFlags().Bool("check", false, "validate the emitted JavaScript before writing it")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output.NewRenderer(os.Stdout, os.Stderr).Errorf("Error: %v", err)
		return err
	}
	return nil
}

// newLogger builds the CLI logger. Quiet by default; verbose drops the
// threshold to debug so the engine's progress logging becomes visible.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}

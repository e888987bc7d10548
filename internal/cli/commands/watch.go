package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/luajs/internal/cli/config"
	"github.com/leapstack-labs/luajs/internal/cli/output"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the JavaScript output whenever the Lua script changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r.Infof("watching %s (Ctrl+C to stop)", output.Path(cfg.Source))
			return newEngine(cmd).Watch(ctx)
		},
	}
}

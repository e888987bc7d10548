package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/luajs/internal/cli/config"
	"github.com/leapstack-labs/luajs/internal/cli/output"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Translate the Lua script into JavaScript",
		Long: `Translate the configured Lua source script into JavaScript and
write it to the output file. Nothing is written when translation fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())

			if err := newEngine(cmd).Build(cmd.Context()); err != nil {
				return err
			}

			r.Successf("wrote %s", output.Path(cfg.Output))
			return nil
		},
	}
}

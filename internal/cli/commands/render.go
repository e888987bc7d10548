package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/luajs/internal/cli/config"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Translate a Lua script and print the JavaScript to stdout",
		Long: `Translate a Lua script and print the resulting JavaScript without
writing any file. With no argument the configured source script is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GetConfig(cmd.Context()).Source
			if len(args) == 1 {
				path = args[0]
			}

			js, err := newEngine(cmd).RenderFile(path)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(js)
			return err
		},
	}
}

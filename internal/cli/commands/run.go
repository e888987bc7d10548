package commands

import (
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [-- dnscontrol args...]",
		Short: "Translate the Lua script and invoke dnscontrol",
		Long: `Translate the configured Lua source script, write the JavaScript
output, and spawn the dnscontrol binary with the given arguments. The
binary inherits this process's standard streams. A failed translation
skips the spawn.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newEngine(cmd).Run(cmd.Context(), args)
		},
	}
}

// Package main provides the luajs CLI.
package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/leapstack-labs/luajs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Forward the spawned binary's exit code when it is the failure.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

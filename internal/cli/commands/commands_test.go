package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/luajs/internal/cli/config"
	"github.com/leapstack-labs/luajs/internal/parser"
)

// execute runs a command with a config injected into its context, returning
// captured stdout.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	ctx := context.WithValue(context.Background(), config.ConfigKey(), cfg)
	_, err := cmd.ExecuteContextC(ctx)
	return out.String(), err
}

func projectConfig(t *testing.T, source string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "dnscontrol.lua")
	require.NoError(t, os.WriteFile(sourcePath, []byte(source), 0o644))

	return &config.Config{
		Source:  sourcePath,
		Output:  filepath.Join(dir, "dnscontrol.js"),
		Command: "true",
	}
}

func TestBuildCommand(t *testing.T) {
	cfg := projectConfig(t, "local ttl = 60")

	out, err := execute(t, NewBuildCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, cfg.Output)

	js, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "var ttl = 60;\n", string(js))
}

func TestBuildCommand_TranslationError(t *testing.T) {
	cfg := projectConfig(t, "local a, b = 1, 2")

	_, err := execute(t, NewBuildCommand(), cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported construct")

	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr), "failed build must not write output")
}

func TestRunCommand(t *testing.T) {
	cfg := projectConfig(t, "local x = 1")

	_, err := execute(t, NewRunCommand(), cfg)
	require.NoError(t, err)

	_, statErr := os.Stat(cfg.Output)
	assert.NoError(t, statErr, "run should write the output before spawning")
}

func TestRenderCommand_ConfiguredSource(t *testing.T) {
	cfg := projectConfig(t, `register("example.com")`)

	out, err := execute(t, NewRenderCommand(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "register(\"\\x65\\x78\\x61\\x6d\\x70\\x6c\\x65\\x2e\\x63\\x6f\\x6d\");\n", out)

	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr), "render must not write the output file")
}

func TestRenderCommand_ExplicitFile(t *testing.T) {
	cfg := projectConfig(t, "local unused = 1")

	other := filepath.Join(t.TempDir(), "zone.lua")
	require.NoError(t, os.WriteFile(other, []byte("local x = 2"), 0o644))

	out, err := execute(t, NewRenderCommand(), cfg, other)
	require.NoError(t, err)
	assert.Equal(t, "var x = 2;\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand("1.2.3"), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "luajs v1.2.3")
}

func TestTranslateSnippet(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantJS    string
		wantAgain bool
		wantErr   bool
	}{
		{
			name:   "statement",
			input:  "local x = 1\n",
			wantJS: "var x = 1;\n",
		},
		{
			name:   "bare expression becomes return",
			input:  "1 + 2\n",
			wantJS: "return (1+2);\n",
		},
		{
			name:      "open block asks for more input",
			input:     "if x then\n",
			wantAgain: true,
		},
		{
			name:      "open long string asks for more input",
			input:     "s = [[start\n",
			wantAgain: true,
		},
		{
			name:    "unsupported construct is a real error",
			input:   "goto done\n",
			wantErr: true,
		},
		{
			name:    "syntax error is a real error",
			input:   "local = 1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js, again, err := translateSnippet(tt.input)
			assert.Equal(t, tt.wantAgain, again, "again")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantJS, js)
		})
	}
}

func TestHandleDotCommand(t *testing.T) {
	newCmd := func() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
		cmd := &cobra.Command{}
		var out, errOut bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		return cmd, &out, &errOut
	}

	t.Run("quit and exit stop the loop", func(t *testing.T) {
		cmd, _, _ := newCmd()
		assert.True(t, handleDotCommand(cmd, ".quit"))
		assert.True(t, handleDotCommand(cmd, ".exit"))
	})

	t.Run("clear writes to the command stream", func(t *testing.T) {
		cmd, out, _ := newCmd()
		assert.False(t, handleDotCommand(cmd, ".clear"))
		assert.Equal(t, "\033[H\033[2J", out.String())
	})

	t.Run("help prints commands", func(t *testing.T) {
		cmd, out, _ := newCmd()
		assert.False(t, handleDotCommand(cmd, ".help"))
		assert.Contains(t, out.String(), ".quit")
	})

	t.Run("unknown command reports to stderr", func(t *testing.T) {
		cmd, _, errOut := newCmd()
		assert.False(t, handleDotCommand(cmd, ".bogus"))
		assert.Contains(t, errOut.String(), "Unknown command")
	})
}

func TestIsIncomplete(t *testing.T) {
	_, errOpen := parser.Parse([]byte("while true do"))
	require.Error(t, errOpen)
	assert.True(t, isIncomplete(errOpen))

	_, errBad := parser.Parse([]byte(") oops"))
	require.Error(t, errBad)
	assert.False(t, isIncomplete(errBad))
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/luajs/internal/cli/config"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_BuildWithFlags(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "dnscontrol.lua")
	output := filepath.Join(dir, "dnscontrol.js")
	require.NoError(t, os.WriteFile(source, []byte("local ttl = 300"), 0o644))

	_, err := executeRoot(t, "build", "--source", source, "--output", output)
	require.NoError(t, err)

	js, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "var ttl = 300;\n", string(js))
}

func TestRootCmd_BuildWithCheckFlag(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "dnscontrol.lua")
	output := filepath.Join(dir, "dnscontrol.js")
	require.NoError(t, os.WriteFile(source, []byte("f(1)"), 0o644))

	_, err := executeRoot(t, "build", "--check", "--source", source, "--output", output)
	require.NoError(t, err)

	_, statErr := os.Stat(output)
	assert.NoError(t, statErr)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "zones.lua")
	output := filepath.Join(dir, "zones.js")
	require.NoError(t, os.WriteFile(source, []byte("local n = 1"), 0o644))

	cfgPath := filepath.Join(dir, "luajs.yaml")
	cfgContent := "source: " + source + "\noutput: " + output + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o644))

	_, err := executeRoot(t, "build", "--config", cfgPath)
	require.NoError(t, err)

	js, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "var n = 1;\n", string(js))
}

func TestRootCmd_BareInvocationForwardsToCommand(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "dnscontrol.lua")
	output := filepath.Join(dir, "dnscontrol.js")
	require.NoError(t, os.WriteFile(source, []byte("local x = 1"), 0o644))

	// "true" swallows the forwarded arguments and exits zero.
	_, err := executeRoot(t,
		"--source", source, "--output", output, "--command", "true",
		"--", "preview", "--full")
	require.NoError(t, err)

	_, statErr := os.Stat(output)
	assert.NoError(t, statErr, "bare invocation should build before forwarding")
}

func TestRootCmd_RenderError(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "dnscontrol.lua")
	require.NoError(t, os.WriteFile(source, []byte("repeat x = 1 until x"), 0o644))

	_, err := executeRoot(t, "render", source, "--source", source)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported construct")
}

func TestRootCmd_Version(t *testing.T) {
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "luajs v")
}

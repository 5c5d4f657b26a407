package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/folio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "folio "+folio.Version+"\n", out)
}

func TestPrompt(t *testing.T) {
	out, err := run(t, "prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "tools: getProjects, getPresentation")
	assert.Contains(t, out, "getInternship")
}

func TestPrompt_InvalidProvider(t *testing.T) {
	_, err := run(t, "--provider", "bogus", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestAsk_DemoMode(t *testing.T) {
	_, err := run(t, "--demo", "ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo mode")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOLIO_TEST_ENV_VALUE=from-file\n"), 0o600))
	t.Setenv("FOLIO_TEST_ENV_VALUE", "")
	require.NoError(t, os.Unsetenv("FOLIO_TEST_ENV_VALUE"))

	c := &cli{envFile: path}
	require.NoError(t, c.loadEnvFile())
	assert.Equal(t, "from-file", os.Getenv("FOLIO_TEST_ENV_VALUE"))

	c = &cli{envFile: filepath.Join(dir, "missing.env")}
	assert.NoError(t, c.loadEnvFile())
}

func TestFlagsReachConfig(t *testing.T) {
	c, cmd := newCLI()
	cmd.SetArgs([]string{"--env-file", "", "--mcp", "--resume-file", "cv.pdf", "--addr", ":9090", "version"})
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	cfg, _, _, err := c.setup()
	require.NoError(t, err)
	assert.True(t, cfg.MCPEnabled)
	assert.Equal(t, "cv.pdf", cfg.ResumeFile)
	assert.Equal(t, ":9090", cfg.Addr)
}

package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdidvp/repoprobe/internal/adapters/inbound/cli"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".repoprobe.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "rate_limit: 5")
	assert.Contains(t, string(data), "max_depth: 2")
	assert.Contains(t, string(data), "  - master")
	assert.Contains(t, string(data), "# gitlab_url:")
}

func TestInitCmd_FileLoadsBack(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("GITLAB_URL", "")
	t.Setenv("GITLAB_TOKEN", "")

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--gitlab-url", "https://gitlab.example.com"})
	require.NoError(t, root.Execute())

	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.example.com", cfg.GitLabURL)
	assert.Equal(t, []string{"main", "master"}, cfg.FallbackBranches)
	assert.Equal(t, 256, cfg.CacheSize)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".repoprobe.yaml"), []byte("existing"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".repoprobe.yaml"), []byte("old"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--force"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".repoprobe.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_depth:")
	assert.NotEqual(t, "old", string(data))
}

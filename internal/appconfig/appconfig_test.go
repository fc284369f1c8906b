package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "642244225184", cfg.CICDAccount)
	assert.Equal(t, "685385421611", cfg.WorkloadAccount)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "cdk-hnb659fds-assets-685385421611-eu-central-1", cfg.AssetBucket())
	assert.Equal(t, "cdk-hnb659fds-deploy-role-685385421611-eu-central-1", cfg.DeployRole())
	assert.Equal(t, "cdk-hnb659fds-file-publishing-role-685385421611-eu-central-1", cfg.FilePublishingRole())
	assert.Equal(t, "cdk-hnb659fds-cfn-exec-role-685385421611-eu-central-1", cfg.ExecutionRole())
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "awsstacks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
region: eu-west-1
workloadAccount: "111111111111"
github:
  repo: infra
lambda:
  codeKey: abc.zip
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "111111111111", cfg.WorkloadAccount)
	assert.Equal(t, "infra", cfg.GitHub.Repo)
	assert.Equal(t, "BalaAddepalli", cfg.GitHub.Owner)
	assert.Equal(t, "abc.zip", cfg.Lambda.CodeKey)
	assert.Equal(t, "642244225184", cfg.CICDAccount)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("environment: PROD\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "PROD", cfg.Environment)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "region: [unterminated"},
		{"short account", `cicdAccount: "123"`},
		{"empty region", `region: ""`},
		{"empty owner", "github:\n  owner: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "awsstacks.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Region = ""
	cfg.Qualifier = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "region is required")
	assert.Contains(t, err.Error(), "qualifier is required")
}

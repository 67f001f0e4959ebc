package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmkit/internal/remote"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range EnvNames() {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, remote.DefaultOwner, c.Template.Owner)
	assert.Equal(t, remote.DefaultRepo, c.Template.Repo)
	assert.Equal(t, "main", c.Template.Branch)
	assert.False(t, c.Emit.Overwrite)
	assert.NoError(t, c.Validate())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"

[template]
repo = "my-templates"

[emit]
overwrite = true
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format, "unset keys keep their default")
	assert.Equal(t, "my-templates", c.Template.Repo)
	assert.Equal(t, remote.DefaultOwner, c.Template.Owner)
	assert.True(t, c.Emit.Overwrite)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{name: "syntax", content: "[log\n", wantErr: "parsing config file"},
		{name: "unknown key", content: "[log]\ncolour = true\n", wantErr: "parsing config file"},
		{name: "bad level", content: "[log]\nlevel = \"loud\"\n", wantErr: `log.level "loud"`},
		{name: "bad env bool", env: map[string]string{"RMKIT_EMIT_OVERWRITE": "maybe"}, wantErr: "RMKIT_EMIT_OVERWRITE"},
		{name: "empty repo", env: map[string]string{"RMKIT_TEMPLATE_REPO": ""}, wantErr: "template.owner and template.repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RMKIT_LOG_LEVEL":           "info",
		"RMKIT_LOG_FORMAT":          " json ",
		"RMKIT_TEMPLATE_BRANCH":     "v0.7",
		"RMKIT_TEMPLATE_LOCAL_PATH": "/tmp/tpl",
		"RMKIT_TEMPLATE_OFFLINE":    "true",
		"RMKIT_EMIT_OVERWRITE":      "1",
	}

	c := Default()
	require.NoError(t, c.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "v0.7", c.Template.Branch)
	assert.Equal(t, "/tmp/tpl", c.Template.LocalPath)
	assert.True(t, c.Template.Offline)
	assert.True(t, c.Emit.Overwrite)
}

func TestApplyEnvReportsEveryProblem(t *testing.T) {
	env := map[string]string{"RMKIT_TEMPLATE_OFFLINE": "x", "RMKIT_EMIT_OVERWRITE": "y"}

	c := Default()
	err := c.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "RMKIT_TEMPLATE_OFFLINE")
	assert.Contains(t, err.Error(), "RMKIT_EMIT_OVERWRITE")
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "rmkit", "config.toml"), Path())
}

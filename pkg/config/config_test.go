package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{
		"GEMINI_API_KEY", "API_KEY",
		"STRATLIFE_DATA_DIR", "STRATLIFE_API_KEY", "STRATLIFE_MODEL",
		"STRATLIFE_LOG_LEVEL", "STRATLIFE_LOG_FILE", "STRATLIFE_JSON",
	} {
		t.Setenv(env, "")
	}
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	viper.Set("data_dir", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "stratlife.log"), cfg.LogFile)
	assert.False(t, cfg.JSON)
}

func TestLoadEnvOverrides(t *testing.T) {
	resetViper(t)
	require.NoError(t, Init(""))

	t.Setenv("STRATLIFE_MODEL", "gemini-2.5-pro")
	t.Setenv("STRATLIFE_LOG_LEVEL", "debug")
	t.Setenv("STRATLIFE_API_KEY", "from-prefix")
	t.Setenv("GEMINI_API_KEY", "from-gemini")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-prefix", cfg.APIKey)
}

func TestLoadAPIKeyFallbacks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"none", nil, ""},
		{"gemini", map[string]string{"GEMINI_API_KEY": "g"}, "g"},
		{"generic", map[string]string{"API_KEY": "a"}, "a"},
		{"gemini wins", map[string]string{"GEMINI_API_KEY": "g", "API_KEY": "a"}, "g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.APIKey)
		})
	}
}

func TestInitReadsConfigFromDataDir(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("model: from-file\nlog_file: /tmp/x.log\n"), 0o644))
	viper.Set("data_dir", dir)

	require.NoError(t, Init(""))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Model)
	assert.Equal(t, "/tmp/x.log", cfg.LogFile)
}

func TestInitExplicitFile(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("json: true\n"), 0o644))

	require.NoError(t, Init(path))
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.JSON)
}

func TestInitMalformedFile(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed\n"), 0o644))

	assert.Error(t, Init(path))
}

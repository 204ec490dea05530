package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	Init()

	// No config file anywhere near the temp working directory.
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.NotEmpty(t, cfg.PresetDirs)
	assert.NotEmpty(t, cfg.OutputDir)
}

func TestLoad_ExplicitFile(t *testing.T) {
	resetViper(t)
	Init()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "version: 1\npreset_dirs:\n  - /opt/strata/presets\noutput_dir: /tmp/out\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/strata/presets"}, cfg.PresetDirs)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	resetViper(t)
	Init()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	resetViper(t)
	Init()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t:\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

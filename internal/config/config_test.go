package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"scene_path": "scene.glb",
		"base_export": "/export",
		"collections": ["IfcProject/1772509/STR"],
		"workers": 4
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "scene.glb", cfg.ScenePath)
	assert.Equal(t, []string{"IfcProject/1772509/STR"}, cfg.Collections)

	cfg.Resolve(Flags{ScenePath: "other.glb", Workers: 2})
	assert.Equal(t, "other.glb", cfg.ScenePath)
	assert.Equal(t, "/export", cfg.BaseExport)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 20.0, cfg.PixelsPerMetre)
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv("BIMTOOLS_SCENE", "")
	t.Setenv("BIMTOOLS_BASE_EXPORT", "")

	var cfg Config
	cfg.Resolve(Flags{})
	cwd, _ := os.Getwd()
	assert.Equal(t, cwd, cfg.BaseExport)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestResolveEnvFallback(t *testing.T) {
	t.Setenv("BIMTOOLS_SCENE", "/scenes/site.glb")
	t.Setenv("BIMTOOLS_BASE_EXPORT", "/mnt/export")

	var cfg Config
	cfg.Resolve(Flags{})
	assert.Equal(t, "/scenes/site.glb", cfg.ScenePath)
	assert.Equal(t, "/mnt/export", cfg.BaseExport)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

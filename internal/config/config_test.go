package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/kiln/internal/lifetime"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(`
runtime:
  addr: ":9090"
  parallel_init: true
services:
  - id: aiAssistant
    enabled: false
  - id: componentGenerator
    lifetime: transient
    tags: [web, ui]
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", m.Runtime.Addr)
	assert.True(t, m.Runtime.ParallelInit)
	assert.False(t, m.Enabled("aiAssistant"))
	assert.True(t, m.Enabled("componentGenerator"))
	assert.True(t, m.Enabled("unlisted"))
	assert.Equal(t, lifetime.Transient, m.Lifetime("componentGenerator", lifetime.Scoped))
	assert.Equal(t, lifetime.Scoped, m.Lifetime("aiAssistant", lifetime.Scoped))
	assert.Equal(t, []string{"web", "ui"}, m.Tags("componentGenerator"))
	assert.Nil(t, m.Tags("unlisted"))
}

func TestParseManifestEmpty(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, m.Services)
	assert.True(t, m.Enabled("anything"))
}

func TestParseManifestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "runtime:\n  port: 1\n"},
		{"bad lifetime", "services:\n  - id: a\n    lifetime: pooled\n"},
		{"missing id", "services:\n  - enabled: true\n"},
		{"duplicate id", "services:\n  - id: a\n  - id: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseManifest([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, defaultAddr, cfg.Addr)
	assert.False(t, cfg.ParallelInit)
	assert.NotNil(t, cfg.Manifest)
}

func TestLoadEnvOverridesManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "services.yaml", "runtime:\n  addr: \":9090\"\n  log_level: debug\n  parallel_init: true\n")
	envFile := writeFile(t, dir, "test.env", "KILN_ADDR=:7070\nLOG_FORMAT=json\n")

	t.Setenv("KILN_MANIFEST", manifest)
	t.Setenv("KILN_ADDR", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("KILN_PARALLEL_INIT", "false")

	require.NoError(t, os.Unsetenv("KILN_ADDR"))
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, manifest, cfg.ManifestPath)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.ParallelInit)
}

func TestLoadExplicitManifestMissing(t *testing.T) {
	t.Setenv("KILN_MANIFEST", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadInvalidBool(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KILN_PARALLEL_INIT", "sometimes")

	_, err := Load()
	assert.ErrorContains(t, err, "KILN_PARALLEL_INIT")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := (&Config{LogLevel: "warn", LogFormat: "json"}).NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "service", "templateService")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"service":"templateService"`)

	_, err = (&Config{LogLevel: "loud"}).NewLogger(&buf)
	assert.Error(t, err)

	_, err = (&Config{LogLevel: "info", LogFormat: "xml"}).NewLogger(&buf)
	assert.Error(t, err)
}

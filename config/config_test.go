package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LBORO_PRODUCT", "LBORO_OUTPUT_DIR", "LBORO_FORMATS", "LBORO_CALENDAR_NAME", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Wants("csv"))
	assert.False(t, cfg.Wants("ics"))
}

func TestLoadConfig_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
product: my-timetable
output_dir: exports
formats: [csv, ics]
calendar_name: Uni
log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Product:      "my-timetable",
		OutputDir:    "exports",
		Formats:      []string{"csv", "ics"},
		CalendarName: "Uni",
		LogLevel:     "debug",
	}, cfg)
}

func TestLoadConfig_JSONKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"formats": ["ics"]}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lboro-timetable", cfg.Product)
	assert.Equal(t, []string{"ics"}, cfg.Formats)
	assert.True(t, cfg.Wants("ICS"))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LBORO_OUTPUT_DIR", "/tmp/out")
	t.Setenv("LBORO_FORMATS", "ics, CSV")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, []string{"ics", "csv"}, cfg.Formats)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	for name, content := range map[string]string{
		"bad format":  "formats: [pdf]",
		"no formats":  "formats: []",
		"bad level":   "log_level: loud",
		"bad product": "product: a/b",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.yaml", content))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "config.json", "{"))
	assert.ErrorContains(t, err, "error decoding")
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	chdir(t, t.TempDir())
	assert.NoError(t, LoadEnv())
}

func TestLoadEnv_SetsVariables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LBORO_TEST_VALUE=from-dotenv\n"), 0o600))
	chdir(t, dir)
	t.Setenv("LBORO_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("LBORO_TEST_VALUE"))

	require.NoError(t, LoadEnv())
	assert.Equal(t, "from-dotenv", os.Getenv("LBORO_TEST_VALUE"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the previous one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

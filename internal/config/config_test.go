package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NAMEGEN_DATA_FILE", "NAMEGEN_TEMPLATE_FILE", "NAMEGEN_OUTPUT_DIR",
		"NAMEGEN_CRASH_LOG", "NAMEGEN_BACKUP_DIR", "NAMEGEN_LOG_LEVEL",
		"NAMEGEN_FILTER_DEBOUNCE", "NAMEGEN_TEMPLATE_DEBOUNCE", "NAMEGEN_ASYNC_SAVE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data.json"), cfg.DataPath())
	assert.Equal(t, filepath.Join(dir, "code.txt"), cfg.TemplatePath())
	assert.Equal(t, filepath.Join(dir, "common", "scripted_effects"), cfg.OutputPath())
	assert.Equal(t, filepath.Join(dir, "log.log"), cfg.CrashLogPath())
	assert.Equal(t, 250*time.Millisecond, cfg.FilterDebounce)
	assert.Equal(t, 500*time.Millisecond, cfg.TemplateDebounce)
	assert.False(t, cfg.AsyncSave)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	body := "data_file: states.json\nfilter_debounce: 100ms\nasync_save: true\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "states.json"), cfg.DataPath())
	assert.Equal(t, 100*time.Millisecond, cfg.FilterDebounce)
	assert.Equal(t, 500*time.Millisecond, cfg.TemplateDebounce, "template reload keeps its own delay")
	assert.True(t, cfg.AsyncSave)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "code.txt", cfg.TemplateFile, "unset keys keep defaults")
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("filter_debounce: [\n"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env beats file", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("output_dir: out\n"), 0644))
		t.Setenv("NAMEGEN_OUTPUT_DIR", "/abs/out")

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "/abs/out", cfg.OutputPath())
	})

	t.Run("invalid debounce", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NAMEGEN_FILTER_DEBOUNCE", "soon")

		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("template debounce is separate", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NAMEGEN_FILTER_DEBOUNCE", "50ms")
		t.Setenv("NAMEGEN_TEMPLATE_DEBOUNCE", "2s")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, 50*time.Millisecond, cfg.FilterDebounce)
		assert.Equal(t, 2*time.Second, cfg.TemplateDebounce)
	})

	t.Run("invalid template debounce", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NAMEGEN_TEMPLATE_DEBOUNCE", "later")

		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("async save", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NAMEGEN_ASYNC_SAVE", "true")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.AsyncSave)
	})
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is present, even when empty
	os.Unsetenv("NAMEGEN_TEMPLATE_FILE")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NAMEGEN_TEMPLATE_FILE=templates/code.txt\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "templates", "code.txt"), cfg.TemplatePath())
}

// Package config resolves where namegen keeps its data, template, export
// output and crash log.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the base directory.
const FileName = "namegen.yaml"

// Config holds every path and tunable. Relative paths are resolved against
// BaseDir.
type Config struct {
	BaseDir        string        `yaml:"-"`
	DataFile       string        `yaml:"data_file"`
	TemplateFile   string        `yaml:"template_file"`
	OutputDir      string        `yaml:"output_dir"`
	CrashLog       string        `yaml:"crash_log"`
	BackupDir      string        `yaml:"backup_dir"`
	FilterDebounce time.Duration `yaml:"filter_debounce"`

	// TemplateDebounce is the quiet period before a changed code.txt is
	// reloaded by --watch-template.
	TemplateDebounce time.Duration `yaml:"template_debounce"`
	AsyncSave        bool          `yaml:"async_save"`
	Logging          LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // TUI debug log, used with --verbose
}

// DefaultConfig returns the stock file layout rooted at baseDir.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		BaseDir:          baseDir,
		DataFile:         "data.json",
		TemplateFile:     "code.txt",
		OutputDir:        filepath.Join("common", "scripted_effects"),
		CrashLog:         "log.log",
		BackupDir:        "backups",
		FilterDebounce:   250 * time.Millisecond,
		TemplateDebounce: 500 * time.Millisecond,
		Logging: LoggingConfig{
			Level: "info",
			File:  "namegen-debug.log",
		},
	}
}

// Load builds the config for baseDir: defaults, then baseDir/namegen.yaml if
// present, then a .env file and NAMEGEN_* environment variables.
func Load(baseDir string) (*Config, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	cfg := DefaultConfig(abs)

	data, err := os.ReadFile(filepath.Join(abs, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	// a missing .env is normal
	_ = godotenv.Load(filepath.Join(abs, ".env"))

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("NAMEGEN_DATA_FILE"); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv("NAMEGEN_TEMPLATE_FILE"); v != "" {
		c.TemplateFile = v
	}
	if v := os.Getenv("NAMEGEN_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("NAMEGEN_CRASH_LOG"); v != "" {
		c.CrashLog = v
	}
	if v := os.Getenv("NAMEGEN_BACKUP_DIR"); v != "" {
		c.BackupDir = v
	}
	if v := os.Getenv("NAMEGEN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("NAMEGEN_FILTER_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid NAMEGEN_FILTER_DEBOUNCE: %w", err)
		}
		c.FilterDebounce = d
	}
	if v := os.Getenv("NAMEGEN_TEMPLATE_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid NAMEGEN_TEMPLATE_DEBOUNCE: %w", err)
		}
		c.TemplateDebounce = d
	}
	if v := os.Getenv("NAMEGEN_ASYNC_SAVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid NAMEGEN_ASYNC_SAVE: %w", err)
		}
		c.AsyncSave = b
	}
	return nil
}

// Path resolves p against the base directory.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func (c *Config) DataPath() string     { return c.Path(c.DataFile) }
func (c *Config) TemplatePath() string { return c.Path(c.TemplateFile) }
func (c *Config) OutputPath() string   { return c.Path(c.OutputDir) }
func (c *Config) CrashLogPath() string { return c.Path(c.CrashLog) }
func (c *Config) BackupPath() string   { return c.Path(c.BackupDir) }
func (c *Config) LogFilePath() string  { return c.Path(c.Logging.File) }

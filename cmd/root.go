package cmd

import (
	"fmt"

	"namegen/internal/config"
	"namegen/internal/crashlog"
	"namegen/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	baseDir string
	verbose bool

	cfg      *config.Config
	logger   = zap.NewNop()
	boundary = crashlog.New("log.log")
)

var rootCmd = &cobra.Command{
	Use:   "namegen",
	Short: "Edit state naming records and export them as scripted effects",
	Long: `namegen keeps a list of state naming records in data.json and turns
them into one scripted effect file per record type, using the code template
in code.txt.

Run without a command to start the interactive editor.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

// Execute runs the command tree inside the crash boundary and returns the
// process exit code.
func Execute() int {
	return boundary.Run(rootCmd.Execute)
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Directory holding data.json, code.txt and the export output (default: working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setup loads the config and builds the logger. Interactive commands log to
// a file only with --verbose so the terminal stays clean.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(baseDir)
	if err != nil {
		return err
	}
	boundary.SetPath(cfg.CrashLogPath())

	logger, err = buildLogger(interactive(cmd))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	boundary.SetLogger(logger)

	logger.Debug("config loaded",
		zap.String("base_dir", cfg.BaseDir),
		zap.String("data", cfg.DataPath()),
		zap.String("template", cfg.TemplatePath()))
	return nil
}

func interactive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == tuiCmd
}

func buildLogger(tui bool) (*zap.Logger, error) {
	if tui && !verbose {
		return zap.NewNop(), nil
	}

	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if tui {
		zcfg.OutputPaths = []string{cfg.LogFilePath()}
		zcfg.ErrorOutputPaths = []string{cfg.LogFilePath()}
	}
	return zcfg.Build()
}

func openStore(opts ...store.Option) (*store.Store, error) {
	opts = append([]store.Option{store.WithLogger(logger)}, opts...)
	s, err := store.Open(cfg.DataPath(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.DataPath(), err)
	}
	return s, nil
}

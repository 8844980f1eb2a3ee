package cmd

import (
	"context"
	"fmt"
	"sync"

	"namegen/internal/backup"
	"namegen/internal/export"
	"namegen/internal/store"
	"namegen/internal/tui"
	"namegen/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchTemplate bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive editor (same as default)",
	Long: `Start the Terminal User Interface for browsing, filtering and editing
state records, exporting scripted effects, importing CSV files and managing
backups.

Note: This is the same as running the program without any commands.`,
	RunE: runTUI,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().BoolVarP(&watchTemplate, "watch-template", "w", false, "Reload code.txt when it changes on disk")
	}
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	exporter, err := export.New(cfg.TemplatePath(), cfg.OutputPath(), export.WithLogger(logger))
	if err != nil {
		return err
	}

	var (
		p       *tea.Program
		saveMu  sync.Mutex
		saveErr error
	)
	var opts []store.Option
	if cfg.AsyncSave {
		opts = append(opts, store.WithAsyncSave(func(err error) {
			saveMu.Lock()
			if saveErr == nil {
				saveErr = err
			}
			saveMu.Unlock()
			p.Send(tui.FatalMsg{Err: err})
		}))
	}

	s, err := openStore(opts...)
	if err != nil {
		return err
	}

	model := tui.NewModel(&tui.Deps{
		Store:    s,
		Exporter: exporter,
		Backup:   backup.NewService(s),
		Config:   cfg,
		Logger:   logger,
	})

	p = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if watchTemplate {
		w, err := watch.NewTemplateWatcher(cfg.TemplatePath(), cfg.TemplateDebounce, func() {
			p.Send(tui.TemplateChangedMsg{})
		}, logger)
		if err != nil {
			s.Close()
			return fmt.Errorf("failed to watch template: %w", err)
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := w.Start(ctx); err != nil {
			s.Close()
			return fmt.Errorf("failed to watch template: %w", err)
		}
		defer w.Stop()
	}

	final, runErr := p.Run()
	s.Close()

	if runErr != nil {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	if m, ok := final.(tui.Model); ok && m.Fatal() != nil {
		return m.Fatal()
	}

	saveMu.Lock()
	defer saveMu.Unlock()
	if saveErr != nil {
		return saveErr
	}
	logger.Info("TUI closed", zap.Int("records", s.Len()))
	return nil
}

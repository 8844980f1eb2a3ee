package tui

import (
	"fmt"

	"namegen/internal/backup"
	"namegen/internal/config"
	"namegen/internal/export"
	"namegen/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type Screen int

const (
	MenuScreen Screen = iota
	RecordsScreen
	EditorScreen
	ExportScreen
	ImportScreen
	BackupScreen
	RestoreScreen
)

// Deps are the services every screen works against.
type Deps struct {
	Store    *store.Store
	Exporter *export.Exporter
	Backup   *backup.Service
	Config   *config.Config
	Logger   *zap.Logger
}

// inputCapturer is implemented by screens that consume raw key presses, so
// global shortcuts must not steal them.
type inputCapturer interface {
	Capturing() bool
}

type Model struct {
	deps          *Deps
	currentScreen Screen
	menuModel     *MenuModel
	recordsModel  *RecordsModel
	editorModel   *EditorModel
	exportModel   *ExportModel
	importModel   *ImportModel
	backupModel   *BackupModel
	restoreModel  *RestoreModel
	err           error
	fatal         error
	quitting      bool
	width         int
	height        int
}

func NewModel(deps *Deps) Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return Model{
		deps:          deps,
		currentScreen: MenuScreen,
		menuModel:     NewMenuModel(),
		recordsModel:  NewRecordsModel(deps),
		editorModel:   NewEditorModel(deps),
		exportModel:   NewExportModel(deps),
		importModel:   NewImportModel(deps),
		backupModel:   NewBackupModel(deps),
		restoreModel:  NewRestoreModel(deps),
	}
}

// Fatal returns the error that ended the program, if any.
func (m Model) Fatal() error {
	return m.fatal
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menuModel.SetSize(msg.Width, msg.Height)
		m.recordsModel.SetSize(msg.Width, msg.Height)
		m.editorModel.SetSize(msg.Width, msg.Height)
		m.exportModel.SetSize(msg.Width, msg.Height)
		m.importModel.SetSize(msg.Width, msg.Height)
		m.backupModel.SetSize(msg.Width, msg.Height)
		m.restoreModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "q":
			if m.currentScreen == MenuScreen {
				m.quitting = true
				return m, tea.Quit
			}
		case "esc":
			if m.currentScreen != MenuScreen && !m.capturing() {
				m.err = nil
				m.currentScreen = MenuScreen
				return m, nil
			}
		}

	case ScreenChangeMsg:
		m.err = nil
		m.currentScreen = msg.Screen
		switch msg.Screen {
		case RecordsScreen:
			m.recordsModel.Refresh()
			return m, m.recordsModel.Init()
		case ExportScreen:
			m.exportModel.Reset()
		}
		return m, nil

	case EditRecordMsg:
		m.err = nil
		if err := m.editorModel.Load(msg.Index, msg.New); err != nil {
			return m, Fatal(err)
		}
		m.currentScreen = EditorScreen
		return m, m.editorModel.Init()

	case RecordSavedMsg:
		m.currentScreen = RecordsScreen
		m.recordsModel.Refresh()
		m.recordsModel.Select(msg.Index)
		return m, nil

	case TemplateChangedMsg:
		return m, m.reloadTemplate()

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case FatalMsg:
		m.deps.Logger.Error("fatal error in TUI", zap.Error(msg.Err))
		m.fatal = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.currentScreen {
	case MenuScreen:
		newMenuModel, c := m.menuModel.Update(msg)
		m.menuModel = newMenuModel.(*MenuModel)
		cmd = c
	case RecordsScreen:
		newRecordsModel, c := m.recordsModel.Update(msg)
		m.recordsModel = newRecordsModel.(*RecordsModel)
		cmd = c
	case EditorScreen:
		newEditorModel, c := m.editorModel.Update(msg)
		m.editorModel = newEditorModel.(*EditorModel)
		cmd = c
	case ExportScreen:
		newExportModel, c := m.exportModel.Update(msg)
		m.exportModel = newExportModel.(*ExportModel)
		cmd = c
	case ImportScreen:
		newImportModel, c := m.importModel.Update(msg)
		m.importModel = newImportModel.(*ImportModel)
		cmd = c
	case BackupScreen:
		newBackupModel, c := m.backupModel.Update(msg)
		m.backupModel = newBackupModel.(*BackupModel)
		cmd = c
	case RestoreScreen:
		newRestoreModel, c := m.restoreModel.Update(msg)
		m.restoreModel = newRestoreModel.(*RestoreModel)
		cmd = c
	}

	// debounce ticks must reach the records page whichever screen is showing
	if tick, ok := msg.(filterTickMsg); ok && m.currentScreen != RecordsScreen {
		m.recordsModel.applyTick(tick)
	}

	return m, cmd
}

func (m Model) capturing() bool {
	var screen interface{}
	switch m.currentScreen {
	case RecordsScreen:
		screen = m.recordsModel
	case EditorScreen:
		screen = m.editorModel
	case ImportScreen:
		screen = m.importModel
	case BackupScreen:
		screen = m.backupModel
	case RestoreScreen:
		screen = m.restoreModel
	}
	if c, ok := screen.(inputCapturer); ok {
		return c.Capturing()
	}
	return false
}

func (m Model) reloadTemplate() tea.Cmd {
	cfg := m.deps.Config
	exporter, err := export.New(cfg.TemplatePath(), cfg.OutputPath(), export.WithLogger(m.deps.Logger))
	if err != nil {
		return ShowError(fmt.Errorf("template not reloaded: %w", err))
	}
	m.deps.Exporter = exporter
	m.deps.Logger.Info("template reloaded", zap.String("path", cfg.TemplatePath()))
	return nil
}

func (m Model) View() string {
	if m.quitting {
		if m.fatal != nil {
			return ""
		}
		return "Goodbye!\n"
	}

	var content string
	switch m.currentScreen {
	case MenuScreen:
		content = m.menuModel.View()
	case RecordsScreen:
		content = m.recordsModel.View()
	case EditorScreen:
		content = m.editorModel.View()
	case ExportScreen:
		content = m.exportModel.View()
	case ImportScreen:
		content = m.importModel.View()
	case BackupScreen:
		content = m.backupModel.View()
	case RestoreScreen:
		content = m.restoreModel.View()
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Margin(1, 0)
		content += errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return content
}

type ScreenChangeMsg struct {
	Screen Screen
}

type ErrorMsg struct {
	Err error
}

// FatalMsg ends the program; the error surfaces through the crash log.
type FatalMsg struct {
	Err error
}

// EditRecordMsg opens the editor on a store index.
type EditRecordMsg struct {
	Index int
	New   bool
}

// RecordSavedMsg returns from the editor to the records page.
type RecordSavedMsg struct {
	Index int
}

// TemplateChangedMsg asks the model to rebuild the exporter.
type TemplateChangedMsg struct{}

func ChangeScreen(screen Screen) tea.Cmd {
	return func() tea.Msg {
		return ScreenChangeMsg{Screen: screen}
	}
}

func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

func Fatal(err error) tea.Cmd {
	return func() tea.Msg {
		return FatalMsg{Err: err}
	}
}

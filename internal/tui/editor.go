package tui

import (
	"fmt"
	"strconv"
	"strings"

	"namegen/internal/models"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	fieldType = iota
	fieldStateID
	fieldStateName
	fieldProvinces
	fieldCount
)

// EditorModel edits one record. Changes are written to the store on ctrl+s.
type EditorModel struct {
	deps      *Deps
	index     int
	isNew     bool
	inputs    []textinput.Model
	provinces textarea.Model
	focus     int
	err       error
	width     int
	height    int
}

func NewEditorModel(deps *Deps) *EditorModel {
	inputs := make([]textinput.Model, fieldStateName+1)

	inputs[fieldType] = textinput.New()
	inputs[fieldType].Placeholder = "e.g. ger"
	inputs[fieldType].CharLimit = 32
	inputs[fieldType].Width = 30

	inputs[fieldStateID] = textinput.New()
	inputs[fieldStateID].Placeholder = "0"
	inputs[fieldStateID].CharLimit = 19
	inputs[fieldStateID].Width = 20

	inputs[fieldStateName] = textinput.New()
	inputs[fieldStateName].Placeholder = "e.g. Brandenburg"
	inputs[fieldStateName].CharLimit = 128
	inputs[fieldStateName].Width = 40

	ta := textarea.New()
	ta.Placeholder = "one province per line: 123 - Berlin"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetWidth(50)
	ta.SetHeight(8)

	return &EditorModel{
		deps:      deps,
		inputs:    inputs,
		provinces: ta,
	}
}

func (m *EditorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *EditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 20 {
		m.provinces.SetWidth(min(width-12, 80))
	}
}

// Capturing is always true: every key goes to a form field.
func (m *EditorModel) Capturing() bool {
	return true
}

// Load fills the form from store index i.
func (m *EditorModel) Load(i int, isNew bool) error {
	r, err := m.deps.Store.Record(i)
	if err != nil {
		return err
	}
	m.index = i
	m.isNew = isNew
	m.err = nil

	m.inputs[fieldType].SetValue(r.Type)
	m.inputs[fieldStateID].SetValue(strconv.FormatInt(r.StateID, 10))
	m.inputs[fieldStateName].SetValue(r.StateName)
	m.provinces.SetValue(r.ProvincesText())

	m.setFocus(fieldType)
	return nil
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, m.cancel()
		case "ctrl+s":
			return m, m.save()
		case "tab", "down":
			if msg.String() == "down" && m.focus == fieldProvinces {
				break
			}
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			if msg.String() == "up" && m.focus == fieldProvinces {
				break
			}
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			if m.focus != fieldProvinces {
				m.setFocus(m.focus + 1)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldProvinces {
		m.provinces, cmd = m.provinces.Update(msg)
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *EditorModel) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if field == fieldProvinces {
		m.provinces.Focus()
	} else {
		m.provinces.Blur()
	}
}

// Record builds a record from the form. Invalid numbers are rejected and
// leave the stored record untouched.
func (m *EditorModel) Record() (models.Record, error) {
	stateID := strings.TrimSpace(m.inputs[fieldStateID].Value())
	if stateID == "" {
		stateID = "0"
	}
	id, err := strconv.ParseUint(stateID, 10, 63)
	if err != nil {
		return models.Record{}, fmt.Errorf("invalid state id %q", m.inputs[fieldStateID].Value())
	}

	provinces, err := models.ParseProvincesText(m.provinces.Value())
	if err != nil {
		return models.Record{}, fmt.Errorf("provinces: %w", err)
	}

	return models.Record{
		Type:      m.inputs[fieldType].Value(),
		StateID:   int64(id),
		StateName: m.inputs[fieldStateName].Value(),
		Provinces: provinces,
	}, nil
}

func (m *EditorModel) save() tea.Cmd {
	r, err := m.Record()
	if err != nil {
		m.err = err
		return nil
	}
	if err := m.deps.Store.Update(m.index, r); err != nil {
		return Fatal(fmt.Errorf("failed to save record: %w", err))
	}
	m.deps.Logger.Debug("record saved",
		zap.Int("index", m.index),
		zap.String("type", r.Type),
		zap.Int64("state_id", r.StateID))

	index := m.index
	return func() tea.Msg {
		return RecordSavedMsg{Index: index}
	}
}

// cancel discards edits. A record added for this edit session is removed
// again.
func (m *EditorModel) cancel() tea.Cmd {
	if m.isNew {
		if err := m.deps.Store.Remove(m.index); err != nil {
			return Fatal(fmt.Errorf("failed to discard record: %w", err))
		}
		m.isNew = false
		return func() tea.Msg {
			return RecordSavedMsg{Index: -1}
		}
	}
	index := m.index
	return func() tea.Msg {
		return RecordSavedMsg{Index: index}
	}
}

func (m *EditorModel) View() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := "✏️  Edit State"
	if m.isNew {
		title = "➕ New State"
	}

	labels := []string{"Type:", "State ID:", "State Name:"}
	var form strings.Builder
	for i, label := range labels {
		form.WriteString(labelStyle.Render(label))
		form.WriteString("\n")
		form.WriteString(m.inputs[i].View())
		form.WriteString("\n\n")
	}
	form.WriteString(labelStyle.Render("Provinces:"))
	form.WriteString("\n")
	form.WriteString(m.provinces.View())

	if m.err != nil {
		form.WriteString("\n\n")
		form.WriteString(errorStyle.Render(fmt.Sprintf("❌ %v", m.err)))
	}

	help := adaptiveHelpStyle.Render("tab/shift+tab switch field • ctrl+s save • esc cancel")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		adaptiveTitleStyle.Render(title),
		adaptiveFormStyle.Render(form.String()),
		help,
	)
}

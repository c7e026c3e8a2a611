// Package tui renders a scorecard Editor as a terminal form.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goliatone/go-scorecard"
)

// SaveFunc persists the settings held by the editor.
type SaveFunc func(editor *scorecard.Editor) error

// EditorModel is a bubbletea model drawing Editor.Form. Text and dependency
// fields commit on enter; select fields cycle with left/right and commit
// immediately. The pending card name is routed to Editor.SetNewCardValue on
// every keystroke and enter creates the card.
type EditorModel struct {
	editor *scorecard.Editor
	ctx    context.Context
	save   SaveFunc

	form       scorecard.Form
	fields     []scorecard.Field
	inputs     []textinput.Model
	focusIndex int

	width    int
	height   int
	status   string
	err      error
	dirty    bool
	quitting bool
}

type savedMsg struct {
	err error
}

// NewEditorModel builds a model over editor. save may be nil, in which case
// ctrl+s only reports that nothing was written.
func NewEditorModel(ctx context.Context, editor *scorecard.Editor, save SaveFunc) *EditorModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &EditorModel{
		editor: editor,
		ctx:    ctx,
		save:   save,
	}
	m.rebuild("")
	return m
}

func (m *EditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Dirty reports whether a change was committed since the last save.
func (m *EditorModel) Dirty() bool {
	return m.dirty
}

// Err returns the last commit or save error.
func (m *EditorModel) Err() error {
	return m.err
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.dirty = false
			m.status = "Saved"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+s":
			return m, m.saveCmd()

		case "tab", "down":
			m.moveFocus(1)
			return m, nil

		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil

		case "ctrl+n":
			m.switchTab(1)
			return m, nil

		case "ctrl+p":
			m.switchTab(-1)
			return m, nil

		case "enter":
			m.commitFocused()
			return m, nil

		case "left", "right":
			if field, ok := m.focused(); ok && field.Kind == scorecard.FieldSelect {
				step := 1
				if msg.String() == "left" {
					step = -1
				}
				m.cycleChoice(field, step)
				return m, nil
			}
		}

		field, ok := m.focused()
		if !ok || field.Kind == scorecard.FieldSelect {
			return m, nil
		}
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		if field.ID == scorecard.NewCardFieldID {
			m.editor.SetNewCardValue(m.inputs[m.focusIndex].Value())
		}
		return m, cmd
	}

	if len(m.inputs) > 0 {
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	}
	return m, cmd
}

func (m *EditorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "Scorecard"
	if id := strings.TrimSpace(fmt.Sprint(scorecard.Get(m.editor.Settings(), scorecard.IDKey, ""))); id != "" {
		title += " · " + id
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	tab, hasTab := m.activeTab()
	tabStart := len(m.fields) - len(tab.Fields)
	for i := 0; i < tabStart; i++ {
		b.WriteString(m.renderField(i))
		b.WriteString("\n")
	}

	if hasTab {
		b.WriteString("\n")
		b.WriteString(m.renderTabBar())
		b.WriteString("\n")
		var content strings.Builder
		for i := tabStart; i < len(m.fields); i++ {
			content.WriteString(m.renderField(i))
			if i < len(m.fields)-1 {
				content.WriteString("\n")
			}
		}
		b.WriteString(TabContentStyle.Render(content.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(StatusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("tab/shift+tab move • enter commit • ←/→ choose • ctrl+n/ctrl+p card • ctrl+s save • esc quit"))
	return b.String()
}

func (m *EditorModel) renderField(i int) string {
	field := m.fields[i]
	labelStyle := LabelStyle
	if i == m.focusIndex {
		labelStyle = FocusedLabelStyle
	}
	var value string
	if field.Kind == scorecard.FieldSelect {
		value = "< " + choiceLabel(field) + " >"
	} else {
		value = m.inputs[i].View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(field.Label), value)
}

func (m *EditorModel) renderTabBar() string {
	tabs := make([]string, 0, len(m.form.Tabs.Items))
	for i, tab := range m.form.Tabs.Items {
		style := InactiveTabStyle
		if i == m.form.Tabs.Active {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(tab.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// rebuild regenerates the form and inputs, keeping focus on focusID when the
// field still exists.
func (m *EditorModel) rebuild(focusID string) {
	m.form = m.editor.Form()
	fields := append([]scorecard.Field{}, m.form.Fields...)
	fields = append(fields, m.form.Dependencies...)
	if m.form.NewCard != nil {
		fields = append(fields, *m.form.NewCard)
	}
	if tab, ok := m.activeTab(); ok {
		fields = append(fields, tab.Fields...)
	}
	m.fields = fields

	m.inputs = make([]textinput.Model, len(fields))
	for i, field := range fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field.Placeholder
		input.CharLimit = 255
		input.Width = 40
		input.SetValue(displayValue(field.Value))
		m.inputs[i] = input
	}

	m.focusIndex = 0
	for i, field := range fields {
		if field.ID == focusID {
			m.focusIndex = i
			break
		}
	}
	if m.focusIndex >= len(fields) {
		m.focusIndex = 0
	}
	m.updateFocus()
}

func (m *EditorModel) activeTab() (scorecard.Tab, bool) {
	if m.form.Tabs == nil {
		return scorecard.Tab{}, false
	}
	active := m.form.Tabs.Active
	if active < 0 || active >= len(m.form.Tabs.Items) {
		return scorecard.Tab{}, false
	}
	return m.form.Tabs.Items[active], true
}

func (m *EditorModel) updateFocus() {
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
}

func (m *EditorModel) moveFocus(step int) {
	if len(m.fields) == 0 {
		return
	}
	m.focusIndex = (m.focusIndex + step + len(m.fields)) % len(m.fields)
	m.updateFocus()
}

// focus moves focus to the field with id.
func (m *EditorModel) focus(id string) bool {
	for i, field := range m.fields {
		if field.ID == id {
			m.focusIndex = i
			m.updateFocus()
			return true
		}
	}
	return false
}

func (m *EditorModel) focused() (scorecard.Field, bool) {
	if m.focusIndex < 0 || m.focusIndex >= len(m.fields) {
		return scorecard.Field{}, false
	}
	return m.fields[m.focusIndex], true
}

func (m *EditorModel) commitFocused() {
	field, ok := m.focused()
	if !ok || field.Kind == scorecard.FieldSelect {
		return
	}
	if field.ID == scorecard.NewCardFieldID {
		m.editor.SetNewCardValue(m.inputs[m.focusIndex].Value())
		index, err := m.editor.AddNewCard(m.ctx)
		m.err = err
		m.status = fmt.Sprintf("Card %d selected", index+1)
		m.rebuild(field.ID)
		return
	}
	m.commit(field, m.inputs[m.focusIndex].Value())
}

func (m *EditorModel) cycleChoice(field scorecard.Field, step int) {
	if len(field.Choices) == 0 {
		return
	}
	current := 0
	for i, choice := range field.Choices {
		if displayValue(choice.Value) == displayValue(field.Value) {
			current = i
			break
		}
	}
	next := (current + step + len(field.Choices)) % len(field.Choices)
	m.commit(field, field.Choices[next].Value)
}

func (m *EditorModel) commit(field scorecard.Field, value any) {
	m.err = m.editor.OnChange(m.ctx, field.Path, value)
	m.dirty = true
	m.status = fmt.Sprintf("%s updated", field.Label)
	m.rebuild(field.ID)
}

func (m *EditorModel) switchTab(step int) {
	if m.form.Tabs == nil || len(m.form.Tabs.Items) == 0 {
		return
	}
	count := len(m.form.Tabs.Items)
	next := (m.form.Tabs.Active + step + count) % count
	focusID := m.currentID()
	if field, ok := m.focused(); ok && strings.HasPrefix(field.Path, scorecard.DependenciesKey+"."+scorecard.CardKeyPrefix) {
		focusID = m.form.Tabs.Items[next].Label + scorecard.CardKeySeparator + field.Label
	}
	m.editor.SelectCard(next)
	m.rebuild(focusID)
}

func (m *EditorModel) currentID() string {
	if field, ok := m.focused(); ok {
		return field.ID
	}
	return ""
}

func (m *EditorModel) saveCmd() tea.Cmd {
	save := m.save
	editor := m.editor
	return func() tea.Msg {
		if save == nil {
			return savedMsg{err: fmt.Errorf("tui: no save target configured")}
		}
		return savedMsg{err: save(editor)}
	}
}

func choiceLabel(field scorecard.Field) string {
	for _, choice := range field.Choices {
		if displayValue(choice.Value) == displayValue(field.Value) {
			return choice.Label
		}
	}
	return displayValue(field.Value)
}

func displayValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

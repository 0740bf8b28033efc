// Package tui provides the terminal forms for renaming tables and creating or
// editing fields.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/validation"
)

// HazardMsg is sent when the api name warning is shown or hidden on its own
type HazardMsg bool

// row is one input line of a form
type row struct {
	key     string
	label   string
	option  bool // sub-form setting rather than a form field
	input   textinput.Model
	choices []fieldtype.Choice // cycled with left/right when set
	choice  int                // -1 while nothing is chosen
}

func newTextRow(key, label, value string, option bool) row {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 300
	in.Width = 40
	in.SetValue(value)
	return row{key: key, label: label, option: option, input: in, choice: -1}
}

func newChoiceRow(key, label, value string, choices []fieldtype.Choice, option bool) row {
	r := row{key: key, label: label, option: option, input: textinput.New(), choices: choices, choice: -1}
	for i, c := range choices {
		if c.Value == value {
			r.choice = i
		}
	}
	return r
}

func (r row) value() string {
	if r.choices == nil {
		return r.input.Value()
	}
	if r.choice < 0 || r.choice >= len(r.choices) {
		return ""
	}
	return r.choices[r.choice].Value
}

// adapter connects the shell to a table or field form
type adapter interface {
	title() string
	rows() []row
	set(r row) (rebuild bool, err error)
	focus(r row)
	blur(r row)
	errors() map[string]validation.ErrorKind
	hazardVisible() bool
	apiName() string
	submit() bool
	cancel()
	close()
}

// Model is the bubbletea model shared by the table and field forms
type Model struct {
	form   adapter
	rows   []row
	cursor int // len(rows) is the save button

	keys keyMap
	help help.Model

	hazard    bool
	status    string
	err       string
	submitted bool
}

func newModel(a adapter) *Model {
	m := &Model{
		form: a,
		keys: defaultKeyMap(),
		help: help.New(),
	}
	m.rows = a.rows()
	m.focusCurrent()
	return m
}

// Submitted reports whether the form was submitted with valid values
func (m *Model) Submitted() bool {
	return m.submitted
}

// Init returns the initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case HazardMsg:
		m.hazard = bool(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.err = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.form.close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.move(1)
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.move(-1)
			return m, nil

		case key.Matches(msg, m.keys.Cancel):
			m.form.cancel()
			m.rows = m.form.rows()
			m.cursor = 0
			m.focusCurrent()
			m.status = "Changes discarded"
			return m, nil

		case key.Matches(msg, m.keys.Copy):
			m.copyAPIName()
			return m, nil

		case key.Matches(msg, m.keys.Submit):
			if m.form.submit() {
				m.submitted = true
				m.form.close()
				return m, tea.Quit
			}
			m.hazard = m.form.hazardVisible()
			m.status = ""
			return m, nil

		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
			if m.cursor < len(m.rows) && m.rows[m.cursor].choices != nil {
				step := 1
				if key.Matches(msg, m.keys.Left) {
					step = -1
				}
				m.cycle(step)
				return m, nil
			}
		}

		if m.cursor < len(m.rows) && m.rows[m.cursor].choices == nil {
			var cmd tea.Cmd
			m.rows[m.cursor].input, cmd = m.rows[m.cursor].input.Update(msg)
			m.apply()
			return m, cmd
		}
	}

	return m, nil
}

// move blurs the current row and focuses the next one
func (m *Model) move(step int) {
	if m.cursor < len(m.rows) {
		if m.rows[m.cursor].choices == nil {
			m.rows[m.cursor].input.Blur()
		}
		m.form.blur(m.rows[m.cursor])
	}
	n := len(m.rows) + 1
	m.cursor = (m.cursor + step + n) % n
	m.focusCurrent()
}

func (m *Model) focusCurrent() {
	if m.cursor < len(m.rows) {
		if m.rows[m.cursor].choices == nil {
			m.rows[m.cursor].input.Focus()
		}
		m.form.focus(m.rows[m.cursor])
	}
	m.hazard = m.form.hazardVisible()
}

func (m *Model) cycle(step int) {
	r := &m.rows[m.cursor]
	n := len(r.choices)
	if n == 0 {
		return
	}
	prev := r.choice
	if r.choice < 0 {
		r.choice = 0
	} else {
		r.choice = (r.choice + step + n) % n
	}
	if err := m.apply(); err != nil {
		r.choice = prev
	}
}

// apply pushes the current row's value into the form
func (m *Model) apply() error {
	r := m.rows[m.cursor]
	rebuild, err := m.form.set(r)
	if err != nil {
		m.err = err.Error()
		return err
	}
	if rebuild {
		cursor := m.cursor
		m.rows = m.form.rows()
		m.cursor = cursor
		m.focusCurrent()
	}
	m.hazard = m.form.hazardVisible()
	return nil
}

func (m *Model) copyAPIName() {
	name := m.form.apiName()
	if name == "" {
		m.status = "No api name to copy"
		return
	}
	if err := clipboard.WriteAll(name); err != nil {
		m.err = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("Copied %q", name)
}

// View renders the form
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(formTitleStyle.Render(m.form.title()))
	b.WriteString("\n")

	errs := m.form.errors()
	for i, r := range m.rows {
		label := labelStyle
		if i == m.cursor {
			label = focusedLabelStyle
		}
		b.WriteString(label.Render(r.label))

		if r.choices != nil {
			b.WriteString(renderChoice(r))
		} else {
			b.WriteString(r.input.View())
		}
		b.WriteString("\n")

		if kind, ok := errs[r.key]; ok {
			b.WriteString(errorStyle.Render("  " + kind.Message()))
			b.WriteString("\n")
		}
		if r.key == form.FieldAPIName && m.hazard {
			b.WriteString(hazardStyle.Render("Changing the api name breaks integrations that use it."))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	button := blurredButtonStyle.Render("[ Save ]")
	if m.cursor == len(m.rows) {
		button = focusedButtonStyle.Render("[ Save ]")
	}
	b.WriteString(button)
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(subtitleStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func renderChoice(r row) string {
	if r.choice < 0 || r.choice >= len(r.choices) {
		return choiceStyle.Render("‹ choose ›")
	}
	return titleStyle.Render("‹ " + r.choices[r.choice].Label + " ›")
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/blueprint/pkg/planner"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	optionStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DialogueModel - clarifying questions for an interactive blueprint
// =============================================================================

// DialogueModel is the bubbletea model that walks a [planner.Dialogue].
// Enter answers the current question (a number picks an option), tab skips
// it and esc aborts.
type DialogueModel struct {
	Dialogue *planner.Dialogue
	Input    textinput.Model
	Aborted  bool
}

// NewDialogueModel creates a model over d.
func NewDialogueModel(d *planner.Dialogue) DialogueModel {
	in := textinput.New()
	in.Placeholder = "type an answer or an option number"
	in.CharLimit = 500
	in.Width = 60
	in.Focus()
	return DialogueModel{Dialogue: d, Input: in}
}

func (m DialogueModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m DialogueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "enter":
			m.Dialogue.Answer(m.Input.Value())
			return m.next()
		case "tab":
			m.Dialogue.Skip()
			return m.next()
		}
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m DialogueModel) next() (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	if m.Dialogue.Done() {
		return m, tea.Quit
	}
	return m, nil
}

func (m DialogueModel) View() string {
	q, ok := m.Dialogue.Current()
	if !ok {
		return ""
	}
	pos, total := m.Dialogue.Progress()

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Refine your idea"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  question %d/%d", pos+1, total)))
	b.WriteString("\n\n")
	b.WriteString(questionStyle.Render(q.Text))
	b.WriteString("\n")
	if q.Context != "" {
		b.WriteString(listDimStyle.Render(q.Context))
		b.WriteString("\n")
	}
	for i, opt := range q.Options {
		b.WriteString(fmt.Sprintf("  %s %s\n", optionStyle.Render(fmt.Sprintf("%d.", i+1)), opt))
	}
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("⏎ answer  tab skip  esc cancel"))
	b.WriteString("\n")
	return b.String()
}

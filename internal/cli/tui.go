package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/scenario"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// historySize is the number of step lines kept on screen.
const historySize = 8

// =============================================================================
// StepModel - Interactive scenario stepper
// =============================================================================

// StepModel is the bubbletea model for walking through a scenario one
// event at a time. Nodes is a read-only copy of the last committed snapshot.
type StepModel struct {
	Title   string
	Stepper *scenario.Stepper
	History []scenario.Step
	Nodes   []canvas.Node
	Version int
	Invalid error // last layout validation failure, if any
}

// NewStepModel creates a stepper model positioned before the first event.
func NewStepModel(title string, sess *scenario.Session, events []scenario.Event) StepModel {
	snap := sess.Store.Snapshot()
	return StepModel{
		Title:   title,
		Stepper: scenario.NewStepper(sess, events),
		Nodes:   snap.Nodes,
		Version: snap.Version,
	}
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", "j", "right", " ", "enter":
			m = m.advance()
		case "a", "end":
			for !m.Stepper.Done() {
				m = m.advance()
			}
		}
	}
	return m, nil
}

// advance applies the next event and refreshes the projection.
func (m StepModel) advance() StepModel {
	step, ok := m.Stepper.Next()
	if !ok {
		return m
	}
	m.History = append(m.History, step)
	m.Nodes = step.Nodes
	m.Version = step.Version
	m.Invalid = canvas.Validate(step.Nodes)
	return m
}

func (m StepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("n/space: next event  a: run all  q: quit"))
	b.WriteString("\n\n")

	start := len(m.History) - historySize
	if start < 0 {
		start = 0
	}
	for _, s := range m.History[start:] {
		b.WriteString(stepLine(s))
		b.WriteString("\n")
	}
	if len(m.History) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(nodeTable(m.Nodes))
	b.WriteString("\n\n")

	status := fmt.Sprintf("  [%d/%d] v%d", len(m.History), m.Stepper.Len(), m.Version)
	b.WriteString(listDimStyle.Render(status))
	switch {
	case m.Invalid != nil:
		b.WriteString("  " + styleIconError.Render(iconError+" "+m.Invalid.Error()))
	case m.Stepper.Done():
		b.WriteString("  " + StyleSuccess.Render(iconSuccess+" done"))
	}
	b.WriteString("\n")

	return b.String()
}

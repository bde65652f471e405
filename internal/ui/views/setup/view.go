package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	setupdto "mindfocus/internal/modules/setup/dto"
	"mindfocus/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	StartIntake(ctx context.Context) setupdto.IntakeState
	AnswerIntake(ctx context.Context, state setupdto.IntakeState, answer string) (setupdto.IntakeState, error)
	Predict(ctx context.Context, input setupdto.SetupInput) (setupdto.PredictionOutput, error)
	ApplySuggestion(ctx context.Context, input setupdto.SetupInput) (setupdto.ApplySuggestionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PredictionMsg struct {
	Out setupdto.PredictionOutput
	Err error
}

type AppliedMsg struct {
	Out setupdto.ApplySuggestionOutput
	Err error
}

// StartRequestedMsg asks the parent to start a session with Setup.
type StartRequestedMsg struct {
	Setup setupdto.SetupInput
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       Port
	intake     setupdto.IntakeState
	input      textinput.Model
	prediction setupdto.PredictionOutput
	predicted  bool
	errText    string
	width      int
	height     int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Focus()
	m := Model{port: port, input: ti}
	m.restart()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Ready reports whether the intake is complete.
func (m Model) Ready() bool { return m.intake.Done }

func (m Model) Setup() setupdto.SetupInput { return m.intake.Draft }

// Typing reports whether the intake input is taking keystrokes.
func (m Model) Typing() bool { return !m.intake.Done }

func (m *Model) restart() {
	m.intake = m.port.StartIntake(context.Background())
	m.predicted = false
	m.errText = ""
	m.input.SetValue("")
	m.input.Placeholder = m.intake.Placeholder
	m.input.Focus()
}

// Restart begins a new intake.
func (m *Model) Restart() { m.restart() }

// ApplySuggestion asks for the suggested duration to be applied.
func (m Model) ApplySuggestion() tea.Cmd {
	if !m.intake.Done {
		return nil
	}
	input := m.intake.Draft
	return func() tea.Msg {
		out, err := m.port.ApplySuggestion(context.Background(), input)
		return AppliedMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.width/2, 20)

	case PredictionMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.prediction = msg.Out
		m.predicted = true

	case AppliedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.intake.Draft = msg.Out.Setup
		m.prediction = msg.Out.Prediction
		m.predicted = true
		if !msg.Out.Applied {
			m.errText = "no suggestion to apply"
		} else {
			m.errText = ""
		}

	case tea.KeyMsg:
		if m.intake.Done {
			switch msg.String() {
			case "a":
				return m, m.ApplySuggestion()
			case "r":
				m.restart()
				return m, textinput.Blink
			case "enter":
				setup := m.intake.Draft
				return m, func() tea.Msg { return StartRequestedMsg{Setup: setup} }
			}
			return m, nil
		}
		if msg.String() == "enter" {
			return m.answer()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) answer() (Model, tea.Cmd) {
	next, err := m.port.AnswerIntake(context.Background(), m.intake, m.input.Value())
	if err != nil {
		m.errText = err.Error()
		return m, nil
	}
	m.errText = ""
	m.intake = next
	m.input.SetValue("")
	m.input.Placeholder = next.Placeholder
	if !next.Done {
		return m, nil
	}
	m.input.Blur()
	input := next.Draft
	return m, func() tea.Msg {
		out, err := m.port.Predict(context.Background(), input)
		return PredictionMsg{Out: out, Err: err}
	}
}

func (m Model) View() string {
	var body string
	if m.intake.Done {
		body = m.renderReview()
	} else {
		body = m.renderIntake()
	}
	if m.errText != "" {
		body += "\n\n" + theme.Bad.Render(m.errText)
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(1, 2).Render(body)
}

func (m Model) renderIntake() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.intake.Prompt) + "\n")
	if m.intake.Subtext != "" {
		sb.WriteString(theme.Muted.Render(m.intake.Subtext) + "\n")
	}
	sb.WriteString("\n" + m.input.View() + "\n")
	if len(m.intake.Chips) > 0 {
		chips := make([]string, len(m.intake.Chips))
		for i, c := range m.intake.Chips {
			chips[i] = theme.Pill.Render(fmt.Sprintf("%d %s", i+1, c))
		}
		sb.WriteString("\n" + strings.Join(chips, " ") + "\n")
	}
	if m.intake.Slider {
		sb.WriteString("\n" + theme.Muted.Render("1 (low) ... 10 (high), blank for 5") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: next"))
	return sb.String()
}

func (m Model) renderReview() string {
	d := m.intake.Draft
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Session setup") + "\n\n")
	sb.WriteString(theme.Muted.Render("reason:    ") + d.Reason + "\n")
	sb.WriteString(theme.Muted.Render("category:  ") + d.Category + "\n")
	if d.TestDate != "" {
		sb.WriteString(theme.Muted.Render("test:      ") + strings.TrimSpace(d.TestDate+" "+d.TestTime) + "\n")
	}
	sb.WriteString(theme.Muted.Render("duration:  ") + fmt.Sprintf("%d minutes", d.DurationMin) + "\n")
	sb.WriteString(theme.Muted.Render("knowledge: ") + fmt.Sprintf("%d/10", d.PriorKnowledge) + "\n")
	sb.WriteString(theme.Muted.Render("interest:  ") + fmt.Sprintf("%d/10", d.Interest) + "\n\n")

	if m.predicted {
		p := m.prediction
		style := theme.Good
		switch {
		case p.Probability < 50:
			style = theme.Bad
		case p.Probability < 70:
			style = theme.Warn
		}
		sb.WriteString(theme.Title.Render("Success prediction") + "\n")
		sb.WriteString(style.Render(fmt.Sprintf("%d%%", p.Probability)) +
			theme.Muted.Render(fmt.Sprintf("  confidence %d%%", p.Confidence)) + "\n\n")
		sb.WriteString(factorLine("study time", p.Factors.StudyTime))
		sb.WriteString(factorLine("knowledge", p.Factors.PriorKnowledge))
		sb.WriteString(factorLine("interest", p.Factors.Interest))
		sb.WriteString(factorLine("subject", p.Factors.Subject))
		if len(p.Recommendations) > 0 {
			sb.WriteString("\n")
			for _, r := range p.Recommendations {
				sb.WriteString("• " + r + "\n")
			}
		}
		if p.SuggestedDuration > 0 {
			sb.WriteString("\n" + theme.Warn.Render(fmt.Sprintf("Suggested duration: %d minutes", p.SuggestedDuration)) + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: start session  a: apply suggestion  r: restart"))
	return sb.String()
}

func factorLine(label string, value float64) string {
	const width = 20
	filled := int(value/100*width + 0.5)
	filled = min(max(filled, 0), width)
	return fmt.Sprintf("%-11s %s%s %3.0f\n", label,
		theme.Good.Render(strings.Repeat("█", filled)),
		theme.Muted.Render(strings.Repeat("░", width-filled)), value)
}

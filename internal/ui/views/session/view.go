package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "mindfocus/internal/modules/session/dto"
	"mindfocus/internal/ui/theme"
)

// Model renders the live session. State arrives from the parent.
type Model struct {
	state   sessiondto.StateOutput
	active  bool
	summary *sessiondto.EndOutput
	focus   progress.Model
	log     viewport.Model
	width   int
	height  int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(0, 1)
	return Model{
		focus: progress.New(progress.WithSolidFill(string(theme.Green)), progress.WithoutPercentage()),
		log:   vp,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) SetState(state sessiondto.StateOutput) {
	m.state = state
	m.active = true
	m.summary = nil
	m.log.SetContent(renderEvents(state.Events))
	m.log.GotoBottom()
}

func (m *Model) SetEnded(out sessiondto.EndOutput) {
	m.active = false
	m.summary = &out
}

func (m Model) Active() bool { return m.active }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.focus.Width = max(m.width/3, 10)
		m.log.Width = m.width - 4
		m.log.Height = max(m.height-12, 3)
		return m, nil
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	style := lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(0, 1)
	if !m.active {
		if m.summary != nil {
			return style.Render(renderSummary(*m.summary))
		}
		return style.Render(lipgloss.Place(m.width-2, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No active session. Finish the setup and press enter to start.")))
	}
	s := m.state
	var sb strings.Builder
	title := theme.Title.Render(s.Reason) + "  " + theme.Muted.Render(s.Category)
	if s.Paused {
		title += "  " + theme.Warn.Render("PAUSED")
	}
	sb.WriteString(title + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		theme.Muted.Render("elapsed"), theme.Hot.Render(s.Elapsed),
		theme.Muted.Render("remaining"), s.Remaining,
		theme.Muted.Render("next break"), formatBreak(s.NextBreakIn)))
	sb.WriteString(fmt.Sprintf("%s %s %d\n\n", theme.Muted.Render("focus"), m.focus.ViewAs(float64(s.FocusScore)/100), s.FocusScore))

	status := theme.Pill.Render(s.StatusLabel)
	if s.Status == "looking_away" {
		status = theme.Pill.Foreground(theme.Red).Render(s.StatusLabel)
	}
	eating := theme.Pill.Render(s.EatingLabel)
	if s.Eating != "none" {
		eating = theme.Pill.Foreground(theme.Yellow).Render(s.EatingLabel)
	}
	sb.WriteString(status + " " + eating + "  " +
		theme.Muted.Render(fmt.Sprintf("energy drinks %d  snacks %d", s.EnergyDrinks, s.Snacks)) + "\n\n")
	sb.WriteString(theme.Title.Render("Events") + "\n")
	sb.WriteString(m.log.View() + "\n")
	sb.WriteString(theme.Muted.Render("p: pause/resume  e: end session"))
	return style.Render(sb.String())
}

func renderEvents(events []sessiondto.EventOutput) string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, theme.Muted.Render(e.Clock)+"  "+e.Text)
	}
	return strings.Join(lines, "\n")
}

func renderSummary(out sessiondto.EndOutput) string {
	st := out.Stats
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Session complete") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %.1f minutes\n", theme.Muted.Render("duration     "), st.DurationMin))
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("final focus  "), st.FinalFocusScore))
	sb.WriteString(fmt.Sprintf("%s %.1f\n", theme.Muted.Render("average focus"), st.AverageFocus))
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("energy drinks"), st.EnergyDrinks))
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("snacks       "), st.Snacks))
	sb.WriteString("\n" + theme.Muted.Render("saved to "+out.Path))
	return sb.String()
}

func formatBreak(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

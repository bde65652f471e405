package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "mindfocus/internal/modules/analytics/dto"
	"mindfocus/internal/ui/theme"
)

const recentLimit = 50

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Summary(ctx context.Context, recent int) (analyticsdto.SummaryOutput, error)
	Show(ctx context.Context, id string) (analyticsdto.NoteOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SummaryLoadedMsg struct {
	Summary analyticsdto.SummaryOutput
	Err     error
}

type NoteLoadedMsg struct {
	Note analyticsdto.NoteOutput
	Err  error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct{ s analyticsdto.SessionOutput }

func (i sessionItem) Title() string { return i.s.Reason }
func (i sessionItem) Description() string {
	return fmt.Sprintf("%s  %s  %.0f min  focus %.0f", i.s.StartedAt.Local().Format("2006-01-02 15:04"), i.s.Category, i.s.DurationMin, i.s.AverageFocus)
}
func (i sessionItem) FilterValue() string { return i.s.Reason + " " + i.s.Category }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	summary  analyticsdto.SummaryOutput
	list     list.Model
	preview  viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	loading  bool
	errText  string
	width    int
	height   int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(0))

	return Model{port: port, list: l, preview: vp, spinner: sp, renderer: r, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(), m.spinner.Tick)
}

// Refresh reloads the summary and session list.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SummaryLoadedMsg{}
		}
		s, err := m.port.Summary(context.Background(), recentLimit)
		return SummaryLoadedMsg{Summary: s, Err: err}
	}
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SummaryLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.summary = msg.Summary
		items := make([]list.Item, len(msg.Summary.Recent))
		for i, s := range msg.Summary.Recent {
			items[i] = sessionItem{s: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(items) > 0 {
			cmds = append(cmds, m.loadNoteCmd(msg.Summary.Recent[0].ID))
		} else {
			m.preview.SetContent(theme.Muted.Render("No finished sessions yet."))
		}

	case NoteLoadedMsg:
		if msg.Err != nil {
			m.preview.SetContent(theme.Bad.Render(msg.Err.Error()))
		} else {
			m.preview.SetContent(m.render(msg.Note.Markdown))
			m.preview.GotoTop()
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prev := m.list.Index()
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prev {
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				cmds = append(cmds, m.loadNoteCmd(item.s.ID))
			}
		}
		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading analytics")
	}
	header := m.renderHeader()
	bodyH := m.height - lipgloss.Height(header)
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(bodyH).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(max(bodyH-2, 1)).
		Render(m.preview.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane))
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	bodyH := m.height - 4
	m.list.SetSize(listW, bodyH)
	m.preview.Width = detailW - 4
	m.preview.Height = max(bodyH-4, 1)
	if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(max(m.preview.Width-2, 20))); err == nil {
		m.renderer = r
	}
}

func (m Model) renderHeader() string {
	s := m.summary
	if m.errText != "" {
		return theme.Bad.Render(m.errText) + "\n"
	}
	line := fmt.Sprintf("%s %d   %s %.0f min   %s %.1f   %s %d   %s %d",
		theme.Muted.Render("sessions"), s.Sessions,
		theme.Muted.Render("studied"), s.TotalMinutes,
		theme.Muted.Render("avg focus"), s.AverageFocus,
		theme.Muted.Render("energy drinks"), s.EnergyDrinks,
		theme.Muted.Render("snacks"), s.Snacks)
	var cats []string
	for _, c := range s.ByCategory {
		cats = append(cats, theme.Pill.Render(fmt.Sprintf("%s %.0fm", c.Category, c.Minutes)))
	}
	var weeks []string
	for _, w := range lastWeeks(s.Weekly, 4) {
		weeks = append(weeks, fmt.Sprintf("%s: %d drinks %d snacks", w.Week, w.EnergyDrinks, w.Snacks))
	}
	out := line + "\n" + strings.Join(cats, " ")
	if len(weeks) > 0 {
		out += "\n" + theme.Muted.Render(strings.Join(weeks, "  "))
	}
	return out + "\n"
}

func (m Model) render(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m Model) loadNoteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		note, err := m.port.Show(context.Background(), id)
		return NoteLoadedMsg{Note: note, Err: err}
	}
}

func lastWeeks(weeks []analyticsdto.WeekOutput, n int) []analyticsdto.WeekOutput {
	if len(weeks) > n {
		return weeks[len(weeks)-n:]
	}
	return weeks
}

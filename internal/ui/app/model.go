package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "mindfocus/internal/modules/analytics/dto"
	promptsdto "mindfocus/internal/modules/prompts/dto"
	sessiondto "mindfocus/internal/modules/session/dto"
	setupdto "mindfocus/internal/modules/setup/dto"
	apperrors "mindfocus/internal/platform/errors"
	"mindfocus/internal/ui/components"
	"mindfocus/internal/ui/theme"
	analyticsview "mindfocus/internal/ui/views/analytics"
	sessionview "mindfocus/internal/ui/views/session"
	setupview "mindfocus/internal/ui/views/setup"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type setupPort interface {
	StartIntake(ctx context.Context) setupdto.IntakeState
	AnswerIntake(ctx context.Context, state setupdto.IntakeState, answer string) (setupdto.IntakeState, error)
	Predict(ctx context.Context, input setupdto.SetupInput) (setupdto.PredictionOutput, error)
	ApplySuggestion(ctx context.Context, input setupdto.SetupInput) (setupdto.ApplySuggestionOutput, error)
}

type sessionPort interface {
	Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error)
	TogglePause(ctx context.Context) (sessiondto.StateOutput, error)
	Snapshot(ctx context.Context) (sessiondto.StateOutput, error)
	Subscribe(ctx context.Context) (<-chan sessiondto.UpdateOutput, error)
	End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error)
	GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error)
}

type analyticsPort interface {
	Summary(ctx context.Context, recent int) (analyticsdto.SummaryOutput, error)
	Show(ctx context.Context, id string) (analyticsdto.NoteOutput, error)
}

type promptsPort interface {
	List(ctx context.Context) ([]promptsdto.ProviderInfo, error)
	Quiz(ctx context.Context, subject string) (promptsdto.QuizOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSetup tabID = iota
	tabSession
	tabAnalytics
	tabCount
)

var tabLabels = [tabCount]string{"Setup", "Session", "Analytics"}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	state sessiondto.StateOutput
	err   error
}

type sessionStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

type sessionEndedMsg struct {
	out sessiondto.EndOutput
	err error
}

type pauseToggledMsg struct {
	state sessiondto.StateOutput
	err   error
}

type subscribedMsg struct {
	ch     <-chan sessiondto.UpdateOutput
	cancel context.CancelFunc
	err    error
}

type updateMsg struct {
	out sessiondto.UpdateOutput
	ok  bool
}

type quizLoadedMsg struct {
	quiz promptsdto.QuizOutput
	err  error
}

type providersLoadedMsg struct {
	items []promptsdto.ProviderInfo
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Apply   key.Binding
	Pause   key.Binding
	End     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start session")),
		Apply:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply suggestion")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		End:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start, k.Apply},
		{k.Pause, k.End},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the session
// subscription, notification overlays, and the command palette. All business
// logic is delegated to port interfaces; all rendering is delegated to
// sub-views.
type Model struct {
	session sessionPort
	prompts promptsPort

	setupView     setupview.Model
	sessionView   sessionview.Model
	analyticsView analyticsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	notice    components.Notice
	updates   <-chan sessiondto.UpdateOutput
	cancelSub context.CancelFunc
	live      bool
	subject   string
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(setup setupPort, session sessionPort, analytics analyticsPort, prompts promptsPort) Model {
	return Model{
		session:       session,
		prompts:       prompts,
		setupView:     setupview.New(setupPortBridge{p: setup}),
		sessionView:   sessionview.New(),
		analyticsView: analyticsview.New(analyticsPortBridge{p: analytics}),
		activeTab:     tabSetup,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		notice:        components.NewNotice(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.setupView.Init(),
		m.analyticsView.Init(),
		m.loadActiveCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.notice.SetWidth(min(m.width-4, 70))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.ToastExpiredMsg, components.NoticeAutoCloseMsg:
		var cmd tea.Cmd
		m.notice, cmd = m.notice.Update(msg)
		return m, cmd

	case activeLoadedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveSession) {
				m.status = "active session check: " + msg.err.Error()
			}
			return m, nil
		}
		m.live = true
		m.subject = msg.state.Reason
		m.sessionView.SetState(msg.state)
		m.activeTab = tabSession
		m.status = "session recovered: " + msg.state.Reason
		return m, m.subscribeCmd()

	case setupview.StartRequestedMsg:
		if m.live {
			m.status = "a session is already running"
			return m, nil
		}
		return m, m.startSessionCmd(msg.Setup)

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "session start failed: " + msg.err.Error()
			return m, nil
		}
		m.live = true
		m.subject = msg.out.State.Reason
		m.sessionView.SetState(msg.out.State)
		m.activeTab = tabSession
		m.status = "session started: " + msg.out.State.Reason
		return m, m.subscribeCmd()

	case subscribedMsg:
		if msg.err != nil {
			m.status = "subscribe: " + msg.err.Error()
			return m, nil
		}
		m.updates = msg.ch
		m.cancelSub = msg.cancel
		return m, waitForUpdate(msg.ch)

	case updateMsg:
		if !msg.ok {
			m.updates = nil
			return m, nil
		}
		if m.live {
			m.sessionView.SetState(msg.out.State)
		}
		for _, n := range msg.out.Notifications {
			var cmd tea.Cmd
			m.notice, cmd = m.notice.Present(n)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, waitForUpdate(m.updates))
		return m, tea.Batch(cmds...)

	case pauseToggledMsg:
		if msg.err != nil {
			m.status = "pause: " + msg.err.Error()
			return m, nil
		}
		m.sessionView.SetState(msg.state)
		if msg.state.Paused {
			m.status = "paused"
		} else {
			m.status = "resumed"
		}
		return m, nil

	case sessionEndedMsg:
		if msg.err != nil {
			m.status = "session end failed: " + msg.err.Error()
			return m, nil
		}
		m.stopSubscription()
		m.live = false
		m.sessionView.SetEnded(msg.out)
		m.status = fmt.Sprintf("session saved (%.1f min)", msg.out.Stats.DurationMin)
		m.setupView.Restart()
		return m, m.analyticsView.Refresh()

	case quizLoadedMsg:
		if msg.err != nil {
			m.status = "quiz: " + msg.err.Error()
			return m, nil
		}
		var cmd tea.Cmd
		m.notice, cmd = m.notice.Present(sessiondto.NotificationOutput{
			Kind:       "quiz_prompt",
			Title:      "Focus Check!",
			ToastTitle: "Focus check!",
			Message:    msg.quiz.Question,
			Toast:      msg.quiz.Question,
			AckLabel:   "Submit",
			Question:   msg.quiz.Question,
			Rationale:  msg.quiz.Rationale,
		})
		return m, cmd

	case providersLoadedMsg:
		if msg.err != nil {
			m.status = "providers: " + msg.err.Error()
			return m, nil
		}
		m.status = providerSummary(msg.items)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopSubscription()
			return m, tea.Quit
		}
		if m.notice.Visible() {
			var cmd tea.Cmd
			m.notice, cmd = m.notice.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view while it takes free text.
		if m.subViewTyping() {
			break
		}

		switch msg.String() {
		case "q":
			m.stopSubscription()
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "p":
			if m.activeTab == tabSession && m.live {
				return m, m.togglePauseCmd()
			}
		case "e":
			if m.activeTab == tabSession && m.live {
				return m, m.endSessionCmd()
			}
		}
	}

	// Async results for views are routed regardless of the active tab.
	switch msg.(type) {
	case setupview.PredictionMsg, setupview.AppliedMsg:
		var cmd tea.Cmd
		m.setupView, cmd = m.setupView.Update(msg)
		return m, cmd
	case analyticsview.SummaryLoadedMsg, analyticsview.NoteLoadedMsg:
		var cmd tea.Cmd
		m.analyticsView, cmd = m.analyticsView.Update(msg)
		return m, cmd
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSetup:
		m.setupView, tabCmd = m.setupView.Update(msg)
	case tabSession:
		m.sessionView, tabCmd = m.sessionView.Update(msg)
	case tabAnalytics:
		m.analyticsView, tabCmd = m.analyticsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	toasts := m.notice.Toasts()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.notice.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.notice.View())
	default:
		content = m.activeView()
		if toasts != "" {
			content = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toasts) + "\n" + content
			content = lipgloss.NewStyle().MaxHeight(contentH).Render(content)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSetup:
		return m.setupView.View()
	case tabSession:
		return m.sessionView.View()
	case tabAnalytics:
		return m.analyticsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := range tabCount {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "mindfocus  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.live {
		left = theme.Hot.Render("● "+m.subject) + "  " + left
	}
	if p := m.notice.Pending(); p > 0 {
		left += theme.Muted.Render(fmt.Sprintf("  (%d queued)", p))
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:start":
		if m.live {
			m.status = "a session is already running"
			return m, nil
		}
		if !m.setupView.Ready() {
			m.activeTab = tabSetup
			m.status = "finish the setup first"
			return m, nil
		}
		return m, m.startSessionCmd(m.setupView.Setup())

	case "session:pause":
		if !m.live {
			m.status = "no active session"
			return m, nil
		}
		return m, m.togglePauseCmd()

	case "session:end":
		if !m.live {
			m.status = "no active session"
			return m, nil
		}
		return m, m.endSessionCmd()

	case "setup:restart":
		m.activeTab = tabSetup
		m.setupView.Restart()
		return m, nil

	case "setup:apply-suggestion":
		m.activeTab = tabSetup
		return m, m.setupView.ApplySuggestion()

	case "analytics:refresh":
		m.activeTab = tabAnalytics
		return m, m.analyticsView.Refresh()

	case "quiz":
		subject := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if subject == "" {
			subject = m.subject
		}
		return m, m.quizCmd(subject)

	case "providers":
		return m, m.providersCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewTyping reports whether the active tab is taking free text, in which
// case global key bindings must yield.
func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabSetup:
		return m.setupView.Typing()
	case tabAnalytics:
		return m.analyticsView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.setupView, _ = m.setupView.Update(sz)
	m.sessionView, _ = m.sessionView.Update(sz)
	m.analyticsView, _ = m.analyticsView.Update(sz)
}

func (m *Model) stopSubscription() {
	if m.cancelSub != nil {
		m.cancelSub()
		m.cancelSub = nil
	}
}

func providerSummary(items []promptsdto.ProviderInfo) string {
	if len(items) == 0 {
		return "no prompt providers installed"
	}
	names := make([]string, 0, len(items))
	for _, p := range items {
		name := p.Name
		if !p.Enabled {
			name += " (disabled)"
		}
		names = append(names, name)
	}
	return "providers: " + strings.Join(names, ", ")
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.session.GetActive(context.Background()); err != nil {
			return activeLoadedMsg{err: err}
		}
		state, err := m.session.Snapshot(context.Background())
		return activeLoadedMsg{state: state, err: err}
	}
}

func (m Model) startSessionCmd(setup setupdto.SetupInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), sessiondto.StartInput{Setup: setup})
		return sessionStartedMsg{out: out, err: err}
	}
}

func (m Model) subscribeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := m.session.Subscribe(ctx)
		if err != nil {
			cancel()
			return subscribedMsg{err: err}
		}
		return subscribedMsg{ch: ch, cancel: cancel}
	}
}

func waitForUpdate(ch <-chan sessiondto.UpdateOutput) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		out, ok := <-ch
		return updateMsg{out: out, ok: ok}
	}
}

func (m Model) togglePauseCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.session.TogglePause(context.Background())
		return pauseToggledMsg{state: state, err: err}
	}
}

func (m Model) endSessionCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.End(context.Background(), sessiondto.EndInput{})
		return sessionEndedMsg{out: out, err: err}
	}
}

func (m Model) quizCmd(subject string) tea.Cmd {
	return func() tea.Msg {
		if m.prompts == nil {
			return quizLoadedMsg{err: errors.New("prompt providers not configured")}
		}
		q, err := m.prompts.Quiz(context.Background(), subject)
		return quizLoadedMsg{quiz: q, err: err}
	}
}

func (m Model) providersCmd() tea.Cmd {
	return func() tea.Msg {
		if m.prompts == nil {
			return providersLoadedMsg{}
		}
		items, err := m.prompts.List(context.Background())
		return providersLoadedMsg{items: items, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view.

type setupPortBridge struct{ p setupPort }

func (b setupPortBridge) StartIntake(ctx context.Context) setupdto.IntakeState {
	return b.p.StartIntake(ctx)
}
func (b setupPortBridge) AnswerIntake(ctx context.Context, state setupdto.IntakeState, answer string) (setupdto.IntakeState, error) {
	return b.p.AnswerIntake(ctx, state, answer)
}
func (b setupPortBridge) Predict(ctx context.Context, input setupdto.SetupInput) (setupdto.PredictionOutput, error) {
	return b.p.Predict(ctx, input)
}
func (b setupPortBridge) ApplySuggestion(ctx context.Context, input setupdto.SetupInput) (setupdto.ApplySuggestionOutput, error) {
	return b.p.ApplySuggestion(ctx, input)
}

type analyticsPortBridge struct{ p analyticsPort }

func (b analyticsPortBridge) Summary(ctx context.Context, recent int) (analyticsdto.SummaryOutput, error) {
	return b.p.Summary(ctx, recent)
}
func (b analyticsPortBridge) Show(ctx context.Context, id string) (analyticsdto.NoteOutput, error) {
	return b.p.Show(ctx, id)
}

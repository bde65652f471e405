package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "mindfocus/internal/modules/session/dto"
	"mindfocus/internal/ui/theme"
)

const (
	// QuizAutoClose is how long the rationale stays up after a quiz answer.
	QuizAutoClose = 3 * time.Second
	ToastLifetime = 5 * time.Second
	maxToasts     = 3
)

// NoticeAutoCloseMsg closes the quiz modal it was scheduled for.
type NoticeAutoCloseMsg struct{ ID int }

// ToastExpiredMsg removes one toast.
type ToastExpiredMsg struct{ ID int }

var (
	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Lavender).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(1, 2)

	toastStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Peach).
			Foreground(theme.Text).
			Padding(0, 1)
)

type modal struct {
	id        int
	note      sessiondto.NotificationOutput
	submitted bool
}

type toast struct {
	id    int
	title string
	text  string
}

// Notice presents session notifications one modal at a time, with a short
// toast for each. It never changes session state.
type Notice struct {
	current *modal
	queue   []sessiondto.NotificationOutput
	toasts  []toast
	answer  textinput.Model
	nextID  int
	width   int
}

func NewNotice() Notice {
	ti := textinput.New()
	ti.Placeholder = "type your answer"
	ti.CharLimit = 280
	return Notice{answer: ti}
}

func (n Notice) Visible() bool { return n.current != nil }

func (n *Notice) SetWidth(w int) { n.width = w }

// Pending is the number of notifications waiting behind the open modal.
func (n Notice) Pending() int { return len(n.queue) }

// Present queues a notification and adds its toast.
func (n Notice) Present(note sessiondto.NotificationOutput) (Notice, tea.Cmd) {
	n.nextID++
	t := toast{id: n.nextID, title: note.ToastTitle, text: note.Toast}
	n.toasts = append(n.toasts, t)
	if len(n.toasts) > maxToasts {
		n.toasts = n.toasts[len(n.toasts)-maxToasts:]
	}
	cmds := []tea.Cmd{tea.Tick(ToastLifetime, func(time.Time) tea.Msg { return ToastExpiredMsg{ID: t.id} })}
	if n.current == nil {
		cmds = append(cmds, n.open(note))
	} else {
		n.queue = append(n.queue, note)
	}
	return n, tea.Batch(cmds...)
}

func (n *Notice) open(note sessiondto.NotificationOutput) tea.Cmd {
	n.nextID++
	n.current = &modal{id: n.nextID, note: note}
	n.answer.SetValue("")
	if note.Kind == "quiz_prompt" {
		return n.answer.Focus()
	}
	n.answer.Blur()
	return nil
}

func (n *Notice) closeCurrent() tea.Cmd {
	n.current = nil
	n.answer.Blur()
	if len(n.queue) == 0 {
		return nil
	}
	next := n.queue[0]
	n.queue = n.queue[1:]
	return n.open(next)
}

func (n Notice) Update(msg tea.Msg) (Notice, tea.Cmd) {
	switch msg := msg.(type) {
	case ToastExpiredMsg:
		kept := n.toasts[:0]
		for _, t := range n.toasts {
			if t.id != msg.ID {
				kept = append(kept, t)
			}
		}
		n.toasts = kept
		return n, nil

	case NoticeAutoCloseMsg:
		if n.current != nil && n.current.id == msg.ID {
			return n, n.closeCurrent()
		}
		return n, nil

	case tea.KeyMsg:
		if n.current == nil {
			return n, nil
		}
		if n.current.note.Kind != "quiz_prompt" {
			switch msg.String() {
			case "enter", "esc", " ":
				return n, n.closeCurrent()
			}
			return n, nil
		}
		if n.current.submitted {
			if msg.String() == "enter" || msg.String() == "esc" {
				return n, n.closeCurrent()
			}
			return n, nil
		}
		switch msg.String() {
		case "esc":
			return n, n.closeCurrent()
		case "enter":
			if strings.TrimSpace(n.answer.Value()) == "" {
				return n, nil
			}
			n.current.submitted = true
			n.answer.Blur()
			id := n.current.id
			return n, tea.Tick(QuizAutoClose, func(time.Time) tea.Msg { return NoticeAutoCloseMsg{ID: id} })
		}
		var cmd tea.Cmd
		n.answer, cmd = n.answer.Update(msg)
		return n, cmd
	}
	return n, nil
}

func (n Notice) View() string {
	if n.current == nil {
		return ""
	}
	note := n.current.note
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(note.Title) + "\n\n")
	sb.WriteString(note.Message + "\n")

	if note.Kind == "quiz_prompt" {
		sb.WriteString("\n" + theme.Hot.Render(note.Question) + "\n\n")
		if n.current.submitted {
			sb.WriteString(theme.Good.Render("Why this matters: ") + note.Rationale + "\n")
			sb.WriteString("\n" + theme.Muted.Render("closing shortly  enter: close now"))
		} else {
			sb.WriteString(n.answer.View() + "\n\n")
			hint := "esc: skip"
			if strings.TrimSpace(n.answer.Value()) != "" {
				hint = "enter: submit  " + hint
			}
			sb.WriteString(theme.Muted.Render(hint))
		}
	} else {
		sb.WriteString("\n" + theme.Pill.Render(note.AckLabel) + theme.Muted.Render("  enter"))
	}
	if p := len(n.queue); p > 0 {
		sb.WriteString("\n" + theme.Muted.Render(pendingLabel(p)))
	}

	w := n.width
	if w < 30 {
		w = 60
	}
	return modalStyle.Width(w - 4).Render(sb.String())
}

// Toasts renders the live toasts stacked vertically.
func (n Notice) Toasts() string {
	if len(n.toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(n.toasts))
	for _, t := range n.toasts {
		parts = append(parts, toastStyle.Render(theme.Hot.Render(t.title)+" "+t.text))
	}
	return lipgloss.JoinVertical(lipgloss.Right, parts...)
}

func pendingLabel(p int) string {
	if p == 1 {
		return "1 more notification waiting"
	}
	return fmt.Sprintf("%d more notifications waiting", p)
}

package out

import (
	"context"
	"os/exec"

	"mindfocus/internal/modules/session/domain"
	sessionout "mindfocus/internal/modules/session/port/out"
)

const appName = "MindFocus"

// DesktopNotifier shows notifications through notify-send.
type DesktopNotifier struct {
	lookPath func(string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{lookPath: exec.LookPath, command: exec.CommandContext}
}

var _ sessionout.Notifier = (*DesktopNotifier)(nil)

func (n *DesktopNotifier) Available() bool {
	_, err := n.lookPath("notify-send")
	return err == nil
}

// Notify starts notify-send without waiting for it. Missing notify-send is
// not an error.
func (n *DesktopNotifier) Notify(ctx context.Context, note domain.Notification) error {
	if !n.Available() {
		return nil
	}
	args := []string{
		"--app-name=" + appName,
		"--urgency=" + urgency(note.Kind),
		"--icon=dialog-information",
		note.Title(),
		notifyBody(note),
	}
	cmd := n.command(context.WithoutCancel(ctx), "notify-send", args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func urgency(kind domain.NotificationKind) string {
	switch kind {
	case domain.KindTimeUp, domain.KindTestReminder:
		return "critical"
	case domain.KindFoodDetection:
		return "low"
	default:
		return "normal"
	}
}

func notifyBody(note domain.Notification) string {
	if note.Kind == domain.KindQuizPrompt && note.Question != "" {
		return note.Question
	}
	return note.Message
}

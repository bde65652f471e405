package out

import (
	"context"

	"mindfocus/internal/modules/session/domain"
)

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) (string, error)
}

// StatsProjector mirrors finished sessions into the analytics index.
type StatsProjector interface {
	Project(ctx context.Context, session domain.Session, path string) error
}

// PromptSource resolves the text bank for a subject. Implementations fall
// back to the built-in bank rather than fail.
type PromptSource interface {
	Prompter(ctx context.Context, subject string) domain.Prompter
}

// Notifier is an additional presenter for notifications.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

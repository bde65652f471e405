package domain

import (
	"time"

	setupdomain "mindfocus/internal/modules/setup/domain"
)

const SchemaVersion = 1

// ActiveSession identifies the running session.
type ActiveSession struct {
	SessionID string
	Setup     setupdomain.SessionSetup
	StartedAt time.Time
}

// Session is the persisted record of a finished session.
type Session struct {
	ID        string
	Setup     setupdomain.SessionSetup
	StartedAt time.Time
	EndedAt   time.Time
	Stats     SessionStats
	Events    []Event
}

package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrSessionMismatch     = errors.New("session id mismatch")
	ErrPluginNotFound      = errors.New("provider not found")
	ErrPluginDisabled      = errors.New("provider disabled")
	ErrPluginUnsupported   = errors.New("provider capability unsupported")
	ErrPluginChecksum      = errors.New("provider checksum mismatch")
)

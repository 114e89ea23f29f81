package engine

import (
	"errors"

	"proxyswitch/internal/parser"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("profile not found")
	ErrNoActiveProfile = errors.New("no active profile configured")
	ErrPersistence     = errors.New("failed to persist state")
	ErrUnknownCommand  = errors.New("unknown message type")
)

// Kind names the error class of err for structured replies.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrNoActiveProfile):
		return "NoActiveProfileError"
	case errors.Is(err, parser.ErrParse):
		return "ParseError"
	case errors.Is(err, ErrPersistence):
		return "PersistenceError"
	case errors.Is(err, ErrUnknownCommand):
		return "UnknownCommandError"
	default:
		return "InternalError"
	}
}

package store

import (
	"context"
	"errors"

	"github.com/nomadiq/travel-assistant/backend/internal/model/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/model/status"
)

// ErrStorage marks persistence failures. Callers translate it to a generic
// server error without exposing storage detail.
var ErrStorage = errors.New("storage failure")

// MessageStore persists conversation turns. Sessions are implicit: writing
// under a new session id creates the session, and reading an unknown id
// yields an empty result, not an error.
type MessageStore interface {
	// Append persists one turn with a generated id and the current UTC time.
	Append(ctx context.Context, sessionID, sender, message string) (chat.Message, error)
	// Recent returns up to limit most recent turns in ascending timestamp order.
	Recent(ctx context.Context, sessionID string, limit int) ([]chat.Message, error)
	// All returns up to maxCount turns in ascending timestamp order.
	All(ctx context.Context, sessionID string, maxCount int) ([]chat.Message, error)
}

// StatusStore persists status-check records.
type StatusStore interface {
	Create(ctx context.Context, clientName string) (status.Check, error)
	List(ctx context.Context, limit int) ([]status.Check, error)
}

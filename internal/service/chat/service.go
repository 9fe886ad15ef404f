package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	chatmodel "github.com/nomadiq/travel-assistant/backend/internal/model/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/service/ai"
	"github.com/nomadiq/travel-assistant/backend/internal/store"
)

// ErrUnavailable reports that no completion provider is configured.
var ErrUnavailable = errors.New("completion provider unavailable")

// Completer produces one reply for an assembled prompt.
type Completer interface {
	Complete(ctx context.Context, prompt []ai.PromptMessage) (string, error)
}

// Service orchestrates the chat flow: persist the user turn, assemble
// context, call the completion provider, persist the reply. It holds no
// per-request state and applies no session-level locking; concurrent
// requests against the same session may interleave their turns.
type Service struct {
	messages      store.MessageStore
	completer     Completer
	contextWindow int
	historyLimit  int
}

// NewService wires the orchestrator. The completer may be nil, in which
// case Send reports ErrUnavailable and History keeps working.
func NewService(messages store.MessageStore, completer Completer, contextWindow, historyLimit int) *Service {
	return &Service{
		messages:      messages,
		completer:     completer,
		contextWindow: contextWindow,
		historyLimit:  historyLimit,
	}
}

// SendRequest carries one inbound chat message.
type SendRequest struct {
	Message   string
	SessionID string
	Trip      TripDetails
}

// SendResult is the assistant reply bound to its session.
type SendResult struct {
	Message   string
	SessionID string
}

// Send runs one request through the fixed pipeline. The user turn is
// persisted before context assembly so it participates in its own window.
// On failure nothing is rolled back: a user turn with no assistant reply is
// a tolerated state meaning the assistant failed to answer. The gateway is
// called once, with no retry.
func (s *Service) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if s.completer == nil {
		return SendResult{}, ErrUnavailable
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if _, err := s.messages.Append(ctx, sessionID, chatmodel.SenderUser, req.Message); err != nil {
		return SendResult{}, fmt.Errorf("persist user turn: %w", err)
	}

	history, err := s.messages.Recent(ctx, sessionID, s.contextWindow)
	if err != nil {
		return SendResult{}, fmt.Errorf("load context window: %w", err)
	}

	reply, err := s.completer.Complete(ctx, assembleContext(history, req.Trip))
	if err != nil {
		return SendResult{}, fmt.Errorf("complete chat: %w", err)
	}

	if _, err := s.messages.Append(ctx, sessionID, chatmodel.SenderAssistant, reply); err != nil {
		return SendResult{}, fmt.Errorf("persist assistant turn: %w", err)
	}

	log.Printf("[chat] session=%s context=%d reply_length=%d", sessionID, len(history), len(reply))
	return SendResult{Message: reply, SessionID: sessionID}, nil
}

// History returns the stored turns for a session, oldest first. Unknown
// session ids yield an empty result.
func (s *Service) History(ctx context.Context, sessionID string) ([]chatmodel.Message, error) {
	return s.messages.All(ctx, sessionID, s.historyLimit)
}

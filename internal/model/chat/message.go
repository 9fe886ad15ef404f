package chat

import "time"

// Sender values stored on a message.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message persists one conversation turn. A session has no record of its
// own; it exists only as the set of messages sharing a SessionID.
type Message struct {
	ID        string    `json:"id" bson:"id"`
	SessionID string    `json:"session_id" bson:"session_id"`
	Message   string    `json:"message" bson:"message"`
	Sender    string    `json:"sender" bson:"sender"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

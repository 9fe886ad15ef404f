package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomadiq/travel-assistant/backend/internal/model/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/model/status"
)

const (
	messagesCollection = "chat_messages"
	statusCollection   = "status_checks"

	dialTimeout = 10 * time.Second
)

// Dial connects to the MongoDB deployment and verifies it is reachable.
func Dial(ctx context.Context, uri string) (*mongo.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// MongoMessageStore persists turns in the chat_messages collection, keyed
// for lookup by session_id with a sort on timestamp.
type MongoMessageStore struct {
	coll *mongo.Collection
}

// NewMongoMessageStore binds the store to its collection.
func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{coll: db.Collection(messagesCollection)}
}

// Append persists one turn under the session.
func (s *MongoMessageStore) Append(ctx context.Context, sessionID, sender, message string) (chat.Message, error) {
	msg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Message:   message,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}

	if _, err := s.coll.InsertOne(ctx, msg); err != nil {
		return chat.Message{}, fmt.Errorf("%w: insert message: %v", ErrStorage, err)
	}
	return msg, nil
}

// Recent returns up to limit most recent turns in ascending timestamp
// order. The query sorts descending with a limit so the window is anchored
// at the newest turn, then reverses in memory.
func (s *MongoMessageStore) Recent(ctx context.Context, sessionID string, limit int) ([]chat.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent messages: %v", ErrStorage, err)
	}

	var msgs []chat.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("%w: decode recent messages: %v", ErrStorage, err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// All returns up to maxCount turns in ascending timestamp order.
func (s *MongoMessageStore) All(ctx context.Context, sessionID string, maxCount int) ([]chat.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(int64(maxCount))

	cur, err := s.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: query messages: %v", ErrStorage, err)
	}

	var msgs []chat.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("%w: decode messages: %v", ErrStorage, err)
	}
	return msgs, nil
}

// MongoStatusStore persists status checks in the status_checks collection.
type MongoStatusStore struct {
	coll *mongo.Collection
}

// NewMongoStatusStore binds the store to its collection.
func NewMongoStatusStore(db *mongo.Database) *MongoStatusStore {
	return &MongoStatusStore{coll: db.Collection(statusCollection)}
}

// Create records one status check.
func (s *MongoStatusStore) Create(ctx context.Context, clientName string) (status.Check, error) {
	check := status.Check{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}

	if _, err := s.coll.InsertOne(ctx, check); err != nil {
		return status.Check{}, fmt.Errorf("%w: insert status check: %v", ErrStorage, err)
	}
	return check, nil
}

// List returns recorded checks bounded by limit.
func (s *MongoStatusStore) List(ctx context.Context, limit int) ([]status.Check, error) {
	opts := options.Find().SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: query status checks: %v", ErrStorage, err)
	}

	var checks []status.Check
	if err := cur.All(ctx, &checks); err != nil {
		return nil, fmt.Errorf("%w: decode status checks: %v", ErrStorage, err)
	}
	return checks, nil
}

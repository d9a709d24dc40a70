package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mindfulchat/mindfulchat/internal/model"
)

// BucketName is the JetStream KV bucket holding conversation documents.
const BucketName = "conversations"

// KV is a Store backed by a NATS JetStream key-value bucket. Each
// conversation is one JSON document keyed by its ID; saves are whole-document
// replaces guarded by the bucket revision.
type KV struct {
	kv jetstream.KeyValue
}

// NewKV binds to (or creates) the conversations bucket.
func NewKV(ctx context.Context, js jetstream.JetStream) (*KV, error) {
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  BucketName,
		History: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bind conversations bucket: %w", err)
	}
	return &KV{kv: kv}, nil
}

// Find loads a conversation by ID scoped to its owner.
func (s *KV) Find(ctx context.Context, id, userID string) (*model.Conversation, error) {
	conv, _, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrNotFound
	}
	return conv, nil
}

// Save writes the whole conversation document. A new document is created
// with Create; an existing one is replaced with Update pinned to the
// revision it was loaded at, so concurrent writers lose cleanly.
func (s *KV) Save(ctx context.Context, conv *model.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	var rev uint64
	if conv.Revision == 0 {
		rev, err = s.kv.Create(ctx, conv.ID, data)
	} else {
		rev, err = s.kv.Update(ctx, conv.ID, data, conv.Revision)
	}
	if err != nil {
		if isRevisionConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	conv.Revision = rev
	return nil
}

// List returns conversation summaries for a user, most recently updated first.
func (s *KV) List(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	summaries := make([]model.ConversationSummary, 0)
	err := s.scan(ctx, func(conv *model.Conversation) {
		if conv.UserID == userID {
			summaries = append(summaries, conv.Summary())
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a conversation scoped to its owner.
func (s *KV) Delete(ctx context.Context, id, userID string) error {
	conv, _, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if conv.UserID != userID {
		return ErrNotFound
	}

	if err := s.kv.Purge(ctx, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// DeleteByOwner removes all conversations for a user.
func (s *KV) DeleteByOwner(ctx context.Context, userID string) (int, error) {
	var ids []string
	err := s.scan(ctx, func(conv *model.Conversation) {
		if conv.UserID == userID {
			ids = append(ids, conv.ID)
		}
	})
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := s.kv.Purge(ctx, id); err != nil {
			return 0, fmt.Errorf("failed to delete conversation %s: %w", id, err)
		}
	}
	return len(ids), nil
}

// All returns every stored conversation.
func (s *KV) All(ctx context.Context) ([]*model.Conversation, error) {
	out := make([]*model.Conversation, 0)
	err := s.scan(ctx, func(conv *model.Conversation) {
		out = append(out, conv)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *KV) get(ctx context.Context, id string) (*model.Conversation, uint64, error) {
	entry, err := s.kv.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to load conversation: %w", err)
	}

	var conv model.Conversation
	if err := json.Unmarshal(entry.Value(), &conv); err != nil {
		return nil, 0, fmt.Errorf("failed to decode conversation: %w", err)
	}
	conv.Revision = entry.Revision()

	return &conv, entry.Revision(), nil
}

func (s *KV) scan(ctx context.Context, visit func(*model.Conversation)) error {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil
		}
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	for _, key := range keys {
		conv, _, err := s.get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		visit(conv)
	}
	return nil
}

func isRevisionConflict(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

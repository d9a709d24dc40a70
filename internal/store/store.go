// Package store persists conversation documents.
package store

import (
	"context"
	"errors"

	"github.com/mindfulchat/mindfulchat/internal/model"
)

// ErrNotFound is returned when a conversation does not exist or is not owned
// by the requesting user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("conversation not found")

// ErrConflict is returned when a save loses a concurrent-update race. The
// caller should treat the message as not delivered and retry.
var ErrConflict = errors.New("conversation was modified concurrently")

// Store is the persistence contract for conversations. Save replaces the
// whole document atomically.
type Store interface {
	// Find loads a conversation by ID scoped to its owner.
	Find(ctx context.Context, id, userID string) (*model.Conversation, error)

	// Save writes the whole conversation document. The document's Revision
	// must match the stored one; on success the Revision is advanced.
	Save(ctx context.Context, conv *model.Conversation) error

	// List returns conversation summaries for a user, most recently
	// updated first.
	List(ctx context.Context, userID string) ([]model.ConversationSummary, error)

	// Delete removes a conversation scoped to its owner.
	Delete(ctx context.Context, id, userID string) error

	// DeleteByOwner removes all conversations for a user and reports how
	// many were removed.
	DeleteByOwner(ctx context.Context, userID string) (int, error)

	// All returns every stored conversation. Admin use only.
	All(ctx context.Context) ([]*model.Conversation, error)
}

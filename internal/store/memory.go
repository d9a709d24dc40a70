package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mindfulchat/mindfulchat/internal/model"
)

// Memory is an in-memory Store for development and tests. It applies the
// same revision check as the KV store.
type Memory struct {
	mu    sync.RWMutex
	convs map[string]*model.Conversation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{convs: make(map[string]*model.Conversation)}
}

// Find loads a conversation by ID scoped to its owner.
func (m *Memory) Find(ctx context.Context, id, userID string) (*model.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.convs[id]
	if !ok || conv.UserID != userID {
		return nil, ErrNotFound
	}

	cp := clone(conv)
	return &cp, nil
}

// Save writes the whole conversation document with a revision check.
func (m *Memory) Save(ctx context.Context, conv *model.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.convs[conv.ID]; ok {
		if existing.Revision != conv.Revision {
			return ErrConflict
		}
		conv.Revision = existing.Revision + 1
	} else {
		conv.Revision = 1
	}

	cp := clone(conv)
	m.convs[conv.ID] = &cp
	return nil
}

// List returns conversation summaries for a user, most recently updated first.
func (m *Memory) List(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]model.ConversationSummary, 0)
	for _, conv := range m.convs {
		if conv.UserID == userID {
			summaries = append(summaries, conv.Summary())
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a conversation scoped to its owner.
func (m *Memory) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.convs[id]
	if !ok || conv.UserID != userID {
		return ErrNotFound
	}

	delete(m.convs, id)
	return nil
}

// DeleteByOwner removes all conversations for a user.
func (m *Memory) DeleteByOwner(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, conv := range m.convs {
		if conv.UserID == userID {
			delete(m.convs, id)
			deleted++
		}
	}
	return deleted, nil
}

// All returns every stored conversation.
func (m *Memory) All(ctx context.Context) ([]*model.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Conversation, 0, len(m.convs))
	for _, conv := range m.convs {
		cp := clone(conv)
		out = append(out, &cp)
	}
	return out, nil
}

// clone copies a conversation deeply enough that callers cannot alias the
// stored turns slice.
func clone(conv *model.Conversation) model.Conversation {
	cp := *conv
	cp.Turns = append([]model.Turn(nil), conv.Turns...)
	return cp
}

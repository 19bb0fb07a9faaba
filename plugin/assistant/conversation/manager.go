package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/shortuuid/v4"

	"github.com/daykeep/daykeep/store"
)

// TitleBudget is the character budget for derived conversation titles.
const TitleBudget = 50

// Manager owns conversation lifecycle: message appends, the title heuristic,
// and the one-group-chat-per-group guarantee.
type Manager struct {
	store *store.Store
}

// NewManager creates a manager bound to the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// CreatePrivateConversation creates a fresh private conversation for a user.
func (m *Manager) CreatePrivateConversation(ctx context.Context, userID int32) (*store.Conversation, error) {
	return m.store.CreateConversation(ctx, &store.Conversation{
		UID:       shortuuid.New(),
		CreatorID: userID,
		Kind:      store.ConversationKindPrivate,
		Title:     store.DefaultConversationTitle,
	})
}

// AppendMessage persists a message. For user messages it also applies the
// title heuristic; for assistant messages it only bumps recency so the
// conversation sorts to the top of listings.
func (m *Manager) AppendMessage(ctx context.Context, conversationID int32, role store.MessageRole, content string) (*store.Message, error) {
	message, err := m.store.CreateMessage(ctx, &store.Message{
		UID:            shortuuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	update := &store.UpdateConversation{ID: conversationID}
	if role == store.MessageRoleUser {
		if title, ok := m.deriveTitle(ctx, conversationID, content); ok {
			update.Title = &title
		}
	}
	if _, err := m.store.UpdateConversation(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to touch conversation: %w", err)
	}

	return message, nil
}

// deriveTitle reports whether the conversation title should be rewritten from
// this user message, and the new title if so. Only a default or empty title
// is ever replaced; a customized title is permanent.
func (m *Manager) deriveTitle(ctx context.Context, conversationID int32, content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", false
	}

	conversation, err := m.store.GetConversation(ctx, &store.FindConversation{ID: &conversationID})
	if err != nil || conversation == nil {
		return "", false
	}
	if conversation.Title != "" && conversation.Title != store.DefaultConversationTitle {
		return "", false
	}

	return TruncateTitle(trimmed), true
}

// TruncateTitle applies the title character budget, appending an ellipsis
// marker when the message exceeds it.
func TruncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= TitleBudget {
		return s
	}
	runes := []rune(s)
	return string(runes[:TitleBudget]) + "…"
}

// GetOrCreateGroupConversation returns the group's shared AI conversation,
// creating it on first use. Concurrent callers converge on one row: the
// partial unique index makes the losing insert fail with ErrAlreadyExists,
// and the loser re-reads the winner.
func (m *Manager) GetOrCreateGroupConversation(ctx context.Context, groupID int32, creatorID int32) (*store.Conversation, error) {
	kind := store.ConversationKindGroupAI
	existing, err := m.store.GetConversation(ctx, &store.FindConversation{GroupID: &groupID, Kind: &kind})
	if err != nil {
		return nil, fmt.Errorf("failed to find group conversation: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	created, err := m.store.CreateConversation(ctx, &store.Conversation{
		UID:       shortuuid.New(),
		CreatorID: creatorID,
		GroupID:   &groupID,
		Kind:      kind,
		Title:     store.DefaultConversationTitle,
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		return nil, fmt.Errorf("failed to create group conversation: %w", err)
	}

	winner, err := m.store.GetConversation(ctx, &store.FindConversation{GroupID: &groupID, Kind: &kind})
	if err != nil {
		return nil, fmt.Errorf("failed to re-read group conversation: %w", err)
	}
	if winner == nil {
		return nil, fmt.Errorf("group conversation vanished after losing create race")
	}
	return winner, nil
}

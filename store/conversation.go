package store

import "context"

// ConversationKind distinguishes private AI chats from shared group chats.
type ConversationKind string

const (
	// ConversationKindPrivate is a single-user AI chat.
	ConversationKindPrivate ConversationKind = "PRIVATE"
	// ConversationKindGroupAI is the shared AI chat of a group. At most one
	// live conversation of this kind exists per group, enforced by a partial
	// unique index in the drivers.
	ConversationKindGroupAI ConversationKind = "GROUP_AI"
)

// DefaultConversationTitle is the placeholder title before the first user
// message customizes it.
const DefaultConversationTitle = "New conversation"

// Conversation is an ordered sequence of messages, owned by a user (private)
// or by a group (shared AI chat).
type Conversation struct {
	ID        int32
	UID       string
	CreatorID int32
	GroupID   *int32
	Kind      ConversationKind
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64
	Title     string
}

// FindConversation is the find condition for conversation.
type FindConversation struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	GroupID   *int32
	Kind      *ConversationKind
	RowStatus *RowStatus
	Limit     *int
}

// UpdateConversation is the patch request for conversation.
type UpdateConversation struct {
	ID        int32
	UpdatedTs *int64
	RowStatus *RowStatus
	Title     *string
}

// DeleteConversation is the delete request for conversation. The driver
// cascades the delete to the conversation's messages.
type DeleteConversation struct {
	ID int32
}

// MessageRole is the author role of a message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "USER"
	MessageRoleAssistant MessageRole = "ASSISTANT"
)

// Message is a single conversation turn. Messages are totally ordered within
// a conversation by (CreatedTs, ID); that order is authoritative for display
// and for prompt assembly.
type Message struct {
	ID             int32
	UID            string
	ConversationID int32
	Role           MessageRole
	Content        string
	CreatedTs      int64
}

// FindMessage is the find condition for message.
type FindMessage struct {
	ID             *int32
	UID            *string
	ConversationID *int32
	Limit          *int
	// Descending returns newest messages first; used to trim a conversation
	// to its most recent messages before re-ordering chronologically.
	Descending bool
}

// DeleteMessage is the delete request for message.
type DeleteMessage struct {
	ID             *int32
	ConversationID *int32
}

func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	return s.driver.CreateConversation(ctx, create)
}

func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

// GetConversation gets a single conversation, or nil if none matches.
func (s *Store) GetConversation(ctx context.Context, find *FindConversation) (*Conversation, error) {
	list, err := s.driver.ListConversations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error) {
	return s.driver.UpdateConversation(ctx, update)
}

func (s *Store) DeleteConversation(ctx context.Context, delete *DeleteConversation) error {
	return s.driver.DeleteConversation(ctx, delete)
}

func (s *Store) CreateMessage(ctx context.Context, create *Message) (*Message, error) {
	return s.driver.CreateMessage(ctx, create)
}

func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

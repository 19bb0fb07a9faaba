package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/storetest"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st := store.New(storetest.NewMemoryDriver(), &profile.Profile{Mode: "dev"})
	t.Cleanup(func() { _ = st.Close() })
	return NewManager(st), st
}

func TestCreatePrivateConversation(t *testing.T) {
	m, _ := newTestManager(t)

	conversation, err := m.CreatePrivateConversation(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, store.ConversationKindPrivate, conversation.Kind)
	require.Equal(t, store.DefaultConversationTitle, conversation.Title)
	require.Nil(t, conversation.GroupID)
}

func TestAppendMessageSetsTitleOnce(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	conversation, err := m.CreatePrivateConversation(ctx, 1)
	require.NoError(t, err)

	_, err = m.AppendMessage(ctx, conversation.ID, store.MessageRoleUser, "Plan my week around the chemistry midterm")
	require.NoError(t, err)

	got, err := st.GetConversation(ctx, &store.FindConversation{ID: &conversation.ID})
	require.NoError(t, err)
	require.Equal(t, "Plan my week around the chemistry midterm", got.Title)

	// A later user message does not overwrite the customized title.
	_, err = m.AppendMessage(ctx, conversation.ID, store.MessageRoleUser, "Actually, forget the midterm")
	require.NoError(t, err)

	got, err = st.GetConversation(ctx, &store.FindConversation{ID: &conversation.ID})
	require.NoError(t, err)
	require.Equal(t, "Plan my week around the chemistry midterm", got.Title)
}

func TestAppendMessageAssistantKeepsDefaultTitle(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	conversation, err := m.CreatePrivateConversation(ctx, 1)
	require.NoError(t, err)

	_, err = m.AppendMessage(ctx, conversation.ID, store.MessageRoleAssistant, "Hello! How can I help?")
	require.NoError(t, err)

	got, err := st.GetConversation(ctx, &store.FindConversation{ID: &conversation.ID})
	require.NoError(t, err)
	require.Equal(t, store.DefaultConversationTitle, got.Title)
}

func TestAppendMessageBlankUserMessageKeepsDefaultTitle(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	conversation, err := m.CreatePrivateConversation(ctx, 1)
	require.NoError(t, err)

	_, err = m.AppendMessage(ctx, conversation.ID, store.MessageRoleUser, "   \n\t")
	require.NoError(t, err)

	got, err := st.GetConversation(ctx, &store.FindConversation{ID: &conversation.ID})
	require.NoError(t, err)
	require.Equal(t, store.DefaultConversationTitle, got.Title)
}

func TestTruncateTitle(t *testing.T) {
	require.Equal(t, "short", TruncateTitle("short"))

	exact := strings.Repeat("a", TitleBudget)
	require.Equal(t, exact, TruncateTitle(exact))

	long := strings.Repeat("b", TitleBudget+10)
	truncated := TruncateTitle(long)
	require.Equal(t, strings.Repeat("b", TitleBudget)+"…", truncated)

	// Rune budget, not byte budget: multi-byte characters count as one.
	wide := strings.Repeat("日", TitleBudget+1)
	require.Equal(t, strings.Repeat("日", TitleBudget)+"…", TruncateTitle(wide))
}

func TestGetOrCreateGroupConversationIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first, err := m.GetOrCreateGroupConversation(ctx, 7, 1)
	require.NoError(t, err)
	require.Equal(t, store.ConversationKindGroupAI, first.Kind)
	require.NotNil(t, first.GroupID)
	require.Equal(t, int32(7), *first.GroupID)

	// A second caller in the same group lands on the same conversation.
	second, err := m.GetOrCreateGroupConversation(ctx, 7, 2)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Another group gets its own.
	other, err := m.GetOrCreateGroupConversation(ctx, 8, 1)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, other.ID)
}

func TestGetOrCreateGroupConversationLosesRace(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	// Simulate the winner inserting between this caller's find and create by
	// pre-creating the row directly; the unique rule makes a second create
	// fail and the manager must return the existing conversation.
	groupID := int32(9)
	winner, err := st.CreateConversation(ctx, &store.Conversation{
		UID:       "conv-winner",
		CreatorID: 1,
		GroupID:   &groupID,
		Kind:      store.ConversationKindGroupAI,
	})
	require.NoError(t, err)

	_, err = st.CreateConversation(ctx, &store.Conversation{
		UID:       "conv-loser",
		CreatorID: 2,
		GroupID:   &groupID,
		Kind:      store.ConversationKindGroupAI,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := m.GetOrCreateGroupConversation(ctx, groupID, 2)
	require.NoError(t, err)
	require.Equal(t, winner.ID, got.ID)
}

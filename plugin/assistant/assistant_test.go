package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/server/ai"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/storetest"
)

// scriptedProvider replays a fixed sequence of model replies and records what
// it was asked.
type scriptedProvider struct {
	replies []*ai.ChatResult
	calls   [][]ai.Message
}

func (p *scriptedProvider) ChatWithTools(_ context.Context, messages []ai.Message, _ []ai.ToolDefinition) (*ai.ChatResult, error) {
	p.calls = append(p.calls, messages)
	if len(p.replies) == 0 {
		return &ai.ChatResult{Content: "done"}, nil
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func newTestAssistant(t *testing.T, provider ChatProvider) (*Assistant, *store.Store) {
	t.Helper()
	st := store.New(storetest.NewMemoryDriver(), &profile.Profile{Mode: "dev"})
	t.Cleanup(func() { _ = st.Close() })
	return New(st, provider, nil), st
}

func seedUser(t *testing.T, st *store.Store) *store.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), &store.User{UID: "user-1", Nickname: "Sam", Timezone: "UTC"})
	require.NoError(t, err)
	return user
}

func TestChatPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.ChatResult{
		{Content: "You have nothing scheduled tomorrow."},
	}}
	a, st := newTestAssistant(t, provider)
	user := seedUser(t, st)
	ctx := context.Background()

	response, err := a.Chat(ctx, user.ID, 0, "What's on tomorrow?")
	require.NoError(t, err)
	require.Equal(t, "You have nothing scheduled tomorrow.", response.Content)
	require.NotZero(t, response.ConversationID)

	// Both turn messages persisted in order.
	messages, err := st.ListMessages(ctx, &store.FindMessage{ConversationID: &response.ConversationID})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, store.MessageRoleUser, messages[0].Role)
	require.Equal(t, "What's on tomorrow?", messages[0].Content)
	require.Equal(t, store.MessageRoleAssistant, messages[1].Role)

	// The first model call starts with the system header and ends with the
	// user's message.
	require.Len(t, provider.calls, 1)
	first := provider.calls[0]
	require.Equal(t, "system", first[0].Role)
	require.Contains(t, first[0].Content, "You are assisting Sam.")
	require.Equal(t, "user", first[len(first)-1].Role)
}

func TestChatExecutesToolCall(t *testing.T) {
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Hour)
	end := start.Add(time.Hour)
	arguments := fmt.Sprintf(`{"title": "Gym", "category": "HEALTH", "start": %q, "end": %q}`,
		start.Format("2006-01-02T15:04"), end.Format("2006-01-02T15:04"))

	provider := &scriptedProvider{replies: []*ai.ChatResult{
		{ToolCalls: []ai.ToolCall{{ID: "call-1", Name: "create_schedule_block", Arguments: arguments}}},
		{Content: "Booked the gym for tomorrow."},
	}}
	a, st := newTestAssistant(t, provider)
	user := seedUser(t, st)
	ctx := context.Background()

	response, err := a.Chat(ctx, user.ID, 0, "Book the gym tomorrow")
	require.NoError(t, err)
	require.Equal(t, "Booked the gym for tomorrow.", response.Content)

	blocks, err := st.ListScheduleBlocks(ctx, &store.FindScheduleBlock{CreatorID: &user.ID})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, "Gym", blocks[0].Title)
	require.Equal(t, store.BlockCategoryHealth, blocks[0].Category)

	// The second model call sees the assistant's tool request and the folded
	// tool result.
	require.Len(t, provider.calls, 2)
	second := provider.calls[1]
	toolMessage := second[len(second)-1]
	require.Equal(t, "tool", toolMessage.Role)
	require.Equal(t, "call-1", toolMessage.ToolCallID)
	require.Contains(t, toolMessage.Content, "The create_schedule_block call succeeded.")
}

func TestChatFoldsToolFailure(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.ChatResult{
		{ToolCalls: []ai.ToolCall{{ID: "call-1", Name: "delete_task", Arguments: `{"id": 999}`}}},
		{Content: "That task doesn't exist anymore."},
	}}
	a, st := newTestAssistant(t, provider)
	user := seedUser(t, st)

	response, err := a.Chat(context.Background(), user.ID, 0, "Delete task 999")
	require.NoError(t, err)
	require.Equal(t, "That task doesn't exist anymore.", response.Content)

	second := provider.calls[1]
	toolMessage := second[len(second)-1]
	require.Equal(t, "tool", toolMessage.Role)
	require.Contains(t, toolMessage.Content, "The delete_task call could not be completed: task not found")
}

func TestChatSequentialToolBatch(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.ChatResult{
		{ToolCalls: []ai.ToolCall{
			{ID: "call-1", Name: "create_task", Arguments: `{"title": "Pack bags"}`},
			{ID: "call-2", Name: "delete_task", Arguments: `{"id": 999}`},
			{ID: "call-3", Name: "create_task", Arguments: `{"title": "Book train"}`},
		}},
		{Content: "Two tasks created; one delete failed."},
	}}
	a, st := newTestAssistant(t, provider)
	user := seedUser(t, st)
	ctx := context.Background()

	_, err := a.Chat(ctx, user.ID, 0, "Prep the trip")
	require.NoError(t, err)

	// A failed call in the middle does not abort the batch.
	tasks, err := st.ListTasks(ctx, &store.FindTask{CreatorID: &user.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// One folded tool message per call, in request order.
	second := provider.calls[1]
	tail := second[len(second)-3:]
	require.Equal(t, "call-1", tail[0].ToolCallID)
	require.Equal(t, "call-2", tail[1].ToolCallID)
	require.Equal(t, "call-3", tail[2].ToolCallID)
	require.Contains(t, tail[1].Content, "could not be completed")
}

func TestChatIterationLimit(t *testing.T) {
	looping := &ai.ChatResult{ToolCalls: []ai.ToolCall{
		{ID: "call-x", Name: "create_task", Arguments: `{"title": "again"}`},
	}}
	provider := &scriptedProvider{replies: []*ai.ChatResult{
		looping, looping, looping, looping, looping, looping, looping, looping,
	}}
	a, st := newTestAssistant(t, provider)
	user := seedUser(t, st)

	response, err := a.Chat(context.Background(), user.ID, 0, "Loop forever")
	require.NoError(t, err)
	require.Len(t, provider.calls, MaxIterations)
	require.Contains(t, response.Content, "ran out of steps")

	// The fallback is still persisted as the assistant reply.
	messages, err := st.ListMessages(context.Background(), &store.FindMessage{ConversationID: &response.ConversationID})
	require.NoError(t, err)
	last := messages[len(messages)-1]
	require.Equal(t, store.MessageRoleAssistant, last.Role)
	require.Contains(t, last.Content, "ran out of steps")
}

func TestChatContinuesExistingConversation(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.ChatResult{
		{Content: "first"},
		{Content: "second"},
	}}
	a, st := newTestAssistant(t, provider)
	user := seedUser(t, st)
	ctx := context.Background()

	first, err := a.Chat(ctx, user.ID, 0, "hello")
	require.NoError(t, err)
	second, err := a.Chat(ctx, user.ID, first.ConversationID, "and again")
	require.NoError(t, err)
	require.Equal(t, first.ConversationID, second.ConversationID)

	messages, err := st.ListMessages(ctx, &store.FindMessage{ConversationID: &first.ConversationID})
	require.NoError(t, err)
	require.Len(t, messages, 4)

	// The second turn's prompt history includes the first exchange.
	lastCall := provider.calls[len(provider.calls)-1]
	var sawFirstReply bool
	for _, message := range lastCall {
		if message.Role == "assistant" && message.Content == "first" {
			sawFirstReply = true
		}
	}
	require.True(t, sawFirstReply)
}

func TestChatUnknownUser(t *testing.T) {
	provider := &scriptedProvider{}
	a, _ := newTestAssistant(t, provider)

	_, err := a.Chat(context.Background(), 999, 0, "hello")
	require.Error(t, err)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

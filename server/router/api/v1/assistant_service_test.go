package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/plugin/assistant"
	"github.com/daykeep/daykeep/server/ai"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/storetest"
)

type stubProvider struct {
	content string
}

func (p *stubProvider) ChatWithTools(_ context.Context, _ []ai.Message, _ []ai.ToolDefinition) (*ai.ChatResult, error) {
	return &ai.ChatResult{Content: p.content}, nil
}

func newTestService(t *testing.T) (*APIV1Service, *store.Store, *echo.Echo) {
	t.Helper()
	testProfile := &profile.Profile{Mode: "dev"}
	st := store.New(storetest.NewMemoryDriver(), testProfile)
	t.Cleanup(func() { _ = st.Close() })

	asst := assistant.New(st, &stubProvider{content: "hello from the assistant"}, nil)
	service := NewAPIV1Service(testProfile, st, asst)

	echoServer := echo.New()
	service.Register(echoServer)
	return service, st, echoServer
}

func seedUser(t *testing.T, st *store.Store) *store.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), &store.User{UID: "user-1", Nickname: "Sam", Timezone: "UTC"})
	require.NoError(t, err)
	return user
}

func doRequest(echoServer *echo.Echo, method, target, body string, userID int32) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != 0 {
		req.Header.Set(userIDHeader, strconv.Itoa(int(userID)))
	}
	rec := httptest.NewRecorder()
	echoServer.ServeHTTP(rec, req)
	return rec
}

func TestChatRequiresIdentity(t *testing.T) {
	_, _, echoServer := newTestService(t)

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat", `{"message": "hi"}`, 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	_, st, echoServer := newTestService(t)
	user := seedUser(t, st)

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat", `{"message": ""}`, user.ID)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRoundTrip(t *testing.T) {
	_, st, echoServer := newTestService(t)
	user := seedUser(t, st)

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat", `{"message": "hi"}`, user.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var response chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, "hello from the assistant", response.Content)
	require.NotZero(t, response.ConversationID)

	// A follow-up in the same conversation keeps its id.
	rec = doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat",
		`{"message": "more", "conversation_id": `+strconv.Itoa(int(response.ConversationID))+`}`, user.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var second chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	require.Equal(t, response.ConversationID, second.ConversationID)
}

func TestChatRejectsForeignConversation(t *testing.T) {
	_, st, echoServer := newTestService(t)
	owner := seedUser(t, st)
	intruder, err := st.CreateUser(context.Background(), &store.User{UID: "user-2", Nickname: "Alex", Timezone: "UTC"})
	require.NoError(t, err)

	conversation, err := st.CreateConversation(context.Background(), &store.Conversation{
		UID: "conv-owned", CreatorID: owner.ID, Kind: store.ConversationKindPrivate,
	})
	require.NoError(t, err)

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat",
		`{"message": "hi", "conversation_id": `+strconv.Itoa(int(conversation.ID))+`}`, intruder.ID)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatGroupMembership(t *testing.T) {
	_, st, echoServer := newTestService(t)
	member := seedUser(t, st)
	outsider, err := st.CreateUser(context.Background(), &store.User{UID: "user-2", Nickname: "Alex", Timezone: "UTC"})
	require.NoError(t, err)

	ctx := context.Background()
	group, err := st.CreateGroup(ctx, &store.Group{UID: "grp-1", Name: "Roommates"})
	require.NoError(t, err)
	require.NoError(t, st.UpsertGroupMember(ctx, &store.GroupMember{GroupID: group.ID, UserID: member.ID, Role: "MEMBER"}))

	body := `{"message": "hi", "group_id": ` + strconv.Itoa(int(group.ID)) + `}`

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat", body, outsider.ID)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat", body, member.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	// The turn landed in the group's shared conversation.
	kind := store.ConversationKindGroupAI
	conversation, err := st.GetConversation(ctx, &store.FindConversation{GroupID: &group.ID, Kind: &kind})
	require.NoError(t, err)
	require.NotNil(t, conversation)
}

func TestListConversations(t *testing.T) {
	_, st, echoServer := newTestService(t)
	user := seedUser(t, st)

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat", `{"message": "hi"}`, user.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(echoServer, http.MethodGet, "/api/v1/assistant/conversations", "", user.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var conversations []*store.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversations))
	require.Len(t, conversations, 1)
}

func TestListMessagesOwnership(t *testing.T) {
	_, st, echoServer := newTestService(t)
	user := seedUser(t, st)
	other, err := st.CreateUser(context.Background(), &store.User{UID: "user-2", Nickname: "Alex", Timezone: "UTC"})
	require.NoError(t, err)

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/assistant/chat", `{"message": "hi"}`, user.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var response chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	target := "/api/v1/assistant/conversations/" + strconv.Itoa(int(response.ConversationID)) + "/messages"

	rec = doRequest(echoServer, http.MethodGet, target, "", other.ID)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(echoServer, http.MethodGet, target, "", user.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []*store.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
}

func TestContextBundle(t *testing.T) {
	_, st, echoServer := newTestService(t)
	user := seedUser(t, st)

	rec := doRequest(echoServer, http.MethodGet, "/api/v1/assistant/context", "", user.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var bundle map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	require.NotNil(t, bundle["User"])
}

package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/daykeep/daykeep/server/internal/observability"
	"github.com/daykeep/daykeep/store"
)

// userIDHeader carries the resolved caller identity, injected by upstream
// middleware. Identity resolution itself is out of scope here.
const userIDHeader = "X-User-ID"

type chatRequest struct {
	ConversationID int32  `json:"conversation_id"`
	GroupID        int32  `json:"group_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID int32  `json:"conversation_id"`
	Content        string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Chat runs one assistant turn for the caller.
func (s *APIV1Service) Chat(c echo.Context) error {
	userID, err := s.callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user identity"})
	}

	if !s.rateLimiter.Allow(userID) {
		return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
	}

	reqCtx := observability.NewRequestContext(slog.Default(), userID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	conversationID := req.ConversationID
	if req.GroupID != 0 {
		member, err := s.Store.IsGroupMember(ctx, req.GroupID, userID)
		if err != nil {
			reqCtx.Error("group membership check failed", err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		if !member {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "group not found"})
		}
		conversation, err := s.Assistant.Conversations().GetOrCreateGroupConversation(ctx, req.GroupID, userID)
		if err != nil {
			reqCtx.Error("failed to resolve group conversation", err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		conversationID = conversation.ID
	} else if conversationID != 0 {
		conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{ID: &conversationID, CreatorID: &userID})
		if err != nil {
			reqCtx.Error("conversation lookup failed", err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		if conversation == nil {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "conversation not found"})
		}
	}

	response, err := s.Assistant.Chat(ctx, userID, conversationID, req.Message)
	if err != nil {
		reqCtx.Error("chat turn failed", err,
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	reqCtx.Info("chat turn completed",
		slog.Int64(observability.LogFieldConversationID, int64(response.ConversationID)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, chatResponse{
		ConversationID: response.ConversationID,
		Content:        response.Content,
	})
}

// ContextBundle returns the aggregator output for inspection.
func (s *APIV1Service) ContextBundle(c echo.Context) error {
	userID, err := s.callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user identity"})
	}

	var conversationID int32
	if raw := c.QueryParam("conversation_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid conversation_id"})
		}
		conversationID = int32(parsed)
	}

	bundle, err := s.Assistant.Aggregator().Snapshot(c.Request().Context(), userID, conversationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, bundle)
}

// ListConversations returns the caller's conversations, most recent first.
func (s *APIV1Service) ListConversations(c echo.Context) error {
	userID, err := s.callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user identity"})
	}

	normal := store.Normal
	conversations, err := s.Store.ListConversations(c.Request().Context(), &store.FindConversation{
		CreatorID: &userID,
		RowStatus: &normal,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, conversations)
}

// ListMessages returns the ordered history of one conversation owned by the
// caller.
func (s *APIV1Service) ListMessages(c echo.Context) error {
	userID, err := s.callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user identity"})
	}

	parsed, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid conversation id"})
	}
	conversationID := int32(parsed)

	ctx := c.Request().Context()
	conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{ID: &conversationID, CreatorID: &userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	if conversation == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "conversation not found"})
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ConversationID: &conversationID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, messages)
}

// callerID reads the resolved user id injected by upstream middleware.
func (s *APIV1Service) callerID(c echo.Context) (int32, error) {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return 0, fmt.Errorf("missing %s header", userIDHeader)
	}
	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s header", userIDHeader)
	}
	return int32(parsed), nil
}

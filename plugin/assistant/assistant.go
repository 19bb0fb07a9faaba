package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/daykeep/daykeep/plugin/assistant/aggregate"
	"github.com/daykeep/daykeep/plugin/assistant/conversation"
	"github.com/daykeep/daykeep/plugin/assistant/prompt"
	"github.com/daykeep/daykeep/plugin/assistant/tools"
	"github.com/daykeep/daykeep/server/ai"
	"github.com/daykeep/daykeep/store"
)

// MaxIterations bounds the model round-trips in one turn. A turn that is
// still requesting tools after this many iterations is cut off.
const MaxIterations = 6

// ChatProvider is the model seam. The production implementation is
// *ai.Provider; tests substitute a scripted fake.
type ChatProvider interface {
	ChatWithTools(ctx context.Context, messages []ai.Message, toolDefs []ai.ToolDefinition) (*ai.ChatResult, error)
}

// Response is the outcome of one chat turn.
type Response struct {
	ConversationID int32
	Content        string
}

// Assistant orchestrates one chat turn: persist the user message, assemble
// context, call the model, dispatch tool calls, persist the reply.
type Assistant struct {
	store        *store.Store
	provider     ChatProvider
	aggregator   *aggregate.Aggregator
	dispatcher   *tools.Dispatcher
	conversation *conversation.Manager
	logger       *slog.Logger
}

// New wires an assistant from its collaborators.
func New(st *store.Store, provider ChatProvider, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		store:        st,
		provider:     provider,
		aggregator:   aggregate.New(st, logger),
		dispatcher:   tools.NewDispatcher(st, logger),
		conversation: conversation.NewManager(st),
		logger:       logger,
	}
}

// Dispatcher exposes the tool dispatcher for the HTTP surface.
func (a *Assistant) Dispatcher() *tools.Dispatcher {
	return a.dispatcher
}

// Aggregator exposes the context aggregator for the debug endpoint.
func (a *Assistant) Aggregator() *aggregate.Aggregator {
	return a.aggregator
}

// Conversations exposes the conversation manager.
func (a *Assistant) Conversations() *conversation.Manager {
	return a.conversation
}

// Chat runs one full turn for the user. A zero conversationID starts a new
// private conversation.
func (a *Assistant) Chat(ctx context.Context, userID int32, conversationID int32, text string) (*Response, error) {
	if conversationID == 0 {
		created, err := a.conversation.CreatePrivateConversation(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to start conversation: %w", err)
		}
		conversationID = created.ID
	}

	if _, err := a.conversation.AppendMessage(ctx, conversationID, store.MessageRoleUser, text); err != nil {
		return nil, err
	}

	bundle, err := a.aggregator.Snapshot(ctx, userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble context: %w", err)
	}

	header, history := prompt.Render(bundle)
	messages := make([]ai.Message, 0, len(history)+1)
	messages = append(messages, ai.Message{Role: "system", Content: header})
	for _, entry := range history {
		messages = append(messages, ai.Message{Role: entry.Role, Content: entry.Content})
	}

	toolDefs := toolDefinitions()

	var content string
	for iteration := 0; iteration < MaxIterations; iteration++ {
		result, err := a.provider.ChatWithTools(ctx, messages, toolDefs)
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		content = result.Content

		if len(result.ToolCalls) == 0 {
			break
		}

		messages = append(messages, ai.Message{
			Role:      "assistant",
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})

		// Tool calls run sequentially in request order: later calls may
		// depend on ids created by earlier ones.
		for _, call := range result.ToolCalls {
			outcome := a.dispatcher.Execute(ctx, call.Name, call.Arguments, userID)
			a.logger.Info("tool call dispatched",
				"tool_name", call.Name,
				"user_id", userID,
				"iteration", iteration,
				"ok", outcome.OK)
			messages = append(messages, ai.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    foldResult(call.Name, outcome),
			})
		}
	}

	if content == "" {
		content = "I ran out of steps trying to do that. Could you break the request into smaller pieces?"
	}

	if _, err := a.conversation.AppendMessage(ctx, conversationID, store.MessageRoleAssistant, content); err != nil {
		return nil, err
	}

	return &Response{ConversationID: conversationID, Content: content}, nil
}

// foldResult converts a tool outcome into natural-language context the model
// can recover from conversationally.
func foldResult(name string, result tools.Result) string {
	if !result.OK {
		return fmt.Sprintf("The %s call could not be completed: %s", name, result.Message)
	}
	if result.Data == nil {
		return fmt.Sprintf("The %s call succeeded.", name)
	}
	data, err := json.Marshal(result.Data)
	if err != nil {
		return fmt.Sprintf("The %s call succeeded.", name)
	}
	return fmt.Sprintf("The %s call succeeded. Result: %s", name, data)
}

// toolDefinitions maps the registry catalog to the provider's wire shape.
func toolDefinitions() []ai.ToolDefinition {
	catalog := tools.Definitions()
	defs := make([]ai.ToolDefinition, 0, len(catalog))
	for _, entry := range catalog {
		defs = append(defs, ai.ToolDefinition{
			Name:        entry.Name,
			Description: entry.Description,
			Parameters:  entry.InputSchema,
		})
	}
	return defs
}

package tools

import (
	"context"
	"log/slog"

	"github.com/daykeep/daykeep/store"
)

// Dispatcher validates, authorizes, and executes tool calls against the
// store on behalf of an authenticated caller.
type Dispatcher struct {
	store  *store.Store
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher bound to the given store.
func NewDispatcher(st *store.Store, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{store: st, logger: logger}
}

// Execute runs one tool call. Expected business failures (not found, bad
// input) come back as failure results; infrastructure faults and panics are
// caught here and converted to a generic internal failure so one bad call
// never aborts a batch.
func (d *Dispatcher) Execute(ctx context.Context, name string, rawInput string, callerID int32) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool call panicked",
				"tool_name", name,
				"caller_id", callerID,
				"panic", r)
			result = Internal()
		}
	}()

	switch name {
	case ToolCreateScheduleBlock:
		return d.createScheduleBlock(ctx, rawInput, callerID)
	case ToolUpdateScheduleBlock:
		return d.updateScheduleBlock(ctx, rawInput, callerID)
	case ToolDeleteScheduleBlock:
		return d.deleteScheduleBlock(ctx, rawInput, callerID)
	case ToolListScheduleBlocks:
		return d.listScheduleBlocks(ctx, rawInput, callerID)
	case ToolCreateTask:
		return d.createTask(ctx, rawInput, callerID)
	case ToolCompleteTask:
		return d.completeTask(ctx, rawInput, callerID)
	case ToolUpdateTask:
		return d.updateTask(ctx, rawInput, callerID)
	case ToolDeleteTask:
		return d.deleteTask(ctx, rawInput, callerID)
	case ToolCreateReminder:
		return d.createReminder(ctx, rawInput, callerID)
	case ToolDeleteReminder:
		return d.deleteReminder(ctx, rawInput, callerID)
	default:
		return Invalid("unknown tool: " + name)
	}
}

// internalFailure logs the underlying error and returns the generic failure.
func (d *Dispatcher) internalFailure(name string, callerID int32, err error) Result {
	d.logger.Error("tool call failed on store access",
		"tool_name", name,
		"caller_id", callerID,
		"error", err)
	return Internal()
}

package tools

import (
	"context"
	"encoding/json"

	"github.com/lithammer/shortuuid/v4"

	"github.com/daykeep/daykeep/store"
)

type createTaskInput struct {
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Due      *string `json:"due"`
	Priority *string `json:"priority"`
	Points   *int32  `json:"points"`
	BlockID  *int32  `json:"block_id"`
}

func (d *Dispatcher) createTask(ctx context.Context, rawInput string, callerID int32) Result {
	var input createTaskInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.Title == "" {
		return Invalid("title is required")
	}

	taskType := store.TaskTypeTask
	if input.Type != "" {
		if !store.IsValidTaskType(input.Type) {
			return Invalid("unknown task type: " + input.Type)
		}
		taskType = store.TaskType(input.Type)
	}

	var dueTs *int64
	if input.Due != nil && *input.Due != "" {
		ts, err := parseTimestamp(*input.Due)
		if err != nil {
			return Invalid(err.Error())
		}
		dueTs = &ts
	}

	var priority *store.TaskPriority
	if input.Priority != nil && *input.Priority != "" {
		if !store.IsValidTaskPriority(*input.Priority) {
			return Invalid("unknown priority: " + *input.Priority)
		}
		p := store.TaskPriority(*input.Priority)
		priority = &p
	}

	// A linked block must exist and belong to the caller; a dangling link is
	// a not-found failure, never a silent insert.
	if input.BlockID != nil {
		block, err := d.store.GetScheduleBlock(ctx, &store.FindScheduleBlock{ID: input.BlockID, CreatorID: &callerID})
		if err != nil {
			return d.internalFailure(ToolCreateTask, callerID, err)
		}
		if block == nil {
			return NotFound("schedule block not found")
		}
	}

	task, err := d.store.CreateTask(ctx, &store.Task{
		UID:       shortuuid.New(),
		CreatorID: callerID,
		Title:     input.Title,
		Type:      taskType,
		DueTs:     dueTs,
		Priority:  priority,
		Points:    input.Points,
		BlockID:   input.BlockID,
	})
	if err != nil {
		return d.internalFailure(ToolCreateTask, callerID, err)
	}

	return Ok(task)
}

type completeTaskInput struct {
	ID int32 `json:"id"`
}

func (d *Dispatcher) completeTask(ctx context.Context, rawInput string, callerID int32) Result {
	var input completeTaskInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.ID == 0 {
		return Invalid("id is required")
	}

	existing, err := d.store.GetTask(ctx, &store.FindTask{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolCompleteTask, callerID, err)
	}
	if existing == nil {
		return NotFound("task not found")
	}

	done := true
	if err := d.store.UpdateTask(ctx, &store.UpdateTask{ID: input.ID, Done: &done}); err != nil {
		return d.internalFailure(ToolCompleteTask, callerID, err)
	}

	return Ok(map[string]any{"completed": input.ID})
}

type updateTaskInput struct {
	ID       int32   `json:"id"`
	Title    *string `json:"title"`
	Type     *string `json:"type"`
	Due      *string `json:"due"`
	Priority *string `json:"priority"`
	Points   *int32  `json:"points"`
}

func (d *Dispatcher) updateTask(ctx context.Context, rawInput string, callerID int32) Result {
	var input updateTaskInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.ID == 0 {
		return Invalid("id is required")
	}

	existing, err := d.store.GetTask(ctx, &store.FindTask{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolUpdateTask, callerID, err)
	}
	if existing == nil {
		return NotFound("task not found")
	}

	update := &store.UpdateTask{ID: input.ID}
	if input.Title != nil {
		if *input.Title == "" {
			return Invalid("title cannot be empty")
		}
		update.Title = input.Title
	}
	if input.Type != nil {
		if !store.IsValidTaskType(*input.Type) {
			return Invalid("unknown task type: " + *input.Type)
		}
		taskType := store.TaskType(*input.Type)
		update.Type = &taskType
	}
	if input.Due != nil {
		// Empty string clears the due date; anything else must parse.
		if *input.Due == "" {
			update.ClearDue = true
		} else {
			ts, err := parseTimestamp(*input.Due)
			if err != nil {
				return Invalid(err.Error())
			}
			update.DueTs = &ts
		}
	}
	if input.Priority != nil {
		if *input.Priority == "" {
			update.ClearPriority = true
		} else {
			if !store.IsValidTaskPriority(*input.Priority) {
				return Invalid("unknown priority: " + *input.Priority)
			}
			p := store.TaskPriority(*input.Priority)
			update.Priority = &p
		}
	}
	if input.Points != nil {
		update.Points = input.Points
	}

	if err := d.store.UpdateTask(ctx, update); err != nil {
		return d.internalFailure(ToolUpdateTask, callerID, err)
	}

	updated, err := d.store.GetTask(ctx, &store.FindTask{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolUpdateTask, callerID, err)
	}
	return Ok(updated)
}

type deleteTaskInput struct {
	ID int32 `json:"id"`
}

func (d *Dispatcher) deleteTask(ctx context.Context, rawInput string, callerID int32) Result {
	var input deleteTaskInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.ID == 0 {
		return Invalid("id is required")
	}

	existing, err := d.store.GetTask(ctx, &store.FindTask{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolDeleteTask, callerID, err)
	}
	if existing == nil {
		return NotFound("task not found")
	}

	if err := d.store.DeleteTask(ctx, &store.DeleteTask{ID: input.ID}); err != nil {
		return d.internalFailure(ToolDeleteTask, callerID, err)
	}

	return Ok(map[string]any{"deleted": input.ID})
}

package tools

import "encoding/json"

// Definition describes one callable operation advertised to the model. The
// catalog is pure data: it has no side effects and is never mutated at
// runtime. New capabilities are added by appending an entry; removing one
// breaks any in-flight conversation that references it.
type Definition struct {
	Name          string
	Description   string
	InputSchema   json.RawMessage
	ProgressLabel string
}

const (
	ToolCreateScheduleBlock = "create_schedule_block"
	ToolUpdateScheduleBlock = "update_schedule_block"
	ToolDeleteScheduleBlock = "delete_schedule_block"
	ToolListScheduleBlocks  = "list_schedule_blocks"
	ToolCreateTask          = "create_task"
	ToolCompleteTask        = "complete_task"
	ToolUpdateTask          = "update_task"
	ToolDeleteTask          = "delete_task"
	ToolCreateReminder      = "create_reminder"
	ToolDeleteReminder      = "delete_reminder"
)

// Definitions returns the static tool catalog.
func Definitions() []Definition {
	return definitions
}

var definitions = []Definition{
	{
		Name:        ToolCreateScheduleBlock,
		Description: "Create a new schedule block (calendar event) for the user. Use when the user asks to add something to their schedule.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Event title"},
				"category": {"type": "string", "enum": ["CLASS", "WORK", "HEALTH", "MEETING", "PREP", "STUDY", "LIFE", "FREE"]},
				"start": {"type": "string", "description": "Start time, ISO-8601 (e.g. 2026-02-19T14:00)"},
				"end": {"type": "string", "description": "End time, ISO-8601, must be after start"},
				"location": {"type": "string"},
				"description": {"type": "string"},
				"hub_id": {"type": "integer", "description": "Optional hub to link the event to"}
			},
			"required": ["title", "category", "start", "end"]
		}`),
		ProgressLabel: "Adding to your schedule",
	},
	{
		Name:        ToolUpdateScheduleBlock,
		Description: "Update fields of an existing schedule block. Only the supplied fields change.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer"},
				"title": {"type": "string"},
				"category": {"type": "string", "enum": ["CLASS", "WORK", "HEALTH", "MEETING", "PREP", "STUDY", "LIFE", "FREE"]},
				"start": {"type": "string", "description": "ISO-8601"},
				"end": {"type": "string", "description": "ISO-8601"},
				"location": {"type": "string"},
				"description": {"type": "string"}
			},
			"required": ["id"]
		}`),
		ProgressLabel: "Updating your schedule",
	},
	{
		Name:        ToolDeleteScheduleBlock,
		Description: "Delete a schedule block and everything attached to it (notes, tasks, files).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer"}
			},
			"required": ["id"]
		}`),
		ProgressLabel: "Removing from your schedule",
	},
	{
		Name:        ToolListScheduleBlocks,
		Description: "List the user's schedule blocks starting within a date range, earliest first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"start_date": {"type": "string", "description": "Range start, YYYY-MM-DD"},
				"end_date": {"type": "string", "description": "Range end, YYYY-MM-DD, inclusive"}
			},
			"required": ["start_date", "end_date"]
		}`),
		ProgressLabel: "Checking your schedule",
	},
	{
		Name:        ToolCreateTask,
		Description: "Create a task, assignment, or goal for the user.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"type": {"type": "string", "enum": ["TASK", "ASSIGNMENT", "GOAL"], "description": "Defaults to TASK"},
				"due": {"type": "string", "description": "Due time, ISO-8601"},
				"priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
				"points": {"type": "integer"},
				"block_id": {"type": "integer", "description": "Optional schedule block to link the task to"}
			},
			"required": ["title"]
		}`),
		ProgressLabel: "Adding a task",
	},
	{
		Name:        ToolCompleteTask,
		Description: "Mark a task as completed.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer"}
			},
			"required": ["id"]
		}`),
		ProgressLabel: "Completing the task",
	},
	{
		Name:        ToolUpdateTask,
		Description: "Update fields of an existing task. Only the supplied fields change.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer"},
				"title": {"type": "string"},
				"type": {"type": "string", "enum": ["TASK", "ASSIGNMENT", "GOAL"]},
				"due": {"type": "string", "description": "ISO-8601, or null to clear"},
				"priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
				"points": {"type": "integer"}
			},
			"required": ["id"]
		}`),
		ProgressLabel: "Updating the task",
	},
	{
		Name:        ToolDeleteTask,
		Description: "Delete a task.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer"}
			},
			"required": ["id"]
		}`),
		ProgressLabel: "Removing the task",
	},
	{
		Name:        ToolCreateReminder,
		Description: "Create a standing reminder for the user.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"recurrence": {"type": "string", "enum": ["ONCE", "DAILY", "WEEKDAYS", "CUSTOM"]},
				"time_of_day": {"type": "string", "description": "HH:MM, 24h"},
				"date": {"type": "string", "description": "YYYY-MM-DD, only for ONCE"},
				"weekdays": {"type": "string", "description": "Comma-separated MON..SUN, only for CUSTOM"}
			},
			"required": ["title", "recurrence"]
		}`),
		ProgressLabel: "Setting a reminder",
	},
	{
		Name:        ToolDeleteReminder,
		Description: "Delete a reminder.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer"}
			},
			"required": ["id"]
		}`),
		ProgressLabel: "Removing the reminder",
	},
}

// FindDefinition returns the catalog entry for a tool name, or nil.
func FindDefinition(name string) *Definition {
	for i := range definitions {
		if definitions[i].Name == name {
			return &definitions[i]
		}
	}
	return nil
}

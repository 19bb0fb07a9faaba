package tools

import (
	"context"
	"encoding/json"

	"github.com/lithammer/shortuuid/v4"

	"github.com/daykeep/daykeep/store"
)

type createReminderInput struct {
	Title      string  `json:"title"`
	Recurrence string  `json:"recurrence"`
	TimeOfDay  *string `json:"time_of_day"`
	Date       *string `json:"date"`
	Weekdays   *string `json:"weekdays"`
}

func (d *Dispatcher) createReminder(ctx context.Context, rawInput string, callerID int32) Result {
	var input createReminderInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.Title == "" {
		return Invalid("title is required")
	}
	if !store.IsValidReminderRecurrence(input.Recurrence) {
		return Invalid("unknown recurrence: " + input.Recurrence)
	}
	if input.Date != nil && *input.Date != "" {
		if _, err := parseDate(*input.Date); err != nil {
			return Invalid(err.Error())
		}
	}

	reminder, err := d.store.CreateReminder(ctx, &store.Reminder{
		UID:        shortuuid.New(),
		CreatorID:  callerID,
		Title:      input.Title,
		Enabled:    true,
		Recurrence: store.ReminderRecurrence(input.Recurrence),
		TimeOfDay:  input.TimeOfDay,
		Date:       input.Date,
		Weekdays:   input.Weekdays,
	})
	if err != nil {
		return d.internalFailure(ToolCreateReminder, callerID, err)
	}

	return Ok(reminder)
}

type deleteReminderInput struct {
	ID int32 `json:"id"`
}

func (d *Dispatcher) deleteReminder(ctx context.Context, rawInput string, callerID int32) Result {
	var input deleteReminderInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.ID == 0 {
		return Invalid("id is required")
	}

	existing, err := d.store.GetReminder(ctx, &store.FindReminder{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolDeleteReminder, callerID, err)
	}
	if existing == nil {
		return NotFound("reminder not found")
	}

	if err := d.store.DeleteReminder(ctx, &store.DeleteReminder{ID: input.ID}); err != nil {
		return d.internalFailure(ToolDeleteReminder, callerID, err)
	}

	return Ok(map[string]any{"deleted": input.ID})
}

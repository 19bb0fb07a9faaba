package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/daykeep/daykeep/store"
)

// Accepted timestamp layouts, most specific first. Models emit ISO-8601 with
// varying precision.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

const dateLayout = "2006-01-02"

// parseTimestamp parses an ISO-8601 timestamp string to unix seconds.
func parseTimestamp(v string) (int64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("invalid timestamp: %q", v)
}

// parseDate parses a YYYY-MM-DD string to the midnight unix timestamp.
func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q", v)
	}
	return t, nil
}

type createScheduleBlockInput struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Description string `json:"description"`
	HubID       *int32 `json:"hub_id"`
}

func (d *Dispatcher) createScheduleBlock(ctx context.Context, rawInput string, callerID int32) Result {
	var input createScheduleBlockInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.Title == "" {
		return Invalid("title is required")
	}
	if !store.IsValidBlockCategory(input.Category) {
		return Invalid("unknown category: " + input.Category)
	}
	startTs, err := parseTimestamp(input.Start)
	if err != nil {
		return Invalid(err.Error())
	}
	endTs, err := parseTimestamp(input.End)
	if err != nil {
		return Invalid(err.Error())
	}
	if endTs <= startTs {
		return Invalid("end must be after start")
	}

	block, err := d.store.CreateScheduleBlock(ctx, &store.ScheduleBlock{
		UID:         shortuuid.New(),
		CreatorID:   callerID,
		Title:       input.Title,
		Category:    store.BlockCategory(input.Category),
		StartTs:     startTs,
		EndTs:       endTs,
		Location:    input.Location,
		Description: input.Description,
		HubID:       input.HubID,
	})
	if err != nil {
		return d.internalFailure(ToolCreateScheduleBlock, callerID, err)
	}

	return Ok(block)
}

type updateScheduleBlockInput struct {
	ID          int32   `json:"id"`
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (d *Dispatcher) updateScheduleBlock(ctx context.Context, rawInput string, callerID int32) Result {
	var input updateScheduleBlockInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.ID == 0 {
		return Invalid("id is required")
	}

	// Ownership read before the write; a block owned by someone else is
	// indistinguishable from a missing one.
	existing, err := d.store.GetScheduleBlock(ctx, &store.FindScheduleBlock{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolUpdateScheduleBlock, callerID, err)
	}
	if existing == nil {
		return NotFound("schedule block not found")
	}

	update := &store.UpdateScheduleBlock{ID: input.ID}
	if input.Title != nil {
		if *input.Title == "" {
			return Invalid("title cannot be empty")
		}
		update.Title = input.Title
	}
	if input.Category != nil {
		if !store.IsValidBlockCategory(*input.Category) {
			return Invalid("unknown category: " + *input.Category)
		}
		category := store.BlockCategory(*input.Category)
		update.Category = &category
	}

	startTs, endTs := existing.StartTs, existing.EndTs
	if input.Start != nil {
		ts, err := parseTimestamp(*input.Start)
		if err != nil {
			return Invalid(err.Error())
		}
		startTs = ts
		update.StartTs = &ts
	}
	if input.End != nil {
		ts, err := parseTimestamp(*input.End)
		if err != nil {
			return Invalid(err.Error())
		}
		endTs = ts
		update.EndTs = &ts
	}
	if endTs <= startTs {
		return Invalid("end must be after start")
	}

	if input.Location != nil {
		update.Location = input.Location
	}
	if input.Description != nil {
		update.Description = input.Description
	}

	if err := d.store.UpdateScheduleBlock(ctx, update); err != nil {
		return d.internalFailure(ToolUpdateScheduleBlock, callerID, err)
	}

	updated, err := d.store.GetScheduleBlock(ctx, &store.FindScheduleBlock{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolUpdateScheduleBlock, callerID, err)
	}
	return Ok(updated)
}

type deleteScheduleBlockInput struct {
	ID int32 `json:"id"`
}

func (d *Dispatcher) deleteScheduleBlock(ctx context.Context, rawInput string, callerID int32) Result {
	var input deleteScheduleBlockInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}
	if input.ID == 0 {
		return Invalid("id is required")
	}

	existing, err := d.store.GetScheduleBlock(ctx, &store.FindScheduleBlock{ID: &input.ID, CreatorID: &callerID})
	if err != nil {
		return d.internalFailure(ToolDeleteScheduleBlock, callerID, err)
	}
	if existing == nil {
		return NotFound("schedule block not found")
	}

	if err := d.store.DeleteScheduleBlock(ctx, &store.DeleteScheduleBlock{ID: input.ID}); err != nil {
		return d.internalFailure(ToolDeleteScheduleBlock, callerID, err)
	}

	return Ok(map[string]any{"deleted": input.ID})
}

type listScheduleBlocksInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

const listBlocksCap = 100

func (d *Dispatcher) listScheduleBlocks(ctx context.Context, rawInput string, callerID int32) Result {
	var input listScheduleBlocksInput
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return Invalid("malformed input")
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		return Invalid(err.Error())
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return Invalid(err.Error())
	}
	if end.Before(start) {
		return Invalid("end_date must not be before start_date")
	}

	// Inclusive bound: blocks starting anywhere on the end date are included.
	after := start.Unix()
	before := end.Add(24*time.Hour - time.Second).Unix()
	limit := listBlocksCap
	normal := store.Normal

	blocks, err := d.store.ListScheduleBlocks(ctx, &store.FindScheduleBlock{
		CreatorID:     &callerID,
		RowStatus:     &normal,
		StartTsAfter:  &after,
		StartTsBefore: &before,
		Limit:         &limit,
	})
	if err != nil {
		return d.internalFailure(ToolListScheduleBlocks, callerID, err)
	}

	return Ok(blocks)
}

package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/internal/errors"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/storetest"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *store.Store) {
	t.Helper()
	st := store.New(storetest.NewMemoryDriver(), &profile.Profile{Mode: "dev"})
	t.Cleanup(func() { _ = st.Close() })
	return NewDispatcher(st, nil), st
}

func TestExecuteUnknownTool(t *testing.T) {
	d, _ := newTestDispatcher(t)

	result := d.Execute(context.Background(), "explode", `{}`, 1)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeInvalidArgument, result.Code)
}

func TestExecuteMalformedInput(t *testing.T) {
	d, _ := newTestDispatcher(t)

	for _, name := range []string{
		ToolCreateScheduleBlock,
		ToolUpdateScheduleBlock,
		ToolCreateTask,
		ToolCompleteTask,
		ToolCreateReminder,
	} {
		result := d.Execute(context.Background(), name, `{not json`, 1)
		require.False(t, result.OK, name)
		require.Equal(t, errors.ErrCodeInvalidArgument, result.Code, name)
	}
}

func TestCreateScheduleBlock(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	result := d.Execute(ctx, ToolCreateScheduleBlock, `{
		"title": "Biology lecture",
		"category": "CLASS",
		"start": "2026-09-07T10:00",
		"end": "2026-09-07T11:30",
		"location": "Hall B"
	}`, 1)
	require.True(t, result.OK, result.Message)

	block, ok := result.Data.(*store.ScheduleBlock)
	require.True(t, ok)
	require.Equal(t, "Biology lecture", block.Title)
	require.Equal(t, store.BlockCategoryClass, block.Category)
	require.Equal(t, int32(1), block.CreatorID)
	require.Equal(t, "Hall B", block.Location)
	require.Greater(t, block.EndTs, block.StartTs)
}

func TestCreateScheduleBlockValidation(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{"missing title", `{"category": "CLASS", "start": "2026-09-07T10:00", "end": "2026-09-07T11:00"}`},
		{"unknown category", `{"title": "x", "category": "PARTY", "start": "2026-09-07T10:00", "end": "2026-09-07T11:00"}`},
		{"bad start", `{"title": "x", "category": "CLASS", "start": "tomorrow", "end": "2026-09-07T11:00"}`},
		{"end before start", `{"title": "x", "category": "CLASS", "start": "2026-09-07T11:00", "end": "2026-09-07T10:00"}`},
		{"zero duration", `{"title": "x", "category": "CLASS", "start": "2026-09-07T10:00", "end": "2026-09-07T10:00"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.Execute(ctx, ToolCreateScheduleBlock, tt.input, 1)
			require.False(t, result.OK)
			require.Equal(t, errors.ErrCodeInvalidArgument, result.Code)
		})
	}
}

func TestUpdateScheduleBlockOwnership(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	block, err := st.CreateScheduleBlock(ctx, &store.ScheduleBlock{
		UID:       "blk-owned",
		CreatorID: 1,
		Title:     "Gym",
		Category:  store.BlockCategoryHealth,
		StartTs:   1000,
		EndTs:     2000,
	})
	require.NoError(t, err)

	// Another caller cannot see the block.
	result := d.Execute(ctx, ToolUpdateScheduleBlock, fmt.Sprintf(`{"id": %d, "title": "Stolen"}`, block.ID), 2)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeNotFound, result.Code)

	// The owner can.
	result = d.Execute(ctx, ToolUpdateScheduleBlock, fmt.Sprintf(`{"id": %d, "title": "Evening gym"}`, block.ID), 1)
	require.True(t, result.OK, result.Message)
	updated := result.Data.(*store.ScheduleBlock)
	require.Equal(t, "Evening gym", updated.Title)
	require.Equal(t, int64(1000), updated.StartTs)
}

func TestUpdateScheduleBlockCrossFieldValidation(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	block, err := st.CreateScheduleBlock(ctx, &store.ScheduleBlock{
		UID:       "blk-window",
		CreatorID: 1,
		Title:     "Standup",
		Category:  store.BlockCategoryMeeting,
		StartTs:   mustTs(t, "2026-09-07T09:00"),
		EndTs:     mustTs(t, "2026-09-07T09:30"),
	})
	require.NoError(t, err)

	// Moving the start past the existing end must fail even though only one
	// endpoint changes.
	result := d.Execute(ctx, ToolUpdateScheduleBlock,
		fmt.Sprintf(`{"id": %d, "start": "2026-09-07T10:00"}`, block.ID), 1)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeInvalidArgument, result.Code)

	// Moving both endpoints together is fine.
	result = d.Execute(ctx, ToolUpdateScheduleBlock,
		fmt.Sprintf(`{"id": %d, "start": "2026-09-07T10:00", "end": "2026-09-07T10:30"}`, block.ID), 1)
	require.True(t, result.OK, result.Message)
}

func TestDeleteScheduleBlockCascades(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	block, err := st.CreateScheduleBlock(ctx, &store.ScheduleBlock{
		UID:       "blk-cascade",
		CreatorID: 1,
		Title:     "Chemistry",
		Category:  store.BlockCategoryClass,
		StartTs:   1000,
		EndTs:     2000,
	})
	require.NoError(t, err)

	_, err = st.CreateTask(ctx, &store.Task{
		UID: "task-linked", CreatorID: 1, Title: "Read chapter 4", Type: store.TaskTypeTask, BlockID: &block.ID,
	})
	require.NoError(t, err)
	_, err = st.CreateNote(ctx, &store.Note{
		UID: "note-linked", CreatorID: 1, Title: "Lecture notes", Content: "…", BlockID: &block.ID,
	})
	require.NoError(t, err)

	result := d.Execute(ctx, ToolDeleteScheduleBlock, fmt.Sprintf(`{"id": %d}`, block.ID), 1)
	require.True(t, result.OK, result.Message)

	tasks, err := st.ListTasks(ctx, &store.FindTask{BlockID: &block.ID})
	require.NoError(t, err)
	require.Empty(t, tasks)
	notes, err := st.ListNotes(ctx, &store.FindNote{BlockID: &block.ID})
	require.NoError(t, err)
	require.Empty(t, notes)
	creatorID := int32(1)
	files, err := st.ListFiles(ctx, &store.FindFile{CreatorID: &creatorID})
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestListScheduleBlocksWindow(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	mk := func(uid, start string) *store.ScheduleBlock {
		block, err := st.CreateScheduleBlock(ctx, &store.ScheduleBlock{
			UID:       uid,
			CreatorID: 1,
			Title:     uid,
			Category:  store.BlockCategoryLife,
			StartTs:   mustTs(t, start),
			EndTs:     mustTs(t, start) + 3600,
		})
		require.NoError(t, err)
		return block
	}

	mk("before", "2026-09-06T23:00")
	first := mk("first", "2026-09-07T08:00")
	last := mk("last", "2026-09-08T23:59")
	mk("after", "2026-09-09T00:00")

	result := d.Execute(ctx, ToolListScheduleBlocks, `{"start_date": "2026-09-07", "end_date": "2026-09-08"}`, 1)
	require.True(t, result.OK, result.Message)

	blocks := result.Data.([]*store.ScheduleBlock)
	require.Len(t, blocks, 2)
	// A block starting late on the end date is still inside the window, and
	// results come back in start order.
	require.Equal(t, first.ID, blocks[0].ID)
	require.Equal(t, last.ID, blocks[1].ID)
}

func TestListScheduleBlocksInvalidRange(t *testing.T) {
	d, _ := newTestDispatcher(t)

	result := d.Execute(context.Background(), ToolListScheduleBlocks,
		`{"start_date": "2026-09-08", "end_date": "2026-09-07"}`, 1)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeInvalidArgument, result.Code)
}

func TestCreateTaskDefaultsAndLinks(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	result := d.Execute(ctx, ToolCreateTask, `{"title": "Buy groceries"}`, 1)
	require.True(t, result.OK, result.Message)
	task := result.Data.(*store.Task)
	require.Equal(t, store.TaskTypeTask, task.Type)
	require.False(t, task.Done)
	require.Nil(t, task.DueTs)

	block, err := st.CreateScheduleBlock(ctx, &store.ScheduleBlock{
		UID: "blk-task", CreatorID: 1, Title: "Study", Category: store.BlockCategoryStudy, StartTs: 1000, EndTs: 2000,
	})
	require.NoError(t, err)

	result = d.Execute(ctx, ToolCreateTask,
		fmt.Sprintf(`{"title": "Finish problem set", "type": "ASSIGNMENT", "priority": "HIGH", "due": "2026-09-10T23:59", "block_id": %d}`, block.ID), 1)
	require.True(t, result.OK, result.Message)
	linked := result.Data.(*store.Task)
	require.Equal(t, store.TaskTypeAssignment, linked.Type)
	require.NotNil(t, linked.Priority)
	require.Equal(t, store.TaskPriorityHigh, *linked.Priority)
	require.NotNil(t, linked.BlockID)
	require.Equal(t, block.ID, *linked.BlockID)
}

func TestCreateTaskDanglingBlock(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	// A block id that does not exist.
	result := d.Execute(ctx, ToolCreateTask, `{"title": "x", "block_id": 999}`, 1)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeNotFound, result.Code)

	// A block owned by someone else is just as invisible.
	block, err := st.CreateScheduleBlock(ctx, &store.ScheduleBlock{
		UID: "blk-other", CreatorID: 2, Title: "Theirs", Category: store.BlockCategoryWork, StartTs: 1000, EndTs: 2000,
	})
	require.NoError(t, err)
	result = d.Execute(ctx, ToolCreateTask, fmt.Sprintf(`{"title": "x", "block_id": %d}`, block.ID), 1)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeNotFound, result.Code)

	// Nothing was inserted along the way.
	creatorID := int32(1)
	tasks, err := st.ListTasks(ctx, &store.FindTask{CreatorID: &creatorID})
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestCompleteTask(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	task, err := st.CreateTask(ctx, &store.Task{UID: "task-done", CreatorID: 1, Title: "Laundry", Type: store.TaskTypeTask})
	require.NoError(t, err)

	result := d.Execute(ctx, ToolCompleteTask, fmt.Sprintf(`{"id": %d}`, task.ID), 1)
	require.True(t, result.OK, result.Message)

	updated, err := st.GetTask(ctx, &store.FindTask{ID: &task.ID})
	require.NoError(t, err)
	require.True(t, updated.Done)

	// Completing someone else's task fails without touching it.
	result = d.Execute(ctx, ToolCompleteTask, fmt.Sprintf(`{"id": %d}`, task.ID), 2)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeNotFound, result.Code)
}

func TestUpdateTaskClearsFields(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	due := int64(1757500000)
	priority := store.TaskPriorityMedium
	task, err := st.CreateTask(ctx, &store.Task{
		UID: "task-clear", CreatorID: 1, Title: "Essay", Type: store.TaskTypeAssignment, DueTs: &due, Priority: &priority,
	})
	require.NoError(t, err)

	// Empty strings clear; absent fields stay.
	result := d.Execute(ctx, ToolUpdateTask, fmt.Sprintf(`{"id": %d, "due": "", "priority": ""}`, task.ID), 1)
	require.True(t, result.OK, result.Message)
	updated := result.Data.(*store.Task)
	require.Nil(t, updated.DueTs)
	require.Nil(t, updated.Priority)
	require.Equal(t, "Essay", updated.Title)
}

func TestCreateReminder(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	result := d.Execute(ctx, ToolCreateReminder,
		`{"title": "Take vitamins", "recurrence": "DAILY", "time_of_day": "08:00"}`, 1)
	require.True(t, result.OK, result.Message)
	reminder := result.Data.(*store.Reminder)
	require.True(t, reminder.Enabled)
	require.Equal(t, store.ReminderDaily, reminder.Recurrence)

	result = d.Execute(ctx, ToolCreateReminder, `{"title": "x", "recurrence": "SOMETIMES"}`, 1)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeInvalidArgument, result.Code)

	result = d.Execute(ctx, ToolCreateReminder, `{"title": "x", "recurrence": "ONCE", "date": "next tuesday"}`, 1)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeInvalidArgument, result.Code)
}

func TestDeleteReminder(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	reminder, err := st.CreateReminder(ctx, &store.Reminder{
		UID: "rem-del", CreatorID: 1, Title: "Water plants", Enabled: true, Recurrence: store.ReminderWeekdays,
	})
	require.NoError(t, err)

	result := d.Execute(ctx, ToolDeleteReminder, fmt.Sprintf(`{"id": %d}`, reminder.ID), 2)
	require.False(t, result.OK)
	require.Equal(t, errors.ErrCodeNotFound, result.Code)

	result = d.Execute(ctx, ToolDeleteReminder, fmt.Sprintf(`{"id": %d}`, reminder.ID), 1)
	require.True(t, result.OK, result.Message)

	remaining, err := st.ListReminders(ctx, &store.FindReminder{ID: &reminder.ID})
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, v := range []string{
		"2026-09-07T10:00:00Z",
		"2026-09-07T10:00:00",
		"2026-09-07T10:00",
	} {
		ts, err := parseTimestamp(v)
		require.NoError(t, err, v)
		require.Positive(t, ts, v)
	}

	_, err := parseTimestamp("09/07/2026")
	require.Error(t, err)
}

func mustTs(t *testing.T, v string) int64 {
	t.Helper()
	ts, err := parseTimestamp(v)
	require.NoError(t, err)
	return ts
}

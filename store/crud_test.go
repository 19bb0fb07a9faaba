package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/store"
)

func TestUpdateReminderPatch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	timeOfDay := "08:00"
	reminder, err := st.CreateReminder(ctx, &store.Reminder{
		UID: "rem-1", CreatorID: 1, Title: "Take vitamins", Enabled: true,
		Recurrence: store.ReminderDaily, TimeOfDay: &timeOfDay,
	})
	require.NoError(t, err)

	disabled := false
	weekdays := "MON,WED,FRI"
	custom := store.ReminderCustom
	require.NoError(t, st.UpdateReminder(ctx, &store.UpdateReminder{
		ID:         reminder.ID,
		Enabled:    &disabled,
		Recurrence: &custom,
		Weekdays:   &weekdays,
	}))

	got, err := st.GetReminder(ctx, &store.FindReminder{ID: &reminder.ID})
	require.NoError(t, err)
	require.False(t, got.Enabled)
	require.Equal(t, store.ReminderCustom, got.Recurrence)
	require.NotNil(t, got.Weekdays)
	require.Equal(t, "MON,WED,FRI", *got.Weekdays)
	// Untouched fields survive the patch.
	require.Equal(t, "Take vitamins", got.Title)
	require.NotNil(t, got.TimeOfDay)
	require.Equal(t, "08:00", *got.TimeOfDay)
}

func TestUpdateAndDeleteMedication(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	medication, err := st.CreateMedication(ctx, &store.Medication{
		UID: "med-1", CreatorID: 1, Name: "Ibuprofen", Dosage: "200mg", Times: "08:00",
	})
	require.NoError(t, err)

	dosage := "400mg"
	refills := int32(2)
	require.NoError(t, st.UpdateMedication(ctx, &store.UpdateMedication{
		ID:      medication.ID,
		Dosage:  &dosage,
		Refills: &refills,
	}))

	list, err := st.ListMedications(ctx, &store.FindMedication{ID: &medication.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "400mg", list[0].Dosage)
	require.NotNil(t, list[0].Refills)
	require.Equal(t, int32(2), *list[0].Refills)
	require.Equal(t, "Ibuprofen", list[0].Name)

	require.NoError(t, st.DeleteMedication(ctx, &store.DeleteMedication{ID: medication.ID}))
	list, err = st.ListMedications(ctx, &store.FindMedication{ID: &medication.ID})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestUpdateNoteMirrorsShadowFileName(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	note, err := st.CreateNote(ctx, &store.Note{
		UID: "note-1", CreatorID: 1, Title: "Draft", Content: "first pass",
	})
	require.NoError(t, err)

	files, err := st.ListFiles(ctx, &store.FindFile{NoteID: &note.ID})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "Draft", files[0].Name)
	require.Equal(t, store.FileTypeNote, files[0].Type)

	title := "Final"
	require.NoError(t, st.UpdateNote(ctx, &store.UpdateNote{ID: note.ID, Title: &title}))

	files, err = st.ListFiles(ctx, &store.FindFile{NoteID: &note.ID})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "Final", files[0].Name)

	// A note-backed file cannot be deleted out from under its note.
	require.Error(t, st.DeleteFile(ctx, &store.DeleteFile{ID: files[0].ID}))

	require.NoError(t, st.DeleteNote(ctx, &store.DeleteNote{ID: note.ID}))
	files, err = st.ListFiles(ctx, &store.FindFile{NoteID: &note.ID})
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestListMessagesHonorsCallerTimestamps(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	conversation, err := st.CreateConversation(ctx, &store.Conversation{
		UID: "conv-1", CreatorID: 1, Kind: store.ConversationKindPrivate,
	})
	require.NoError(t, err)

	// Inserted newest first; the chronological order must come from the
	// supplied timestamps, not insertion order.
	for i, ts := range []int64{3000, 1000, 2000} {
		_, err := st.CreateMessage(ctx, &store.Message{
			UID:            []string{"msg-c", "msg-a", "msg-b"}[i],
			ConversationID: conversation.ID,
			Role:           store.MessageRoleUser,
			Content:        []string{"third", "first", "second"}[i],
			CreatedTs:      ts,
		})
		require.NoError(t, err)
	}

	messages, err := st.ListMessages(ctx, &store.FindMessage{ConversationID: &conversation.ID})
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, "first", messages[0].Content)
	require.Equal(t, "second", messages[1].Content)
	require.Equal(t, "third", messages[2].Content)

	limit := 2
	newest, err := st.ListMessages(ctx, &store.FindMessage{
		ConversationID: &conversation.ID,
		Limit:          &limit,
		Descending:     true,
	})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	require.Equal(t, "third", newest[0].Content)
	require.Equal(t, "second", newest[1].Content)
}

package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/storetest"
)

func newTestAggregator(t *testing.T) (*Aggregator, *store.Store) {
	t.Helper()
	st := store.New(storetest.NewMemoryDriver(), &profile.Profile{Mode: "dev"})
	t.Cleanup(func() { _ = st.Close() })
	return New(st, nil), st
}

func seedUser(t *testing.T, st *store.Store) *store.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), &store.User{
		UID: "user-1", Nickname: "Sam", Timezone: "America/New_York",
	})
	require.NoError(t, err)
	return user
}

// faultyDriver injects failures into chosen reads to exercise the
// degrade-to-empty contract.
type faultyDriver struct {
	*storetest.MemoryDriver
	failUsers       bool
	failBlocks      bool
	failMedications bool
}

func (d *faultyDriver) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	if d.failUsers {
		return nil, fmt.Errorf("user table unavailable")
	}
	return d.MemoryDriver.ListUsers(ctx, find)
}

func (d *faultyDriver) ListScheduleBlocks(ctx context.Context, find *store.FindScheduleBlock) ([]*store.ScheduleBlock, error) {
	if d.failBlocks {
		return nil, fmt.Errorf("schedule table unavailable")
	}
	return d.MemoryDriver.ListScheduleBlocks(ctx, find)
}

func (d *faultyDriver) ListMedications(ctx context.Context, find *store.FindMedication) ([]*store.Medication, error) {
	if d.failMedications {
		return nil, fmt.Errorf("medication table unavailable")
	}
	return d.MemoryDriver.ListMedications(ctx, find)
}

func TestSnapshotDegradesFailedSlices(t *testing.T) {
	driver := &faultyDriver{MemoryDriver: storetest.NewMemoryDriver()}
	st := store.New(driver, &profile.Profile{Mode: "dev"})
	t.Cleanup(func() { _ = st.Close() })
	a := New(st, nil)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, &store.User{UID: "user-1", Nickname: "Sam", Timezone: "UTC"})
	require.NoError(t, err)
	_, err = st.CreateMedication(ctx, &store.Medication{UID: "med-1", CreatorID: user.ID, Name: "Ibuprofen"})
	require.NoError(t, err)
	_, err = st.CreateTask(ctx, &store.Task{UID: "task-1", CreatorID: user.ID, Title: "Laundry", Type: store.TaskTypeTask})
	require.NoError(t, err)

	driver.failBlocks = true
	driver.failMedications = true

	// Failing secondary reads degrade to empty slices; healthy ones survive.
	bundle, err := a.Snapshot(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Empty(t, bundle.Medications)
	require.Empty(t, bundle.UpcomingEvents)
	require.Empty(t, bundle.RecentEvents)
	require.Len(t, bundle.OpenTasks, 1)
	require.Equal(t, user.ID, bundle.User.ID)
}

func TestSnapshotUserLookupErrorIsFatal(t *testing.T) {
	driver := &faultyDriver{MemoryDriver: storetest.NewMemoryDriver(), failUsers: true}
	st := store.New(driver, &profile.Profile{Mode: "dev"})
	t.Cleanup(func() { _ = st.Close() })
	a := New(st, nil)

	_, err := a.Snapshot(context.Background(), 1, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "user table unavailable")
}

func TestSnapshotUnknownUserIsFatal(t *testing.T) {
	a, _ := newTestAggregator(t)

	_, err := a.Snapshot(context.Background(), 999, 0)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSnapshotEmptyUser(t *testing.T) {
	a, st := newTestAggregator(t)
	user := seedUser(t, st)

	bundle, err := a.Snapshot(context.Background(), user.ID, 0)
	require.NoError(t, err)
	require.Equal(t, user.ID, bundle.User.ID)
	require.Nil(t, bundle.Onboarding)
	require.Empty(t, bundle.UpcomingEvents)
	require.Empty(t, bundle.OpenTasks)
	require.Empty(t, bundle.History)
	require.False(t, bundle.GeneratedAt.IsZero())
}

func TestSnapshotScheduleWindows(t *testing.T) {
	a, st := newTestAggregator(t)
	user := seedUser(t, st)
	ctx := context.Background()
	now := time.Now()

	mk := func(uid string, start time.Time) {
		_, err := st.CreateScheduleBlock(ctx, &store.ScheduleBlock{
			UID:       uid,
			CreatorID: user.ID,
			Title:     uid,
			Category:  store.BlockCategoryLife,
			StartTs:   start.Unix(),
			EndTs:     start.Add(time.Hour).Unix(),
		})
		require.NoError(t, err)
	}

	mk("tomorrow", now.Add(24*time.Hour))
	mk("in-three-weeks", now.Add(21*24*time.Hour))
	mk("yesterday", now.Add(-24*time.Hour))
	mk("last-month", now.Add(-30*24*time.Hour))

	bundle, err := a.Snapshot(ctx, user.ID, 0)
	require.NoError(t, err)

	require.Len(t, bundle.UpcomingEvents, 1)
	require.Equal(t, "tomorrow", bundle.UpcomingEvents[0].Title)
	require.Len(t, bundle.RecentEvents, 1)
	require.Equal(t, "yesterday", bundle.RecentEvents[0].Title)
}

func TestSnapshotOpenTasksOrderAndCap(t *testing.T) {
	a, st := newTestAggregator(t)
	user := seedUser(t, st)
	ctx := context.Background()

	soon := time.Now().Add(time.Hour).Unix()
	later := time.Now().Add(48 * time.Hour).Unix()

	_, err := st.CreateTask(ctx, &store.Task{UID: "no-due", CreatorID: user.ID, Title: "no due", Type: store.TaskTypeTask})
	require.NoError(t, err)
	_, err = st.CreateTask(ctx, &store.Task{UID: "later", CreatorID: user.ID, Title: "later", Type: store.TaskTypeTask, DueTs: &later})
	require.NoError(t, err)
	_, err = st.CreateTask(ctx, &store.Task{UID: "soon", CreatorID: user.ID, Title: "soon", Type: store.TaskTypeTask, DueTs: &soon})
	require.NoError(t, err)

	done, err := st.CreateTask(ctx, &store.Task{UID: "done", CreatorID: user.ID, Title: "done", Type: store.TaskTypeTask})
	require.NoError(t, err)
	isDone := true
	require.NoError(t, st.UpdateTask(ctx, &store.UpdateTask{ID: done.ID, Done: &isDone}))

	bundle, err := a.Snapshot(ctx, user.ID, 0)
	require.NoError(t, err)

	require.Len(t, bundle.OpenTasks, 3)
	require.Equal(t, "soon", bundle.OpenTasks[0].Title)
	require.Equal(t, "later", bundle.OpenTasks[1].Title)
	require.Equal(t, "no due", bundle.OpenTasks[2].Title)
}

func TestSnapshotOpenTasksNeverExceedCap(t *testing.T) {
	a, st := newTestAggregator(t)
	user := seedUser(t, st)
	ctx := context.Background()

	base := time.Now().Add(time.Hour).Unix()
	for i := 0; i < MaxOpenTasks+15; i++ {
		// Later-created tasks get earlier due dates, so the cap must keep
		// the soonest-due tasks rather than the first-inserted ones.
		due := base + int64(MaxOpenTasks+15-i)*60
		_, err := st.CreateTask(ctx, &store.Task{
			UID:       fmt.Sprintf("task-%02d", i),
			CreatorID: user.ID,
			Title:     fmt.Sprintf("task-%02d", i),
			Type:      store.TaskTypeTask,
			DueTs:     &due,
		})
		require.NoError(t, err)
	}

	bundle, err := a.Snapshot(ctx, user.ID, 0)
	require.NoError(t, err)

	require.Len(t, bundle.OpenTasks, MaxOpenTasks)
	for i := 1; i < len(bundle.OpenTasks); i++ {
		require.LessOrEqual(t, *bundle.OpenTasks[i-1].DueTs, *bundle.OpenTasks[i].DueTs)
	}
	// The last-created task has the soonest due date and must survive the cap.
	require.Equal(t, fmt.Sprintf("task-%02d", MaxOpenTasks+14), bundle.OpenTasks[0].Title)
}

func TestSnapshotHistoryAndConversations(t *testing.T) {
	a, st := newTestAggregator(t)
	user := seedUser(t, st)
	ctx := context.Background()

	conversation, err := st.CreateConversation(ctx, &store.Conversation{
		UID: "conv-1", CreatorID: user.ID, Kind: store.ConversationKindPrivate,
	})
	require.NoError(t, err)

	for i := 0; i < MaxMessagesPerConversation+5; i++ {
		role := store.MessageRoleUser
		if i%2 == 1 {
			role = store.MessageRoleAssistant
		}
		_, err := st.CreateMessage(ctx, &store.Message{
			UID:            fmt.Sprintf("msg-%d", i),
			ConversationID: conversation.ID,
			Role:           role,
			Content:        fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	bundle, err := a.Snapshot(ctx, user.ID, conversation.ID)
	require.NoError(t, err)

	// Full history for the active conversation.
	require.Len(t, bundle.History, MaxMessagesPerConversation+5)
	require.Equal(t, "message 0", bundle.History[0].Content)

	// Recent conversations trimmed to the newest messages, re-ordered
	// chronologically.
	require.Len(t, bundle.RecentConversations, 1)
	slice := bundle.RecentConversations[0]
	require.Len(t, slice.Messages, MaxMessagesPerConversation)
	require.Equal(t, "message 5", slice.Messages[0].Content)
	require.Equal(t, "message 14", slice.Messages[len(slice.Messages)-1].Content)
}

func TestSnapshotHubsAndGroups(t *testing.T) {
	a, st := newTestAggregator(t)
	user := seedUser(t, st)
	ctx := context.Background()

	_, err := st.CreateHub(ctx, &store.Hub{UID: "hub-bio", CreatorID: user.ID, Kind: store.HubKindClass, Name: "Biology"})
	require.NoError(t, err)
	_, err = st.CreateHub(ctx, &store.Hub{UID: "hub-run", CreatorID: user.ID, Kind: store.HubKindWorkout, Name: "5k plan"})
	require.NoError(t, err)

	group, err := st.CreateGroup(ctx, &store.Group{UID: "grp-1", Name: "Roommates"})
	require.NoError(t, err)
	require.NoError(t, st.UpsertGroupMember(ctx, &store.GroupMember{GroupID: group.ID, UserID: user.ID, Role: "MEMBER"}))

	bundle, err := a.Snapshot(ctx, user.ID, 0)
	require.NoError(t, err)

	require.Len(t, bundle.ClassHubs, 1)
	require.Equal(t, "Biology", bundle.ClassHubs[0].Name)
	require.Len(t, bundle.WorkoutHubs, 1)
	require.Len(t, bundle.Groups, 1)
	require.Equal(t, "Roommates", bundle.Groups[0].Name)
}

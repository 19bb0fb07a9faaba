package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/plugin/assistant/aggregate"
	"github.com/daykeep/daykeep/store"
)

func baseBundle() *aggregate.ContextBundle {
	return &aggregate.ContextBundle{
		User:        &store.User{ID: 1, Nickname: "Sam", Timezone: "UTC"},
		GeneratedAt: time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderDeterministic(t *testing.T) {
	bundle := baseBundle()
	due := time.Date(2026, 9, 8, 17, 0, 0, 0, time.UTC).Unix()
	bundle.OpenTasks = []*store.Task{
		{ID: 1, Title: "Essay draft", Type: store.TaskTypeAssignment, DueTs: &due},
	}

	first, _ := Render(bundle)
	second, _ := Render(bundle)
	require.Equal(t, first, second)
}

func TestRenderHeaderBasics(t *testing.T) {
	header, history := Render(baseBundle())

	require.Contains(t, header, "You are assisting Sam.")
	require.Contains(t, header, "Monday, September 7, 2026 at 09:30")
	require.Contains(t, header, "never claim a change happened without calling the tool")
	require.Empty(t, history)

	// Empty sections are elided, not rendered as empty headers.
	require.NotContains(t, header, "Upcoming schedule")
	require.NotContains(t, header, "Open tasks")
	require.NotContains(t, header, "Medications")
	require.NotContains(t, header, "About the user")
}

func TestRenderFallsBackWithoutNickname(t *testing.T) {
	bundle := baseBundle()
	bundle.User.Nickname = ""

	header, _ := Render(bundle)
	require.Contains(t, header, "You are assisting there.")
}

func TestRenderUserTimezone(t *testing.T) {
	bundle := baseBundle()
	bundle.User.Timezone = "America/New_York"

	header, _ := Render(bundle)
	// 09:30 UTC is 05:30 in New York during DST.
	require.Contains(t, header, "at 05:30")
}

func TestRenderProfileSection(t *testing.T) {
	bundle := baseBundle()
	bundle.Onboarding = &store.Onboarding{UserID: 1, Profile: "- Occupation: student"}

	header, _ := Render(bundle)
	require.Contains(t, header, "About the user:")
	require.Contains(t, header, "- Occupation: student")
}

func TestRenderScheduleWindow(t *testing.T) {
	bundle := baseBundle()
	now := bundle.GeneratedAt

	within := now.Add(2 * 24 * time.Hour)
	beyond := now.Add(10 * 24 * time.Hour)
	bundle.UpcomingEvents = []*store.ScheduleBlock{
		{ID: 1, Title: "Biology lecture", Category: store.BlockCategoryClass,
			StartTs: within.Unix(), EndTs: within.Add(time.Hour).Unix(), Location: "Hall B"},
		{ID: 2, Title: "Dentist", Category: store.BlockCategoryHealth,
			StartTs: beyond.Unix(), EndTs: beyond.Add(time.Hour).Unix()},
	}

	header, _ := Render(bundle)
	require.Contains(t, header, "Upcoming schedule (next 7 days):")
	require.Contains(t, header, "Biology lecture")
	require.Contains(t, header, "at Hall B")
	// The snapshot carries a wider window than the prompt shows.
	require.NotContains(t, header, "Dentist")
}

func TestRenderTaskDisplayCap(t *testing.T) {
	bundle := baseBundle()
	for i := 0; i < MaxPromptTasks+5; i++ {
		bundle.OpenTasks = append(bundle.OpenTasks, &store.Task{
			ID: int32(i + 1), Title: fmt.Sprintf("task-%02d", i), Type: store.TaskTypeTask,
		})
	}

	header, _ := Render(bundle)
	require.Contains(t, header, "task-00")
	require.Contains(t, header, fmt.Sprintf("task-%02d", MaxPromptTasks-1))
	require.NotContains(t, header, fmt.Sprintf("task-%02d", MaxPromptTasks))
}

func TestRenderTaskLineDetail(t *testing.T) {
	bundle := baseBundle()
	due := time.Date(2026, 9, 8, 17, 0, 0, 0, time.UTC).Unix()
	priority := store.TaskPriorityHigh
	bundle.OpenTasks = []*store.Task{
		{ID: 3, Title: "Essay draft", Type: store.TaskTypeAssignment, DueTs: &due, Priority: &priority},
		{ID: 4, Title: "Plain task", Type: store.TaskTypeTask},
	}

	header, _ := Render(bundle)
	require.Contains(t, header, "- [3] Essay draft (assignment), due Tue Sep 8 17:00, high priority")
	require.Contains(t, header, "- [4] Plain task\n")
}

func TestRenderMedications(t *testing.T) {
	bundle := baseBundle()
	bundle.Medications = []*store.Medication{
		{ID: 1, Name: "Ibuprofen", Dosage: "200mg", Times: "08:00,20:00"},
	}

	header, _ := Render(bundle)
	require.Contains(t, header, "Medications:")
	require.Contains(t, header, "- Ibuprofen 200mg at 08:00,20:00")
}

func TestRenderHistoryRoles(t *testing.T) {
	bundle := baseBundle()
	bundle.History = []*store.Message{
		{ID: 1, Role: store.MessageRoleUser, Content: "hi"},
		{ID: 2, Role: store.MessageRoleAssistant, Content: "hello"},
	}

	_, history := Render(bundle)
	require.Len(t, history, 2)
	require.Equal(t, ChatMessage{Role: "user", Content: "hi"}, history[0])
	require.Equal(t, ChatMessage{Role: "assistant", Content: "hello"}, history[1])
}

func TestRenderNoStrayEmptyLines(t *testing.T) {
	header, _ := Render(baseBundle())
	require.False(t, strings.Contains(header, "\n\n\n"))
}

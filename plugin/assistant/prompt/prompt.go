package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/daykeep/daykeep/plugin/assistant/aggregate"
	"github.com/daykeep/daykeep/store"
)

// MaxPromptTasks is the display cap for the tasks section. The snapshot may
// hold more; the prompt never does.
const MaxPromptTasks = 10

// ScheduleWindow bounds the schedule section. The snapshot carries a wider
// window; the prompt shows only the coming week.
const ScheduleWindow = 7 * 24 * time.Hour

// ChatMessage is one history entry for the model call.
type ChatMessage struct {
	Role    string
	Content string
}

const directives = `You are a personal life-management assistant. Help the user manage their schedule, tasks, reminders, and notes.
Use the available tools to make changes the user asks for; never claim a change happened without calling the tool.
Be concise and concrete. When a tool call fails, explain the failure plainly and suggest what to try instead.`

// Render converts a snapshot to the model input: a deterministic header and
// the chronological history of the current conversation. Same snapshot, same
// output. Empty sections are omitted entirely.
func Render(bundle *aggregate.ContextBundle) (string, []ChatMessage) {
	var b strings.Builder

	name := bundle.User.Nickname
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "You are assisting %s.\n", name)

	loc := time.UTC
	if bundle.User.Timezone != "" {
		if parsed, err := time.LoadLocation(bundle.User.Timezone); err == nil {
			loc = parsed
		}
	}
	fmt.Fprintf(&b, "Current time: %s\n", bundle.GeneratedAt.In(loc).Format("Monday, January 2, 2006 at 15:04"))

	b.WriteString("\n")
	b.WriteString(directives)
	b.WriteString("\n")

	if bundle.Onboarding != nil && bundle.Onboarding.Profile != "" {
		b.WriteString("\nAbout the user:\n")
		b.WriteString(bundle.Onboarding.Profile)
		b.WriteString("\n")
	}

	if blocks := scheduleWithin(bundle.UpcomingEvents, bundle.GeneratedAt); len(blocks) > 0 {
		b.WriteString("\nUpcoming schedule (next 7 days):\n")
		for _, block := range blocks {
			writeBlockLine(&b, block, loc)
		}
	}

	if len(bundle.OpenTasks) > 0 {
		b.WriteString("\nOpen tasks:\n")
		tasks := bundle.OpenTasks
		if len(tasks) > MaxPromptTasks {
			tasks = tasks[:MaxPromptTasks]
		}
		for _, task := range tasks {
			writeTaskLine(&b, task, loc)
		}
	}

	if len(bundle.Medications) > 0 {
		b.WriteString("\nMedications:\n")
		for _, medication := range bundle.Medications {
			writeMedicationLine(&b, medication)
		}
	}

	history := make([]ChatMessage, 0, len(bundle.History))
	for _, message := range bundle.History {
		history = append(history, ChatMessage{
			Role:    roleName(message.Role),
			Content: message.Content,
		})
	}

	return b.String(), history
}

// scheduleWithin trims the upcoming events to the prompt's window. Input is
// already sorted by start timestamp.
func scheduleWithin(blocks []*store.ScheduleBlock, now time.Time) []*store.ScheduleBlock {
	cutoff := now.Add(ScheduleWindow).Unix()
	out := make([]*store.ScheduleBlock, 0, len(blocks))
	for _, block := range blocks {
		if block.StartTs <= cutoff {
			out = append(out, block)
		}
	}
	return out
}

func writeBlockLine(b *strings.Builder, block *store.ScheduleBlock, loc *time.Location) {
	fmt.Fprintf(b, "- [%d] %s (%s) %s to %s",
		block.ID,
		block.Title,
		strings.ToLower(string(block.Category)),
		block.StartTime().In(loc).Format("Mon Jan 2 15:04"),
		block.EndTime().In(loc).Format("15:04"))
	if block.Location != "" {
		fmt.Fprintf(b, " at %s", block.Location)
	}
	b.WriteString("\n")
}

func writeTaskLine(b *strings.Builder, task *store.Task, loc *time.Location) {
	fmt.Fprintf(b, "- [%d] %s", task.ID, task.Title)
	if task.Type != store.TaskTypeTask {
		fmt.Fprintf(b, " (%s)", strings.ToLower(string(task.Type)))
	}
	if task.DueTs != nil {
		fmt.Fprintf(b, ", due %s", time.Unix(*task.DueTs, 0).In(loc).Format("Mon Jan 2 15:04"))
	}
	if task.Priority != nil {
		fmt.Fprintf(b, ", %s priority", strings.ToLower(string(*task.Priority)))
	}
	b.WriteString("\n")
}

func writeMedicationLine(b *strings.Builder, medication *store.Medication) {
	fmt.Fprintf(b, "- %s", medication.Name)
	if medication.Dosage != "" {
		fmt.Fprintf(b, " %s", medication.Dosage)
	}
	if medication.Times != "" {
		fmt.Fprintf(b, " at %s", medication.Times)
	}
	b.WriteString("\n")
}

func roleName(role store.MessageRole) string {
	if role == store.MessageRoleAssistant {
		return "assistant"
	}
	return "user"
}

package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/daykeep/daykeep/store"
)

// Caps and windows for the context bundle. All list fields are bounded so a
// heavy user cannot blow the prompt budget.
const (
	UpcomingWindow             = 14 * 24 * time.Hour
	RecentLookback             = 7 * 24 * time.Hour
	MaxOpenTasks               = 50
	MaxNotes                   = 20
	MaxFiles                   = 20
	MaxConversations           = 5
	MaxMessagesPerConversation = 10
)

// ConversationSlice is one recent conversation with its trailing messages
// re-ordered chronologically.
type ConversationSlice struct {
	Conversation *store.Conversation
	Messages     []*store.Message
}

// ContextBundle is the immutable snapshot assembled before each model turn.
// Every field shares the same temporal cutoff, GeneratedAt.
type ContextBundle struct {
	User                *store.User
	Onboarding          *store.Onboarding
	UpcomingEvents      []*store.ScheduleBlock
	RecentEvents        []*store.ScheduleBlock
	OpenTasks           []*store.Task
	RecentNotes         []*store.Note
	RecentFiles         []*store.File
	ClassHubs           []*store.Hub
	WorkoutHubs         []*store.Hub
	RecentConversations []ConversationSlice
	Medications         []*store.Medication
	Reminders           []*store.Reminder
	Groups              []*store.Group
	History             []*store.Message
	GeneratedAt         time.Time
}

// Aggregator assembles context bundles by fanning out bounded reads.
type Aggregator struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates an aggregator bound to the given store.
func New(st *store.Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: st, logger: logger}
}

// Snapshot assembles the context bundle for one user and conversation. The
// user lookup is fatal; every other slice degrades to empty on failure so a
// flaky secondary read never aborts the turn. conversationID may be zero for
// a turn that has no conversation yet.
func (a *Aggregator) Snapshot(ctx context.Context, userID int32, conversationID int32) (*ContextBundle, error) {
	now := time.Now()

	user, err := a.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, store.ErrUserNotFound
	}

	bundle := &ContextBundle{User: user, GeneratedAt: now}
	normal := store.Normal

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		onboarding, err := a.store.GetOnboarding(gctx, &store.FindOnboarding{UserID: userID})
		if err != nil {
			a.warn("onboarding", userID, err)
			return nil
		}
		bundle.Onboarding = onboarding
		return nil
	})

	g.Go(func() error {
		after := now.Unix()
		before := now.Add(UpcomingWindow).Unix()
		blocks, err := a.store.ListScheduleBlocks(gctx, &store.FindScheduleBlock{
			CreatorID:     &userID,
			RowStatus:     &normal,
			StartTsAfter:  &after,
			StartTsBefore: &before,
		})
		if err != nil {
			a.warn("upcoming events", userID, err)
			return nil
		}
		bundle.UpcomingEvents = blocks
		return nil
	})

	g.Go(func() error {
		after := now.Add(-RecentLookback).Unix()
		before := now.Unix()
		blocks, err := a.store.ListScheduleBlocks(gctx, &store.FindScheduleBlock{
			CreatorID:     &userID,
			RowStatus:     &normal,
			StartTsAfter:  &after,
			StartTsBefore: &before,
		})
		if err != nil {
			a.warn("recent events", userID, err)
			return nil
		}
		bundle.RecentEvents = blocks
		return nil
	})

	g.Go(func() error {
		done := false
		limit := MaxOpenTasks
		tasks, err := a.store.ListTasks(gctx, &store.FindTask{
			CreatorID:  &userID,
			RowStatus:  &normal,
			Done:       &done,
			OrderByDue: true,
			Limit:      &limit,
		})
		if err != nil {
			a.warn("open tasks", userID, err)
			return nil
		}
		bundle.OpenTasks = tasks
		return nil
	})

	g.Go(func() error {
		limit := MaxNotes
		notes, err := a.store.ListNotes(gctx, &store.FindNote{
			CreatorID: &userID,
			RowStatus: &normal,
			Limit:     &limit,
		})
		if err != nil {
			a.warn("notes", userID, err)
			return nil
		}
		bundle.RecentNotes = notes
		return nil
	})

	g.Go(func() error {
		limit := MaxFiles
		files, err := a.store.ListFiles(gctx, &store.FindFile{
			CreatorID: &userID,
			Limit:     &limit,
		})
		if err != nil {
			a.warn("files", userID, err)
			return nil
		}
		bundle.RecentFiles = files
		return nil
	})

	g.Go(func() error {
		classKind := store.HubKindClass
		hubs, err := a.store.ListHubs(gctx, &store.FindHub{CreatorID: &userID, Kind: &classKind})
		if err != nil {
			a.warn("class hubs", userID, err)
			return nil
		}
		bundle.ClassHubs = hubs
		return nil
	})

	g.Go(func() error {
		workoutKind := store.HubKindWorkout
		hubs, err := a.store.ListHubs(gctx, &store.FindHub{CreatorID: &userID, Kind: &workoutKind})
		if err != nil {
			a.warn("workout hubs", userID, err)
			return nil
		}
		bundle.WorkoutHubs = hubs
		return nil
	})

	g.Go(func() error {
		slices, err := a.recentConversations(gctx, userID)
		if err != nil {
			a.warn("conversations", userID, err)
			return nil
		}
		bundle.RecentConversations = slices
		return nil
	})

	g.Go(func() error {
		medications, err := a.store.ListMedications(gctx, &store.FindMedication{
			CreatorID: &userID,
			RowStatus: &normal,
		})
		if err != nil {
			a.warn("medications", userID, err)
			return nil
		}
		bundle.Medications = medications
		return nil
	})

	g.Go(func() error {
		enabled := true
		reminders, err := a.store.ListReminders(gctx, &store.FindReminder{
			CreatorID: &userID,
			Enabled:   &enabled,
		})
		if err != nil {
			a.warn("reminders", userID, err)
			return nil
		}
		bundle.Reminders = reminders
		return nil
	})

	g.Go(func() error {
		groups, err := a.store.ListGroups(gctx, &store.FindGroup{MemberID: &userID})
		if err != nil {
			a.warn("groups", userID, err)
			return nil
		}
		bundle.Groups = groups
		return nil
	})

	if conversationID != 0 {
		g.Go(func() error {
			history, err := a.store.ListMessages(gctx, &store.FindMessage{ConversationID: &conversationID})
			if err != nil {
				a.warn("history", userID, err)
				return nil
			}
			bundle.History = history
			return nil
		})
	}

	// Sub-queries swallow their own failures, so the only error here is a
	// canceled context.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return bundle, nil
}

// recentConversations loads the user's latest conversations, each trimmed to
// its most recent messages re-ordered chronologically.
func (a *Aggregator) recentConversations(ctx context.Context, userID int32) ([]ConversationSlice, error) {
	limit := MaxConversations
	normal := store.Normal
	conversations, err := a.store.ListConversations(ctx, &store.FindConversation{
		CreatorID: &userID,
		RowStatus: &normal,
		Limit:     &limit,
	})
	if err != nil {
		return nil, err
	}

	slices := make([]ConversationSlice, 0, len(conversations))
	for _, conversation := range conversations {
		messageLimit := MaxMessagesPerConversation
		messages, err := a.store.ListMessages(ctx, &store.FindMessage{
			ConversationID: &conversation.ID,
			Limit:          &messageLimit,
			Descending:     true,
		})
		if err != nil {
			return nil, err
		}
		sort.Slice(messages, func(i, j int) bool {
			if messages[i].CreatedTs != messages[j].CreatedTs {
				return messages[i].CreatedTs < messages[j].CreatedTs
			}
			return messages[i].ID < messages[j].ID
		})
		slices = append(slices, ConversationSlice{Conversation: conversation, Messages: messages})
	}
	return slices, nil
}

func (a *Aggregator) warn(slice string, userID int32, err error) {
	a.logger.Warn("context slice degraded to empty",
		"slice", slice,
		"user_id", userID,
		"error", err)
}

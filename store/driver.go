package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Onboarding model related methods.
	UpsertOnboarding(ctx context.Context, upsert *Onboarding) (*Onboarding, error)
	GetOnboarding(ctx context.Context, find *FindOnboarding) (*Onboarding, error)

	// ScheduleBlock model related methods.
	CreateScheduleBlock(ctx context.Context, create *ScheduleBlock) (*ScheduleBlock, error)
	ListScheduleBlocks(ctx context.Context, find *FindScheduleBlock) ([]*ScheduleBlock, error)
	UpdateScheduleBlock(ctx context.Context, update *UpdateScheduleBlock) error
	DeleteScheduleBlock(ctx context.Context, delete *DeleteScheduleBlock) error

	// Task model related methods.
	CreateTask(ctx context.Context, create *Task) (*Task, error)
	ListTasks(ctx context.Context, find *FindTask) ([]*Task, error)
	UpdateTask(ctx context.Context, update *UpdateTask) error
	DeleteTask(ctx context.Context, delete *DeleteTask) error

	// Reminder model related methods.
	CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error)
	ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error)
	UpdateReminder(ctx context.Context, update *UpdateReminder) error
	DeleteReminder(ctx context.Context, delete *DeleteReminder) error

	// Medication model related methods.
	CreateMedication(ctx context.Context, create *Medication) (*Medication, error)
	ListMedications(ctx context.Context, find *FindMedication) ([]*Medication, error)
	UpdateMedication(ctx context.Context, update *UpdateMedication) error
	DeleteMedication(ctx context.Context, delete *DeleteMedication) error

	// Note and File model related methods.
	CreateNote(ctx context.Context, create *Note) (*Note, error)
	ListNotes(ctx context.Context, find *FindNote) ([]*Note, error)
	UpdateNote(ctx context.Context, update *UpdateNote) error
	DeleteNote(ctx context.Context, delete *DeleteNote) error
	ListFiles(ctx context.Context, find *FindFile) ([]*File, error)
	DeleteFile(ctx context.Context, delete *DeleteFile) error

	// Group model related methods.
	CreateGroup(ctx context.Context, create *Group) (*Group, error)
	ListGroups(ctx context.Context, find *FindGroup) ([]*Group, error)
	UpsertGroupMember(ctx context.Context, upsert *GroupMember) error
	IsGroupMember(ctx context.Context, groupID, userID int32) (bool, error)

	// Hub model related methods.
	CreateHub(ctx context.Context, create *Hub) (*Hub, error)
	ListHubs(ctx context.Context, find *FindHub) ([]*Hub, error)

	// Conversation and Message model related methods.
	CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error)
	ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error)
	UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error)
	DeleteConversation(ctx context.Context, delete *DeleteConversation) error
	CreateMessage(ctx context.Context, create *Message) (*Message, error)
	ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error)

	// Activity model related methods.
	CreateActivity(ctx context.Context, create *Activity) (*Activity, error)
	ListActivities(ctx context.Context, find *FindActivity) ([]*Activity, error)
}

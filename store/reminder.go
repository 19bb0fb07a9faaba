package store

import "context"

// ReminderRecurrence is the recurrence schedule of a reminder.
type ReminderRecurrence string

const (
	ReminderOnce     ReminderRecurrence = "ONCE"
	ReminderDaily    ReminderRecurrence = "DAILY"
	ReminderWeekdays ReminderRecurrence = "WEEKDAYS"
	ReminderCustom   ReminderRecurrence = "CUSTOM"
)

// IsValidReminderRecurrence reports whether the value is a known recurrence.
func IsValidReminderRecurrence(v string) bool {
	switch ReminderRecurrence(v) {
	case ReminderOnce, ReminderDaily, ReminderWeekdays, ReminderCustom:
		return true
	}
	return false
}

// Reminder is a standing notification intent. It carries no foreign keys to
// other entities.
type Reminder struct {
	ID         int32
	UID        string
	CreatorID  int32
	CreatedTs  int64
	UpdatedTs  int64
	Title      string
	Enabled    bool
	Recurrence ReminderRecurrence
	TimeOfDay  *string // "HH:MM", 24h
	Date       *string // "2006-01-02", only for ONCE
	Weekdays   *string // comma-separated MON..SUN, only for CUSTOM
}

// FindReminder is the find condition for reminder.
type FindReminder struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Enabled   *bool
}

// UpdateReminder is the patch request for reminder.
type UpdateReminder struct {
	ID         int32
	UpdatedTs  *int64
	Title      *string
	Enabled    *bool
	Recurrence *ReminderRecurrence
	TimeOfDay  *string
	Date       *string
	Weekdays   *string
}

// DeleteReminder is the delete request for reminder.
type DeleteReminder struct {
	ID int32
}

func (s *Store) CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error) {
	return s.driver.CreateReminder(ctx, create)
}

func (s *Store) ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error) {
	return s.driver.ListReminders(ctx, find)
}

// GetReminder gets a single reminder, or nil if none matches.
func (s *Store) GetReminder(ctx context.Context, find *FindReminder) (*Reminder, error) {
	list, err := s.driver.ListReminders(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateReminder(ctx context.Context, update *UpdateReminder) error {
	return s.driver.UpdateReminder(ctx, update)
}

func (s *Store) DeleteReminder(ctx context.Context, delete *DeleteReminder) error {
	return s.driver.DeleteReminder(ctx, delete)
}

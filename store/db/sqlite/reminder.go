package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}

	fields := []string{
		"uid", "creator_id", "created_ts", "updated_ts",
		"title", "enabled", "recurrence", "time_of_day", "date", "weekdays",
	}
	args := []any{
		create.UID, create.CreatorID, create.CreatedTs, create.UpdatedTs,
		create.Title, create.Enabled, create.Recurrence, create.TimeOfDay, create.Date, create.Weekdays,
	}

	stmt := `INSERT INTO reminder (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return create, nil
}

func (d *DB) ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Enabled; v != nil {
		where, args = append(where, "enabled = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, updated_ts,
			title, enabled, recurrence, time_of_day, date, weekdays
		FROM reminder
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Reminder, 0)
	for rows.Next() {
		var reminder store.Reminder
		var timeOfDay, date, weekdays sql.NullString
		if err := rows.Scan(
			&reminder.ID,
			&reminder.UID,
			&reminder.CreatorID,
			&reminder.CreatedTs,
			&reminder.UpdatedTs,
			&reminder.Title,
			&reminder.Enabled,
			&reminder.Recurrence,
			&timeOfDay,
			&date,
			&weekdays,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		if timeOfDay.Valid {
			reminder.TimeOfDay = &timeOfDay.String
		}
		if date.Valid {
			reminder.Date = &date.String
		}
		if weekdays.Valid {
			reminder.Weekdays = &weekdays.String
		}
		list = append(list, &reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateReminder(ctx context.Context, update *store.UpdateReminder) error {
	set, args := []string{}, []any{}

	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Enabled; v != nil {
		set, args = append(set, "enabled = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Recurrence; v != nil {
		set, args = append(set, "recurrence = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.TimeOfDay; v != nil {
		set, args = append(set, "time_of_day = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Date; v != nil {
		set, args = append(set, "date = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Weekdays; v != nil {
		set, args = append(set, "weekdays = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	ts := nowTs()
	if update.UpdatedTs != nil {
		ts = *update.UpdatedTs
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, ts)

	args = append(args, update.ID)
	stmt := `UPDATE reminder SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	return nil
}

func (d *DB) DeleteReminder(ctx context.Context, delete *store.DeleteReminder) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM reminder WHERE id = ?`, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("reminder not found")
	}
	return nil
}

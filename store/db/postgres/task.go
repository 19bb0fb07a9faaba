package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	if create.Type == "" {
		create.Type = store.TaskTypeTask
	}

	fields := []string{
		"uid", "creator_id", "created_ts", "updated_ts",
		"title", "type", "done", "due_ts", "priority", "points", "block_id", "hub_id", "group_id",
	}
	args := []any{
		create.UID, create.CreatorID, create.CreatedTs, create.UpdatedTs,
		create.Title, create.Type, create.Done, create.DueTs, create.Priority, create.Points,
		create.BlockID, create.HubID, create.GroupID,
	}

	stmt := `INSERT INTO task (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, row_status`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.RowStatus); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return create, nil
}

func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
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
	if v := find.RowStatus; v != nil {
		where, args = append(where, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Done; v != nil {
		where, args = append(where, "done = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.BlockID; v != nil {
		where, args = append(where, "block_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.GroupID; v != nil {
		where, args = append(where, "group_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Due-date ordering puts undated tasks last; creation order breaks ties.
	orderBy := "ORDER BY id ASC"
	if find.OrderByDue {
		orderBy = "ORDER BY due_ts ASC NULLS LAST, id ASC"
	}

	query := `
		SELECT id, uid, creator_id, row_status, created_ts, updated_ts,
			title, type, done, due_ts, priority, points, block_id, hub_id, group_id
		FROM task
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderBy
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Task, 0)
	for rows.Next() {
		var task store.Task
		var dueTs sql.NullInt64
		var priority sql.NullString
		var points, blockID, hubID, groupID sql.NullInt32
		if err := rows.Scan(
			&task.ID,
			&task.UID,
			&task.CreatorID,
			&task.RowStatus,
			&task.CreatedTs,
			&task.UpdatedTs,
			&task.Title,
			&task.Type,
			&task.Done,
			&dueTs,
			&priority,
			&points,
			&blockID,
			&hubID,
			&groupID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if dueTs.Valid {
			task.DueTs = &dueTs.Int64
		}
		if priority.Valid {
			p := store.TaskPriority(priority.String)
			task.Priority = &p
		}
		if points.Valid {
			task.Points = &points.Int32
		}
		if blockID.Valid {
			task.BlockID = &blockID.Int32
		}
		if hubID.Valid {
			task.HubID = &hubID.Int32
		}
		if groupID.Valid {
			task.GroupID = &groupID.Int32
		}
		list = append(list, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) error {
	set, args := []string{}, []any{}

	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Type; v != nil {
		set, args = append(set, "type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Done; v != nil {
		set, args = append(set, "done = "+placeholder(len(args)+1)), append(args, *v)
	}
	if update.ClearDue {
		set = append(set, "due_ts = NULL")
	} else if v := update.DueTs; v != nil {
		set, args = append(set, "due_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if update.ClearPriority {
		set = append(set, "priority = NULL")
	} else if v := update.Priority; v != nil {
		set, args = append(set, "priority = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Points; v != nil {
		set, args = append(set, "points = "+placeholder(len(args)+1)), append(args, *v)
	}
	if update.ClearBlock {
		set = append(set, "block_id = NULL")
	} else if v := update.BlockID; v != nil {
		set, args = append(set, "block_id = "+placeholder(len(args)+1)), append(args, *v)
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
	stmt := `UPDATE task SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM task WHERE id = $1`, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

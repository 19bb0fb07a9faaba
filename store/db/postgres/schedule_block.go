package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateScheduleBlock(ctx context.Context, create *store.ScheduleBlock) (*store.ScheduleBlock, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}

	fields := []string{
		"uid", "creator_id", "created_ts", "updated_ts",
		"title", "category", "start_ts", "end_ts", "location", "description", "hub_id",
	}
	args := []any{
		create.UID, create.CreatorID, create.CreatedTs, create.UpdatedTs,
		create.Title, create.Category, create.StartTs, create.EndTs, create.Location, create.Description, create.HubID,
	}

	stmt := `INSERT INTO schedule_block (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, row_status`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.RowStatus); err != nil {
		return nil, fmt.Errorf("failed to create schedule block: %w", err)
	}

	return create, nil
}

func (d *DB) ListScheduleBlocks(ctx context.Context, find *store.FindScheduleBlock) ([]*store.ScheduleBlock, error) {
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
	if v := find.StartTsAfter; v != nil {
		where, args = append(where, "start_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StartTsBefore; v != nil {
		where, args = append(where, "start_ts <= "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, row_status, created_ts, updated_ts,
			title, category, start_ts, end_ts, location, description, hub_id
		FROM schedule_block
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY start_ts ASC, id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule blocks: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ScheduleBlock, 0)
	for rows.Next() {
		var block store.ScheduleBlock
		var hubID sql.NullInt32
		if err := rows.Scan(
			&block.ID,
			&block.UID,
			&block.CreatorID,
			&block.RowStatus,
			&block.CreatedTs,
			&block.UpdatedTs,
			&block.Title,
			&block.Category,
			&block.StartTs,
			&block.EndTs,
			&block.Location,
			&block.Description,
			&hubID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule block: %w", err)
		}
		if hubID.Valid {
			block.HubID = &hubID.Int32
		}
		list = append(list, &block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule blocks: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateScheduleBlock(ctx context.Context, update *store.UpdateScheduleBlock) error {
	set, args := []string{}, []any{}

	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.StartTs; v != nil {
		set, args = append(set, "start_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.EndTs; v != nil {
		set, args = append(set, "end_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "location = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if update.ClearHub {
		set = append(set, "hub_id = NULL")
	} else if v := update.HubID; v != nil {
		set, args = append(set, "hub_id = "+placeholder(len(args)+1)), append(args, *v)
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
	stmt := `UPDATE schedule_block SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update schedule block: %w", err)
	}

	return nil
}

// DeleteScheduleBlock removes the block and everything hanging off it: notes
// (with their shadow files), tasks, files, and activities. All deletes commit
// in one transaction so a partial cascade cannot be observed.
func (d *DB) DeleteScheduleBlock(ctx context.Context, delete *store.DeleteScheduleBlock) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM file WHERE note_id IN (SELECT id FROM note WHERE block_id = $1)`,
		`DELETE FROM note WHERE block_id = $1`,
		`DELETE FROM task WHERE block_id = $1`,
		`DELETE FROM file WHERE block_id = $1`,
		`DELETE FROM activity WHERE block_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, delete.ID); err != nil {
			return fmt.Errorf("failed to cascade schedule block delete: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM schedule_block WHERE id = $1`, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule block: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("schedule block not found")
	}

	return tx.Commit()
}

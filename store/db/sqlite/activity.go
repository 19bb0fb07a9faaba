package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateActivity(ctx context.Context, create *store.Activity) (*store.Activity, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}
	if create.Payload == "" {
		create.Payload = "{}"
	}

	stmt := `INSERT INTO activity (creator_id, created_ts, type, payload, block_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.CreatorID, create.CreatedTs, create.Type, create.Payload, create.BlockID,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return create, nil
}

func (d *DB) ListActivities(ctx context.Context, find *store.FindActivity) ([]*store.Activity, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Type; v != nil {
		where, args = append(where, "type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.BlockID; v != nil {
		where, args = append(where, "block_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, creator_id, created_ts, type, payload, block_id
		FROM activity
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Activity, 0)
	for rows.Next() {
		var activity store.Activity
		var blockID sql.NullInt32
		if err := rows.Scan(
			&activity.ID,
			&activity.CreatorID,
			&activity.CreatedTs,
			&activity.Type,
			&activity.Payload,
			&blockID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if blockID.Valid {
			activity.BlockID = &blockID.Int32
		}
		list = append(list, &activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return list, nil
}

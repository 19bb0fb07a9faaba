package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateHub(ctx context.Context, create *store.Hub) (*store.Hub, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}

	stmt := `INSERT INTO hub (uid, creator_id, created_ts, kind, name, description)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.CreatorID, create.CreatedTs, create.Kind, create.Name, create.Description,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create hub: %w", err)
	}

	return create, nil
}

func (d *DB) ListHubs(ctx context.Context, find *store.FindHub) ([]*store.Hub, error) {
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
	if v := find.Kind; v != nil {
		where, args = append(where, "kind = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, kind, name, description
		FROM hub
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name ASC, id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hubs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Hub, 0)
	for rows.Next() {
		var hub store.Hub
		if err := rows.Scan(
			&hub.ID,
			&hub.UID,
			&hub.CreatorID,
			&hub.CreatedTs,
			&hub.Kind,
			&hub.Name,
			&hub.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hub: %w", err)
		}
		list = append(list, &hub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hubs: %w", err)
	}

	return list, nil
}

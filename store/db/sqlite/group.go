package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateGroup(ctx context.Context, create *store.Group) (*store.Group, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}

	stmt := `INSERT INTO "group" (uid, created_ts, name)
		VALUES (?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, create.UID, create.CreatedTs, create.Name).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return create, nil
}

func (d *DB) ListGroups(ctx context.Context, find *store.FindGroup) ([]*store.Group, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, `"group".id = `+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, `"group".uid = `+placeholder(len(args)+1)), append(args, *v)
	}

	from := `"group"`
	if v := find.MemberID; v != nil {
		from = `"group" JOIN group_member ON group_member.group_id = "group".id`
		where, args = append(where, "group_member.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT "group".id, "group".uid, "group".created_ts, "group".name
		FROM ` + from + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY "group".id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Group, 0)
	for rows.Next() {
		var group store.Group
		if err := rows.Scan(&group.ID, &group.UID, &group.CreatedTs, &group.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		list = append(list, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return list, nil
}

func (d *DB) UpsertGroupMember(ctx context.Context, upsert *store.GroupMember) error {
	if upsert.CreatedTs == 0 {
		upsert.CreatedTs = nowTs()
	}
	if upsert.Role == "" {
		upsert.Role = "MEMBER"
	}

	stmt := `INSERT INTO group_member (group_id, user_id, role, created_ts)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(group_id, user_id) DO UPDATE SET role = EXCLUDED.role`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.GroupID, upsert.UserID, upsert.Role, upsert.CreatedTs); err != nil {
		return fmt.Errorf("failed to upsert group member: %w", err)
	}

	return nil
}

func (d *DB) IsGroupMember(ctx context.Context, groupID, userID int32) (bool, error) {
	var count int
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM group_member WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return count > 0, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	if create.Kind == "" {
		create.Kind = store.ConversationKindPrivate
	}
	if create.Title == "" {
		create.Title = store.DefaultConversationTitle
	}

	fields := []string{"uid", "creator_id", "group_id", "kind", "created_ts", "updated_ts", "title"}
	args := []any{create.UID, create.CreatorID, create.GroupID, create.Kind, create.CreatedTs, create.UpdatedTs, create.Title}

	stmt := `INSERT INTO conversation (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, row_status`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.RowStatus); err != nil {
		if isUniqueViolation(err) {
			// A concurrent creator won the partial unique index on group AI
			// chats; the caller re-reads the winner.
			return nil, fmt.Errorf("conversation exists: %w", store.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return create, nil
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
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
	if v := find.GroupID; v != nil {
		where, args = append(where, "group_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Kind; v != nil {
		where, args = append(where, "kind = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Most recently touched first.
	query := `
		SELECT id, uid, creator_id, group_id, kind, row_status, created_ts, updated_ts, title
		FROM conversation
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC, id DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Conversation, 0)
	for rows.Next() {
		var conversation store.Conversation
		var groupID sql.NullInt32
		if err := rows.Scan(
			&conversation.ID,
			&conversation.UID,
			&conversation.CreatorID,
			&groupID,
			&conversation.Kind,
			&conversation.RowStatus,
			&conversation.CreatedTs,
			&conversation.UpdatedTs,
			&conversation.Title,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if groupID.Valid {
			conversation.GroupID = &groupID.Int32
		}
		list = append(list, &conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	set, args := []string{}, []any{}

	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}

	ts := nowTs()
	if update.UpdatedTs != nil {
		ts = *update.UpdatedTs
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, ts)

	args = append(args, update.ID)
	stmt := `UPDATE conversation SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, creator_id, group_id, kind, row_status, created_ts, updated_ts, title`

	var conversation store.Conversation
	var groupID sql.NullInt32
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&conversation.ID,
		&conversation.UID,
		&conversation.CreatorID,
		&groupID,
		&conversation.Kind,
		&conversation.RowStatus,
		&conversation.CreatedTs,
		&conversation.UpdatedTs,
		&conversation.Title,
	); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}
	if groupID.Valid {
		conversation.GroupID = &groupID.Int32
	}

	return &conversation, nil
}

// DeleteConversation removes the conversation and its messages in one
// transaction.
func (d *DB) DeleteConversation(ctx context.Context, delete *store.DeleteConversation) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM message WHERE conversation_id = $1`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete conversation messages: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM conversation WHERE id = $1`, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("conversation not found")
	}

	return tx.Commit()
}

func (d *DB) CreateMessage(ctx context.Context, create *store.Message) (*store.Message, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}

	stmt := `INSERT INTO message (uid, conversation_id, role, content, created_ts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.ConversationID, create.Role, create.Content, create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return create, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ConversationID; v != nil {
		where, args = append(where, "conversation_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	orderBy := "ORDER BY created_ts ASC, id ASC"
	if find.Descending {
		orderBy = "ORDER BY created_ts DESC, id DESC"
	}

	query := `
		SELECT id, uid, conversation_id, role, content, created_ts
		FROM message
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderBy
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Message, 0)
	for rows.Next() {
		var message store.Message
		if err := rows.Scan(
			&message.ID,
			&message.UID,
			&message.ConversationID,
			&message.Role,
			&message.Content,
			&message.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		list = append(list, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return list, nil
}

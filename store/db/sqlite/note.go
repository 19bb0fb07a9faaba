package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

// CreateNote inserts the note and its shadow file row in one transaction so
// the unified file listing never misses a live note.
func (d *DB) CreateNote(ctx context.Context, create *store.Note) (*store.Note, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	fields := []string{
		"uid", "creator_id", "created_ts", "updated_ts",
		"title", "content", "block_id", "group_id",
	}
	args := []any{
		create.UID, create.CreatorID, create.CreatedTs, create.UpdatedTs,
		create.Title, create.Content, create.BlockID, create.GroupID,
	}

	stmt := `INSERT INTO note (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, row_status`
	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.RowStatus); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	fileStmt := `INSERT INTO file (uid, creator_id, created_ts, name, type, note_id, block_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, fileStmt,
		create.UID+"-file", create.CreatorID, create.CreatedTs,
		create.Title, store.FileTypeNote, create.ID, create.BlockID,
	); err != nil {
		return nil, fmt.Errorf("failed to create note file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit note: %w", err)
	}

	return create, nil
}

func (d *DB) ListNotes(ctx context.Context, find *store.FindNote) ([]*store.Note, error) {
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
	if v := find.BlockID; v != nil {
		where, args = append(where, "block_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.GroupID; v != nil {
		where, args = append(where, "group_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, row_status, created_ts, updated_ts,
			title, content, block_id, group_id
		FROM note
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC, id DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Note, 0)
	for rows.Next() {
		var note store.Note
		var blockID, groupID sql.NullInt32
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.CreatorID,
			&note.RowStatus,
			&note.CreatedTs,
			&note.UpdatedTs,
			&note.Title,
			&note.Content,
			&blockID,
			&groupID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if blockID.Valid {
			note.BlockID = &blockID.Int32
		}
		if groupID.Valid {
			note.GroupID = &groupID.Int32
		}
		list = append(list, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateNote(ctx context.Context, update *store.UpdateNote) error {
	set, args := []string{}, []any{}

	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Content; v != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *v)
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
	stmt := `UPDATE note SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	// The shadow file mirrors the note's title.
	if update.Title != nil {
		if _, err := d.db.ExecContext(ctx, `UPDATE file SET name = ? WHERE note_id = ?`, *update.Title, update.ID); err != nil {
			return fmt.Errorf("failed to update note file: %w", err)
		}
	}

	return nil
}

// DeleteNote removes the note and its shadow file in one transaction.
func (d *DB) DeleteNote(ctx context.Context, delete *store.DeleteNote) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM file WHERE note_id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete note file: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM note WHERE id = ?`, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("note not found")
	}

	return tx.Commit()
}

func (d *DB) ListFiles(ctx context.Context, find *store.FindFile) ([]*store.File, error) {
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
	if v := find.NoteID; v != nil {
		where, args = append(where, "note_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.BlockID; v != nil {
		where, args = append(where, "block_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, name, type, note_id, block_id
		FROM file
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	list := make([]*store.File, 0)
	for rows.Next() {
		var file store.File
		var noteID, blockID sql.NullInt32
		if err := rows.Scan(
			&file.ID,
			&file.UID,
			&file.CreatorID,
			&file.CreatedTs,
			&file.Name,
			&file.Type,
			&noteID,
			&blockID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		if noteID.Valid {
			file.NoteID = &noteID.Int32
		}
		if blockID.Valid {
			file.BlockID = &blockID.Int32
		}
		list = append(list, &file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteFile(ctx context.Context, delete *store.DeleteFile) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM file WHERE id = ? AND note_id IS NULL`, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("file not found")
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) CreateMedication(ctx context.Context, create *store.Medication) (*store.Medication, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = nowTs()
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}

	fields := []string{
		"uid", "creator_id", "created_ts", "updated_ts",
		"name", "dosage", "recurrence", "times", "pharmacy", "quantity", "refills", "notes",
	}
	args := []any{
		create.UID, create.CreatorID, create.CreatedTs, create.UpdatedTs,
		create.Name, create.Dosage, create.Recurrence, create.Times, create.Pharmacy,
		create.Quantity, create.Refills, create.Notes,
	}

	stmt := `INSERT INTO medication (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, row_status`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.RowStatus); err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	return create, nil
}

func (d *DB) ListMedications(ctx context.Context, find *store.FindMedication) ([]*store.Medication, error) {
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

	query := `
		SELECT id, uid, creator_id, row_status, created_ts, updated_ts,
			name, dosage, recurrence, times, pharmacy, quantity, refills, notes
		FROM medication
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name ASC, id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Medication, 0)
	for rows.Next() {
		var medication store.Medication
		var quantity, refills sql.NullInt32
		if err := rows.Scan(
			&medication.ID,
			&medication.UID,
			&medication.CreatorID,
			&medication.RowStatus,
			&medication.CreatedTs,
			&medication.UpdatedTs,
			&medication.Name,
			&medication.Dosage,
			&medication.Recurrence,
			&medication.Times,
			&medication.Pharmacy,
			&quantity,
			&refills,
			&medication.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		if quantity.Valid {
			medication.Quantity = &quantity.Int32
		}
		if refills.Valid {
			medication.Refills = &refills.Int32
		}
		list = append(list, &medication)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medications: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateMedication(ctx context.Context, update *store.UpdateMedication) error {
	set, args := []string{}, []any{}

	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Dosage; v != nil {
		set, args = append(set, "dosage = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Recurrence; v != nil {
		set, args = append(set, "recurrence = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Times; v != nil {
		set, args = append(set, "times = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Pharmacy; v != nil {
		set, args = append(set, "pharmacy = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Quantity; v != nil {
		set, args = append(set, "quantity = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Refills; v != nil {
		set, args = append(set, "refills = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Notes; v != nil {
		set, args = append(set, "notes = "+placeholder(len(args)+1)), append(args, *v)
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
	stmt := `UPDATE medication SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}

	return nil
}

func (d *DB) DeleteMedication(ctx context.Context, delete *store.DeleteMedication) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM medication WHERE id = $1`, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("medication not found")
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/store"
)

func (d *DB) UpsertOnboarding(ctx context.Context, upsert *store.Onboarding) (*store.Onboarding, error) {
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = nowTs()
	}

	fields := []string{
		"user_id", "updated_ts",
		"consistency", "motivation", "structure_preference", "free_time_desire",
		"occupation", "traits", "activities", "entertainment", "age_range", "location",
		"profile",
	}
	args := []any{
		upsert.UserID, upsert.UpdatedTs,
		upsert.Consistency, upsert.Motivation, upsert.StructurePreference, upsert.FreeTimeDesire,
		upsert.Occupation, upsert.Traits, upsert.Activities, upsert.Entertainment, upsert.AgeRange, upsert.Location,
		upsert.Profile,
	}

	// Full replacement on conflict: onboarding answers are never patched.
	sets := []string{}
	for _, field := range fields[1:] {
		sets = append(sets, field+" = EXCLUDED."+field)
	}

	stmt := `INSERT INTO onboarding (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT(user_id) DO UPDATE SET ` + strings.Join(sets, ", ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to upsert onboarding: %w", err)
	}

	return upsert, nil
}

func (d *DB) GetOnboarding(ctx context.Context, find *store.FindOnboarding) (*store.Onboarding, error) {
	query := `
		SELECT user_id, updated_ts,
			consistency, motivation, structure_preference, free_time_desire,
			occupation, traits, activities, entertainment, age_range, location,
			profile
		FROM onboarding
		WHERE user_id = $1`

	var onboarding store.Onboarding
	if err := d.db.QueryRowContext(ctx, query, find.UserID).Scan(
		&onboarding.UserID,
		&onboarding.UpdatedTs,
		&onboarding.Consistency,
		&onboarding.Motivation,
		&onboarding.StructurePreference,
		&onboarding.FreeTimeDesire,
		&onboarding.Occupation,
		&onboarding.Traits,
		&onboarding.Activities,
		&onboarding.Entertainment,
		&onboarding.AgeRange,
		&onboarding.Location,
		&onboarding.Profile,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get onboarding: %w", err)
	}

	return &onboarding, nil
}

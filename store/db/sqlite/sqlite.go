package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a SQLite database for the given profile.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// WAL keeps reads concurrent with the single writer; busy_timeout covers
	// the aggregator's fan-out reads racing a tool-call write.
	db, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate applies the schema. Statements are idempotent so startup can run
// them unconditionally.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrationStmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to apply migration: %.60s", stmt)
		}
	}
	return nil
}

var migrationStmts = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		row_status TEXT NOT NULL DEFAULT 'NORMAL',
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL,
		nickname TEXT NOT NULL DEFAULT '',
		timezone TEXT NOT NULL DEFAULT 'UTC'
	)`,
	`CREATE TABLE IF NOT EXISTS onboarding (
		user_id INTEGER PRIMARY KEY,
		updated_ts BIGINT NOT NULL,
		consistency TEXT NOT NULL DEFAULT '',
		motivation TEXT NOT NULL DEFAULT '',
		structure_preference TEXT NOT NULL DEFAULT '',
		free_time_desire TEXT NOT NULL DEFAULT '',
		occupation TEXT NOT NULL DEFAULT '',
		traits TEXT NOT NULL DEFAULT '',
		activities TEXT NOT NULL DEFAULT '',
		entertainment TEXT NOT NULL DEFAULT '',
		age_range TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		profile TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_block (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		row_status TEXT NOT NULL DEFAULT 'NORMAL',
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		start_ts BIGINT NOT NULL,
		end_ts BIGINT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		hub_id INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_block_creator_start ON schedule_block (creator_id, start_ts)`,
	`CREATE TABLE IF NOT EXISTS task (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		row_status TEXT NOT NULL DEFAULT 'NORMAL',
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'TASK',
		done INTEGER NOT NULL DEFAULT 0,
		due_ts BIGINT,
		priority TEXT,
		points INTEGER,
		block_id INTEGER,
		hub_id INTEGER,
		group_id INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_task_creator_done ON task (creator_id, done)`,
	`CREATE TABLE IF NOT EXISTS reminder (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL,
		title TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		recurrence TEXT NOT NULL,
		time_of_day TEXT,
		date TEXT,
		weekdays TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS medication (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		row_status TEXT NOT NULL DEFAULT 'NORMAL',
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL,
		name TEXT NOT NULL,
		dosage TEXT NOT NULL DEFAULT '',
		recurrence TEXT NOT NULL DEFAULT '',
		times TEXT NOT NULL DEFAULT '',
		pharmacy TEXT NOT NULL DEFAULT '',
		quantity INTEGER,
		refills INTEGER,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS note (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		row_status TEXT NOT NULL DEFAULT 'NORMAL',
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		block_id INTEGER,
		group_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS file (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		created_ts BIGINT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		note_id INTEGER,
		block_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS "group" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		created_ts BIGINT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_member (
		group_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		role TEXT NOT NULL DEFAULT 'MEMBER',
		created_ts BIGINT NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS hub (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		created_ts BIGINT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS conversation (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		creator_id INTEGER NOT NULL,
		group_id INTEGER,
		kind TEXT NOT NULL DEFAULT 'PRIVATE',
		row_status TEXT NOT NULL DEFAULT 'NORMAL',
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL,
		title TEXT NOT NULL DEFAULT ''
	)`,
	// One live group AI chat per group. Duplicate-creation races resolve to a
	// single winner; the loser sees a UNIQUE violation and re-reads.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversation_group_ai ON conversation (group_id) WHERE kind = 'GROUP_AI'`,
	`CREATE TABLE IF NOT EXISTS message (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		conversation_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_ts BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_message_conversation ON message (conversation_id, created_ts)`,
	`CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		creator_id INTEGER NOT NULL,
		created_ts BIGINT NOT NULL,
		type TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '{}',
		block_id INTEGER
	)`,
}

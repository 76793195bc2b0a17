package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInit, downInit)
}

func upInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE user_session (
		id INTEGER PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		user_name VARCHAR NOT NULL DEFAULT '',
		avatar_url VARCHAR NOT NULL DEFAULT '',
		logged_in BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE TABLE story_views (
		id SERIAL PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		story_id VARCHAR NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, story_id)
	);
	CREATE INDEX idx_story_views_user_id ON story_views (user_id);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE story_views;
	DROP TABLE user_session;
	`)
	if err != nil {
		return err
	}
	return nil
}

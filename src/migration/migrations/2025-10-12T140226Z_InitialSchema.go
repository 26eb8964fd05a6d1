package migrations

import (
	"context"
	"time"

	"git.blockward.net/bw/blockward/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(InitialSchema{})
}

type InitialSchema struct{}

func (m InitialSchema) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 10, 12, 14, 2, 26, 0, time.UTC))
}

func (m InitialSchema) Name() string {
	return "InitialSchema"
}

func (m InitialSchema) Description() string {
	return "Users, sessions, and posts for the standalone site"
}

func (m InitialSchema) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE bw_user (
			id SERIAL PRIMARY KEY,
			username VARCHAR(150) NOT NULL,
			password VARCHAR(256) NOT NULL,
			email VARCHAR(254) NOT NULL DEFAULT '',
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			bio TEXT NOT NULL DEFAULT '',
			date_joined TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			profile_picture VARCHAR(255)
		);
		CREATE UNIQUE INDEX bw_user_username ON bw_user (LOWER(username));

		CREATE TABLE session (
			id VARCHAR(40) PRIMARY KEY,
			username VARCHAR(150) NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE post (
			id SERIAL PRIMARY KEY,
			author_id INT NOT NULL REFERENCES bw_user (id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			legacy BOOLEAN NOT NULL DEFAULT FALSE,
			posted TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			portrait VARCHAR(255),
			thumbnail VARCHAR(255)
		);
		CREATE INDEX post_posted ON post (posted DESC);
	`)
	return err
}

func (m InitialSchema) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE post;
		DROP TABLE session;
		DROP TABLE bw_user;
	`)
	return err
}

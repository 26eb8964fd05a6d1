package migrations

import (
	"context"
	"time"

	"git.blockward.net/bw/blockward/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddPostDisplayParams{})
}

type AddPostDisplayParams struct{}

func (m AddPostDisplayParams) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 1, 18, 10, 24, 47, 0, time.UTC))
}

func (m AddPostDisplayParams) Name() string {
	return "AddPostDisplayParams"
}

func (m AddPostDisplayParams) Description() string {
	return "Adds freeform display parameters to posts"
}

func (m AddPostDisplayParams) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE post ADD COLUMN display_params JSONB NOT NULL DEFAULT '{}';
	`)
	return err
}

func (m AddPostDisplayParams) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE post DROP COLUMN display_params;
	`)
	return err
}

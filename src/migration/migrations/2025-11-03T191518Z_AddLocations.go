package migrations

import (
	"context"
	"time"

	"git.blockward.net/bw/blockward/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddLocations{})
}

type AddLocations struct{}

func (m AddLocations) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 11, 3, 19, 15, 18, 0, time.UTC))
}

func (m AddLocations) Name() string {
	return "AddLocations"
}

func (m AddLocations) Description() string {
	return "Adds the server map's points of interest"
}

func (m AddLocations) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE location (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			owner_id INT NOT NULL REFERENCES bw_user (id) ON DELETE CASCADE,
			x INT NOT NULL,
			y INT NOT NULL,
			z INT NOT NULL,
			snapshot VARCHAR(255),
			thumbnail VARCHAR(255)
		);
	`)
	return err
}

func (m AddLocations) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE location;
	`)
	return err
}

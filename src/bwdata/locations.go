package bwdata

import (
	"context"

	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/oops"
)

type LocationsQuery struct {
	LocationIDs []int // if empty, all locations
	OwnerIDs    []int // if empty, all owners
}

// Fetches map locations according to all the given query params.
func FetchLocations(
	ctx context.Context,
	dbConn db.ConnOrTx,
	q LocationsQuery,
) ([]*models.Location, error) {
	var qb db.QueryBuilder
	qb.Add(`
		SELECT $columns
		FROM location
		WHERE TRUE
	`)
	if len(q.LocationIDs) > 0 {
		qb.Add(`AND location.id = ANY($?)`, q.LocationIDs)
	}
	if len(q.OwnerIDs) > 0 {
		qb.Add(`AND location.owner_id = ANY($?)`, q.OwnerIDs)
	}
	qb.Add(`ORDER BY location.name ASC`)

	locations, err := db.Query[models.Location](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch locations")
	}

	return locations, nil
}

// Fetches a single location. Returns db.NotFound if it does not exist.
func FetchLocation(
	ctx context.Context,
	dbConn db.ConnOrTx,
	locationID int,
) (*models.Location, error) {
	locations, err := FetchLocations(ctx, dbConn, LocationsQuery{LocationIDs: []int{locationID}})
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, db.NotFound
	}
	return locations[0], nil
}

// Points a location's image slots at newly stored files.
func UpdateLocationImages(
	ctx context.Context,
	dbConn db.ConnOrTx,
	locationID int,
	snapshot, thumbnail *string,
) error {
	_, err := dbConn.Exec(ctx,
		`UPDATE location SET snapshot = $2, thumbnail = $3 WHERE id = $1`,
		locationID, snapshot, thumbnail,
	)
	if err != nil {
		return oops.New(err, "failed to update location images")
	}
	return nil
}

package bwdata

import (
	"context"
	"strings"

	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/oops"
)

type UsersQuery struct {
	UserIDs   []int    // if empty, all users
	Usernames []string // if empty, all users
}

// Fetches users according to all the given query params.
func FetchUsers(
	ctx context.Context,
	dbConn db.ConnOrTx,
	q UsersQuery,
) ([]*models.User, error) {
	for i := range q.Usernames {
		q.Usernames[i] = strings.ToLower(q.Usernames[i])
	}

	var qb db.QueryBuilder
	qb.Add(`
		SELECT $columns
		FROM bw_user
		WHERE TRUE
	`)
	if len(q.UserIDs) > 0 {
		qb.Add(`AND bw_user.id = ANY($?)`, q.UserIDs)
	}
	if len(q.Usernames) > 0 {
		qb.Add(`AND LOWER(bw_user.username) = ANY($?)`, q.Usernames)
	}

	users, err := db.Query[models.User](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch users")
	}

	return users, nil
}

// Fetches a single user by id. Returns db.NotFound if no such user exists.
func FetchUser(
	ctx context.Context,
	dbConn db.ConnOrTx,
	userID int,
) (*models.User, error) {
	users, err := FetchUsers(ctx, dbConn, UsersQuery{UserIDs: []int{userID}})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, db.NotFound
	}
	return users[0], nil
}

// Fetches a single user by username, case-insensitively.
// Returns db.NotFound if no such user exists.
func FetchUserByUsername(
	ctx context.Context,
	dbConn db.ConnOrTx,
	username string,
) (*models.User, error) {
	users, err := FetchUsers(ctx, dbConn, UsersQuery{Usernames: []string{username}})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, db.NotFound
	}
	return users[0], nil
}

// Points a user's profile picture slot at a newly stored file (the thumbnail
// name; its full-size sibling is implied). Nil clears the slot.
func UpdateProfilePicture(
	ctx context.Context,
	dbConn db.ConnOrTx,
	userID int,
	filename *string,
) error {
	_, err := dbConn.Exec(ctx,
		`UPDATE bw_user SET profile_picture = $2 WHERE id = $1`,
		userID, filename,
	)
	if err != nil {
		return oops.New(err, "failed to update profile picture")
	}
	return nil
}

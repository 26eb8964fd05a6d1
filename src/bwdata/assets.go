package bwdata

import (
	"context"

	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/oops"
)

// The referenced set for the post content root: every file some post record
// currently points at, plus paired siblings.
func PostReferencedSet(ctx context.Context, dbConn db.ConnOrTx) (map[string]struct{}, error) {
	posts, err := FetchPosts(ctx, dbConn, PostsQuery{})
	if err != nil {
		return nil, err
	}
	holders := make([]models.AssetHolder, len(posts))
	for i, post := range posts {
		holders[i] = post
	}
	return images.ReferencedSet(holders), nil
}

// The referenced set for the profile picture root. Slots store the thumbnail
// name only; ReferencedSet adds the full-size _profile. sibling.
func ProfileReferencedSet(ctx context.Context, dbConn db.ConnOrTx) (map[string]struct{}, error) {
	users, err := FetchUsers(ctx, dbConn, UsersQuery{})
	if err != nil {
		return nil, err
	}
	holders := make([]models.AssetHolder, len(users))
	for i, user := range users {
		holders[i] = user
	}
	return images.ReferencedSet(holders), nil
}

// The referenced set for the location image root.
func LocationReferencedSet(ctx context.Context, dbConn db.ConnOrTx) (map[string]struct{}, error) {
	locations, err := FetchLocations(ctx, dbConn, LocationsQuery{})
	if err != nil {
		return nil, err
	}
	holders := make([]models.AssetHolder, len(locations))
	for i, location := range locations {
		holders[i] = location
	}
	return images.ReferencedSet(holders), nil
}

/*
Re-check callbacks for the sweeper. Each one answers, with a fresh query,
"does any record reference this exact file right now?" so that an upload
racing the sweep is never deleted on the strength of a stale inventory.
The paired sibling counts as a reference too.
*/

func PostStillReferenced(ctx context.Context, dbConn db.ConnOrTx) func(name string) (bool, error) {
	return stillReferenced(ctx, dbConn, `
		SELECT EXISTS (
			SELECT 1 FROM post
			WHERE portrait = ANY($1) OR thumbnail = ANY($1)
		)
	`)
}

func ProfileStillReferenced(ctx context.Context, dbConn db.ConnOrTx) func(name string) (bool, error) {
	return stillReferenced(ctx, dbConn, `
		SELECT EXISTS (
			SELECT 1 FROM bw_user
			WHERE profile_picture = ANY($1)
		)
	`)
}

func LocationStillReferenced(ctx context.Context, dbConn db.ConnOrTx) func(name string) (bool, error) {
	return stillReferenced(ctx, dbConn, `
		SELECT EXISTS (
			SELECT 1 FROM location
			WHERE snapshot = ANY($1) OR thumbnail = ANY($1)
		)
	`)
}

func stillReferenced(ctx context.Context, dbConn db.ConnOrTx, query string) func(name string) (bool, error) {
	return func(name string) (bool, error) {
		candidates := append([]string{name}, images.PairedNames(name)...)
		exists, err := db.QueryOneScalar[bool](ctx, dbConn, query, candidates)
		if err != nil {
			return false, oops.New(err, "failed to re-check reference for %s", name)
		}
		return exists, nil
	}
}

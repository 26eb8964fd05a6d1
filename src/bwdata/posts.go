package bwdata

import (
	"context"

	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/oops"
)

type PostsQuery struct {
	PostIDs   []int // if empty, all posts
	AuthorIDs []int // if empty, all authors

	Limit, Offset int
}

// Fetches posts according to all the given query params, newest first.
func FetchPosts(
	ctx context.Context,
	dbConn db.ConnOrTx,
	q PostsQuery,
) ([]*models.Post, error) {
	var qb db.QueryBuilder
	qb.Add(`
		SELECT $columns
		FROM post
		WHERE TRUE
	`)
	if len(q.PostIDs) > 0 {
		qb.Add(`AND post.id = ANY($?)`, q.PostIDs)
	}
	if len(q.AuthorIDs) > 0 {
		qb.Add(`AND post.author_id = ANY($?)`, q.AuthorIDs)
	}
	qb.Add(`ORDER BY post.posted DESC`)
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}

	posts, err := db.Query[models.Post](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch posts")
	}

	return posts, nil
}

// Fetches a single post. Returns db.NotFound if it does not exist.
func FetchPost(
	ctx context.Context,
	dbConn db.ConnOrTx,
	postID int,
) (*models.Post, error) {
	posts, err := FetchPosts(ctx, dbConn, PostsQuery{PostIDs: []int{postID}})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, db.NotFound
	}
	return posts[0], nil
}

func CreatePost(
	ctx context.Context,
	dbConn db.ConnOrTx,
	post *models.Post,
) (*models.Post, error) {
	created, err := db.QueryOne[models.Post](ctx, dbConn,
		`
		INSERT INTO post (author_id, title, body, legacy, posted, portrait, thumbnail, display_params)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING $columns
		`,
		post.AuthorID, post.Title, post.Body, post.Legacy, post.Posted,
		post.Portrait, post.Thumbnail, post.DisplayParams,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create post")
	}
	return created, nil
}

func UpdatePost(
	ctx context.Context,
	dbConn db.ConnOrTx,
	postID int,
	title, body string,
	displayParams map[string]interface{},
) error {
	_, err := dbConn.Exec(ctx,
		`UPDATE post SET title = $2, body = $3, display_params = $4 WHERE id = $1`,
		postID, title, body, displayParams,
	)
	if err != nil {
		return oops.New(err, "failed to update post")
	}
	return nil
}

// Deletes the post record only. The files its slots referenced stay on disk;
// the caller deletes them afterward, or the sweeper eventually does.
func DeletePost(
	ctx context.Context,
	dbConn db.ConnOrTx,
	postID int,
) error {
	_, err := dbConn.Exec(ctx, `DELETE FROM post WHERE id = $1`, postID)
	if err != nil {
		return oops.New(err, "failed to delete post")
	}
	return nil
}

// Points a post's image slots at newly stored files. Nil slots are cleared;
// the files they used to reference become eligible for sweeping.
func UpdatePostImages(
	ctx context.Context,
	dbConn db.ConnOrTx,
	postID int,
	portrait, thumbnail *string,
) error {
	_, err := dbConn.Exec(ctx,
		`UPDATE post SET portrait = $2, thumbnail = $3 WHERE id = $1`,
		postID, portrait, thumbnail,
	)
	if err != nil {
		return oops.New(err, "failed to update post images")
	}
	return nil
}

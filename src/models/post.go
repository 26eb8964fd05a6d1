package models

import "time"

type Post struct {
	ID       int       `db:"id"`
	AuthorID int       `db:"author_id"`
	Title    string    `db:"title"`
	Body     string    `db:"body"`
	Legacy   bool      `db:"legacy"` // pre-migration posts are bbcode, not markdown
	Posted   time.Time `db:"posted"`

	// Asset slots, relative to the post content root.
	Portrait  *string `db:"portrait"`
	Thumbnail *string `db:"thumbnail"`

	// Opaque display parameters (accent colors, alignment, whatever the
	// front end wants). Stored verbatim; nothing in the backend interprets
	// these beyond writing them.
	DisplayParams map[string]interface{} `db:"display_params"`
}

var _ AssetHolder = &Post{}

func (p *Post) AssetFilenames() []string {
	return notNilFilenames(p.Portrait, p.Thumbnail)
}

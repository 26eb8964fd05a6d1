package models

// A point of interest on the server map.
type Location struct {
	ID          int    `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	OwnerID     int    `db:"owner_id"`

	// In-game block coordinates.
	X int `db:"x"`
	Y int `db:"y"`
	Z int `db:"z"`

	Snapshot  *string `db:"snapshot"`
	Thumbnail *string `db:"thumbnail"`
}

var _ AssetHolder = &Location{}

func (l *Location) AssetFilenames() []string {
	return notNilFilenames(l.Snapshot, l.Thumbnail)
}

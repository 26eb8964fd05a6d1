package models

import "time"

type User struct {
	ID         int       `db:"id"`
	Username   string    `db:"username"`
	Password   string    `db:"password"`
	Email      string    `db:"email"`
	IsStaff    bool      `db:"is_staff"`
	Bio        string    `db:"bio"`
	DateJoined time.Time `db:"date_joined"`

	// The stored slot value holds the thumbnail name; the full-size
	// `_profile.` sibling is derived from it (see images.PairedNames).
	ProfilePicture *string `db:"profile_picture"`
}

var _ AssetHolder = &User{}

func (u *User) AssetFilenames() []string {
	return notNilFilenames(u.ProfilePicture)
}

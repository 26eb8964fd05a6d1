package templates

import (
	"html/template"

	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/parsing"
)

func PostToTemplate(p *models.Post, author *models.User) Post {
	var authorUser *User
	if author != nil {
		authorTmpl := UserToTemplate(author)
		authorUser = &authorTmpl
	}

	result := Post{
		ID:    p.ID,
		Title: p.Title,
		Url:   bwurl.BuildPost(p.ID),

		Author: authorUser,
		Posted: p.Posted,
	}

	if p.Portrait != nil {
		result.PortraitUrl = bwurl.BuildMedia("posts", *p.Portrait)
	}
	if p.Thumbnail != nil {
		result.ThumbnailUrl = bwurl.BuildMedia("posts", *p.Thumbnail)
	}

	return result
}

// Rendering the body is the expensive part, so it only happens on pages that
// actually show it.
func (p *Post) AddContent(source *models.Post) {
	p.Content = template.HTML(parsing.ParsePostBody(source.Body, source.Legacy, parsing.RealMarkdown))
	p.Summary = parsing.ParsePostBody(source.Body, source.Legacy, parsing.PlaintextMarkdown)
}

func UserToTemplate(u *models.User) User {
	result := User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsStaff:    u.IsStaff,
		Bio:        u.Bio,
		ProfileUrl: bwurl.BuildUserProfile(u.Username),
		DateJoined: u.DateJoined,
	}

	if u.ProfilePicture != nil {
		result.AvatarUrl = bwurl.BuildMedia("profiles", *u.ProfilePicture)
	}

	return result
}

func LocationToTemplate(l *models.Location) Location {
	result := Location{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Url:         bwurl.BuildLocation(l.ID),
		X:           l.X,
		Y:           l.Y,
		Z:           l.Z,
	}

	if l.Snapshot != nil {
		result.SnapshotUrl = bwurl.BuildMedia("locations", *l.Snapshot)
	}
	if l.Thumbnail != nil {
		result.ThumbnailUrl = bwurl.BuildMedia("locations", *l.Thumbnail)
	}

	return result
}

func SessionToTemplate(s *models.Session) Session {
	return Session{
		Username: s.Username,
	}
}

func AssetFileToTemplate(kind string, f images.FileInfo, referenced bool) AssetFile {
	url := bwurl.BuildPublic("static/images/" + f.Name)
	if kind != "static" {
		url = bwurl.BuildMedia(kind, f.Name)
	}

	return AssetFile{
		Name:       f.Name,
		Size:       f.Size,
		ModTime:    f.ModTime,
		Referenced: referenced,
		Url:        url,
	}
}

package templates

import (
	"html/template"
	"time"
)

type BaseData struct {
	Title          string
	CanonicalLink  string
	OpenGraphItems []OpenGraphItem
	BodyClasses    []string
	Notices        []Notice

	CurrentUrl   string
	LoginPageUrl string

	User    *User
	Session *Session

	Header Header
	Footer Footer
}

func (bd *BaseData) AddImmediateNotice(class, content string) {
	bd.Notices = append(bd.Notices, Notice{
		Class:   class,
		Content: template.HTML(content),
	})
}

type Header struct {
	HomepageUrl     string
	MapUrl          string
	PostNewUrl      string
	AdminAssetsUrl  string
	UserProfileUrl  string
	UserSettingsUrl string
	LogoutUrl       string
	LoginUrl        string
}

type Footer struct {
	HomepageUrl string
	MapUrl      string
}

type Notice struct {
	Content template.HTML
	Class   string
}

type OpenGraphItem struct {
	Property string
	Name     string
	Value    string
}

type User struct {
	ID       int
	Username string
	Email    string
	IsStaff  bool
	Bio      string

	ProfileUrl string
	AvatarUrl  string

	DateJoined time.Time
}

type Session struct {
	Username string
}

type Post struct {
	ID     int
	Title  string
	Url    string
	Author *User

	Content template.HTML
	Summary string

	PortraitUrl  string
	ThumbnailUrl string

	Posted time.Time
}

type Location struct {
	ID          int
	Name        string
	Description string
	Url         string

	X, Y, Z int

	SnapshotUrl  string
	ThumbnailUrl string
}

// One row of the asset inventory in the admin area.
type AssetFile struct {
	Name       string
	Size       int64
	ModTime    time.Time
	Referenced bool
	Url        string
}

package bwurl

import (
	"net/url"
	"regexp"
	"strconv"

	"git.blockward.net/bw/blockward/src/oops"
)

var RegexHomepage = regexp.MustCompile("^/$")

func BuildHomepage() string {
	return Url("/", nil)
}

func BuildHomepageWithPage(page int) string {
	if page < 1 {
		panic(oops.New(nil, "invalid page (%d), must be >= 1", page))
	}
	if page == 1 {
		return BuildHomepage()
	}
	return Url("/", []Q{{"page", strconv.Itoa(page)}})
}

var RegexLogin = regexp.MustCompile("^/login$")

func BuildLogin() string {
	return Url("/login", nil)
}

var RegexLogout = regexp.MustCompile("^/logout$")

func BuildLogout() string {
	return Url("/logout", nil)
}

var RegexPost = regexp.MustCompile(`^/post/(?P<postid>\d+)$`)

func BuildPost(postID int) string {
	return Url("/post/"+strconv.Itoa(postID), nil)
}

var RegexPostNew = regexp.MustCompile("^/post/new$")

func BuildPostNew() string {
	return Url("/post/new", nil)
}

var RegexPostEdit = regexp.MustCompile(`^/post/(?P<postid>\d+)/edit$`)

func BuildPostEdit(postID int) string {
	return Url("/post/"+strconv.Itoa(postID)+"/edit", nil)
}

var RegexPostDelete = regexp.MustCompile(`^/post/(?P<postid>\d+)/delete$`)

func BuildPostDelete(postID int) string {
	return Url("/post/"+strconv.Itoa(postID)+"/delete", nil)
}

var RegexUserProfile = regexp.MustCompile(`^/m/(?P<username>[^/]+)$`)

func BuildUserProfile(username string) string {
	if username == "" {
		panic(oops.New(nil, "cannot build a user profile URL without a username"))
	}
	return Url("/m/"+url.PathEscape(username), nil)
}

var RegexUserSettings = regexp.MustCompile("^/settings$")

func BuildUserSettings() string {
	return Url("/settings", nil)
}

var RegexMap = regexp.MustCompile("^/map$")

func BuildMap() string {
	return Url("/map", nil)
}

var RegexLocation = regexp.MustCompile(`^/map/(?P<locationid>\d+)$`)

func BuildLocation(locationID int) string {
	return Url("/map/"+strconv.Itoa(locationID), nil)
}

var RegexAdminAssets = regexp.MustCompile("^/admin/assets$")

func BuildAdminAssets() string {
	return Url("/admin/assets", nil)
}

var RegexAdminAssetsDelete = regexp.MustCompile("^/admin/assets/delete$")

func BuildAdminAssetsDelete() string {
	return Url("/admin/assets/delete", nil)
}

var RegexAdminAssetsPurge = regexp.MustCompile("^/admin/assets/purge$")

func BuildAdminAssetsPurge() string {
	return Url("/admin/assets/purge", nil)
}

// The purge progress socket lives on the same path family as the purge
// action so staff-only routing rules cover it too.
var RegexAdminAssetsPurgeWS = regexp.MustCompile("^/admin/assets/purge/ws$")

func BuildAdminAssetsPurgeWS() string {
	return Url("/admin/assets/purge/ws", nil)
}

var RegexMedia = regexp.MustCompile(`^/media/(?P<kind>posts|profiles|locations)/(?P<filename>[^/]+)$`)

func BuildMedia(kind string, filename string) string {
	return Url("/media/"+kind+"/"+url.PathEscape(filename), nil)
}

var RegexPublic = regexp.MustCompile("^/public/.+$")

func BuildPublic(path string) string {
	return StaticUrl(path, nil)
}

// Matches any path. Register it last.
var RegexCatchAll = regexp.MustCompile("^")

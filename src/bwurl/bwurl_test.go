package bwurl

import (
	"net/url"
	"regexp"
	"testing"

	"git.blockward.net/bw/blockward/src/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUrl(t *testing.T) {
	t.Run("no query", func(t *testing.T) {
		result := Url("/test/foo", nil)
		assert.Equal(t, baseUrl(t)+"/test/foo", result)
	})
	t.Run("yes query", func(t *testing.T) {
		result := Url("/test/foo", []Q{{"bar", "baz"}, {"zig??", "zig & zag!!"}})
		assert.Equal(t, baseUrl(t)+"/test/foo?bar=baz&zig%3F%3F=zig+%26+zag%21%21", result)
	})
}

func TestHomepage(t *testing.T) {
	assertRegexMatch(t, BuildHomepage(), RegexHomepage, nil)
	assert.Equal(t, BuildHomepage(), BuildHomepageWithPage(1))
	assert.Panics(t, func() { BuildHomepageWithPage(0) })
}

func TestAuthPages(t *testing.T) {
	assertRegexMatch(t, BuildLogin(), RegexLogin, nil)
	assertRegexMatch(t, BuildLogout(), RegexLogout, nil)
}

func TestPosts(t *testing.T) {
	assertRegexMatch(t, BuildPost(123), RegexPost, map[string]string{"postid": "123"})
	assertRegexMatch(t, BuildPostNew(), RegexPostNew, nil)
	assertRegexMatch(t, BuildPostEdit(123), RegexPostEdit, map[string]string{"postid": "123"})
	assertRegexMatch(t, BuildPostDelete(123), RegexPostDelete, map[string]string{"postid": "123"})
	assert.False(t, RegexPost.MatchString("/post/123/edit"))
}

func TestUsers(t *testing.T) {
	assertRegexMatch(t, BuildUserProfile("Steve"), RegexUserProfile, map[string]string{"username": "Steve"})
	assertRegexMatch(t, BuildUserSettings(), RegexUserSettings, nil)
	assert.Panics(t, func() { BuildUserProfile("") })
}

func TestMapPages(t *testing.T) {
	assertRegexMatch(t, BuildMap(), RegexMap, nil)
	assertRegexMatch(t, BuildLocation(7), RegexLocation, map[string]string{"locationid": "7"})
}

func TestAdminAssets(t *testing.T) {
	assertRegexMatch(t, BuildAdminAssets(), RegexAdminAssets, nil)
	assertRegexMatch(t, BuildAdminAssetsDelete(), RegexAdminAssetsDelete, nil)
	assertRegexMatch(t, BuildAdminAssetsPurge(), RegexAdminAssetsPurge, nil)
	assertRegexMatch(t, BuildAdminAssetsPurgeWS(), RegexAdminAssetsPurgeWS, nil)
}

func TestMedia(t *testing.T) {
	assertRegexMatch(t, BuildMedia("posts", "thumb_My_Base.jpg"), RegexMedia, map[string]string{
		"kind":     "posts",
		"filename": "thumb_My_Base.jpg",
	})
	assert.False(t, RegexMedia.MatchString("/media/secrets/foo.jpg"))
}

func baseUrl(t *testing.T) string {
	t.Helper()
	return config.Config.BaseUrl
}

func assertRegexMatch(t *testing.T, fullUrl string, regex *regexp.Regexp, paramsToVerify map[string]string) {
	t.Helper()

	parsed, err := url.Parse(fullUrl)
	require.NoError(t, err)

	match := regex.FindStringSubmatch(parsed.Path)
	require.NotNilf(t, match, "url %s did not match regex %s", parsed.Path, regex.String())

	if len(paramsToVerify) > 0 {
		values := map[string]string{}
		for i, name := range regex.SubexpNames() {
			if i != 0 && name != "" {
				values[name] = match[i]
			}
		}
		query := parsed.Query()
		for key, value := range query {
			values[key] = value[0]
		}
		for name, expected := range paramsToVerify {
			assert.Equalf(t, expected, values[name], "param %s did not match", name)
		}
	}
}

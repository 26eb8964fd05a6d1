package website

import (
	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/templates"
)

func getBaseData(c *RequestContext, title string) templates.BaseData {
	var templateUser *templates.User
	var templateSession *templates.Session
	if c.CurrentUser != nil {
		u := templates.UserToTemplate(c.CurrentUser)
		s := templates.SessionToTemplate(c.CurrentSession)
		templateUser = &u
		templateSession = &s
	}

	header := templates.Header{
		HomepageUrl: bwurl.BuildHomepage(),
		MapUrl:      bwurl.BuildMap(),
		LoginUrl:    bwurl.BuildLogin(),
	}
	if c.CurrentUser != nil {
		header.PostNewUrl = bwurl.BuildPostNew()
		header.UserProfileUrl = bwurl.BuildUserProfile(c.CurrentUser.Username)
		header.UserSettingsUrl = bwurl.BuildUserSettings()
		header.LogoutUrl = bwurl.BuildLogout()
		if c.CurrentUser.IsStaff {
			header.AdminAssetsUrl = bwurl.BuildAdminAssets()
		}
	}

	return templates.BaseData{
		Title: title,

		CurrentUrl:   c.FullUrl(),
		LoginPageUrl: bwurl.BuildLogin(),

		User:    templateUser,
		Session: templateSession,
		Notices: getNoticesFromCookie(c),

		Header: header,
		Footer: templates.Footer{
			HomepageUrl: bwurl.BuildHomepage(),
			MapUrl:      bwurl.BuildMap(),
		},
	}
}

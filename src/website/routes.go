package website

import (
	"net/http"
	"time"

	"git.blockward.net/bw/blockward/src/bwurl"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewWebsiteRoutes(conn *pgxpool.Pool) http.Handler {
	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			setDBConn(conn),
			logContextErrorsMiddleware,
			panicCatcherMiddleware,
			storeNoticesInCookieMiddleware,
			loadCommonData,
		},
	}

	routes.GET(bwurl.RegexHomepage, Index)
	routes.GET(bwurl.RegexPost, PostPage)
	routes.GET(bwurl.RegexUserProfile, UserProfile)
	routes.GET(bwurl.RegexMap, MapIndex)
	routes.GET(bwurl.RegexLocation, LocationPage)

	routes.GET(bwurl.RegexLogin, LoginPage)
	routes.POST(bwurl.RegexLogin, func(c *RequestContext) ResponseData {
		return securityTimerMiddleware(time.Second, Login)(c)
	})
	routes.GET(bwurl.RegexLogout, Logout)

	authed := routes.WithMiddleware(needsAuth)
	authed.GET(bwurl.RegexPostNew, PostNewPage)
	authed.POST(bwurl.RegexPostNew, PostNewSubmit)
	authed.GET(bwurl.RegexPostEdit, PostEditPage)
	authed.POST(bwurl.RegexPostEdit, PostEditSubmit)
	authed.POST(bwurl.RegexPostDelete, PostDeleteSubmit)
	authed.GET(bwurl.RegexUserSettings, UserSettings)
	authed.POST(bwurl.RegexUserSettings, UserSettingsSubmit)
	authed.POST(bwurl.RegexLocation, LocationSubmit)

	admin := routes.WithMiddleware(needsAuth, adminsOnly)
	admin.GET(bwurl.RegexAdminAssets, AdminAssets)
	admin.POST(bwurl.RegexAdminAssetsDelete, AdminAssetsDelete)
	admin.POST(bwurl.RegexAdminAssetsPurge, AdminAssetsPurge)
	admin.GET(bwurl.RegexAdminAssetsPurgeWS, AdminAssetsPurgeWS)

	routes.GET(bwurl.RegexMedia, MediaFile)
	routes.GET(bwurl.RegexPublic, Public)

	routes.AnyMethod(bwurl.RegexCatchAll, FourOhFour)

	return router
}

func setDBConn(conn *pgxpool.Pool) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			c.Conn = conn
			return h(c)
		}
	}
}

package website

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/logging"
	"git.blockward.net/bw/blockward/src/templates"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	// Use the embedded templates; tests don't run from the repo root.
	config.Config.DevConfig.LiveTemplates = false
	templates.Init()

	router := &Router{}
	routes := RouteBuilder{Router: router}

	routes.GET(regexp.MustCompile(`^/pages/(?P<id>\d+)$`), func(c *RequestContext) ResponseData {
		var res ResponseData
		res.Write([]byte("page " + c.PathParams["id"]))
		return res
	})
	routes.POST(regexp.MustCompile(`^/pages/(?P<id>\d+)$`), func(c *RequestContext) ResponseData {
		var res ResponseData
		res.Write([]byte("updated"))
		return res
	})
	routes.AnyMethod(regexp.MustCompile("^"), FourOhFour)

	t.Run("path params", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/pages/42", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "page 42", rec.Body.String())
	})

	t.Run("method matters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/pages/42", nil))
		assert.Equal(t, "updated", rec.Body.String())
	})

	t.Run("trailing slashes are forgiven", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/pages/42/", nil))
		assert.Equal(t, "page 42", rec.Body.String())
	})

	t.Run("fall through to 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/pages/not-a-number", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("404 as json", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/nope", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error": "not found"}`, rec.Body.String())
	})
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(h Handler) Handler {
			return func(c *RequestContext) ResponseData {
				order = append(order, name)
				return h(c)
			}
		}
	}

	router := &Router{}
	routes := RouteBuilder{
		Router:      router,
		Middlewares: []Middleware{mw("first"), mw("second")},
	}
	routes.GET(regexp.MustCompile("^/$"), func(c *RequestContext) ResponseData {
		order = append(order, "handler")
		return ResponseData{}
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestNoticesCookieRoundTrip(t *testing.T) {
	c := &RequestContext{
		Logger: logging.GlobalLogger(),
		Req:    httptest.NewRequest("GET", "/", nil),
	}

	notices := []templates.Notice{
		{Class: "success", Content: "Deleted 3 file(s)."},
		{Class: "failure", Content: "Incorrect username or password."},
	}

	serialized := serializeNoticesForCookie(c, notices)
	assert.Equal(t, notices, deserializeNoticesFromCookie(serialized))
}

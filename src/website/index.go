package website

import (
	"net/http"
	"strconv"

	"git.blockward.net/bw/blockward/src/bwdata"
	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/oops"
	"git.blockward.net/bw/blockward/src/templates"
	"git.blockward.net/bw/blockward/src/utils"
)

const postsPerPage = 20

type IndexData struct {
	templates.BaseData
	Posts      []templates.Post
	NewPostUrl string

	Page     int
	NumPages int
	PrevUrl  string
	NextUrl  string
}

func Index(c *RequestContext) ResponseData {
	page := 1
	if pageStr := c.Req.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p >= 1 {
			page = p
		}
	}

	numPosts, err := countPosts(c)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	numPages := utils.IntMax(1, utils.NumPages(numPosts, postsPerPage))
	page = utils.IntClamp(1, page, numPages)

	posts, err := bwdata.FetchPosts(c, c.Conn, bwdata.PostsQuery{
		Limit:  postsPerPage,
		Offset: (page - 1) * postsPerPage,
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	templatePosts := make([]templates.Post, 0, len(posts))
	for _, post := range posts {
		author, err := bwdata.FetchUser(c, c.Conn, post.AuthorID)
		if err != nil {
			author = nil
		}
		templatePosts = append(templatePosts, templates.PostToTemplate(post, author))
	}

	data := IndexData{
		BaseData:   getBaseData(c, "Blockward"),
		Posts:      templatePosts,
		NewPostUrl: bwurl.BuildPostNew(),
		Page:       page,
		NumPages:   numPages,
	}
	if page > 1 {
		data.PrevUrl = bwurl.BuildHomepageWithPage(page - 1)
	}
	if page < numPages {
		data.NextUrl = bwurl.BuildHomepageWithPage(page + 1)
	}

	var res ResponseData
	res.MustWriteTemplate("index.html", data)
	return res
}

func countPosts(c *RequestContext) (int, error) {
	count, err := db.QueryOneScalar[int](c, c.Conn, `SELECT COUNT(*) FROM post`)
	if err != nil {
		return 0, oops.New(err, "failed to count posts")
	}
	return count, nil
}

func FourOhFour(c *RequestContext) ResponseData {
	var res ResponseData
	res.StatusCode = http.StatusNotFound

	if c.Req.Header["Accept"] != nil && len(c.Req.Header["Accept"]) > 0 {
		contentType := c.Req.Header["Accept"][0]
		if contentType == "application/json" {
			res.Header().Set("Content-Type", "application/json")
			res.Write([]byte(`{"error": "not found"}`))
			return res
		}
	}

	templateData := struct {
		templates.BaseData
		Wanted string
	}{
		BaseData: getBaseData(c, "Page not found"),
		Wanted:   c.FullUrl(),
	}
	res.MustWriteTemplate("404.html", templateData)
	return res
}

package website

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"git.blockward.net/bw/blockward/src/bwdata"
	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/oops"
	"git.blockward.net/bw/blockward/src/templates"
)

type PostPageData struct {
	templates.BaseData
	Post      templates.Post
	CanEdit   bool
	EditUrl   string
	DeleteUrl string
}

func PostPage(c *RequestContext) ResponseData {
	postID, err := strconv.Atoi(c.PathParams["postid"])
	if err != nil {
		return FourOhFour(c)
	}

	post, err := bwdata.FetchPost(c, c.Conn, postID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	author, err := bwdata.FetchUser(c, c.Conn, post.AuthorID)
	if err != nil && !errors.Is(err, db.NotFound) {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	templatePost := templates.PostToTemplate(post, author)
	templatePost.AddContent(post)

	var res ResponseData
	canEdit := c.CurrentUser != nil && (c.CurrentUser.IsStaff || c.CurrentUser.ID == post.AuthorID)

	res.MustWriteTemplate("post.html", PostPageData{
		BaseData:  getBaseData(c, post.Title),
		Post:      templatePost,
		CanEdit:   canEdit,
		EditUrl:   bwurl.BuildPostEdit(post.ID),
		DeleteUrl: bwurl.BuildPostDelete(post.ID),
	})
	return res
}

type PostEditData struct {
	templates.BaseData
	SubmitUrl string
	MaxSize   int64

	// Filled in when editing an existing post.
	Editing     bool
	Title       string
	Body        string
	AccentColor string
}

func PostNewPage(c *RequestContext) ResponseData {
	var res ResponseData
	res.MustWriteTemplate("post_edit.html", PostEditData{
		BaseData:  getBaseData(c, "New post"),
		SubmitUrl: bwurl.BuildPostNew(),
		MaxSize:   config.Config.Media.MaxImageSize,
	})
	return res
}

func PostNewSubmit(c *RequestContext) ResponseData {
	maxBodyMemory := 2 * config.Config.Media.MaxImageSize
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxBodyMemory+1024*1024)
	if err := c.Req.ParseMultipartForm(maxBodyMemory); err != nil {
		return c.RejectRequest("Your upload was too large.")
	}

	title := strings.TrimSpace(c.Req.Form.Get("title"))
	body := c.Req.Form.Get("body")
	if title == "" {
		return c.RejectRequest("Your post must have a title.")
	}

	portrait, err := GetFormImage(c, "portrait")
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	if portrait == nil {
		return c.RejectRequest("Your post must include an image.")
	}

	// An optional hand-made thumbnail. If absent, one is generated.
	thumbnail, err := GetFormImage(c, "thumbnail")
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	result, err := images.Upload(c, images.UploadInput{
		Root:       config.Config.Media.PostRoot,
		Original:   *portrait,
		Derivative: thumbnail,
		Naming:     images.ThumbPrefixNaming{},
		Bounds:     images.PostBounds,
		MaxBytes:   config.Config.Media.MaxImageSize,
	})
	if err != nil {
		return imageErrorResponse(c, err)
	}

	displayParams := map[string]interface{}{}
	if accent := c.Req.Form.Get("accent_color"); accent != "" {
		displayParams["accent_color"] = accent
	}

	post, err := bwdata.CreatePost(c, c.Conn, &models.Post{
		AuthorID:      c.CurrentUser.ID,
		Title:         title,
		Body:          body,
		Posted:        time.Now(),
		Portrait:      &result.Original,
		Thumbnail:     &result.Derivative,
		DisplayParams: displayParams,
	})
	if err != nil {
		// The files are already on disk but nothing references them; the
		// sweeper will pick them up.
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	res := c.Redirect(bwurl.BuildPost(post.ID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Post created.")
	return res
}

func PostEditPage(c *RequestContext) ResponseData {
	post, errRes := fetchEditablePost(c)
	if errRes != nil {
		return *errRes
	}

	var accent string
	if v, ok := post.DisplayParams["accent_color"].(string); ok {
		accent = v
	}

	var res ResponseData
	res.MustWriteTemplate("post_edit.html", PostEditData{
		BaseData:  getBaseData(c, "Editing: "+post.Title),
		SubmitUrl: bwurl.BuildPostEdit(post.ID),
		MaxSize:   config.Config.Media.MaxImageSize,

		Editing:     true,
		Title:       post.Title,
		Body:        post.Body,
		AccentColor: accent,
	})
	return res
}

/*
Updates a post's text, and optionally replaces its images. Replacement is
write-then-repoint-then-delete: the new files go to disk first, the slots
move over, and only then do the old files get removed. A crash in between
leaves the old files unreferenced, which the sweeper handles.
*/
func PostEditSubmit(c *RequestContext) ResponseData {
	post, errRes := fetchEditablePost(c)
	if errRes != nil {
		return *errRes
	}

	maxBodyMemory := 2 * config.Config.Media.MaxImageSize
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxBodyMemory+1024*1024)
	if err := c.Req.ParseMultipartForm(maxBodyMemory); err != nil {
		return c.RejectRequest("Your upload was too large.")
	}

	title := strings.TrimSpace(c.Req.Form.Get("title"))
	body := c.Req.Form.Get("body")
	if title == "" {
		return c.RejectRequest("Your post must have a title.")
	}

	displayParams := map[string]interface{}{}
	if accent := c.Req.Form.Get("accent_color"); accent != "" {
		displayParams["accent_color"] = accent
	}

	err := bwdata.UpdatePost(c, c.Conn, post.ID, title, body, displayParams)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	portrait, err := GetFormImage(c, "portrait")
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	if portrait != nil {
		thumbnail, err := GetFormImage(c, "thumbnail")
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}

		result, err := images.Upload(c, images.UploadInput{
			Root:       config.Config.Media.PostRoot,
			Original:   *portrait,
			Derivative: thumbnail,
			Naming:     images.ThumbPrefixNaming{},
			Bounds:     images.PostBounds,
			MaxBytes:   config.Config.Media.MaxImageSize,
		})
		if err != nil {
			return imageErrorResponse(c, err)
		}

		err = bwdata.UpdatePostImages(c, c.Conn, post.ID, &result.Original, &result.Derivative)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}

		// Re-uploading a file with the same name overwrites in place, so
		// the old names may BE the new names. Those must survive.
		deletePostFiles(c, post, result.Original, result.Derivative)
	}

	res := c.Redirect(bwurl.BuildPost(post.ID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Post updated.")
	return res
}

func PostDeleteSubmit(c *RequestContext) ResponseData {
	post, errRes := fetchEditablePost(c)
	if errRes != nil {
		return *errRes
	}

	// Record first, files second. If the file pass dies the files are
	// orphans and the sweeper reclaims them.
	err := bwdata.DeletePost(c, c.Conn, post.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	deletePostFiles(c, post)

	res := c.Redirect(bwurl.BuildHomepage(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Post deleted.")
	return res
}

// Fetches the post named in the route and checks that the current user may
// change it. A non-author gets a 404, same as a missing post.
func fetchEditablePost(c *RequestContext) (*models.Post, *ResponseData) {
	postID, err := strconv.Atoi(c.PathParams["postid"])
	if err != nil {
		res := FourOhFour(c)
		return nil, &res
	}

	post, err := bwdata.FetchPost(c, c.Conn, postID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			res := FourOhFour(c)
			return nil, &res
		}
		res := c.ErrorResponse(http.StatusInternalServerError, err)
		return nil, &res
	}

	if c.CurrentUser == nil || (!c.CurrentUser.IsStaff && c.CurrentUser.ID != post.AuthorID) {
		res := FourOhFour(c)
		return nil, &res
	}

	return post, nil
}

// Removes the files a post's slots point at, plus any names paired with
// them. Failures are logged and otherwise ignored; leftover files become
// sweeper work, not user-facing errors.
func deletePostFiles(c *RequestContext, post *models.Post, keep ...string) {
	filenames := replacedPostFiles(post, keep...)
	if len(filenames) == 0 {
		return
	}

	report := images.DeleteAll(config.Config.Media.PostRoot, filenames)
	for _, msg := range report.Errors {
		c.Logger.Warn().Str("error", msg).Msg("failed to remove replaced post image")
	}
}

// replacedPostFiles lists the files a post's slots leave behind: each slot
// value and its paired names, minus any name in keep. When a re-upload
// sanitizes to the same filename as the current one, the new files overwrite
// the old in place; deleting the old slot values then would destroy the
// files the record now references, so reused names must be excluded.
func replacedPostFiles(post *models.Post, keep ...string) []string {
	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}

	var filenames []string
	seen := make(map[string]bool)
	for _, slot := range []*string{post.Portrait, post.Thumbnail} {
		if slot == nil || *slot == "" {
			continue
		}
		for _, name := range append([]string{*slot}, images.PairedNames(*slot)...) {
			if !kept[name] && !seen[name] {
				filenames = append(filenames, name)
				seen[name] = true
			}
		}
	}
	return filenames
}

/*
Shared error translation for upload endpoints. Content problems are the
user's fault and get a reject page with the validator's message. Unsafe
names and storage trouble are our problem; the user gets a plain failure
and the details go to the log.
*/
func imageErrorResponse(c *RequestContext, err error) ResponseData {
	var validationErr *images.ValidationError
	if errors.As(err, &validationErr) {
		return c.RejectRequest(validationErr.Message)
	}

	var securityErr *images.SecurityError
	if errors.As(err, &securityErr) {
		c.Logger.Warn().Err(err).Msg("rejected unsafe upload path")
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "upload failed"))
	}

	return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to store image"))
}

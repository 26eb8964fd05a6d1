package website

import (
	"errors"
	"net/http"
	"strings"

	"git.blockward.net/bw/blockward/src/bwdata"
	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/templates"
)

type UserProfileData struct {
	templates.BaseData
	ProfileUser templates.User
	Posts       []templates.Post
	OwnProfile  bool
}

func UserProfile(c *RequestContext) ResponseData {
	username, hasUsername := c.PathParams["username"]
	if !hasUsername || len(strings.TrimSpace(username)) == 0 {
		return FourOhFour(c)
	}

	var profileUser *models.User
	if c.CurrentUser != nil && strings.EqualFold(c.CurrentUser.Username, username) {
		profileUser = c.CurrentUser
	} else {
		user, err := bwdata.FetchUserByUsername(c, c.Conn, username)
		if err != nil {
			if errors.Is(err, db.NotFound) {
				return FourOhFour(c)
			}
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		profileUser = user
	}

	posts, err := bwdata.FetchPosts(c, c.Conn, bwdata.PostsQuery{
		AuthorIDs: []int{profileUser.ID},
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	templatePosts := make([]templates.Post, 0, len(posts))
	for _, post := range posts {
		templatePosts = append(templatePosts, templates.PostToTemplate(post, profileUser))
	}

	var res ResponseData
	res.MustWriteTemplate("user_profile.html", UserProfileData{
		BaseData:    getBaseData(c, profileUser.Username),
		ProfileUser: templates.UserToTemplate(profileUser),
		Posts:       templatePosts,
		OwnProfile:  c.CurrentUser != nil && c.CurrentUser.ID == profileUser.ID,
	})
	return res
}

type UserSettingsData struct {
	templates.BaseData
	User      templates.User
	SubmitUrl string
	MaxSize   int64
}

func UserSettings(c *RequestContext) ResponseData {
	var res ResponseData
	res.MustWriteTemplate("user_settings.html", UserSettingsData{
		BaseData:  getBaseData(c, "Settings"),
		User:      templates.UserToTemplate(c.CurrentUser),
		SubmitUrl: bwurl.BuildUserSettings(),
		MaxSize:   config.Config.Media.MaxImageSize,
	})
	return res
}

func UserSettingsSubmit(c *RequestContext) ResponseData {
	maxBodyMemory := config.Config.Media.MaxImageSize
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxBodyMemory+1024*1024)
	if err := c.Req.ParseMultipartForm(maxBodyMemory); err != nil {
		return c.RejectRequest("Your upload was too large.")
	}

	if bio := c.Req.Form.Get("bio"); bio != c.CurrentUser.Bio {
		_, err := c.Conn.Exec(c,
			`UPDATE bw_user SET bio = $2 WHERE id = $1`,
			c.CurrentUser.ID, bio,
		)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
	}

	avatar, err := GetFormImage(c, "avatar")
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	if avatar != nil {
		result, err := images.Upload(c, images.UploadInput{
			Root:     config.Config.Media.ProfileRoot,
			Original: *avatar,
			Naming:   images.OwnerPairNaming{OwnerID: c.CurrentUser.ID},
			Bounds:   images.ProfileBounds,
			MaxBytes: config.Config.Media.MaxImageSize,
		})
		if err != nil {
			return imageErrorResponse(c, err)
		}

		// The slot stores the thumbnail name; the full-size file is implied.
		err = bwdata.UpdateProfilePicture(c, c.Conn, c.CurrentUser.ID, &result.Derivative)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
	} else if c.Req.Form.Get("remove_avatar") != "" {
		// Clearing the slot is all it takes; the files on disk become
		// orphans and the sweeper deals with them.
		err = bwdata.UpdateProfilePicture(c, c.Conn, c.CurrentUser.ID, nil)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
	}

	res := c.Redirect(bwurl.BuildUserSettings(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Settings saved.")
	return res
}

package website

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"git.blockward.net/bw/blockward/src/bwdata"
	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/templates"
)

type MapData struct {
	templates.BaseData
	Locations []templates.Location
}

func MapIndex(c *RequestContext) ResponseData {
	locations, err := bwdata.FetchLocations(c, c.Conn, bwdata.LocationsQuery{})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	templateLocations := make([]templates.Location, 0, len(locations))
	for _, location := range locations {
		templateLocations = append(templateLocations, templates.LocationToTemplate(location))
	}

	var res ResponseData
	res.MustWriteTemplate("map.html", MapData{
		BaseData:  getBaseData(c, "Server map"),
		Locations: templateLocations,
	})
	return res
}

type LocationPageData struct {
	templates.BaseData
	Location templates.Location
	Owner    *templates.User
	CanEdit  bool
	EditUrl  string
	MaxSize  int64
}

func LocationPage(c *RequestContext) ResponseData {
	locationID, err := strconv.Atoi(c.PathParams["locationid"])
	if err != nil {
		return FourOhFour(c)
	}

	location, err := bwdata.FetchLocation(c, c.Conn, locationID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var owner *templates.User
	if ownerUser, err := bwdata.FetchUser(c, c.Conn, location.OwnerID); err == nil {
		o := templates.UserToTemplate(ownerUser)
		owner = &o
	}

	canEdit := canEditLocation(c.CurrentUser, location)

	var res ResponseData
	res.MustWriteTemplate("location.html", LocationPageData{
		BaseData: getBaseData(c, location.Name),
		Location: templates.LocationToTemplate(location),
		Owner:    owner,
		CanEdit:  canEdit,
		EditUrl:  bwurl.BuildLocation(location.ID),
		MaxSize:  config.Config.Media.MaxImageSize,
	})
	return res
}

/*
Accepts a new map snapshot for a location. The snapshot and its thumbnail
land in the location content root; the previous files simply lose their
references and get collected by the sweeper later.
*/
func LocationSubmit(c *RequestContext) ResponseData {
	locationID, err := strconv.Atoi(c.PathParams["locationid"])
	if err != nil {
		return FourOhFour(c)
	}

	location, err := bwdata.FetchLocation(c, c.Conn, locationID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	if !canEditLocation(c.CurrentUser, location) {
		return FourOhFour(c)
	}

	maxBodyMemory := 2 * config.Config.Media.MaxImageSize
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxBodyMemory+1024*1024)
	if err := c.Req.ParseMultipartForm(maxBodyMemory); err != nil {
		return c.RejectRequest("Your upload was too large.")
	}

	if description := strings.TrimSpace(c.Req.Form.Get("description")); description != "" && description != location.Description {
		_, err := c.Conn.Exec(c,
			`UPDATE location SET description = $2 WHERE id = $1`,
			location.ID, description,
		)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
	}

	snapshot, err := GetFormImage(c, "snapshot")
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	if snapshot != nil {
		thumbnail, err := GetFormImage(c, "thumbnail")
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}

		result, err := images.Upload(c, images.UploadInput{
			Root:       config.Config.Media.LocationRoot,
			Original:   *snapshot,
			Derivative: thumbnail,
			Naming:     images.ThumbPrefixNaming{},
			Bounds:     images.LocationBounds,
			MaxBytes:   config.Config.Media.MaxImageSize,
		})
		if err != nil {
			return imageErrorResponse(c, err)
		}

		err = bwdata.UpdateLocationImages(c, c.Conn, location.ID, &result.Original, &result.Derivative)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
	}

	res := c.Redirect(bwurl.BuildLocation(location.ID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Location updated.")
	return res
}

func canEditLocation(user *models.User, location *models.Location) bool {
	return user != nil && (user.IsStaff || user.ID == location.OwnerID)
}

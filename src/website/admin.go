package website

import (
	"fmt"
	"net/http"
	"sort"

	"git.blockward.net/bw/blockward/src/bwdata"
	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/oops"
	"git.blockward.net/bw/blockward/src/rawdata"
	"git.blockward.net/bw/blockward/src/templates"
	"github.com/gorilla/websocket"
)

var assetKinds = []string{"posts", "profiles", "locations", "static"}

type AdminAssetsData struct {
	templates.BaseData
	Roots []AdminAssetRoot

	DeleteUrl  string
	PurgeUrl   string
	PurgeWSUrl string
}

type AdminAssetRoot struct {
	Kind       string
	Path       string
	Files      []templates.AssetFile
	NumOrphans int
	TotalSize  int64
}

func AdminAssets(c *RequestContext) ResponseData {
	var roots []AdminAssetRoot
	for _, kind := range assetKinds {
		root, err := assetRootForKind(c, kind)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		roots = append(roots, root)
	}

	var res ResponseData
	res.MustWriteTemplate("admin_assets.html", AdminAssetsData{
		BaseData:   getBaseData(c, "Asset inventory"),
		Roots:      roots,
		DeleteUrl:  bwurl.BuildAdminAssetsDelete(),
		PurgeUrl:   bwurl.BuildAdminAssetsPurge(),
		PurgeWSUrl: bwurl.BuildAdminAssetsPurgeWS(),
	})
	return res
}

func assetRootForKind(c *RequestContext, kind string) (AdminAssetRoot, error) {
	rootPath, err := mediaRootFor(kind)
	if err != nil {
		return AdminAssetRoot{}, err
	}

	inventory, err := images.Inventory(rootPath)
	if err != nil {
		return AdminAssetRoot{}, oops.New(err, "failed to inventory %s root", kind)
	}

	referenced, err := referencedSetFor(c, kind, inventory)
	if err != nil {
		return AdminAssetRoot{}, err
	}

	result := AdminAssetRoot{
		Kind: kind,
		Path: rootPath,
	}
	for _, file := range inventory {
		_, isReferenced := referenced[file.Name]
		result.Files = append(result.Files, templates.AssetFileToTemplate(kind, file, isReferenced))
		result.TotalSize += file.Size
		if !isReferenced {
			result.NumOrphans++
		}
	}
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Name < result.Files[j].Name
	})

	return result, nil
}

func mediaRootFor(kind string) (string, error) {
	media := config.Config.Media
	switch kind {
	case "posts":
		return media.PostRoot, nil
	case "profiles":
		return media.ProfileRoot, nil
	case "locations":
		return media.LocationRoot, nil
	case "static":
		return media.StaticRoot, nil
	default:
		return "", oops.New(nil, "unknown asset root: %s", kind)
	}
}

func referencedSetFor(c *RequestContext, kind string, inventory []images.FileInfo) (map[string]struct{}, error) {
	switch kind {
	case "posts":
		return bwdata.PostReferencedSet(c, c.Conn)
	case "profiles":
		return bwdata.ProfileReferencedSet(c, c.Conn)
	case "locations":
		return bwdata.LocationReferencedSet(c, c.Conn)
	case "static":
		names := make([]string, len(inventory))
		for i, file := range inventory {
			names[i] = file.Name
		}
		return images.StaticReferencedSet(names, presentationSources()), nil
	default:
		return nil, oops.New(nil, "unknown asset root: %s", kind)
	}
}

// Everything a static image filename could legitimately appear in.
func presentationSources() []string {
	return append(templates.Sources(), rawdata.ScssSources()...)
}

func stillReferencedFor(c *RequestContext, kind string) (func(name string) (bool, error), error) {
	switch kind {
	case "posts":
		return bwdata.PostStillReferenced(c, c.Conn), nil
	case "profiles":
		return bwdata.ProfileStillReferenced(c, c.Conn), nil
	case "locations":
		return bwdata.LocationStillReferenced(c, c.Conn), nil
	case "static":
		sources := presentationSources()
		return func(name string) (bool, error) {
			set := images.StaticReferencedSet([]string{name}, sources)
			_, ok := set[name]
			return ok, nil
		}, nil
	default:
		return nil, oops.New(nil, "unknown asset root: %s", kind)
	}
}

// Deletes specific files from one content root, by name. The usual path
// safety rules apply; anything unsafe is reported, not deleted.
func AdminAssetsDelete(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.ErrorResponse(http.StatusBadRequest, oops.New(err, "request must contain form data"))
	}

	kind := form.Get("kind")
	rootPath, err := mediaRootFor(kind)
	if err != nil {
		return c.RejectRequest("Unknown asset root.")
	}

	names := form["filename"]
	if len(names) == 0 {
		return c.RejectRequest("No files selected.")
	}

	report := images.DeleteAll(rootPath, names)

	res := c.Redirect(bwurl.BuildAdminAssets(), http.StatusSeeOther)
	res.AddFutureNotice("success", fmt.Sprintf(
		"Deleted %d file(s); %d skipped, %d missing, %d error(s).",
		len(report.Deleted), report.Skipped, len(report.NotFound), len(report.Errors),
	))
	for _, e := range report.Errors {
		c.Logger.Warn().Str("error", e).Msg("asset deletion problem")
	}
	return res
}

// Sweeps one content root: scans for orphans and deletes them after a
// last-moment reference re-check per file.
func AdminAssetsPurge(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.ErrorResponse(http.StatusBadRequest, oops.New(err, "request must contain form data"))
	}

	kind := form.Get("kind")
	rootPath, err := mediaRootFor(kind)
	if err != nil {
		return c.RejectRequest("Unknown asset root.")
	}

	orphans, err := scanOrphans(c, kind, rootPath)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	stillReferenced, err := stillReferencedFor(c, kind)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	report := images.Purge(c, rootPath, orphans, stillReferenced)

	res := c.Redirect(bwurl.BuildAdminAssets(), http.StatusSeeOther)
	res.AddFutureNotice("success", fmt.Sprintf(
		"Purged %d orphan(s), reclaiming %d bytes. %d problem(s).",
		len(report.Removed), report.BytesReclaimed, len(report.Errors),
	))
	for _, e := range report.Errors {
		c.Logger.Warn().Str("error", e).Msg("asset purge problem")
	}
	return res
}

func scanOrphans(c *RequestContext, kind string, rootPath string) ([]images.FileInfo, error) {
	inventory, err := images.Inventory(rootPath)
	if err != nil {
		return nil, oops.New(err, "failed to inventory %s root", kind)
	}
	referenced, err := referencedSetFor(c, kind, inventory)
	if err != nil {
		return nil, err
	}
	return images.Orphans(inventory, referenced), nil
}

var purgeUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type purgeProgress struct {
	Kind    string `json:"kind"`
	File    string `json:"file"`
	Removed bool   `json:"removed"`
	Done    bool   `json:"done"`
	Total   int    `json:"total"`
	Current int    `json:"current"`
	Error   string `json:"error,omitempty"`
}

/*
Streams a purge over a websocket, one message per file, so the admin page
can show progress on big sweeps. Each file still gets the full re-check
treatment; closing the socket cancels the rest of the sweep but loses no
files that were already purged.
*/
func AdminAssetsPurgeWS(c *RequestContext) ResponseData {
	kind := c.Req.URL.Query().Get("kind")
	rootPath, err := mediaRootFor(kind)
	if err != nil {
		return FourOhFour(c)
	}

	orphans, err := scanOrphans(c, kind, rootPath)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	stillReferenced, err := stillReferencedFor(c, kind)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	conn, err := purgeUpgrader.Upgrade(c.Res, c.Req, nil)
	if err != nil {
		// Upgrade already wrote an error response.
		c.Logger.Warn().Err(err).Msg("failed to upgrade purge websocket")
		return ResponseData{hijacked: true}
	}
	defer conn.Close()

	for i, orphan := range orphans {
		report := images.Purge(c, rootPath, []images.FileInfo{orphan}, stillReferenced)

		progress := purgeProgress{
			Kind:    kind,
			File:    orphan.Name,
			Removed: len(report.Removed) > 0,
			Total:   len(orphans),
			Current: i + 1,
		}
		if len(report.Errors) > 0 {
			progress.Error = report.Errors[0]
		}

		if err := conn.WriteJSON(progress); err != nil {
			c.Logger.Debug().Err(err).Msg("purge websocket closed early")
			return ResponseData{hijacked: true}
		}
	}

	conn.WriteJSON(purgeProgress{Kind: kind, Done: true, Total: len(orphans), Current: len(orphans)})
	return ResponseData{hijacked: true}
}

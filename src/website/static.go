package website

import (
	"net/http"
	"os"
	"path/filepath"

	"git.blockward.net/bw/blockward/src/images"
)

// MediaFile serves an uploaded image out of the matching content root.
// Filenames are checked lexically before any filesystem access, same rules
// as the delete path.
func MediaFile(c *RequestContext) ResponseData {
	kind := c.PathParams["kind"]
	filename := c.PathParams["filename"]

	rootPath, err := mediaRootFor(kind)
	if err != nil {
		return FourOhFour(c)
	}

	if filename == "" || images.CheckFilename(filename) != nil {
		return FourOhFour(c)
	}

	fullPath := filepath.Join(rootPath, filename)
	info, err := os.Lstat(fullPath)
	if err != nil || !info.Mode().IsRegular() {
		return FourOhFour(c)
	}

	var res ResponseData
	res.Header().Set("Cache-Control", "max-age=604800")
	http.ServeFile(&res, c.Req, fullPath)
	return res
}

// Public serves the built static assets (stylesheets, logos) out of the
// public directory.
func Public(c *RequestContext) ResponseData {
	// The router matched on the /public prefix, but the rest of the path is
	// raw user input.
	rel, err := filepath.Rel("/public", c.Req.URL.Path)
	if err != nil || rel == "." || images.CheckFilename(rel) != nil {
		return FourOhFour(c)
	}

	fullPath := filepath.Join("public", rel)
	info, err := os.Lstat(fullPath)
	if err != nil || !info.Mode().IsRegular() {
		return FourOhFour(c)
	}

	var res ResponseData
	http.ServeFile(&res, c.Req, fullPath)
	return res
}

package website

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/oops"
)

/*
Reads an uploaded image out of form data. Returns nil if the field was left
empty; the caller decides whether that is an error. Size and content checks
happen later, in the upload pipeline, so this helper only moves bytes.
*/
func GetFormImage(c *RequestContext, fieldName string) (*images.FormFile, error) {
	file, header, err := c.Req.FormFile(fieldName)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, oops.New(err, "failed to read uploaded file")
	}
	defer file.Close()

	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}

	content, err := readFormFile(file)
	if err != nil {
		return nil, err
	}

	return &images.FormFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func readFormFile(file multipart.File) ([]byte, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, oops.New(err, "failed to read uploaded file contents")
	}
	return content, nil
}

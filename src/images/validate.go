package images

import (
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// The policy default for the maximum size of a single uploaded image.
const DefaultMaxImageSize = 5 * 1024 * 1024

// Declared extensions we accept, and the content types each may be declared
// with. "jpg" and "jpeg" are one family; everything else maps one to one.
var allowedMimeTypes = map[string][]string{
	"jpg":  {"image/jpeg", "image/jpg"},
	"jpeg": {"image/jpeg", "image/jpg"},
	"png":  {"image/png"},
	"gif":  {"image/gif"},
	"webp": {"image/webp"},
}

// Detected codec name (as reported by image.DecodeConfig) to the extensions
// it is allowed to be declared as.
var formatFamilies = map[string][]string{
	"jpeg": {"jpg", "jpeg"},
	"png":  {"png"},
	"gif":  {"gif"},
	"webp": {"webp"},
}

// The outcome of validating one uploaded file. Never partial: either the file
// is wholly accepted or wholly rejected with a reason.
type Verdict struct {
	Accepted bool
	Reason   RejectReason
	Message  string

	// Populated on acceptance.
	Format string
	Width  int
	Height int
}

func accepted(format string, width, height int) Verdict {
	return Verdict{Accepted: true, Format: format, Width: width, Height: height}
}

func rejected(reason RejectReason, format string, args ...interface{}) Verdict {
	return Verdict{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (v Verdict) Err() *ValidationError {
	if v.Accepted {
		return nil
	}
	return &ValidationError{Reason: v.Reason, Message: v.Message}
}

/*
Validate checks an uploaded byte stream against the image policy: the declared
filename must carry an allowed extension, the declared content type must match
that extension, the payload must be non-empty and within maxBytes, and the
bytes must decode as an image whose actual format agrees with the declared
extension. The last check is the anti-spoofing guarantee: a PNG renamed to
.jpg is rejected, as is anything that is not an image at all.

The checks short-circuit in that order. The stream position is restored before
returning, so the caller can still read the file afterward.
*/
func Validate(file io.ReadSeeker, filename string, contentType string, maxBytes int64) Verdict {
	if file == nil || filename == "" {
		return rejected(RejectMissingFile, "no file was provided")
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	mimes, extAllowed := allowedMimeTypes[ext]
	if !extAllowed {
		return rejected(RejectBadExtension, "'.%s' files are not allowed; allowed types: jpg, jpeg, png, gif, webp", ext)
	}

	mimeOk := false
	for _, m := range mimes {
		if contentType == m {
			mimeOk = true
			break
		}
	}
	if !mimeOk {
		return rejected(RejectBadMimeType, "content type '%s' does not match a .%s file", contentType, ext)
	}

	pos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return rejected(RejectNotAnImage, "could not read the uploaded file")
	}
	defer file.Seek(pos, io.SeekStart)

	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return rejected(RejectNotAnImage, "could not read the uploaded file")
	}
	if size == 0 {
		return rejected(RejectMissingFile, "the uploaded file was empty")
	}
	if size > maxBytes {
		return rejected(RejectTooLarge, "file is too big; the maximum size is %d bytes", maxBytes)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return rejected(RejectNotAnImage, "could not read the uploaded file")
	}
	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return rejected(RejectNotAnImage, "the file does not appear to be a valid image")
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return rejected(RejectNotAnImage, "the image has zero size")
	}

	family, knownFormat := formatFamilies[format]
	if !knownFormat {
		return rejected(RejectNotAnImage, "the file does not appear to be a valid image")
	}
	for _, allowedExt := range family {
		if ext == allowedExt {
			return accepted(format, cfg.Width, cfg.Height)
		}
	}
	return rejected(RejectFormatMismatch, "the file contains %s data but was named .%s", format, ext)
}

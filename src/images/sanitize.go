package images

import (
	"regexp"
	"strings"
)

const maxStemLength = 100
const fallbackStem = "upload"

var reIllegalStemChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)
var reIllegalExtChars = regexp.MustCompile(`[^a-z0-9]`)

// SanitizeFilename maps an arbitrary client-supplied name to a filesystem-safe
// one. The stem keeps only alphanumerics, '-' and '_' (anything else,
// including spaces and dots, becomes '_') and is capped at 100 characters; the
// extension is lower-cased and stripped to alphanumerics. A name that
// sanitizes down to nothing becomes "upload". Total and idempotent.
func SanitizeFilename(name string) string {
	stem, ext := name, ""
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		stem, ext = name[:idx], name[idx+1:]
	}

	ext = reIllegalExtChars.ReplaceAllString(strings.ToLower(ext), "")
	stem = reIllegalStemChars.ReplaceAllString(stem, "_")
	if len(stem) > maxStemLength {
		stem = stem[:maxStemLength]
	}
	if stem == "" {
		stem = fallbackStem
	}

	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

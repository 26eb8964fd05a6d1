package images

import (
	"path"
	"strings"
)

// pairReplace swaps one pair marker for the other. A literal substring
// replace: if a user-chosen filename happens to contain the marker somewhere
// unrelated, the computed sibling will be wrong. Known wart, kept visible
// rather than papered over.
func pairReplace(name, from, to string) string {
	return strings.Replace(name, from, to, 1)
}

/*
PairedNames returns the filenames implied by name under the two naming
conventions in use: {id}_profile.{ext} and {id}_thumb.{ext} are two halves of
one profile upload, and thumb_{name} is the derivative of {name}. Protecting
or deleting one half must protect or delete the other, even when only one of
them is stored in a slot.

Derivatives of webp uploads are encoded as PNG, so each sibling is also
offered with the extension swapped between .webp and .png. These lists only
ever widen protection or deletion; a candidate that does not exist on disk
costs nothing.
*/
func PairedNames(name string) []string {
	var siblings []string
	if strings.Contains(name, "_thumb.") {
		siblings = append(siblings, pairReplace(name, "_thumb.", "_profile."))
	} else if strings.Contains(name, "_profile.") {
		siblings = append(siblings, pairReplace(name, "_profile.", "_thumb."))
	} else if rest, ok := strings.CutPrefix(name, "thumb_"); ok {
		siblings = append(siblings, rest)
	} else {
		siblings = append(siblings, "thumb_"+name)
	}

	pairs := make([]string, 0, len(siblings)*2)
	for _, sibling := range siblings {
		pairs = append(pairs, sibling)
		switch path.Ext(sibling) {
		case ".webp":
			pairs = append(pairs, strings.TrimSuffix(sibling, ".webp")+".png")
		case ".png":
			pairs = append(pairs, strings.TrimSuffix(sibling, ".png")+".webp")
		}
	}
	return pairs
}

package images

import (
	"strings"

	"git.blockward.net/bw/blockward/src/models"
)

// ReferencedSet collects every filename currently referenced by the given
// owner records: each non-empty slot value plus its paired sibling, so that
// a stored thumbnail name also protects the full-size file it was derived
// from (and vice versa).
func ReferencedSet(holders []models.AssetHolder) map[string]struct{} {
	referenced := make(map[string]struct{})
	for _, holder := range holders {
		for _, name := range holder.AssetFilenames() {
			referenced[name] = struct{}{}
			for _, pair := range PairedNames(name) {
				referenced[pair] = struct{}{}
			}
		}
	}
	return referenced
}

/*
StaticReferencedSet decides which files in a non-owner-keyed root (the static
image root) are in use: a name counts as referenced if it appears verbatim in
any of the supplied presentation sources (templates, stylesheets). This is a
substring heuristic, not a reference graph; an asset referenced only through
string concatenation in a template will look orphaned. Err on the side of
keeping things when in doubt.
*/
func StaticReferencedSet(names []string, sources []string) map[string]struct{} {
	referenced := make(map[string]struct{})
	for _, name := range names {
		for _, source := range sources {
			if strings.Contains(source, name) {
				referenced[name] = struct{}{}
				break
			}
		}
	}
	return referenced
}

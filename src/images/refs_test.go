package images

import (
	"testing"

	"git.blockward.net/bw/blockward/src/models"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestReferencedSetCollectsSlots(t *testing.T) {
	holders := []models.AssetHolder{
		&models.Post{Portrait: strptr("base.jpg"), Thumbnail: strptr("thumb_base.jpg")},
		&models.Post{}, // empty slots contribute nothing
		&models.Location{Snapshot: strptr("spawn.png")},
	}

	referenced := ReferencedSet(holders)
	assert.Contains(t, referenced, "base.jpg")
	assert.Contains(t, referenced, "thumb_base.jpg")
	assert.Contains(t, referenced, "spawn.png")
	assert.Len(t, referenced, 3)
}

func TestReferencedSetIncludesPairedSiblings(t *testing.T) {
	holders := []models.AssetHolder{
		&models.User{ProfilePicture: strptr("3_thumb.jpg")},
	}

	referenced := ReferencedSet(holders)
	assert.Contains(t, referenced, "3_thumb.jpg")
	assert.Contains(t, referenced, "3_profile.jpg",
		"the full-size sibling is protected even though no slot stores it")
}

func TestPairedNames(t *testing.T) {
	assert.Equal(t, []string{"7_profile.jpg"}, PairedNames("7_thumb.jpg"))
	assert.Equal(t, []string{"7_thumb.jpg"}, PairedNames("7_profile.jpg"))

	// The derivative of a post or location image carries the thumb_ prefix.
	assert.Equal(t, []string{"base.jpg"}, PairedNames("thumb_base.jpg"))
	assert.Equal(t, []string{"thumb_base.jpg"}, PairedNames("base.jpg"))

	// webp uploads get PNG derivatives, so the sibling may live under
	// either extension.
	assert.Equal(t, []string{"thumb_base.webp", "thumb_base.png"}, PairedNames("base.webp"))
	assert.Equal(t, []string{"base.png", "base.webp"}, PairedNames("thumb_base.png"))
	assert.Equal(t, []string{"7_profile.png", "7_profile.webp"}, PairedNames("7_thumb.png"))
}

func TestStaticReferencedSet(t *testing.T) {
	sources := []string{
		`<img src="/static/images/logo.png">`,
		`body { background: url("/static/images/dirt_tile.png"); }`,
	}
	names := []string{"logo.png", "dirt_tile.png", "old_banner.png"}

	referenced := StaticReferencedSet(names, sources)
	assert.Contains(t, referenced, "logo.png")
	assert.Contains(t, referenced, "dirt_tile.png")
	assert.NotContains(t, referenced, "old_banner.png")
}

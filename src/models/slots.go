package models

// AssetHolder is implemented by every record type that carries image asset
// slots. Code that protects or deletes files (the reference tracker, the
// deletion coordinator) depends only on this interface, never on the concrete
// record types.
type AssetHolder interface {
	// Returns the current non-empty slot values, filenames only.
	AssetFilenames() []string
}

func notNilFilenames(slots ...*string) []string {
	var filenames []string
	for _, slot := range slots {
		if slot != nil && *slot != "" {
			filenames = append(filenames, *slot)
		}
	}
	return filenames
}

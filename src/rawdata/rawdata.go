// Package rawdata holds the source material for the built presentation
// assets. The SCSS here compiles into public/style.css via the buildscss
// command; the embedded copies let other code inspect the sources without
// caring about the working directory.
package rawdata

import (
	"embed"
	"io/fs"

	"git.blockward.net/bw/blockward/src/utils"
)

//go:embed scss
var scssFS embed.FS

// ScssSources returns the contents of every SCSS source file.
func ScssSources() []string {
	var sources []string
	err := fs.WalkDir(scssFS, "scss", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		sources = append(sources, string(utils.Must1(scssFS.ReadFile(path))))
		return nil
	})
	if err != nil {
		panic(err)
	}
	return sources
}

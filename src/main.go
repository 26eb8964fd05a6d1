package main

import (
	_ "git.blockward.net/bw/blockward/src/admintools"
	_ "git.blockward.net/bw/blockward/src/buildscss"
	_ "git.blockward.net/bw/blockward/src/migration"
	"git.blockward.net/bw/blockward/src/website"
)

func main() {
	website.WebsiteCommand.Execute()
}

package config

import "github.com/rs/zerolog"

// Deployment-specific values live here. On real deploys this file is
// overwritten by the release tooling; the checked-in copy is a working
// dev setup.
var Config = BlockwardConfig{
	Env:         Dev,
	Addr:        "localhost:9001",
	PrivateAddr: "localhost:9002",
	BaseUrl:     "http://localhost:9001",
	LogLevel:    zerolog.DebugLevel,

	Postgres: PostgresConfig{
		User:     "bwuser",
		Password: "password",
		Hostname: "localhost",
		Port:     5432,
		DbName:   "bw",
		MinConn:  2,
		MaxConn:  10,
	},

	Auth: AuthConfig{
		CookieDomain: "localhost",
		CookieSecure: false,
	},

	Media: MediaConfig{
		PostRoot:     "public/media/posts",
		ProfileRoot:  "public/media/profiles",
		LocationRoot: "public/media/locations",
		StaticRoot:   "public/static/images",
		MaxImageSize: 5 * 1024 * 1024,
	},

	Spaces: SpacesConfig{
		Enabled:  false,
		Region:   "ams3",
		Endpoint: "http://localhost:9003",
		Bucket:   "blockward-media",
	},

	DevConfig: DevConfig{
		LiveTemplates: true,
	},
}

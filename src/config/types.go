package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta             = "beta"
	Dev              = "dev"
)

type BlockwardConfig struct {
	Env         Environment
	Addr        string
	PrivateAddr string
	BaseUrl     string
	LogLevel    zerolog.Level

	Postgres PostgresConfig
	Auth     AuthConfig
	Media    MediaConfig
	Spaces   SpacesConfig

	DevConfig DevConfig
}

type AuthConfig struct {
	CookieDomain string
	CookieSecure bool
}

type PostgresConfig struct {
	User     string
	Password string
	Hostname string
	Port     int
	DbName   string
	LogLevel tracelogLevel
	MinConn  int32
	MaxConn  int32
}

// Alias so the config file does not need to import pgx directly.
type tracelogLevel = int

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

// MediaConfig describes where uploaded image files live and how big they may
// be. Each root is a flat directory; filenames are the only addressing key.
type MediaConfig struct {
	PostRoot     string
	ProfileRoot  string
	LocationRoot string
	StaticRoot   string

	// The hard cap on a single uploaded image, in bytes.
	MaxImageSize int64
}

func (m MediaConfig) AllRoots() []string {
	return []string{m.PostRoot, m.ProfileRoot, m.LocationRoot, m.StaticRoot}
}

// SpacesConfig configures the S3-compatible storage used for offsite backups
// of the content roots.
type SpacesConfig struct {
	Enabled  bool
	Key      string
	Secret   string
	Region   string
	Endpoint string
	Bucket   string
}

type DevConfig struct {
	// Reload templates from disk on every request instead of using the
	// embedded copies.
	LiveTemplates bool
}

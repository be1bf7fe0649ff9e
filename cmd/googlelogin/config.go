package main

import (
	"github.com/dmitrymomot/googlelogin/modules/googlelogin"
	"github.com/dmitrymomot/googlelogin/pkg/cookie"
	"github.com/dmitrymomot/googlelogin/pkg/email"
	"github.com/dmitrymomot/googlelogin/pkg/httpserver"
	"github.com/dmitrymomot/googlelogin/pkg/jwt"
	"github.com/dmitrymomot/googlelogin/pkg/logger"
	"github.com/dmitrymomot/googlelogin/pkg/media"
	"github.com/dmitrymomot/googlelogin/pkg/nonce"
	"github.com/dmitrymomot/googlelogin/pkg/pg"
	"github.com/dmitrymomot/googlelogin/pkg/ratelimiter"
	"github.com/dmitrymomot/googlelogin/pkg/redis"
)

// Storage backends selectable through the environment.
const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendYAML     = "yaml"
	backendRedis    = "redis"
	backendS3       = "s3"
	backendLocal    = "local"
	backendOff      = "off"
)

type appConfig struct {
	SiteName string `env:"SITE_NAME" envDefault:"Google Login"`

	// UserStore is memory or postgres.
	UserStore string `env:"USER_STORE" envDefault:"postgres"`
	// SettingsStore is memory, postgres or yaml.
	SettingsStore string `env:"SETTINGS_STORE" envDefault:"postgres"`
	SettingsFile  string `env:"SETTINGS_FILE" envDefault:"./settings.yaml"`
	// CertStore is memory or redis.
	CertStore string `env:"CERT_STORE" envDefault:"redis"`
	// MediaStore is local or s3.
	MediaStore   string `env:"MEDIA_STORE" envDefault:"local"`
	MediaDir     string `env:"MEDIA_DIR" envDefault:"./tmp/media"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/media"`

	// RateLimitStore is memory, redis or off.
	RateLimitStore string `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	// ProxyHeaders name the headers trusted for the client IP, in order.
	ProxyHeaders []string `env:"TRUSTED_PROXY_HEADERS" envSeparator:","`

	NotifyNewUser bool `env:"NOTIFY_NEW_USER" envDefault:"true"`
	DevMail       bool `env:"EMAIL_DEV_MODE" envDefault:"false"`
}

type serviceConfig struct {
	App    appConfig
	Log    logger.Config
	HTTP   httpserver.Config
	Flow   googlelogin.Config
	Cookie cookie.Config
	Nonce  nonce.Config
	Certs  jwt.CertConfig
	Limit  ratelimiter.Config
	PG     pg.Config
	Redis  redis.Config
	S3     media.S3Config
	Email  email.Config
}

func (c serviceConfig) usesRedis() bool {
	return c.App.CertStore == backendRedis || c.App.RateLimitStore == backendRedis
}

func (c serviceConfig) usesPostgres() bool {
	return c.App.UserStore == backendPostgres || c.App.SettingsStore == backendPostgres
}

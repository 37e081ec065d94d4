package shared

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"prod"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
	MySQLDSN    string `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/lite?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass string        `envconfig:"REDIS_PASSWORD"`
	RedisDB   int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	// PublicHost is the host of canonical page URLs (https://<PublicHost>/<slug>).
	// Empty means "use the request Host".
	PublicHost string `envconfig:"PUBLIC_HOST"`
	BookingURL string `envconfig:"BOOKING_URL"`
	// Timezone decides which calendar day "today's price" belongs to.
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`

	CORSAllowOrigins []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	RateLimitRPS     float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst   int           `envconfig:"RATE_LIMIT_BURST" default:"40"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	TrustProxy       bool          `envconfig:"TRUST_PROXY_HEADERS" default:"false"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to process env config")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return Config{}, errors.Wrapf(err, "invalid TIMEZONE %q", c.Timezone)
	}
	if c.PublicHost == "" {
		log.Warn().Msg("PUBLIC_HOST is empty; canonical URLs will use the request host")
	}
	return c, nil
}

// Location returns the configured reference timezone, UTC when it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

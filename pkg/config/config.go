package config

import (
	"time"
)

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[multicalc]"`
}

type RateFeed struct {
	URL            string        `envconfig:"URL" default:"https://raw.githubusercontent.com/xenky/exchange_rates/main/rates.json"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"0s"`
	RefreshOnStart bool          `envconfig:"REFRESH_ON_START" default:"true"`
	Offline        bool          `envconfig:"OFFLINE" default:"false"`
}

// Storage selects the backend of the persisted blobs: memory, postgres, sqlite or redis.
type Storage struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
	URL    string `envconfig:"URL"`
}

type Redis struct {
	URL       string `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:"multicalc:"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type History struct {
	Limit int `envconfig:"LIMIT" default:"50"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	RateFeed  *RateFeed  `envconfig:"RATE_FEED"`
	Storage   *Storage   `envconfig:"STORAGE"`
	Redis     *Redis     `envconfig:"REDIS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	History   *History   `envconfig:"HISTORY"`
}

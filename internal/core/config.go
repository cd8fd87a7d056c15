package core

import (
	"time"
)

const (
	// DefaultCatalogBaseURL is the catalog API root that /search is appended to
	DefaultCatalogBaseURL = "https://api.spotify.com/v1"
	// DefaultCatalogTimeoutSecs bounds one search round-trip
	DefaultCatalogTimeoutSecs = 10
	// DefaultPlayerApp is the application driven by the macOS scripting bridge
	DefaultPlayerApp = "Spotify"
	// DefaultMPRISBusName is the session-bus name of the media player on Linux
	DefaultMPRISBusName = "org.mpris.MediaPlayer2.spotify"
	// DefaultMinQueryLength is the minimum number of runes before a search is issued
	DefaultMinQueryLength = 2
	// DefaultDebounceMillis is how long input must pause before a search is issued
	DefaultDebounceMillis = 300
	// DefaultCacheSize is the number of query results kept by the interactive picker
	DefaultCacheSize = 64
	// DefaultCacheTTLSecs is how long a cached query result stays fresh
	DefaultCacheTTLSecs = 60
	// DefaultServerPort is the metrics server port
	DefaultServerPort = 9464
)

type Config struct {
	Catalog CatalogConfig
	Player  PlayerConfig
	Search  SearchConfig
	Server  ServerConfig
	Log     LogConfig
}

type CatalogConfig struct {
	BaseURL      string
	Timeout      time.Duration
	Limit        int // 0 lets the catalog decide
	ClientID     string
	ClientSecret string
}

// HasCredentials reports whether the catalog transport should fetch tokens.
func (c CatalogConfig) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type PlayerConfig struct {
	App          string
	MPRISBusName string
	// Platform overrides the detected operating system when non-empty.
	Platform string
}

type SearchConfig struct {
	MinQueryLength int
	Debounce       time.Duration
	CacheSize      int
	CacheTTL       time.Duration
}

type ServerConfig struct {
	Enabled      bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: DefaultCatalogBaseURL,
			Timeout: DefaultCatalogTimeoutSecs * time.Second,
		},
		Player: PlayerConfig{
			App:          DefaultPlayerApp,
			MPRISBusName: DefaultMPRISBusName,
		},
		Search: SearchConfig{
			MinQueryLength: DefaultMinQueryLength,
			Debounce:       DefaultDebounceMillis * time.Millisecond,
			CacheSize:      DefaultCacheSize,
			CacheTTL:       DefaultCacheTTLSecs * time.Second,
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields koanf-tagged and load through Load.
// - Defaults come from New; file and env layers override them.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FeedBaseURL is the base URL of the remote feed service.
	FeedBaseURL string `koanf:"feed_base_url"`

	// FeedTimeoutMS bounds each outbound feed request.
	FeedTimeoutMS int `koanf:"feed_timeout_ms"`

	// FeedPageSize is the limit used when paging raw feed rows.
	FeedPageSize int `koanf:"feed_page_size"`

	// PropsPollIntervalMS paces the props/odds feed poller.
	PropsPollIntervalMS int `koanf:"props_poll_interval_ms"`

	// LivePollIntervalMS paces the live-stat poller driving reconciliation.
	LivePollIntervalMS int `koanf:"live_poll_interval_ms"`

	// DegradedThreshold is how many consecutive fetch failures mark a feed
	// degraded.
	DegradedThreshold int `koanf:"degraded_threshold"`

	// StoragePath locates the sqlite file backing the tracked-wager ledger.
	StoragePath string `koanf:"storage_path"`

	// MaxPropsLimit caps GET /props?limit.
	MaxPropsLimit int `koanf:"max_props_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		FeedBaseURL:         "http://localhost:8791",
		FeedTimeoutMS:       10_000,
		FeedPageSize:        500,
		PropsPollIntervalMS: 30_000,
		LivePollIntervalMS:  15_000,
		DegradedThreshold:   3,
		StoragePath:         "proptracker.db",
		MaxPropsLimit:       500,
	}
}

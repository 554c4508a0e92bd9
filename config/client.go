package config

import "time"

// ClientConfig is the top-level configuration of the SDK
type ClientConfig struct {
	// BaseURL is the root of the workflow service API, e.g. "https://api.example.com/api/v1"
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Timeout is the fixed per-call deadline. Calls exceeding it fail as
	// timeout failures, never as auth failures.
	Timeout time.Duration `mapstructure:"timeout"`

	Session SessionConfig `mapstructure:"session"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Store   StoreConfig   `mapstructure:"store"`
	Stream  StreamConfig  `mapstructure:"stream"`
}

// SessionConfig controls credential expiry handling
type SessionConfig struct {
	// Skew is subtracted from a credential's lifetime when deciding expiry,
	// so a call never races a credential the server would reject on arrival
	Skew time.Duration `mapstructure:"skew"`

	// RenewLead is how long before expiry the proactive renewal fires
	RenewLead time.Duration `mapstructure:"renew_lead"`

	// RenewFloor is the earliest the proactive renewal may fire, preventing
	// renewal storms on a near-expired credential at load time
	RenewFloor time.Duration `mapstructure:"renew_floor"`
}

// RetryConfig controls the bounded retry policy
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1,max=10"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	JitterMax   time.Duration `mapstructure:"jitter_max"`
}

// StoreConfig selects the credential persistence backend
type StoreConfig struct {
	// Backend is one of "memory", "file", "redis"
	Backend string `mapstructure:"backend" validate:"oneof=memory file redis"`

	// Path is the storage file location for the file backend
	Path string `mapstructure:"path"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis store backend
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// StreamConfig configures the run-event stream client
type StreamConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	PingInterval      time.Duration `mapstructure:"ping_interval"`
	PongWait          time.Duration `mapstructure:"pong_wait"`
	MaxReconnects     int           `mapstructure:"max_reconnects"`
	ReconnectBase     time.Duration `mapstructure:"reconnect_base"`
	ReconnectMax      time.Duration `mapstructure:"reconnect_max"`
	HandshakeTimeout  time.Duration `mapstructure:"handshake_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// SetDefaults implements Defaulter
func (c *ClientConfig) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	if c.Session.Skew == 0 {
		c.Session.Skew = 30 * time.Second
	}
	if c.Session.RenewLead == 0 {
		c.Session.RenewLead = 5 * time.Minute
	}
	if c.Session.RenewFloor == 0 {
		c.Session.RenewFloor = time.Minute
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = time.Second
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = 10 * time.Second
	}
	if c.Retry.JitterMax == 0 {
		c.Retry.JitterMax = time.Second
	}

	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.Path == "" {
		c.Store.Path = "flowclient-session.json"
	}
	if c.Store.Redis.KeyPrefix == "" {
		c.Store.Redis.KeyPrefix = "flowclient"
	}
	if c.Store.Redis.DialTimeout == 0 {
		c.Store.Redis.DialTimeout = 5 * time.Second
	}

	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = 30 * time.Second
	}
	if c.Stream.PongWait == 0 {
		c.Stream.PongWait = 60 * time.Second
	}
	if c.Stream.MaxReconnects == 0 {
		c.Stream.MaxReconnects = 5
	}
	if c.Stream.ReconnectBase == 0 {
		c.Stream.ReconnectBase = time.Second
	}
	if c.Stream.ReconnectMax == 0 {
		c.Stream.ReconnectMax = 30 * time.Second
	}
	if c.Stream.HandshakeTimeout == 0 {
		c.Stream.HandshakeTimeout = 10 * time.Second
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = 10 * time.Second
	}
	if c.Stream.MaxMessageSize == 0 {
		c.Stream.MaxMessageSize = 1 << 20
	}
}

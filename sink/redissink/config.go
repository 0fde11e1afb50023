package redissink

import (
	"time"

	"github.com/kbukum/reducekit/validation"
)

// DefaultKey is the hash that collects counts when none is configured.
const DefaultKey = "reducekit:counts"

// Config holds the Redis connection and counting-hash settings.
type Config struct {
	// Enabled controls whether the Redis sink is active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Addr is the Redis server address (host:port).
	Addr string `mapstructure:"addr" yaml:"addr"`

	// Password is the Redis server password.
	Password string `mapstructure:"password" yaml:"password"`

	// DB is the Redis database number.
	DB int `mapstructure:"db" yaml:"db"`

	// Key is the hash that receives one field per counted key.
	Key string `mapstructure:"key" yaml:"key"`

	// TTL expires the hash after a completed reduction (e.g. "24h"). Empty keeps it.
	TTL string `mapstructure:"ttl" yaml:"ttl"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size" yaml:"pool_size"`

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	DialTimeout  string `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

// Validate checks that required fields are present and parseable.
// A disabled sink is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	v := validation.New().
		Required("redis.addr", c.Addr).
		Required("redis.key", c.Key).
		Positive("redis.pool_size", c.PoolSize).
		Custom(c.DB >= 0, "redis.db", "must not be negative")
	for _, d := range []struct{ name, val string }{
		{"redis.dial_timeout", c.DialTimeout},
		{"redis.read_timeout", c.ReadTimeout},
		{"redis.write_timeout", c.WriteTimeout},
	} {
		_, err := time.ParseDuration(d.val)
		v.Custom(err == nil, d.name, "must be a valid duration")
	}
	if c.TTL != "" {
		ttl, err := time.ParseDuration(c.TTL)
		v.Custom(err == nil && ttl > 0, "redis.ttl", "must be a positive duration")
	}
	return v.Err()
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

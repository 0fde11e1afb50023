package kafkasink

import (
	"time"

	"github.com/kbukum/reducekit/validation"
)

// Config holds Kafka connection and producer settings for the sink.
type Config struct {
	// Enabled controls whether the Kafka sink is active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Brokers is the list of Kafka broker addresses.
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`

	// Topic receives every message produced by the sink.
	Topic string `mapstructure:"topic" yaml:"topic"`

	// TLS
	EnableTLS     bool   `mapstructure:"enable_tls" yaml:"enable_tls"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify" yaml:"tls_skip_verify"`
	TLSCAFile     string `mapstructure:"tls_ca_file" yaml:"tls_ca_file"`
	TLSCertFile   string `mapstructure:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile    string `mapstructure:"tls_key_file" yaml:"tls_key_file"`

	// SASL
	EnableSASL    bool   `mapstructure:"enable_sasl" yaml:"enable_sasl"`
	SASLMechanism string `mapstructure:"sasl_mechanism" yaml:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username      string `mapstructure:"username" yaml:"username"`
	Password      string `mapstructure:"password" yaml:"password"`

	// Producer settings
	Compression  string `mapstructure:"compression" yaml:"compression"` // none, gzip, snappy, lz4, zstd
	Retries      int    `mapstructure:"retries" yaml:"retries"`
	BatchSize    int    `mapstructure:"batch_size" yaml:"batch_size"`
	BatchTimeout string `mapstructure:"batch_timeout" yaml:"batch_timeout"`
	WriteTimeout string `mapstructure:"write_timeout" yaml:"write_timeout"`
	RequiredAcks int    `mapstructure:"required_acks" yaml:"required_acks"`

	// Connection settings
	IdleTimeout string `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	MetadataTTL string `mapstructure:"metadata_ttl" yaml:"metadata_ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "1s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = -1 // all replicas
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30s"
	}
	if c.MetadataTTL == "" {
		c.MetadataTTL = "6s"
	}
	if c.SASLMechanism == "" && c.EnableSASL {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks that required fields are present and parseable.
// A disabled sink is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	v := validation.New().
		RequiredList("kafka.brokers", c.Brokers).
		Required("kafka.topic", c.Topic).
		Positive("kafka.retries", c.Retries).
		Positive("kafka.batch_size", c.BatchSize).
		Range("kafka.required_acks", c.RequiredAcks, -1, 1).
		OneOf("kafka.compression", c.Compression, []string{"none", "gzip", "snappy", "lz4", "zstd"})
	for _, d := range []struct{ name, val string }{
		{"kafka.batch_timeout", c.BatchTimeout},
		{"kafka.write_timeout", c.WriteTimeout},
		{"kafka.idle_timeout", c.IdleTimeout},
		{"kafka.metadata_ttl", c.MetadataTTL},
	} {
		_, err := time.ParseDuration(d.val)
		v.Custom(err == nil, d.name, "must be a valid duration")
	}
	if c.EnableSASL {
		v.OneOf("kafka.sasl_mechanism", c.SASLMechanism, []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"}).
			Required("kafka.username", c.Username)
	}
	return v.Err()
}

// parseDuration parses a duration string, returning zero on empty input.
func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

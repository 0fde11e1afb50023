package s3sink

import (
	"github.com/kbukum/reducekit/validation"
)

// DefaultRegion is the default AWS region.
const DefaultRegion = "us-east-1"

// Config holds S3 settings for the object sink.
type Config struct {
	// Enabled controls whether the S3 sink is active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Prefix is prepended to every object key.
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// Region is the AWS region.
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// AccessKey is the AWS access key ID.
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`

	// SecretKey is the AWS secret access key.
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`

	// MaxObjectBytes caps one object; the sink stops accepting items once
	// the buffer reaches it. Zero means unbounded.
	MaxObjectBytes int `mapstructure:"max_object_bytes" yaml:"max_object_bytes"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the S3 configuration is valid.
// A disabled sink is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.New().
		Required("s3.bucket", c.Bucket).
		Required("s3.region", c.Region).
		Custom(c.MaxObjectBytes >= 0, "s3.max_object_bytes", "must not be negative").
		Custom((c.AccessKey == "") == (c.SecretKey == ""), "s3.secret_key", "access_key and secret_key must be set together").
		Err()
}

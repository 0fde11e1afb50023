package config

import (
	"fmt"

	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
	"github.com/kbukum/reducekit/sink/kafkasink"
	"github.com/kbukum/reducekit/sink/redissink"
	"github.com/kbukum/reducekit/sink/s3sink"
	"github.com/kbukum/reducekit/validation"
	"github.com/kbukum/reducekit/version"
)

// Config is the root configuration of a reducekit application.
//
// Example config.yml:
//
//	name: word-counter
//	environment: production
//	logging:
//	  level: info
//	  format: json
//	redis:
//	  enabled: true
//	  addr: localhost:6379
//	  key: words
type Config struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	Redis redissink.Config `yaml:"redis" mapstructure:"redis"`
	Kafka kafkasink.Config `yaml:"kafka" mapstructure:"kafka"`
	S3    s3sink.Config    `yaml:"s3" mapstructure:"s3"`
}

// ApplyDefaults applies default values to every section.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Version == "" {
		c.Version = version.Short()
	}

	// Propagate identity into sections so they tag output consistently.
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()

	c.Redis.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.S3.ApplyDefaults()
}

// Validate checks struct tags first, then each section's own rules.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	for _, section := range []struct {
		name     string
		validate func() error
	}{
		{"logging", c.Logging.Validate},
		{"observability", c.Observability.Validate},
		{"redis", c.Redis.Validate},
		{"kafka", c.Kafka.Validate},
		{"s3", c.S3.Validate},
	} {
		if err := section.validate(); err != nil {
			return errors.Validation(fmt.Sprintf("config.%s is invalid", section.name)).WithCause(err)
		}
	}
	return nil
}

// LoadService loads the root Config for serviceName, applies defaults and
// validates it.
func LoadService(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{Name: serviceName}
	if err := Load(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

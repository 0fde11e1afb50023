// Package validation checks reducekit configuration.
//
// Struct tag validation (go-playground/validator) covers the declarative
// rules; the Validator collects programmatic checks that depend on several
// fields at once. Both report an *errors.AppError with code INVALID_CONFIG
// and a "fields" detail.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Addr string `mapstructure:"addr" validate:"required,hostname_port"`
//	    Key  string `mapstructure:"key" validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Positive("batch_size", c.BatchSize)
//	err := v.Err()
package validation

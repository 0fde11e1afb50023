// Package config loads reducekit configuration from YAML files, .env files
// and environment variables.
//
// Load resolves config.yml and .env in the standard locations
// (./cmd/<service>/, ./config/, the working directory and its parents),
// reads the YAML with Viper, loads the .env file with godotenv and binds
// every environment variable under its nested key variants, so
// KAFKA_BATCH_SIZE sets kafka.batch_size:
//
//	cfg, err := config.LoadService("word-counter")
//	if err != nil {
//		return err
//	}
//	logger.Init(&cfg.Logging)
//
// Config aggregates the logging, observability and sink sections; its
// Validate checks struct tags through the validation package before each
// section's own rules.
package config

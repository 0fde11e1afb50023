// Package logger provides structured logging for reducekit using zerolog.
//
// Loggers are scoped by component and, while a reduction is running, by
// reduction id. Field keys are shared constants so sink and stage output
// can be filtered the same way.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  log_steps: false
//
// # Usage
//
//	log := logger.Get(logger.ComponentRedis)
//	log.Info("flushed", logger.Fields(logger.FieldSink, "redis", "keys", 42))
package logger

package kafkasink

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/kbukum/reducekit/logger"
)

// NewWriter builds a kafka-go Writer for cfg.Topic with optional TLS/SASL.
func NewWriter(cfg Config, log *logger.Logger) (*kafka.Writer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka sink is disabled")
	}
	if log == nil {
		log = logger.Get(logger.ComponentKafka)
	}
	log = log.WithComponent("kafkasink")

	transport, err := newTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka transport: %w", err)
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Transport:    transport,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: parseDuration(cfg.BatchTimeout),
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  resolveCompression(cfg.Compression),
		WriteTimeout: parseDuration(cfg.WriteTimeout),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error("writer: " + fmt.Sprintf(msg, args...))
		}),
	}

	log.Info("Kafka writer initialized", map[string]interface{}{
		"brokers":     cfg.Brokers,
		"topic":       cfg.Topic,
		"compression": cfg.Compression,
		"batch_size":  cfg.BatchSize,
	})
	return w, nil
}

func newTransport(cfg *Config) (*kafka.Transport, error) {
	transport := &kafka.Transport{
		IdleTimeout: parseDuration(cfg.IdleTimeout),
		MetadataTTL: parseDuration(cfg.MetadataTTL),
	}

	if cfg.EnableTLS {
		tc, err := buildTLSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("TLS config: %w", err)
		}
		transport.TLS = tc
	}

	if cfg.EnableSASL {
		m, err := buildSASLMechanism(cfg)
		if err != nil {
			return nil, fmt.Errorf("SASL config: %w", err)
		}
		transport.SASL = m
	}

	return transport, nil
}

func buildTLSConfig(cfg *Config) (*tls.Config, error) {
	tc := &tls.Config{
		InsecureSkipVerify: cfg.TLSSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("parse CA certificate")
		}
		tc.RootCAs = pool
	}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}

	return tc, nil
}

func buildSASLMechanism(cfg *Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

func resolveCompression(name string) kafka.Compression {
	switch name {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "none":
		return 0
	default:
		return kafka.Snappy
	}
}

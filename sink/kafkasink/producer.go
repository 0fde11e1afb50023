// Package kafkasink produces reduction output to a Kafka topic in batches.
//
// The pending batch travels in the reduction state, so a Producer holds no
// per-reduction data and can serve several reductions:
//
//	w, _ := kafkasink.NewWriter(cfg, log)
//	p := kafkasink.NewProducer(w, kafkasink.JSON(func(e Event) string { return e.ID }))
//	batch, err := transduce.TransduceStart(xf, p.Reducer(ctx), events)
package kafkasink

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
	"github.com/kbukum/reducekit/transduce"
)

// MessageWriter is the part of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Encoder turns one item into a Kafka message.
type Encoder[T any] func(item T) (kafka.Message, error)

// JSON encodes items as JSON values keyed by key(item). A nil key leaves
// messages unkeyed.
func JSON[T any](key func(T) string) Encoder[T] {
	return func(item T) (kafka.Message, error) {
		data, err := json.Marshal(item)
		if err != nil {
			return kafka.Message{}, fmt.Errorf("marshal JSON: %w", err)
		}
		msg := kafka.Message{
			Value: data,
			Headers: []kafka.Header{
				{Key: "content-type", Value: []byte("application/json")},
			},
		}
		if key != nil {
			msg.Key = []byte(key(item))
		}
		return msg, nil
	}
}

// Batch is the reduction state of a Producer sink.
type Batch struct {
	// Pending holds encoded messages not yet written.
	Pending []kafka.Message
	// Written counts messages acknowledged by the writer.
	Written int
}

type settings struct {
	batchSize int
	retries   int
	backoff   time.Duration
	log       *logger.Logger
}

// Option configures a Producer.
type Option func(*settings)

// WithBatchSize sets how many messages are written together. Default 100.
func WithBatchSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithRetries sets the attempts per batch write and the base backoff
// between them. Defaults are 3 attempts and 100ms.
func WithRetries(attempts int, backoff time.Duration) Option {
	return func(s *settings) {
		if attempts > 0 {
			s.retries = attempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

// WithLogger sets the logger used for write events.
func WithLogger(log *logger.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log.WithComponent(logger.ComponentKafka)
		}
	}
}

// FromConfig applies the batch size and retry count from cfg.
func FromConfig(cfg Config) Option {
	return func(s *settings) {
		cfg.ApplyDefaults()
		s.batchSize = cfg.BatchSize
		s.retries = cfg.Retries
	}
}

// Producer encodes items and writes them to Kafka in batches. Full batches
// are written from Step and the remainder from Finish. A closed writer
// stops the reduction.
type Producer[T any] struct {
	w      MessageWriter
	encode Encoder[T]
	settings
}

// NewProducer creates a Producer writing through w.
func NewProducer[T any](w MessageWriter, encode Encoder[T], opts ...Option) *Producer[T] {
	s := settings{batchSize: 100, retries: 3, backoff: 100 * time.Millisecond, log: logger.Get(logger.ComponentKafka)}
	for _, opt := range opts {
		opt(&s)
	}
	return &Producer[T]{w: w, encode: encode, settings: s}
}

// Sink binds the producer to ctx for one reduction.
func (p *Producer[T]) Sink(ctx context.Context) transduce.Sink[Batch, T] {
	return &producerSink[T]{p: p, ctx: ctx}
}

// Reducer is transduce.Into(p.Sink(ctx)).
func (p *Producer[T]) Reducer(ctx context.Context) transduce.Reducer[Batch, T] {
	return transduce.Into(p.Sink(ctx))
}

type producerSink[T any] struct {
	p   *Producer[T]
	ctx context.Context
}

func (s *producerSink[T]) Open() Batch {
	return Batch{Pending: make([]kafka.Message, 0, s.p.batchSize)}
}

func (s *producerSink[T]) Add(b Batch, item T) (Batch, error) {
	msg, err := s.p.encode(item)
	if err != nil {
		return b, fmt.Errorf("kafka encode: %w", err)
	}
	b.Pending = append(b.Pending, msg)
	if len(b.Pending) < s.p.batchSize {
		return b, nil
	}
	return s.write(s.ctx, b)
}

func (s *producerSink[T]) Flush(b Batch) (_ Batch, err error) {
	if len(b.Pending) == 0 {
		return b, nil
	}
	ctx, span := observability.StartSinkFlush(s.ctx, "kafka")
	defer func() { observability.EndSpan(span, err) }()
	return s.write(ctx, b)
}

func (s *producerSink[T]) write(ctx context.Context, b Batch) (Batch, error) {
	if err := s.send(ctx, b.Pending); err != nil {
		if stderrors.Is(err, io.ErrClosedPipe) {
			s.p.log.Warn("kafka writer closed, batch not written", map[string]interface{}{
				"messages":       len(b.Pending),
				logger.FieldSink: "kafka",
			})
			return b, transduce.ErrSinkClosed
		}
		return b, errors.ExternalServiceError("kafka", err)
	}

	s.p.log.Debug("kafka batch written", map[string]interface{}{
		"messages":       len(b.Pending),
		logger.FieldSink: "kafka",
	})
	return Batch{
		Pending: make([]kafka.Message, 0, s.p.batchSize),
		Written: b.Written + len(b.Pending),
	}, nil
}

func (s *producerSink[T]) send(ctx context.Context, msgs []kafka.Message) error {
	for attempt := 1; ; attempt++ {
		err := s.p.w.WriteMessages(ctx, msgs...)
		if err == nil || !isRetryable(err) || attempt >= s.p.retries {
			return err
		}
		s.p.log.Warn("kafka write failed, retrying", map[string]interface{}{
			"attempt":         attempt,
			logger.FieldError: err.Error(),
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.p.backoff):
		}
	}
}

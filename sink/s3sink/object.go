// Package s3sink writes reduction output to S3 as a JSON-lines object.
//
// Items are encoded into the reduction state and the object is uploaded
// once, when the reduction finishes:
//
//	obj := s3sink.NewObject[Event](client, cfg.Bucket, "events/2026-10-18.jsonl")
//	up, err := transduce.TransduceStart(xf, obj.Reducer(ctx), events)
package s3sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
	"github.com/kbukum/reducekit/transduce"
)

// ContentType is set on uploaded objects.
const ContentType = "application/x-ndjson"

// PutObjectAPI is the part of *s3.Client the sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Upload is the reduction state of an Object sink.
type Upload struct {
	// Body holds the encoded lines.
	Body []byte
	// Lines counts encoded items.
	Lines int
	// ETag is set once the object has been uploaded.
	ETag string
}

// Object encodes items as JSON lines and uploads them with PutObject when
// the reduction finishes. Empty reductions upload nothing.
type Object[T any] struct {
	api      PutObjectAPI
	bucket   string
	key      string
	maxBytes int
	log      *logger.Logger
}

// Option configures an Object.
type Option func(*objectOptions)

type objectOptions struct {
	maxBytes int
	log      *logger.Logger
}

// WithMaxBytes stops the reduction once the buffered object reaches n bytes.
func WithMaxBytes(n int) Option {
	return func(o *objectOptions) { o.maxBytes = n }
}

// WithLogger sets the logger used for upload events.
func WithLogger(log *logger.Logger) Option {
	return func(o *objectOptions) {
		if log != nil {
			o.log = log.WithComponent(logger.ComponentS3)
		}
	}
}

// NewObject creates a sink for the object bucket/key.
func NewObject[T any](api PutObjectAPI, bucket, key string, opts ...Option) *Object[T] {
	o := objectOptions{log: logger.Get(logger.ComponentS3)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Object[T]{api: api, bucket: bucket, key: key, maxBytes: o.maxBytes, log: o.log}
}

// NewObjectFromConfig creates a sink for name under cfg.Prefix in cfg.Bucket.
func NewObjectFromConfig[T any](api PutObjectAPI, cfg Config, name string, log *logger.Logger) *Object[T] {
	return NewObject[T](api, cfg.Bucket, path.Join(cfg.Prefix, name), WithMaxBytes(cfg.MaxObjectBytes), WithLogger(log))
}

// Key returns the object key.
func (o *Object[T]) Key() string { return o.key }

// Sink binds the object to ctx for one reduction.
func (o *Object[T]) Sink(ctx context.Context) transduce.Sink[Upload, T] {
	return objectSink[T]{o: o, ctx: ctx}
}

// Reducer is transduce.Into(o.Sink(ctx)).
func (o *Object[T]) Reducer(ctx context.Context) transduce.Reducer[Upload, T] {
	return transduce.Into(o.Sink(ctx))
}

type objectSink[T any] struct {
	o   *Object[T]
	ctx context.Context
}

func (s objectSink[T]) Add(u Upload, item T) (Upload, error) {
	if s.o.maxBytes > 0 && len(u.Body) >= s.o.maxBytes {
		return u, transduce.ErrSinkClosed
	}
	line, err := json.Marshal(item)
	if err != nil {
		return u, fmt.Errorf("s3 encode: %w", err)
	}
	u.Body = append(append(u.Body, line...), '\n')
	u.Lines++
	return u, nil
}

func (s objectSink[T]) Flush(u Upload) (_ Upload, err error) {
	if u.Lines == 0 {
		return u, nil
	}
	ctx, span := observability.StartSinkFlush(s.ctx, "s3")
	defer func() { observability.EndSpan(span, err) }()

	out, err := s.o.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.o.bucket),
		Key:         aws.String(s.o.key),
		Body:        bytes.NewReader(u.Body),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return u, errors.ExternalServiceError("s3", err).WithDetail("key", s.o.key)
	}
	u.ETag = aws.ToString(out.ETag)

	s.o.log.Info("s3 object uploaded", map[string]interface{}{
		logger.FieldSink: s.o.bucket + "/" + s.o.key,
		"lines":          u.Lines,
		"bytes":          len(u.Body),
	})
	return u, nil
}

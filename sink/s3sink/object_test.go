package s3sink

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
	"github.com/kbukum/reducekit/transduce"
)

type record struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type putCall struct {
	bucket, key, contentType string
	body                     string
}

type fakeS3 struct {
	calls []putCall
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, putCall{
		bucket:      aws.ToString(in.Bucket),
		key:         aws.ToString(in.Key),
		contentType: aws.ToString(in.ContentType),
		body:        string(body),
	})
	return &awss3.PutObjectOutput{ETag: aws.String(`"etag-1"`)}, nil
}

func TestObjectUploadsJSONLines(t *testing.T) {
	api := &fakeS3{}
	obj := NewObject[record](api, "bucket", "out/words.jsonl", WithLogger(logger.Nop()))

	up, err := transduce.TransduceStart(
		transduce.Map[Upload](func(w string) record { return record{Word: w, Count: len(w)} }),
		obj.Reducer(context.Background()),
		slices.Values([]string{"go", "kafka"}),
	)
	require.NoError(t, err)
	require.Equal(t, 2, up.Lines)
	require.Equal(t, `"etag-1"`, up.ETag)

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	require.Equal(t, "bucket", call.bucket)
	require.Equal(t, "out/words.jsonl", call.key)
	require.Equal(t, ContentType, call.contentType)
	require.Equal(t, "{\"word\":\"go\",\"count\":2}\n{\"word\":\"kafka\",\"count\":5}\n", call.body)
}

func TestObjectEmptyReductionSkipsUpload(t *testing.T) {
	api := &fakeS3{}
	obj := NewObject[record](api, "bucket", "empty.jsonl")

	up, err := transduce.TransduceStart(transduce.Identity[Upload, record](), obj.Reducer(context.Background()), slices.Values([]record{}))
	require.NoError(t, err)
	require.Zero(t, up.Lines)
	require.Empty(t, api.calls)
}

func TestObjectMaxBytesStops(t *testing.T) {
	api := &fakeS3{}
	obj := NewObject[string](api, "bucket", "capped.jsonl", WithMaxBytes(10))

	pulled := 0
	src := func(yield func(string) bool) {
		for _, s := range []string{"aaaa", "bbbb", "cccc", "dddd"} {
			pulled++
			if !yield(s) {
				return
			}
		}
	}

	up, err := transduce.Reduce(obj.Reducer(context.Background()), Upload{}, src)
	require.NoError(t, err)
	require.Equal(t, 2, up.Lines)
	require.Equal(t, 3, pulled)
	require.Equal(t, "\"aaaa\"\n\"bbbb\"\n", api.calls[0].body)
}

func TestObjectUploadError(t *testing.T) {
	denied := errors.New("AccessDenied")
	obj := NewObject[int](&fakeS3{err: denied}, "bucket", "x.jsonl")

	_, err := transduce.Reduce(obj.Reducer(context.Background()), Upload{}, slices.Values([]int{1}))
	require.ErrorIs(t, err, denied)
	require.Equal(t, apperrors.ErrCodeExternalService, apperrors.Code(err))
}

func TestObjectEncodeError(t *testing.T) {
	api := &fakeS3{}
	obj := NewObject[chan int](api, "bucket", "x.jsonl")

	_, err := transduce.Reduce(obj.Reducer(context.Background()), Upload{}, slices.Values([]chan int{make(chan int)}))
	require.ErrorContains(t, err, "s3 encode")
	require.Empty(t, api.calls)
}

func TestNewObjectFromConfig(t *testing.T) {
	cfg := Config{Bucket: "b", Prefix: "runs/", MaxObjectBytes: 64}
	obj := NewObjectFromConfig[record](&fakeS3{}, cfg, "today.jsonl", nil)
	require.Equal(t, "runs/today.jsonl", obj.Key())
	require.Equal(t, 64, obj.maxBytes)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "disabled", cfg: Config{}},
		{name: "valid", cfg: Config{Enabled: true, Bucket: "b"}},
		{name: "missing bucket", cfg: Config{Enabled: true}, wantErr: "s3.bucket: is required"},
		{name: "half credentials", cfg: Config{Enabled: true, Bucket: "b", AccessKey: "id"}, wantErr: "s3.secret_key"},
		{name: "negative cap", cfg: Config{Enabled: true, Bucket: "b", MaxObjectBytes: -1}, wantErr: "s3.max_object_bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(context.Background(), Config{
		Enabled:   true,
		Bucket:    "b",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	opts := client.Options()
	require.True(t, opts.UsePathStyle)
	require.Equal(t, DefaultRegion, opts.Region)
	require.True(t, strings.HasPrefix(aws.ToString(opts.BaseEndpoint), "http://localhost"))
}

func TestNewClientDisabled(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.ErrorContains(t, err, "disabled")
}

func installTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestObjectFlushSpanRecordsError(t *testing.T) {
	exporter := installTracer(t)
	api := &fakeS3{err: errors.New("access denied")}
	obj := NewObject[record](api, "bucket", "k.jsonl", WithLogger(logger.Nop()))

	_, err := transduce.Reduce(obj.Reducer(context.Background()), Upload{}, slices.Values([]record{{Word: "go"}}))
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, observability.SpanSinkFlush, spans[0].Name)
	require.Equal(t, codes.Error, spans[0].Status.Code)
	require.NotEmpty(t, spans[0].Events)
}

func TestObjectEmptyFlushHasNoSpan(t *testing.T) {
	exporter := installTracer(t)
	obj := NewObject[record](&fakeS3{}, "bucket", "k.jsonl", WithLogger(logger.Nop()))

	_, err := transduce.Reduce(obj.Reducer(context.Background()), Upload{}, slices.Values([]record(nil)))
	require.NoError(t, err)
	require.Empty(t, exporter.GetSpans())
}

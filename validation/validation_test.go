package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kbukum/reducekit/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("key", "counts").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("key", "").HasErrors() {
		t.Error("expected error for empty required field")
	}
	if !New().Required("key", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorRequiredList(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		wantErr bool
	}{
		{"one broker", []string{"localhost:9092"}, false},
		{"nil", nil, true},
		{"only blanks", []string{"", " "}, true},
		{"blank and real", []string{"", "kafka:9092"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := New().RequiredList("brokers", tc.values).HasErrors(); got != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", got, tc.wantErr)
			}
		})
	}
}

func TestValidatorPositive(t *testing.T) {
	if New().Positive("batch_size", 1).HasErrors() {
		t.Error("expected no error for 1")
	}
	if !New().Positive("batch_size", 0).HasErrors() {
		t.Error("expected error for 0")
	}
	if !New().Positive("batch_size", -4).HasErrors() {
		t.Error("expected error for negative")
	}
}

func TestValidatorRange(t *testing.T) {
	if New().Range("db", 3, 0, 15).HasErrors() {
		t.Error("expected no error for value in range")
	}
	if !New().Range("db", -1, 0, 15).HasErrors() {
		t.Error("expected error for value below range")
	}
	if !New().Range("db", 16, 0, 15).HasErrors() {
		t.Error("expected error for value above range")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"none", "one", "all"}
	if New().OneOf("acks", "all", allowed).HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}
	if !New().OneOf("acks", "some", allowed).HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}
	if New().OneOf("acks", "", allowed).HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New().Custom(true, "field", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}
	v.Custom(false, "field", "custom error")
	if v.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Required("key", "k").Validate() != nil {
		t.Error("expected nil for valid input")
	}
	if err := New().Err(); err != nil {
		t.Errorf("Err() on a clean validator = %v", err)
	}

	appErr := New().Required("bucket", "").Positive("batch_size", 0).Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("code = %s", appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors, got %v", appErr.Details["fields"])
	}
	if !strings.Contains(appErr.Message, "bucket") || !strings.Contains(appErr.Message, "batch_size") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	if v.Required("key", "k").Positive("size", 1).Range("db", 0, 0, 15) != v {
		t.Error("expected chaining to return same validator")
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}

type sinkSection struct {
	Addr string `mapstructure:"addr" validate:"required"`
	Size int    `mapstructure:"batch_size" validate:"gt=0"`
}

type rootConfig struct {
	Name string      `mapstructure:"name" validate:"required"`
	Rate float64     `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Sink sinkSection `mapstructure:"sink"`
}

func TestStructValidateValid(t *testing.T) {
	cfg := rootConfig{Name: "ingest", Rate: 0.5, Sink: sinkSection{Addr: "localhost:6379", Size: 10}}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(rootConfig{Rate: 2, Sink: sinkSection{Size: 0}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !stderrors.Is(err, errors.Validation("")) {
		t.Errorf("expected an INVALID_CONFIG error, got %v", err)
	}

	msg := err.Error()
	for _, path := range []string{"name: is required", "sample_rate: must be at most 1", "sink.addr: is required", "sink.batch_size: must be greater than 0"} {
		if !strings.Contains(msg, path) {
			t.Errorf("expected %q in %q", path, msg)
		}
	}
}

func TestStructValidateNonStruct(t *testing.T) {
	if err := Validate(42); err == nil {
		t.Error("expected error for a non-struct value")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"BatchSize": "batch_size",
		"Addr":      "addr",
		"DB":        "d_b",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

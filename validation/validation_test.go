package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/accessorkit/errors"
)

type poolConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=ordered unordered"`
}

type outerConfig struct {
	Pool poolConfig `mapstructure:"pool"`
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(poolConfig{Host: "localhost", Port: 6380}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cfg    poolConfig
		field  string
		substr string
	}{
		{"missing host", poolConfig{Port: 1}, "host", "is required"},
		{"port too high", poolConfig{Host: "h", Port: 70000}, "port", "at most 65535"},
		{"port zero", poolConfig{Host: "h"}, "port", "at least 1"},
		{"bad mode", poolConfig{Host: "h", Port: 1, Mode: "random"}, "mode", "one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			if appErr.Details["field"] != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, appErr.Details["field"])
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected %q in %q", tt.substr, err.Error())
			}
		})
	}
}

func TestValidate_NestedPathAndMultipleFields(t *testing.T) {
	err := Validate(outerConfig{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors, got %v", appErr.Details["fields"])
	}
	if fields[0].Field != "pool.host" {
		t.Errorf("expected nested path pool.host, got %q", fields[0].Field)
	}
	if _, ok := appErr.Details["field"]; ok {
		t.Error("field detail is only set for a single failure")
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("MaxOpenConns"); got != "max_open_conns" {
		t.Errorf("unexpected %q", got)
	}
}

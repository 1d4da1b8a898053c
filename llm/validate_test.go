package llm

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
)

// testStruct is a simple struct for validation testing
type testStruct struct {
	Name  string `validate:"required"`
	Value int    `validate:"min=1,max=100"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantErr bool
	}{
		{
			name:  "valid struct",
			input: &testStruct{Name: "test", Value: 50},
		},
		{
			name:    "missing required field",
			input:   &testStruct{Name: "", Value: 50},
			wantErr: true,
		},
		{
			name:    "value below minimum",
			input:   &testStruct{Name: "test", Value: 0},
			wantErr: true,
		},
		{
			name:    "value above maximum",
			input:   &testStruct{Name: "test", Value: 101},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConcurrency(t *testing.T) {
	const numGoroutines = 100
	var wg sync.WaitGroup
	errCh := make(chan error, numGoroutines*2)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			if err := Validate(&testStruct{Name: "ok", Value: 1}); err != nil {
				errCh <- err
			}
		}()

		go func() {
			defer wg.Done()
			if err := Validate(&testStruct{}); err == nil {
				errCh <- errors.New("invalid struct should have failed")
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}
}

type slugged struct {
	Slug string `validate:"lowerslug"`
}

func TestRegisterCustomValidation(t *testing.T) {
	err := RegisterCustomValidation("lowerslug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && s == strings.ToLower(s) && !strings.Contains(s, " ")
	})
	if err != nil {
		t.Fatalf("RegisterCustomValidation() error = %v", err)
	}

	if err := Validate(&slugged{Slug: "launch-notes"}); err != nil {
		t.Errorf("expected slug to pass, got %v", err)
	}
	if err := Validate(&slugged{Slug: "Launch Notes"}); err == nil {
		t.Error("expected slug with spaces to fail")
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: "https://ai-api.monkeyscms.com/v1/unified"},
		{url: "http://127.0.0.1:8080/v1/unified"},
		{url: "", wantErr: true},
		{url: "/v1/unified", wantErr: true},
		{url: "ftp://example.com/v1/unified", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateEndpoint(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEndpoint(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{
			name: "nil error",
			err:  nil,
			want: CategoryGeneric,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: CategoryTimeout,
		},
		{
			name: "wrapped deadline",
			err:  fmt.Errorf("generate: %w", context.DeadlineExceeded),
			want: CategoryTimeout,
		},
		{
			name: "unauthorized status",
			err:  errors.New("request failed with status 401 Unauthorized"),
			want: CategoryInvalidKey,
		},
		{
			name: "invalid key message",
			err:  errors.New("invalid api key provided"),
			want: CategoryInvalidKey,
		},
		{
			name: "rate limited",
			err:  errors.New("429 Too Many Requests"),
			want: CategoryRateLimit,
		},
		{
			name: "quota exhausted",
			err:  errors.New("quota exceeded for this billing period"),
			want: CategoryRateLimit,
		},
		{
			name: "service overloaded",
			err:  errors.New("upstream returned 503 service unavailable"),
			want: CategoryUnavailable,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:11434: connection refused"),
			want: CategoryNetwork,
		},
		{
			name: "unknown error",
			err:  errors.New("something strange happened"),
			want: CategoryGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.want {
				t.Errorf("Categorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFriendlyMessageNeverEmpty(t *testing.T) {
	for _, err := range []error{nil, errors.New("x"), context.DeadlineExceeded} {
		if FriendlyMessage(err) == "" {
			t.Errorf("FriendlyMessage(%v) returned empty string", err)
		}
	}
}

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		wantErr  bool
	}{
		{name: "valid openai", provider: "openai", want: ProviderOpenAI},
		{name: "valid ollama", provider: "ollama", want: ProviderOllama},
		{name: "valid anthropic", provider: "anthropic", want: ProviderAnthropic},
		{name: "valid gemini", provider: "gemini", want: ProviderGemini},
		{name: "invalid provider", provider: "invalid", wantErr: true},
		{name: "empty provider", provider: "", wantErr: true},
		{name: "case sensitive", provider: "OPENAI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProvider(tt.provider)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateProvider(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateProvider(%q) = %v, want %v", tt.provider, got, tt.want)
			}
		})
	}
}

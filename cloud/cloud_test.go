package cloud

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

func TestBaseLanguage(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{"en-US", "en"},
		{"es", "es"},
		{"pt-BR", "pt"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := baseLanguage(tt.tag); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{
			name:     "segments joined one per line in service order",
			payload:  `{"segments": [{"text": " first part"}, {"text": "second part "}]}`,
			expected: "first part\nsecond part",
		},
		{
			name:     "no segments falls back to full text",
			payload:  `{"text": " whole transcript "}`,
			expected: "whole transcript",
		},
		{
			name:     "no speech detected is empty, not an error",
			payload:  `{}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp openai.AudioResponse
			if err := json.Unmarshal([]byte(tt.payload), &resp); err != nil {
				t.Fatalf("failed to build response: %v", err)
			}
			if got := joinSegments(resp); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTranslateEmptyTextSkipsRemoteCall(t *testing.T) {
	// No API key and no reachable backend: an empty input must still
	// succeed because the adapter short-circuits it locally.
	client := NewClient(Config{RequestsPerSecond: 1, Burst: 1}, zerolog.Nop())

	result, err := client.Translate(context.Background(), "   ", "es")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "" {
		t.Errorf("expected empty translation, got %q", result.Text)
	}
	if result.TargetLanguage != "es" {
		t.Errorf("expected target language es, got %q", result.TargetLanguage)
	}
}

func TestErrorCarriesServiceAndOp(t *testing.T) {
	err := newError(ServiceRecognition, "Client.Transcribe", nil, "recognition request failed")
	if err.Service != ServiceRecognition {
		t.Errorf("unexpected service: %s", err.Service)
	}
	if err.Error() != "Client.Transcribe: recognition request failed" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

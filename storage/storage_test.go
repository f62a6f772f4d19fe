package storage

import (
	"testing"
)

func newTestBridge(t *testing.T, endpoint string) *Bridge {
	t.Helper()
	bridge, err := NewBridge(Config{
		AccessKey: "test-access",
		SecretKey: "test-secret",
		Region:    "us-east-1",
		Endpoint:  endpoint,
		Bucket:    "marcosargiottitask",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return bridge
}

func TestPublicURLConstruction(t *testing.T) {
	bridge := newTestBridge(t, "https://storage.googleapis.com")

	got := bridge.PublicURL("audio-abc123.mp3")
	want := "https://storage.googleapis.com/marcosargiottitask/audio-abc123.mp3"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPublicURLIsIdempotent(t *testing.T) {
	bridge := newTestBridge(t, "https://storage.googleapis.com")

	first := bridge.PublicURL("frame-xyz.jpg")
	second := bridge.PublicURL("frame-xyz.jpg")
	if first != second {
		t.Errorf("expected byte-identical URLs, got %q and %q", first, second)
	}
}

func TestPublicURLTrimsTrailingEndpointSlash(t *testing.T) {
	bridge := newTestBridge(t, "https://storage.googleapis.com/")

	got := bridge.PublicURL("audio-abc123.mp3")
	want := "https://storage.googleapis.com/marcosargiottitask/audio-abc123.mp3"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBucket(t *testing.T) {
	bridge := newTestBridge(t, "https://storage.googleapis.com")
	if bridge.Bucket() != "marcosargiottitask" {
		t.Errorf("unexpected bucket: %s", bridge.Bucket())
	}
}

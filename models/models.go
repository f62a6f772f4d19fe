package models

import (
	"encoding/json"
	"time"
)

// VideoReference is the single process-wide video record. Absence (empty
// URL) is a valid state: no video has been submitted yet.
type VideoReference struct {
	URL string `json:"url"`
}

// ArtifactKind discriminates the two transcoding outputs.
type ArtifactKind string

const (
	KindAudio ArtifactKind = "audio"
	KindFrame ArtifactKind = "frame"
)

// MediaArtifact is a transient local file produced by transcoding. It is
// owned by the pipeline for the duration of one request and never shared
// across requests: ID (and therefore LocalPath and RemoteKey) is unique per
// extraction.
type MediaArtifact struct {
	ID        string       `json:"id"`
	Kind      ArtifactKind `json:"kind"`
	LocalPath string       `json:"-"`
	RemoteKey string       `json:"remote_key,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// VideoMetadata is recomputed on every probe, never cached.
type VideoMetadata struct {
	Duration    float64
	VideoHeight int
	HeightKnown bool
}

// MarshalJSON reports "Unknown" for the height when the probed container
// had no video stream.
func (m VideoMetadata) MarshalJSON() ([]byte, error) {
	var height interface{} = "Unknown"
	if m.HeightKnown {
		height = m.VideoHeight
	}
	return json.Marshal(struct {
		Duration    float64     `json:"duration"`
		VideoHeight interface{} `json:"videoHeight"`
	}{
		Duration:    m.Duration,
		VideoHeight: height,
	})
}

// TranscriptionResult holds the concatenated transcript. An empty string is
// a valid result (no speech detected), not an error.
type TranscriptionResult struct {
	Text string `json:"text"`
}

type TranslationResult struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type SynthesisResult struct {
	AudioBytes []byte `json:"-"`
	Encoding   string `json:"encoding"`
}

// OCRResult holds the full-image annotation text; empty when the service
// found none.
type OCRResult struct {
	Text string `json:"text"`
}

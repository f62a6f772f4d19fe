package pipeline

import (
	"context"
	"time"

	"github.com/sargiotti/BackEndServer/models"
)

// Service is the request-level pipeline surface. Each operation is a fixed,
// strictly sequential composition of the leaf components.
type Service interface {
	// SetVideo stores the current video reference.
	SetVideo(ctx context.Context, url string) error

	// GetVideo returns the current reference; the empty-url sentinel when
	// none has been set.
	GetVideo(ctx context.Context) (models.VideoReference, error)

	// Metadata probes the given URL, or the stored reference when url is
	// empty.
	Metadata(ctx context.Context, url string) (models.VideoMetadata, error)

	// ExtractAudio extracts the fixed-policy audio clip and delivers it per
	// the configured mode.
	ExtractAudio(ctx context.Context, url string) (*AudioExtraction, error)

	// ExtractFrame extracts the first frame and uploads it.
	ExtractFrame(ctx context.Context, url string) (*FrameExtraction, error)

	// ProcessAudio transcribes an uploaded clip and translates the result.
	// An empty key selects the most recently uploaded clip. The operation
	// is atomic: no transcript is returned when translation fails.
	ProcessAudio(ctx context.Context, key string) (*models.ProcessAudioResponse, error)

	// Synthesize converts text to speech.
	Synthesize(ctx context.Context, text string) (models.SynthesisResult, error)

	// PerformOCR detects text in an uploaded frame. An empty key selects
	// the most recently uploaded frame.
	PerformOCR(ctx context.Context, key string) (models.OCRResult, error)
}

// AudioExtraction is the result of the extract-audio operation. Exactly one
// of URL or Inline is populated, depending on the delivery mode.
type AudioExtraction struct {
	Key    string
	URL    string
	Inline []byte
}

type FrameExtraction struct {
	Key      string
	ImageURL string
}

type Config struct {
	// Per-stage deadlines
	ProbeTimeout     time.Duration
	TranscodeTimeout time.Duration
	UploadTimeout    time.Duration
	RemoteTimeout    time.Duration

	// AudioDelivery is "url" or "inline" (config package constants).
	AudioDelivery string

	// Remote language policy
	TargetLanguage    string
	SynthesisLanguage string
}

// Transcoder is the media gateway seen by the orchestrator.
type Transcoder interface {
	Probe(ctx context.Context, videoURL string) (models.VideoMetadata, error)
	ExtractAudioClip(ctx context.Context, videoURL string, artifact models.MediaArtifact) (models.MediaArtifact, error)
	ExtractFrame(ctx context.Context, videoURL string, artifact models.MediaArtifact) (models.MediaArtifact, error)
}

// Artifacts owns local artifact lifecycle.
type Artifacts interface {
	New(kind models.ArtifactKind) models.MediaArtifact
	Remove(a models.MediaArtifact) error
	Read(a models.MediaArtifact) ([]byte, error)
}

// Uploader is the object-storage bridge.
type Uploader interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	PublicURL(key string) string
}

// AI bundles the four remote adapters.
type AI interface {
	Transcribe(ctx context.Context, remoteAudioURL string) (models.TranscriptionResult, error)
	Translate(ctx context.Context, text, targetLanguage string) (models.TranslationResult, error)
	Synthesize(ctx context.Context, text, languageCode string) (models.SynthesisResult, error)
	DetectText(ctx context.Context, remoteImageURL string) (models.OCRResult, error)
}

// ReferenceStore persists the single current video reference.
type ReferenceStore interface {
	Set(ref models.VideoReference) error
	Get() (models.VideoReference, error)
}

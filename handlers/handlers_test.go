package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sargiotti/BackEndServer/errors"
	"github.com/sargiotti/BackEndServer/models"
	"github.com/sargiotti/BackEndServer/services/pipeline"
)

type fakeService struct {
	setVideo     func(ctx context.Context, url string) error
	getVideo     func(ctx context.Context) (models.VideoReference, error)
	metadata     func(ctx context.Context, url string) (models.VideoMetadata, error)
	extractAudio func(ctx context.Context, url string) (*pipeline.AudioExtraction, error)
	extractFrame func(ctx context.Context, url string) (*pipeline.FrameExtraction, error)
	processAudio func(ctx context.Context, key string) (*models.ProcessAudioResponse, error)
	synthesize   func(ctx context.Context, text string) (models.SynthesisResult, error)
	performOCR   func(ctx context.Context, key string) (models.OCRResult, error)
}

func (f *fakeService) SetVideo(ctx context.Context, url string) error {
	return f.setVideo(ctx, url)
}

func (f *fakeService) GetVideo(ctx context.Context) (models.VideoReference, error) {
	return f.getVideo(ctx)
}

func (f *fakeService) Metadata(ctx context.Context, url string) (models.VideoMetadata, error) {
	return f.metadata(ctx, url)
}

func (f *fakeService) ExtractAudio(ctx context.Context, url string) (*pipeline.AudioExtraction, error) {
	return f.extractAudio(ctx, url)
}

func (f *fakeService) ExtractFrame(ctx context.Context, url string) (*pipeline.FrameExtraction, error) {
	return f.extractFrame(ctx, url)
}

func (f *fakeService) ProcessAudio(ctx context.Context, key string) (*models.ProcessAudioResponse, error) {
	return f.processAudio(ctx, key)
}

func (f *fakeService) Synthesize(ctx context.Context, text string) (models.SynthesisResult, error) {
	return f.synthesize(ctx, text)
}

func (f *fakeService) PerformOCR(ctx context.Context, key string) (models.OCRResult, error) {
	return f.performOCR(ctx, key)
}

func newTestApp(service pipeline.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
	})

	h := NewPipelineHandler(service)
	app.Get("/", h.Root)
	app.Get("/health", HealthCheck)
	app.Post("/video", h.SetVideo)
	app.Get("/video", h.GetVideo)
	app.Get("/video/metadata", h.Metadata)
	app.Get("/video/audio", h.ExtractAudio)
	app.Get("/video/first-frame", h.FirstFrame)
	app.Post("/processAudio", h.ProcessAudio)
	app.Post("/convertTextToSpeech", h.ConvertTextToSpeech)
	app.Get("/performOCR", h.PerformOCR)
	return app
}

func TestRoot(t *testing.T) {
	app := newTestApp(&fakeService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Server is running" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(&fakeService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	var response struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected status ok, got %q", response.Status)
	}
	if _, err := time.Parse(time.RFC3339, response.Timestamp); err != nil {
		t.Errorf("invalid timestamp format: %v", err)
	}
}

func TestSetVideo(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
	}{
		{"valid url", `{"url": "https://example/video.mp4"}`, fiber.StatusOK},
		{"missing url", `{}`, fiber.StatusBadRequest},
		{"malformed body", `{not json`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeService{
				setVideo: func(ctx context.Context, url string) error { return nil },
			})

			req := httptest.NewRequest("POST", "/video", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("failed to test request: %v", err)
			}
			if resp.StatusCode != tt.statusCode {
				t.Errorf("expected %d, got %d", tt.statusCode, resp.StatusCode)
			}
		})
	}
}

func TestGetVideo(t *testing.T) {
	app := newTestApp(&fakeService{
		getVideo: func(ctx context.Context) (models.VideoReference, error) {
			return models.VideoReference{URL: "https://example/video.mp4"}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/video", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}

	var ref models.VideoReference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if ref.URL != "https://example/video.mp4" {
		t.Errorf("unexpected url: %q", ref.URL)
	}
}

func TestMetadata(t *testing.T) {
	app := newTestApp(&fakeService{
		metadata: func(ctx context.Context, url string) (models.VideoMetadata, error) {
			if url != "https://example/video.mp4" {
				t.Errorf("unexpected url forwarded: %q", url)
			}
			return models.VideoMetadata{Duration: 120.0, VideoHeight: 720, HeightKnown: true}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/video/metadata?url=https%3A%2F%2Fexample%2Fvideo.mp4", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}

	var body struct {
		Duration    float64     `json:"duration"`
		VideoHeight interface{} `json:"videoHeight"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Duration != 120.0 {
		t.Errorf("unexpected duration: %v", body.Duration)
	}
	if body.VideoHeight != float64(720) {
		t.Errorf("unexpected height: %v", body.VideoHeight)
	}
}

func TestMetadataUnknownHeight(t *testing.T) {
	app := newTestApp(&fakeService{
		metadata: func(ctx context.Context, url string) (models.VideoMetadata, error) {
			return models.VideoMetadata{Duration: 15.0}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/video/metadata?url=https%3A%2F%2Fexample%2Faudio.mp4", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}

	var body struct {
		VideoHeight interface{} `json:"videoHeight"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.VideoHeight != "Unknown" {
		t.Errorf("expected Unknown height, got %v", body.VideoHeight)
	}
}

func TestMetadataNotFound(t *testing.T) {
	app := newTestApp(&fakeService{
		metadata: func(ctx context.Context, url string) (models.VideoMetadata, error) {
			return models.VideoMetadata{}, errors.NotFound("op", nil, "No video URL found")
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/video/metadata", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if envelope.Success {
		t.Error("expected success false")
	}
	if envelope.Error != "No video URL found" {
		t.Errorf("unexpected error message: %q", envelope.Error)
	}
}

func TestExtractAudioURLDelivery(t *testing.T) {
	app := newTestApp(&fakeService{
		extractAudio: func(ctx context.Context, url string) (*pipeline.AudioExtraction, error) {
			return &pipeline.AudioExtraction{
				Key: "audio-abc.mp3",
				URL: "https://storage.test/marcosargiottitask/audio-abc.mp3",
			}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/video/audio?url=https%3A%2F%2Fexample%2Fvideo.mp4", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}

	var body models.AudioResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Key != "audio-abc.mp3" {
		t.Errorf("unexpected key: %q", body.Key)
	}
	if !strings.Contains(body.URL, "marcosargiottitask") {
		t.Errorf("expected bucket in url: %q", body.URL)
	}
}

func TestExtractAudioInlineDelivery(t *testing.T) {
	app := newTestApp(&fakeService{
		extractAudio: func(ctx context.Context, url string) (*pipeline.AudioExtraction, error) {
			return &pipeline.AudioExtraction{Key: "audio-abc.mp3", Inline: []byte("mp3 bytes")}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/video/audio?url=https%3A%2F%2Fexample%2Fvideo.mp4", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "mp3 bytes" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFirstFrame(t *testing.T) {
	app := newTestApp(&fakeService{
		extractFrame: func(ctx context.Context, url string) (*pipeline.FrameExtraction, error) {
			return &pipeline.FrameExtraction{
				Key:      "frame-abc.jpg",
				ImageURL: "https://storage.test/marcosargiottitask/frame-abc.jpg",
			}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/video/first-frame?url=https%3A%2F%2Fexample%2Fvideo.mp4", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}

	var body models.FrameResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ImageURL == "" {
		t.Error("expected image url")
	}
}

func TestProcessAudio(t *testing.T) {
	app := newTestApp(&fakeService{
		processAudio: func(ctx context.Context, key string) (*models.ProcessAudioResponse, error) {
			if key != "" {
				t.Errorf("expected empty key for bodyless request, got %q", key)
			}
			return &models.ProcessAudioResponse{
				Transcription:  "hello world",
				Translation:    "hola mundo",
				TargetLanguage: "es",
			}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/processAudio", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	var body models.ProcessAudioResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Transcription != "hello world" || body.Translation != "hola mundo" {
		t.Errorf("unexpected response: %+v", body)
	}
	if body.TargetLanguage != "es" {
		t.Errorf("unexpected target language: %q", body.TargetLanguage)
	}
}

func TestProcessAudioWithKey(t *testing.T) {
	app := newTestApp(&fakeService{
		processAudio: func(ctx context.Context, key string) (*models.ProcessAudioResponse, error) {
			if key != "audio-abc.mp3" {
				t.Errorf("expected key forwarded, got %q", key)
			}
			return &models.ProcessAudioResponse{}, nil
		},
	})

	req := httptest.NewRequest("POST", "/processAudio", strings.NewReader(`{"key": "audio-abc.mp3"}`))
	req.Header.Set("Content-Type", "application/json")

	if _, err := app.Test(req); err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
}

func TestConvertTextToSpeech(t *testing.T) {
	app := newTestApp(&fakeService{
		synthesize: func(ctx context.Context, text string) (models.SynthesisResult, error) {
			if text != "hola" {
				t.Errorf("unexpected text: %q", text)
			}
			return models.SynthesisResult{AudioBytes: []byte("mp3 bytes"), Encoding: "MP3"}, nil
		},
	})

	req := httptest.NewRequest("POST", "/convertTextToSpeech", strings.NewReader(`{"text": "hola"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "mp3 bytes" {
		t.Errorf("unexpected payload: %q", body)
	}
}

func TestPerformOCR(t *testing.T) {
	app := newTestApp(&fakeService{
		performOCR: func(ctx context.Context, key string) (models.OCRResult, error) {
			return models.OCRResult{Text: "sign text"}, nil
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/performOCR", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}

	var body models.OCRResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Text != "sign text" {
		t.Errorf("unexpected text: %q", body.Text)
	}
}

func TestInternalErrorDetailDoesNotLeak(t *testing.T) {
	app := newTestApp(&fakeService{
		performOCR: func(ctx context.Context, key string) (models.OCRResult, error) {
			return models.OCRResult{}, errors.Internal("op",
				io.ErrUnexpectedEOF, "Failed to perform OCR")
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/performOCR", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "unexpected EOF") {
		t.Errorf("internal error detail leaked: %s", body)
	}
}

func TestWithTimeoutBoundsRequestContext(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool

	service := &fakeService{
		metadata: func(ctx context.Context, url string) (models.VideoMetadata, error) {
			deadline, hasDeadline = ctx.Deadline()
			return models.VideoMetadata{Duration: 1, VideoHeight: 1, HeightKnown: true}, nil
		},
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(WithTimeout(250 * time.Millisecond))
	h := NewPipelineHandler(service)
	app.Get("/video/metadata", h.Metadata)

	resp, err := app.Test(httptest.NewRequest("GET", "/video/metadata?url=http://example.com/v.mp4", nil))
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !hasDeadline {
		t.Fatal("expected request context to carry a deadline")
	}
	if remaining := time.Until(deadline); remaining > 250*time.Millisecond {
		t.Errorf("deadline %v exceeds the configured bound", remaining)
	}
}

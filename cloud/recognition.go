package cloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sargiotti/BackEndServer/models"
)

// Transcribe submits a durable audio artifact, referenced by its public
// URL, to the speech-recognition service. Recognized segments are
// concatenated one per line in service order. Empty text is a valid result.
func (c *Client) Transcribe(ctx context.Context, remoteAudioURL string) (models.TranscriptionResult, error) {
	const op = "Client.Transcribe"

	if err := c.wait(ctx, ServiceRecognition, op); err != nil {
		return models.TranscriptionResult{}, err
	}

	c.logger.Info().
		Str("operation", op).
		Str("audio_url", remoteAudioURL).
		Str("language", c.config.RecognitionLanguage).
		Int("sample_rate_hertz", c.config.SampleRateHertz).
		Msg("Submitting audio for recognition")

	body, err := c.fetch(ctx, remoteAudioURL)
	if err != nil {
		return models.TranscriptionResult{}, newError(ServiceRecognition, op, err, "failed to fetch audio artifact")
	}
	defer body.Close()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.config.TranscriptionModel,
		Reader:   body,
		FilePath: path.Base(remoteAudioURL),
		Language: baseLanguage(c.config.RecognitionLanguage),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return models.TranscriptionResult{}, newError(ServiceRecognition, op, err, "recognition request failed")
	}

	return models.TranscriptionResult{Text: joinSegments(resp)}, nil
}

func (c *Client) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}

// joinSegments reproduces the one-line-per-result transcript shape; the
// segment order from the service is assumed monotonic in time.
func joinSegments(resp openai.AudioResponse) string {
	if len(resp.Segments) == 0 {
		return strings.TrimSpace(resp.Text)
	}
	lines := make([]string, 0, len(resp.Segments))
	for _, segment := range resp.Segments {
		if text := strings.TrimSpace(segment.Text); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// baseLanguage reduces a BCP-47 tag like "en-US" to the bare code the
// recognition backend expects.
func baseLanguage(tag string) string {
	if i := strings.IndexByte(tag, '-'); i > 0 {
		return tag[:i]
	}
	return tag
}

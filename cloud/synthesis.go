package cloud

import (
	"context"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sargiotti/BackEndServer/models"
)

// SynthesisEncoding is the fixed output encoding; there is no streaming,
// the entire payload is buffered and returned at once.
const SynthesisEncoding = "MP3"

// Synthesize converts text to speech. The language code is carried for the
// contract; the configured voice determines the spoken accent.
func (c *Client) Synthesize(ctx context.Context, text, languageCode string) (models.SynthesisResult, error) {
	const op = "Client.Synthesize"

	if err := c.wait(ctx, ServiceSynthesis, op); err != nil {
		return models.SynthesisResult{}, err
	}

	c.logger.Info().
		Str("operation", op).
		Str("language", languageCode).
		Int("text_length", len(text)).
		Msg("Submitting text for speech synthesis")

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.config.SpeechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.config.SpeechVoice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return models.SynthesisResult{}, newError(ServiceSynthesis, op, err, "synthesis request failed")
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return models.SynthesisResult{}, newError(ServiceSynthesis, op, err, "failed to read synthesized audio")
	}

	return models.SynthesisResult{
		AudioBytes: audio,
		Encoding:   SynthesisEncoding,
	}, nil
}

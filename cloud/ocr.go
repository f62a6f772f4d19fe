package cloud

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sargiotti/BackEndServer/models"
)

const ocrPrompt = "Transcribe every piece of text visible in this image, preserving reading order. Respond with the text only. If the image contains no text, respond with an empty message."

// DetectText runs text detection against a durable image artifact
// referenced by its public URL. An empty result means the service found no
// text, which is not an error.
func (c *Client) DetectText(ctx context.Context, remoteImageURL string) (models.OCRResult, error) {
	const op = "Client.DetectText"

	if err := c.wait(ctx, ServiceOCR, op); err != nil {
		return models.OCRResult{}, err
	}

	c.logger.Info().
		Str("operation", op).
		Str("image_url", remoteImageURL).
		Msg("Submitting image for text detection")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: ocrPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: remoteImageURL,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return models.OCRResult{}, newError(ServiceOCR, op, err, "text detection request failed")
	}
	if len(resp.Choices) == 0 {
		return models.OCRResult{Text: ""}, nil
	}

	return models.OCRResult{Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

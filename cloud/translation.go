package cloud

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sargiotti/BackEndServer/models"
)

// Translate converts one text unit into the target language. Only the first
// candidate translation is kept. An empty input is passed through as an
// empty translation without a remote call.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (models.TranslationResult, error) {
	const op = "Client.Translate"

	if strings.TrimSpace(text) == "" {
		return models.TranslationResult{Text: "", TargetLanguage: targetLanguage}, nil
	}

	if err := c.wait(ctx, ServiceTranslation, op); err != nil {
		return models.TranslationResult{}, err
	}

	c.logger.Info().
		Str("operation", op).
		Str("target_language", targetLanguage).
		Int("text_length", len(text)).
		Msg("Submitting text for translation")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.ChatModel,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"You are a translation engine. Translate the user's text into the language with code %q. Respond with the translation only.",
					targetLanguage,
				),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return models.TranslationResult{}, newError(ServiceTranslation, op, err, "translation request failed")
	}
	if len(resp.Choices) == 0 {
		return models.TranslationResult{}, newError(ServiceTranslation, op, nil, "translation returned no candidates")
	}

	return models.TranslationResult{
		Text:           strings.TrimSpace(resp.Choices[0].Message.Content),
		TargetLanguage: targetLanguage,
	}, nil
}

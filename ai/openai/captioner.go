package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skysift/apodex/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Captioner implements ai.Captioner using OpenAI-compatible multimodal
// chat APIs.
type Captioner struct {
	client llms.Model
	logger *slog.Logger
}

// newCaptioner is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCaptioner(config *ai.Config) (*Captioner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.CaptionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Captioner{
		client: client,
		logger: slog.Default().With("component", "openai-captioner"),
	}, nil
}

// NewCaptioner creates a new image captioner using the provided configuration.
//
// Returns ai.Captioner interface to enforce abstraction.
func NewCaptioner(config *ai.Config) (ai.Captioner, error) {
	return newCaptioner(config)
}

// Caption describes an astronomical image using the vision model.
// Captioning is best-effort: on upstream failure it returns a placeholder
// string embedding the error instead of propagating, so a flaky vision
// model never blocks the pipeline.
func (c *Captioner) Caption(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return degradedCaption(fmt.Errorf("no image data")), nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, image),
				llms.TextPart(captionPrompt),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		c.logger.Warn("caption generation failed, degrading to placeholder", "err", err)
		return degradedCaption(err), nil
	}

	if len(response.Choices) == 0 {
		c.logger.Warn("caption model returned no choices, degrading to placeholder")
		return degradedCaption(fmt.Errorf("model returned no choices")), nil
	}

	caption := strings.TrimSpace(response.Choices[0].Content)
	if caption == "" {
		return degradedCaption(fmt.Errorf("model returned empty caption")), nil
	}

	return caption, nil
}

// degradedCaption builds the placeholder caption used when the vision
// model is unavailable.
func degradedCaption(err error) string {
	return fmt.Sprintf("caption unavailable: %v", err)
}

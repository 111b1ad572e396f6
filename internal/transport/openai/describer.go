package openai

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
)

// Describe implements domain.Describer. It sends the configured prompt together
// with the image URL and returns the trimmed answer, which may be empty.
func (c *Client) Describe(ctx context.Context, imageURL string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: c.prompt},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: imageURL, Detail: openai.ImageURLDetailAuto},
				},
			},
		}},
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		observe(opDescribe, c.visionModel, start, err, "api_error")
		return "", parseAPIError(opDescribe, err, domain.ErrDescriptionProviderError)
	}
	observe(opDescribe, c.visionModel, start, nil, "")
	recordTokens(opDescribe, c.visionModel, resp.Usage.PromptTokens, resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

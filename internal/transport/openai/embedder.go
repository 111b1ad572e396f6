package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
)

// Embed implements domain.Embedder.
func (c *Client) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          c.embeddingModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if c.dimensions > 0 {
		req.Dimensions = c.dimensions
	}
	model := string(c.embeddingModel)

	start := time.Now()
	resp, err := c.api.CreateEmbeddings(ctx, req)
	if err != nil {
		observe(opEmbed, model, start, err, "api_error")
		return domain.EmbeddingResult{}, parseAPIError(opEmbed, err, domain.ErrEmbeddingProviderError)
	}
	if len(resp.Data) == 0 {
		err = fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
		observe(opEmbed, model, start, err, "empty_response")
		return domain.EmbeddingResult{}, err
	}
	observe(opEmbed, model, start, nil, "")
	recordTokens(opEmbed, model, resp.Usage.PromptTokens, resp.Usage.TotalTokens)

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

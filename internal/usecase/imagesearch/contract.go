package imagesearch

import (
	"context"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
)

// Uploader stores query images in object storage.
type Uploader interface {
	UploadBytes(ctx context.Context, filename string, data []byte) (domain.UploadResult, error)
	UploadRef(ctx context.Context, ref string) (domain.UploadResult, error)
}

// Describer turns an image URL into a short product description.
type Describer interface {
	Describe(ctx context.Context, imageURL string) (string, error)
}

// Embedder vectorizes a description.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher ranks the embedding catalog against an image query.
type Searcher interface {
	SearchByImage(ctx context.Context, req *request.Image) ([]result.Candidate, error)
}

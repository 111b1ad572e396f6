package chi

import (
	"context"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
	healthuc "github.com/Sergio973-web/buscador-mega/internal/usecase/health"
	imagesearchuc "github.com/Sergio973-web/buscador-mega/internal/usecase/imagesearch"
)

// TextSearcher serves catalog text search and the provider list.
type TextSearcher interface {
	Search(ctx context.Context, req *request.Text) (result.Page, error)
	Providers(ctx context.Context) ([]string, error)
}

// ImageSearcher serves the photo pipeline and standalone uploads.
type ImageSearcher interface {
	Search(ctx context.Context, q imagesearchuc.Query) (imagesearchuc.Result, error)
	Upload(ctx context.Context, ref string) (domain.UploadResult, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

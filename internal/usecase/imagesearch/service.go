package imagesearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/mode"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
	"github.com/Sergio973-web/buscador-mega/internal/imagehash"
	logpkg "github.com/Sergio973-web/buscador-mega/internal/logger"
)

// Search outcomes reported to the searches counter.
const (
	outcomeOK            = "ok"
	outcomeEmpty         = "empty"
	outcomeInvalid       = "invalid"
	outcomeUploadError   = "upload_error"
	outcomeDescribeError = "describe_error"
	outcomeEmbedError    = "embed_error"
)

// Query is one uploaded photo plus optional filters.
type Query struct {
	Filename string
	Data     []byte
	Filter   filter.Filter
	// Strategy is mode.Vector or mode.PerceptualHash. Anything else means vector.
	Strategy mode.Mode
}

// Config holds ranking limits and the optional searches counter.
type Config struct {
	TopK     int
	HashTopK int
	Searches *prometheus.CounterVec // labels: strategy, outcome
}

// Result is the ranked top-K and the strategy that produced it.
type Result struct {
	Strategy   mode.Mode
	Candidates []result.Candidate
}

// Service runs the photo pipeline: upload, describe, embed, then rank the
// embedding catalog. The hash strategy skips the collaborators and ranks by
// the dHash of the photo itself.
type Service struct {
	uploader  Uploader
	describer Describer
	embedder  Embedder
	searcher  Searcher
	cfg       Config
}

// New creates an image search service. uploader may be nil, in which case the
// vector strategy falls back to hashing.
func New(uploader Uploader, describer Describer, embedder Embedder, searcher Searcher, cfg Config) *Service {
	return &Service{
		uploader:  uploader,
		describer: describer,
		embedder:  embedder,
		searcher:  searcher,
		cfg:       cfg,
	}
}

// Search ranks the catalog against the photo in q.
// A missing photo is ErrImageRequired and a failed upload is ErrUploadFailed.
// Description and embedding failures are logged and yield an empty result.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	if len(q.Data) == 0 {
		return Result{}, domain.ErrImageRequired
	}

	strategy := q.Strategy
	if strategy != mode.PerceptualHash {
		strategy = mode.Vector
	}
	if strategy == mode.Vector && (s.uploader == nil || s.describer == nil || s.embedder == nil) {
		logpkg.FromContext(ctx).Warn("Vision pipeline not configured, using perceptual hash")
		strategy = mode.PerceptualHash
	}

	if strategy == mode.PerceptualHash {
		return s.searchByHash(ctx, q)
	}
	return s.searchByVector(ctx, q)
}

// Upload stores an image given as a data URL or a remote URL.
func (s *Service) Upload(ctx context.Context, ref string) (domain.UploadResult, error) {
	if strings.TrimSpace(ref) == "" {
		return domain.UploadResult{}, domain.ErrImageRequired
	}
	if s.uploader == nil {
		return domain.UploadResult{}, fmt.Errorf("uploads disabled: %w", domain.ErrUploadFailed)
	}
	res, err := s.uploader.UploadRef(ctx, ref)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("upload ref: %w", err)
	}
	return res, nil
}

func (s *Service) searchByVector(ctx context.Context, q Query) (Result, error) {
	log := logpkg.FromContext(ctx)
	strategy := string(mode.Vector)

	up, err := s.uploader.UploadBytes(ctx, q.Filename, q.Data)
	if err != nil {
		s.observe(strategy, outcomeUploadError)
		return Result{}, fmt.Errorf("upload image: %w", err)
	}
	log = log.With(zap.String("image_url", up.URL))

	desc, err := s.describer.Describe(ctx, up.URL)
	if err != nil {
		log.Warn("Image description failed", zap.Error(err))
		s.observe(strategy, outcomeDescribeError)
		return empty(mode.Vector), nil
	}
	if strings.TrimSpace(desc) == "" {
		log.Warn("Image description is empty")
		s.observe(strategy, outcomeEmpty)
		return empty(mode.Vector), nil
	}

	emb, err := s.embedder.Embed(ctx, desc)
	if err != nil {
		log.Warn("Description embedding failed", zap.Error(err))
		s.observe(strategy, outcomeEmbedError)
		return empty(mode.Vector), nil
	}
	if emb.Empty() {
		log.Warn("Description embedding is empty")
		s.observe(strategy, outcomeEmpty)
		return empty(mode.Vector), nil
	}

	log.Debug("Image described",
		zap.String("description", desc),
		zap.Int("dimensions", len(emb.Embedding)),
		zap.Int("total_tokens", emb.TotalTokens),
	)

	req := request.NewVectorQuery(emb.Embedding, q.Filter, s.cfg.TopK)
	return s.rank(ctx, strategy, &req)
}

func (s *Service) searchByHash(ctx context.Context, q Query) (Result, error) {
	strategy := string(mode.PerceptualHash)

	h, err := imagehash.FromBytes(q.Data)
	if err != nil {
		s.observe(strategy, outcomeInvalid)
		return Result{}, fmt.Errorf("hash image: %w", err)
	}

	req := request.NewHashQuery(h, q.Filter, s.cfg.HashTopK)
	return s.rank(ctx, strategy, &req)
}

func (s *Service) rank(ctx context.Context, strategy string, req *request.Image) (Result, error) {
	m := mode.Mode(strategy)
	cands, err := s.searcher.SearchByImage(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("search by image: %w", err)
	}
	if len(cands) == 0 {
		s.observe(strategy, outcomeEmpty)
		return empty(m), nil
	}
	s.observe(strategy, outcomeOK)
	return Result{Strategy: m, Candidates: cands}, nil
}

func empty(m mode.Mode) Result {
	return Result{Strategy: m, Candidates: []result.Candidate{}}
}

func (s *Service) observe(strategy, outcome string) {
	if s.cfg.Searches != nil {
		s.cfg.Searches.WithLabelValues(strategy, outcome).Inc()
	}
}

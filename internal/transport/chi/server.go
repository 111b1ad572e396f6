package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/mode"
	healthuc "github.com/Sergio973-web/buscador-mega/internal/usecase/health"
	imagesearchuc "github.com/Sergio973-web/buscador-mega/internal/usecase/imagesearch"
)

const (
	imageField           = "imagen"
	defaultMaxUploadSize = 10 << 20
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Options tunes request handling.
type Options struct {
	MaxUploadBytes int64
	DefaultPerPage int
	// APIKeys protects the endpoints that call paid providers. Empty disables auth.
	APIKeys []string
}

// Server exposes the search API over HTTP.
type Server struct {
	text          TextSearcher
	images        ImageSearcher
	health        HealthChecker
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(text TextSearcher, images ImageSearcher, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadSize
	}
	s := &Server{
		text:   text,
		images: images,
		health: health,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		payloadTooLargeHandler,
		sentinelHandler(domain.ErrImageRequired, http.StatusBadRequest, "image_required", "No se recibió imagen"),
		sentinelHandler(domain.ErrInvalidImage, http.StatusBadRequest, "invalid_image", "Imagen inválida"),
		sentinelHandler(domain.ErrUploadFailed, http.StatusBadGateway, "upload_failed", "Error al subir imagen"),
		sentinelHandler(domain.ErrDescriptionProviderError,
			http.StatusBadGateway, "description_provider_error", "Error describiendo la imagen"),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, "embedding_provider_error", "Error generando el embedding"),
		sentinelHandler(domain.ErrCatalogUnavailable,
			http.StatusServiceUnavailable, "catalog_unavailable", "Catálogo no disponible"),
		sentinelHandler(domain.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed", "Método no permitido"),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, "not_implemented", "No implementado"),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/buscar", s.SearchText)
		r.Get("/proveedores", s.ListProviders)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(s.opts.APIKeys))
			r.Post("/upload", s.UploadImage)
			r.Post("/buscarPorImagen", s.SearchByImage)
			r.Post("/compare", s.CompareImage)
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.handleDomainError(w, r, domain.ErrMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Ruta no encontrada")
	})
}

// SearchText handles GET /api/buscar.
func (s *Server) SearchText(w http.ResponseWriter, r *http.Request) {
	req := textRequestFromQuery(r.URL.Query(), s.opts.DefaultPerPage)

	page, err := s.text.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// ListProviders handles GET /api/proveedores.
func (s *Server) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := s.text.Providers(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if providers == nil {
		providers = []string{}
	}
	writeJSON(w, http.StatusOK, providers)
}

// UploadImage handles POST /api/upload with a JSON body {"image": "<data URL or URL>"}.
func (s *Server) UploadImage(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.handleDomainError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", "Cuerpo de la petición inválido")
		return
	}

	up, err := s.images.Upload(r.Context(), req.Image)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{URL: up.URL, PublicID: up.PublicID})
}

// SearchByImage handles POST /api/buscarPorImagen (multipart field "imagen").
func (s *Server) SearchByImage(w http.ResponseWriter, r *http.Request) {
	res, ok := s.runImageSearch(w, r)
	if !ok {
		return
	}
	results := imageResults(res)
	writeJSON(w, http.StatusOK, imageSearchResponse{OK: true, Total: len(results), Results: results})
}

// CompareImage handles POST /api/compare. Same pipeline, bare array response.
func (s *Server) CompareImage(w http.ResponseWriter, r *http.Request) {
	res, ok := s.runImageSearch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, imageResults(res))
}

func (s *Server) runImageSearch(w http.ResponseWriter, r *http.Request) (imagesearchuc.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	filename, data, err := readImagePart(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return imagesearchuc.Result{}, false
	}

	q := r.URL.Query()
	res, err := s.images.Search(r.Context(), imagesearchuc.Query{
		Filename: filename,
		Data:     data,
		Filter:   filterFromQuery(q),
		Strategy: mode.Parse(stringParam(q, "strategy"), mode.Vector),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return imagesearchuc.Result{}, false
	}
	return res, true
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: report.Version,
		Checks:  checks,
		Items:   report.Items,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

package domain

import "errors"

var (
	// ErrImageRequired signals a request without an image payload.
	ErrImageRequired = errors.New("image required")
	// ErrInvalidImage signals an image payload that cannot be decoded.
	ErrInvalidImage = errors.New("invalid image")
	// ErrUploadFailed signals an object-storage upload failure.
	ErrUploadFailed = errors.New("image upload failed")
	// ErrCatalogUnavailable signals that no catalog snapshot could be loaded.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrDescriptionProviderError signals a visual description provider failure.
	ErrDescriptionProviderError = errors.New("description provider error")
	// ErrMethodNotAllowed signals an unsupported HTTP method.
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

package domain

import "context"

// UploadResult locates an image stored in object storage.
type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader stores query images so the vision model can fetch them by URL.
type Uploader interface {
	// UploadBytes stores raw image bytes.
	UploadBytes(ctx context.Context, filename string, data []byte) (UploadResult, error)
	// UploadRef stores an image given as a data URL or a remote URL.
	UploadRef(ctx context.Context, ref string) (UploadResult, error)
}

// Package cloudinary uploads query images through Cloudinary's signed upload API.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // Cloudinary request signatures are defined over SHA-1
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
)

// Config holds Cloudinary credentials and placement.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	BaseURL   string // e.g. https://api.cloudinary.com/v1_1
}

// Uploader implements domain.Uploader.
type Uploader struct {
	cfg    Config
	client *retryablehttp.Client
	now    func() time.Time
	newID  func() string
}

var _ domain.Uploader = (*Uploader)(nil)

// New creates an uploader over a shared retrying client.
func New(cfg Config, client *retryablehttp.Client) *Uploader {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Uploader{cfg: cfg, client: client, now: time.Now, newID: uuid.NewString}
}

// UploadBytes implements domain.Uploader.
func (u *Uploader) UploadBytes(ctx context.Context, filename string, data []byte) (domain.UploadResult, error) {
	if len(data) == 0 {
		return domain.UploadResult{}, domain.ErrImageRequired
	}
	if filename == "" {
		filename = "image"
	}
	return u.upload(ctx, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err //nolint:wrapcheck // wrapped by upload
		}
		_, err = part.Write(data)
		return err //nolint:wrapcheck // wrapped by upload
	})
}

// UploadRef implements domain.Uploader.
func (u *Uploader) UploadRef(ctx context.Context, ref string) (domain.UploadResult, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.UploadResult{}, domain.ErrImageRequired
	}
	return u.upload(ctx, func(w *multipart.Writer) error {
		return w.WriteField("file", ref) //nolint:wrapcheck // wrapped by upload
	})
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *Uploader) upload(ctx context.Context, writeFile func(*multipart.Writer) error) (domain.UploadResult, error) {
	params := map[string]string{
		"public_id": u.newID(),
		"timestamp": strconv.FormatInt(u.now().Unix(), 10),
	}
	if u.cfg.Folder != "" {
		params["folder"] = u.cfg.Folder
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return domain.UploadResult{}, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.WriteField("api_key", u.cfg.APIKey); err != nil {
		return domain.UploadResult{}, fmt.Errorf("write api key: %w", err)
	}
	if err := w.WriteField("signature", Sign(params, u.cfg.APISecret)); err != nil {
		return domain.UploadResult{}, fmt.Errorf("write signature: %w", err)
	}
	if err := writeFile(w); err != nil {
		return domain.UploadResult{}, fmt.Errorf("write file: %w", err)
	}
	if err := w.Close(); err != nil {
		return domain.UploadResult{}, fmt.Errorf("close multipart: %w", err)
	}

	endpoint := u.cfg.BaseURL + "/" + url.PathEscape(u.cfg.CloudName) + "/image/upload"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, body.Bytes())
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("upload: %w: %w", err, domain.ErrUploadFailed)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("read upload response: %w", domain.ErrUploadFailed)
	}

	var out uploadResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return domain.UploadResult{}, fmt.Errorf("upload status %d: %s: %w", resp.StatusCode, msg, domain.ErrUploadFailed)
	}

	link := out.SecureURL
	if link == "" {
		link = out.URL
	}
	if link == "" {
		return domain.UploadResult{}, fmt.Errorf("upload response without url: %w", domain.ErrUploadFailed)
	}
	return domain.UploadResult{URL: link, PublicID: out.PublicID}, nil
}

// Sign computes a Cloudinary request signature: the SHA-1 hex digest of the
// parameters sorted by name, joined as k=v with '&', followed by the API secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteString(secret)

	sum := sha1.Sum([]byte(b.String())) //nolint:gosec // required by the upload API
	return hex.EncodeToString(sum[:])
}

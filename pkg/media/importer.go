package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultMaxImageSize caps downloaded pictures.
const DefaultMaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Importer copies remote images into a Storage.
type Importer struct {
	storage    Storage
	httpClient *http.Client
	maxSize    int64
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(hc *http.Client) ImporterOption {
	return func(i *Importer) {
		if hc != nil {
			i.httpClient = hc
		}
	}
}

// WithMaxSize sets the download size cap in bytes.
func WithMaxSize(n int64) ImporterOption {
	return func(i *Importer) {
		if n > 0 {
			i.maxSize = n
		}
	}
}

// NewImporter creates an Importer writing to storage.
func NewImporter(storage Storage, opts ...ImporterOption) *Importer {
	i := &Importer{
		storage:    storage,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		maxSize:    DefaultMaxImageSize,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import downloads src and stores it under key plus an extension derived
// from the sniffed content type. It returns the stored URL.
func (i *Importer) Import(ctx context.Context, src, key string) (string, error) {
	if !strings.HasPrefix(src, "https://") && !strings.HasPrefix(src, "http://") {
		return "", fmt.Errorf("%w: unsupported url", ErrDownload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, i.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if int64(len(data)) > i.maxSize {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	return i.storage.Put(ctx, key+ext, bytes.NewReader(data), contentType)
}

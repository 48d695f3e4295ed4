package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mattear/canvas-avatar/internal/domain"
	"github.com/mattear/canvas-avatar/internal/port"
)

const defaultContentType = "image/png"

// Fetcher implements port.ImageSource over plain HTTP GET.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a new image fetcher.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch downloads the image at url into memory. The declared Content-Type is
// kept; absent one, image/png is assumed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.SourceImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("image: create fetch request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image: %w: %v", port.ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image: %w: status %d fetching %s", port.ErrImageFetch, resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("image: %w: read body: %v", port.ErrImageFetch, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	return &domain.SourceImage{Data: data, ContentType: contentType}, nil
}

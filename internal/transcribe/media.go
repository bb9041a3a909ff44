package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MediaFetcher resolves a messaging-platform media id into raw bytes.
type MediaFetcher interface {
	Fetch(ctx context.Context, mediaID string) ([]byte, error)
}

// GraphMediaFetcher downloads voice notes from the WhatsApp Graph API:
// first resolve the media id into a short-lived URL, then download it with
// the same bearer token.
type GraphMediaFetcher struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewGraphMediaFetcher creates a fetcher against the given Graph API base
// URL (e.g. https://graph.facebook.com/v20.0).
func NewGraphMediaFetcher(baseURL, apiToken string, timeout time.Duration) *GraphMediaFetcher {
	return &GraphMediaFetcher{
		baseURL:  baseURL,
		apiToken: apiToken,
		client:   &http.Client{Timeout: timeout},
	}
}

func (f *GraphMediaFetcher) Fetch(ctx context.Context, mediaID string) ([]byte, error) {
	infoURL := fmt.Sprintf("%s/%s/", f.baseURL, mediaID)
	info, err := f.get(ctx, infoURL)
	if err != nil {
		return nil, fmt.Errorf("resolve media %s: %w", mediaID, err)
	}

	var meta struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(info, &meta); err != nil {
		return nil, fmt.Errorf("decode media info: %w", err)
	}
	if meta.URL == "" {
		return nil, fmt.Errorf("media %s has no download url", mediaID)
	}

	data, err := f.get(ctx, meta.URL)
	if err != nil {
		return nil, fmt.Errorf("download media %s: %w", mediaID, err)
	}
	return data, nil
}

func (f *GraphMediaFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.apiToken)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

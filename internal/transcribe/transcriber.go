// Package transcribe defines the speech-to-text boundary. The engine only
// ever sees the port: PCM wav bytes in, UTF-8 transcript out, possibly
// empty.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// Transcriber converts 16 kHz mono 16-bit PCM audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// HTTPTranscriber posts wav bytes to a recognition server and reads back
// {"text": "..."} — the contract exposed by a vosk-server style gateway.
type HTTPTranscriber struct {
	url    string
	client *http.Client
}

// NewHTTPTranscriber creates a client for the given recognition endpoint.
func NewHTTPTranscriber(url string, timeout time.Duration) *HTTPTranscriber {
	return &HTTPTranscriber{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(wav))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("stt: %w", model.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("stt status %d: %w", resp.StatusCode, model.ErrPermanent)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("stt: decode response: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}

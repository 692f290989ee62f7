package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ErrUpstream wraps failures of the embedding service (network, quota,
// non-success status). Callers must treat it as a hard failure; a zero or
// placeholder vector is never substituted.
var ErrUpstream = errors.New("embedding service failure")

// ErrMalformedResponse is returned when the service answers 200 but the body
// does not contain vectors of the expected dimension.
var ErrMalformedResponse = errors.New("malformed embedding response")

// HFConfig configures the HuggingFace feature-extraction client.
type HFConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
	MaxRetries int
}

// HFEmbedder calls the HuggingFace Inference feature-extraction pipeline.
// Transient failures (429, 5xx, network) are retried with exponential
// backoff, honoring Retry-After when present.
type HFEmbedder struct {
	url        string
	apiKey     string
	dimensions int
	client     *http.Client
	maxRetries int
}

// NewHFEmbedder creates an embedding client for the given model.
func NewHFEmbedder(cfg HFConfig) (*HFEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1024
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = 3
	}
	return &HFEmbedder{
		url:        fmt.Sprintf("%s/models/%s/pipeline/feature-extraction", cfg.BaseURL, cfg.Model),
		apiKey:     cfg.APIKey,
		dimensions: cfg.Dimensions,
		client:     &http.Client{Timeout: timeout},
		maxRetries: retries,
	}, nil
}

// Embed returns the embedding vector for a single text.
func (e *HFEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one vector per input text, in order.
func (e *HFEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	payload, err := e.request(ctx, texts)
	if err != nil {
		return nil, err
	}

	var vecs [][]float32
	if err := json.Unmarshal(payload, &vecs); err != nil {
		// A single input may come back as a bare vector.
		var single []float32
		if err2 := json.Unmarshal(payload, &single); err2 != nil || len(texts) != 1 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		vecs = [][]float32{single}
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrMalformedResponse, len(vecs), len(texts))
	}
	for i, v := range vecs {
		if len(v) != e.dimensions {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrMalformedResponse, i, len(v), e.dimensions)
		}
	}
	return vecs, nil
}

func (e *HFEmbedder) request(ctx context.Context, texts []string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{"inputs": texts})
	if err != nil {
		return nil, err
	}
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay(attempt - 1)):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+e.apiKey)

		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUpstream, err)
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					select {
					case <-ctx.Done():
						_ = resp.Body.Close()
						return nil, ctx.Err()
					case <-time.After(time.Duration(secs) * time.Second):
					}
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("%w: status %s", ErrUpstream, resp.Status)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: status %s", ErrUpstream, resp.Status)
		}
		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUpstream, err)
			continue
		}
		return payload, nil
	}
	return nil, lastErr
}

// Dimensions returns the embedding dimension.
func (e *HFEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the client holds no resources beyond its HTTP client.
func (e *HFEmbedder) Close() error {
	return nil
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

var _ Embedder = (*HFEmbedder)(nil)

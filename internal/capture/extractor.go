package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Extraction is the text-extraction result for one image. Text is empty
// when nothing was detected.
type Extraction struct {
	Text             string    `json:"text"`
	ConfidenceScores []float64 `json:"confidence_scores"`
	Locale           string    `json:"locale"`
}

type Extractor interface {
	Extract(ctx context.Context, image []byte) (Extraction, error)
}

// HTTPExtractor posts the raw image to a text-extraction service and reads
// back a JSON Extraction.
type HTTPExtractor struct {
	url    string
	client *http.Client
}

func NewHTTPExtractor(url string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPExtractor{url: url, client: &http.Client{Timeout: timeout}}
}

func (e *HTTPExtractor) Extract(ctx context.Context, image []byte) (Extraction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(image))
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("text extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Extraction{}, fmt.Errorf("text extraction returned %s", resp.Status)
	}

	var out Extraction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Extraction{}, fmt.Errorf("decode text extraction response: %w", err)
	}
	if out.ConfidenceScores == nil {
		out.ConfidenceScores = []float64{}
	}
	return out, nil
}

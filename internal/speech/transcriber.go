package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/claimwise/claimwise/internal/model"
)

// Transcriber proxies audio to a hosted speech-to-text endpoint
// (Whisper-style inference API). The API key is injected through
// configuration; there is no embedded credential.
type Transcriber struct {
	apiKey      string
	endpoint    string
	contentType string
	httpClient  *http.Client
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// NewTranscriber creates a transcriber from configuration.
func NewTranscriber(cfg model.SpeechConfig) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("speech API key is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("speech endpoint is required")
	}

	contentType := cfg.ContentType
	if contentType == "" {
		contentType = "audio/webm"
	}

	return &Transcriber{
		apiKey:      cfg.APIKey,
		endpoint:    cfg.Endpoint,
		contentType: contentType,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Transcribe sends raw audio bytes to the hosted endpoint and returns
// the transcribed text.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, audio)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", t.contentType)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return parsed.Text, nil
}

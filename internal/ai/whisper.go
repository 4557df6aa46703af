package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const openAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// WhisperClient transcribes audio via the OpenAI transcription endpoint
type WhisperClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewWhisperClient creates a transcription client
func NewWhisperClient(apiKey, model string) *WhisperClient {
	return &WhisperClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: openAITranscriptionURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// NewWhisperClientWithURL points the client at a custom endpoint (tests)
func NewWhisperClientWithURL(apiKey, model, baseURL string) *WhisperClient {
	c := NewWhisperClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

// Transcribe uploads the audio stream and returns the transcript text
func (c *WhisperClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	log.Printf("[Whisper] Transcribing %s (%d bytes, model=%s)", filename, body.Len(), c.model)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Whisper] Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	log.Printf("[Whisper] Transcript length: %d", len(text))
	return text, nil
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/amityadav/voyago/internal/trip"
	"github.com/amityadav/voyago/prompts"
)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider talks to an OpenAI-compatible chat-completions API
type OpenAIProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewOpenAIProvider creates the production OpenAI provider
func NewOpenAIProvider(apiKey, extractModel, composeModel string) *OpenAIProvider {
	return NewProvider(ProviderConfig{
		Name:         "OpenAI",
		BaseURL:      openAIChatURL,
		APIKey:       apiKey,
		ExtractModel: extractModel,
		ComposeModel: composeModel,
	})
}

// NewProvider creates a provider from an explicit config (used by tests
// to point at a local server)
func NewProvider(config ProviderConfig) *OpenAIProvider {
	return &OpenAIProvider{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *OpenAIProvider) Name() string {
	return p.config.Name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// sendRequest handles HTTP requests to the chat-completions API
func (p *OpenAIProvider) sendRequest(ctx context.Context, reqBody chatRequest, operation string) (string, error) {
	log.Printf("[%s.%s] Sending request (model=%s)...", p.config.Name, operation, reqBody.Model)

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[%s.%s] Response status: %d", p.config.Name, operation, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	log.Printf("[%s.%s] Success, response length: %d", p.config.Name, operation, len(content))
	return content, nil
}

// extractionReply is the fixed reply contract for trip extraction.
// Numbers arrive as JSON numbers, budget may be a string or a number.
type extractionReply struct {
	Destination    string      `json:"destination"`
	DepartureCity  string      `json:"departure_city"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	DurationNights *float64    `json:"duration_nights"`
	Travelers      *float64    `json:"travelers"`
	Budget         interface{} `json:"budget"`
	Preferences    []string    `json:"preferences"`
	TripType       string      `json:"trip_type"`
}

// ExtractTrip asks the model for structured trip attributes and parses
// the reply into a trip.Request. Optional fields the model omits stay unset.
func (p *OpenAIProvider) ExtractTrip(ctx context.Context, text string) (*trip.Request, error) {
	systemPrompt := fmt.Sprintf(prompts.ExtractTrip, time.Now().Format("2006-01-02"))

	reqBody := chatRequest{
		Model: p.config.ExtractModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.1,
		MaxTokens:   500,
	}

	rawContent, err := p.sendRequest(ctx, reqBody, "Extract")
	if err != nil {
		return nil, trip.NewExtractionError("model call failed", err)
	}

	var reply extractionReply
	if err := json.Unmarshal([]byte(cleanJSON(rawContent)), &reply); err != nil {
		return nil, trip.NewExtractionError("unparseable extraction reply", err)
	}

	req := replyToRequest(reply)
	if req.Destination == "" {
		return nil, trip.NewExtractionError("no destination found in trip description", nil)
	}

	log.Printf("[%s.Extract] Parsed: destination=%q origin=%q dates=%s..%s budget=%.0f",
		p.config.Name, req.Destination, req.Origin, req.StartDate, req.EndDate, req.Budget)
	return req, nil
}

func replyToRequest(reply extractionReply) *trip.Request {
	req := &trip.Request{
		Destination: cleanField(reply.Destination),
		Origin:      cleanField(reply.DepartureCity),
		StartDate:   cleanDate(reply.StartDate),
		EndDate:     cleanDate(reply.EndDate),
		Preferences: reply.Preferences,
		TripType:    cleanField(reply.TripType),
	}
	if reply.DurationNights != nil {
		req.Nights = int(*reply.DurationNights)
	}
	if reply.Travelers != nil {
		req.Travelers = int(*reply.Travelers)
	}

	switch b := reply.Budget.(type) {
	case string:
		req.BudgetRaw = cleanField(b)
		if v, ok := trip.ParseBudget(b); ok {
			req.Budget = v
		}
	case float64:
		req.Budget = b
		req.BudgetRaw = fmt.Sprintf("$%.0f", b)
	}

	return req
}

// cleanField drops the model's "not specified" placeholders
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "none", "not specified", "n/a", "unknown":
		return ""
	}
	return s
}

// cleanDate keeps only well-formed YYYY-MM-DD values
func cleanDate(s string) string {
	s = cleanField(s)
	if s == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

// itineraryReply is the fixed reply contract for itinerary composition
type itineraryReply struct {
	Summary         string `json:"summary"`
	EstimatedBudget string `json:"estimated_budget"`
	Sections        []struct {
		Category string `json:"category"`
		Text     string `json:"text"`
	} `json:"sections"`
}

// ComposeItinerary asks the model to synthesize an itinerary from the
// trip request plus a condensed rendering of the search results.
func (p *OpenAIProvider) ComposeItinerary(ctx context.Context, req *trip.Request, results map[trip.Category]trip.ResultSet) (*trip.Itinerary, error) {
	reqJSON, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, trip.NewCompositionError("failed to encode trip request", err)
	}

	prompt := fmt.Sprintf(prompts.ComposeItinerary, string(reqJSON), CondenseResults(results))

	reqBody := chatRequest{
		Model: p.config.ComposeModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   2500,
	}

	rawContent, err := p.sendRequest(ctx, reqBody, "Compose")
	if err != nil {
		return nil, trip.NewCompositionError("model call failed", err)
	}

	var reply itineraryReply
	if err := json.Unmarshal([]byte(cleanJSON(rawContent)), &reply); err != nil {
		return nil, trip.NewCompositionError("unparseable itinerary reply", err)
	}
	if strings.TrimSpace(reply.Summary) == "" {
		return nil, trip.NewCompositionError("itinerary reply missing summary", nil)
	}

	it := &trip.Itinerary{
		Summary:         strings.TrimSpace(reply.Summary),
		EstimatedBudget: strings.TrimSpace(reply.EstimatedBudget),
	}
	for _, s := range reply.Sections {
		it.Sections = append(it.Sections, trip.Section{
			Category: trip.Category(s.Category),
			Text:     strings.TrimSpace(s.Text),
		})
	}

	log.Printf("[%s.Compose] Parsed itinerary: sections=%d budget=%q", p.config.Name, len(it.Sections), it.EstimatedBudget)
	return it, nil
}

const maxSnippetLen = 200

// CondenseResults renders search results into a compact text block for
// the composition prompt. Failed categories are marked UNAVAILABLE so the
// model reports them instead of inventing data.
func CondenseResults(results map[trip.Category]trip.ResultSet) string {
	var b strings.Builder
	for _, cat := range trip.Categories() {
		rs, ok := results[cat]
		b.WriteString(strings.ToUpper(string(cat)) + ":\n")
		if !ok || !rs.Available() {
			b.WriteString("  UNAVAILABLE (search failed for this category)\n\n")
			continue
		}
		if len(rs.Items) == 0 {
			b.WriteString("  no results\n\n")
			continue
		}
		for _, item := range rs.Items {
			fmt.Fprintf(&b, "  - %s | %s\n", item.Title, item.URL)
			if item.Snippet != "" {
				fmt.Fprintf(&b, "    %s\n", truncate(item.Snippet, maxSnippetLen))
			}
			if item.Price > 0 {
				fmt.Fprintf(&b, "    price: $%.0f\n", item.Price)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// cleanJSON strips markdown code fences the model sometimes adds
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

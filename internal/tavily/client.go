package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/amityadav/voyago/internal/search"
)

const apiURL = "https://api.tavily.com/search"

// Client is a Tavily Search API client
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new Tavily API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: apiURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithURL points the client at a custom endpoint (tests)
func NewClientWithURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// SearchRequest represents the Tavily search request payload
type SearchRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth,omitempty"` // "basic" or "advanced"
	MaxResults  int    `json:"max_results,omitempty"`
}

// SearchResult represents a single search result from Tavily
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"` // Snippet
	Score   float64 `json:"score"`
}

// SearchResponse represents the Tavily search response
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	ResponseTime float64        `json:"response_time"`
}

// Search performs a search using the Tavily API. Travel queries use
// advanced depth since prices tend to live deep in page content.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	reqBody := SearchRequest{
		Query:       query,
		APIKey:      c.apiKey,
		SearchDepth: "advanced",
		MaxResults:  maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Printf("[Tavily] Searching for: %q (max %d results)", query, maxResults)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Tavily] Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Printf("[Tavily] Found %d results for query: %s", len(searchResp.Results), query)
	return &searchResp, nil
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "tavily"
}

// SearchTravel implements the search.Provider interface
func (c *Client) SearchTravel(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	resp, err := c.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = search.Result{
			Title:    r.Title,
			URL:      r.URL,
			Snippet:  r.Content,
			Price:    search.ExtractPrice(r.Content),
			Provider: "tavily",
		}
	}
	return results, nil
}

package search

import "context"

// Result represents a travel search result from any provider
type Result struct {
	Title    string
	URL      string
	Snippet  string
	Price    float64 // extracted from snippet text, 0 = unknown
	Provider string  // "tavily", "serpapi", etc.
}

// Provider is the interface all travel search providers must implement
type Provider interface {
	// Name returns the provider identifier (e.g., "tavily", "serpapi")
	Name() string

	// SearchTravel runs a single travel query and returns up to
	// maxResults records
	SearchTravel(ctx context.Context, query string, maxResults int) ([]Result, error)
}

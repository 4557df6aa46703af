package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTravel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "test-key", req.APIKey)
		assert.Equal(t, "Hotels in Tokyo, Japan", req.Query)
		assert.Equal(t, "advanced", req.SearchDepth)
		assert.Equal(t, 3, req.MaxResults)

		json.NewEncoder(w).Encode(SearchResponse{
			Query: req.Query,
			Results: []SearchResult{
				{Title: "Shinjuku Hotel Deals", URL: "https://hotels.example.com", Content: "Rooms from $150 per night", Score: 0.93},
				{Title: "Tokyo Hotel Guide", URL: "https://guide.example.com", Content: "Where to stay in Tokyo", Score: 0.81},
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", srv.URL)
	results, err := c.SearchTravel(context.Background(), "Hotels in Tokyo, Japan", 3)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Shinjuku Hotel Deals", results[0].Title)
	assert.Equal(t, "tavily", results[0].Provider)
	assert.Equal(t, 150.0, results[0].Price)
	assert.Zero(t, results[1].Price)
}

func TestSearchTravelAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithURL("bad-key", srv.URL)
	_, err := c.SearchTravel(context.Background(), "Hotels in Tokyo", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestSearchDefaultsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.MaxResults)
		json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", srv.URL)
	_, err := c.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
}

package ai

import (
	"context"
	"io"

	"github.com/amityadav/voyago/internal/trip"
)

// Provider defines the two LLM operations of the planning pipeline.
// One method per call so tests can substitute deterministic fixtures.
type Provider interface {
	Name() string
	ExtractTrip(ctx context.Context, text string) (*trip.Request, error)
	ComposeItinerary(ctx context.Context, req *trip.Request, results map[trip.Category]trip.ResultSet) (*trip.Itinerary, error)
}

// Transcriber converts recorded audio to text. Single blocking call,
// no retry policy.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// ProviderConfig holds configuration for an OpenAI-compatible provider
type ProviderConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	ExtractModel string
	ComposeModel string
}

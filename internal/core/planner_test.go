package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amityadav/voyago/internal/normalize"
	"github.com/amityadav/voyago/internal/search"
	"github.com/amityadav/voyago/internal/trip"
)

// fakeAI is a deterministic stand-in for the LLM provider
type fakeAI struct {
	mu           sync.Mutex
	extractCalls int
	composeCalls int

	extractFn func(text string) (*trip.Request, error)
	composeFn func(req *trip.Request, results map[trip.Category]trip.ResultSet) (*trip.Itinerary, error)
}

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) ExtractTrip(ctx context.Context, text string) (*trip.Request, error) {
	f.mu.Lock()
	f.extractCalls++
	f.mu.Unlock()
	return f.extractFn(text)
}

func (f *fakeAI) ComposeItinerary(ctx context.Context, req *trip.Request, results map[trip.Category]trip.ResultSet) (*trip.Itinerary, error) {
	f.mu.Lock()
	f.composeCalls++
	f.mu.Unlock()
	return f.composeFn(req, results)
}

// fakeSearchProvider records queries; searches run concurrently so the
// counters are mutex-guarded
type fakeSearchProvider struct {
	mu      sync.Mutex
	name    string
	queries []string
	fn      func(query string, maxResults int) ([]search.Result, error)
}

func (f *fakeSearchProvider) Name() string { return f.name }

func (f *fakeSearchProvider) SearchTravel(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.fn(query, maxResults)
}

func (f *fakeSearchProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func okSearch(query string, maxResults int) ([]search.Result, error) {
	return []search.Result{
		{Title: "Result for " + query, URL: "https://example.com", Snippet: "from $120 per night", Price: 120, Provider: "fake"},
	}, nil
}

func okItinerary(req *trip.Request, results map[trip.Category]trip.ResultSet) (*trip.Itinerary, error) {
	it := &trip.Itinerary{
		Summary:         fmt.Sprintf("A trip to %s", req.Destination),
		EstimatedBudget: fmt.Sprintf("around $%.0f", req.Budget),
	}
	for _, cat := range trip.Categories() {
		if rs := results[cat]; rs.Available() && len(rs.Items) > 0 {
			it.Sections = append(it.Sections, trip.Section{Category: cat, Text: rs.Items[0].Title})
		}
	}
	return it, nil
}

func tokyoExtract(text string) (*trip.Request, error) {
	budget, _ := trip.ParseBudget(text)
	return &trip.Request{
		Destination: "Tokyo, Japan",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-08",
		Nights:      7,
		Budget:      budget,
		BudgetRaw:   "$4000",
	}, nil
}

func newTestPlanner(ai *fakeAI, providers ...search.Provider) *Planner {
	registry := search.NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return NewPlanner(ai, registry, normalize.NewNormalizer(nil))
}

func TestPlanFromTextTokyoScenario(t *testing.T) {
	ai := &fakeAI{extractFn: tokyoExtract, composeFn: okItinerary}
	provider := &fakeSearchProvider{name: "fake", fn: okSearch}
	planner := newTestPlanner(ai, provider)

	var statuses []trip.Status
	planner.OnStatus = func(planID string, s trip.Status) {
		statuses = append(statuses, s)
	}

	result, err := planner.PlanFromText(context.Background(), "Tokyo for a week in March, budget $4000")
	require.NoError(t, err)

	assert.Equal(t, "Tokyo, Japan", result.Request.Destination)
	assert.Equal(t, 4000.0, result.Request.Budget)

	// One query per category
	assert.Equal(t, 4, provider.callCount())
	assert.Len(t, result.Results, 4)
	for _, cat := range trip.Categories() {
		assert.True(t, result.Results[cat].Available(), "category %s should be available", cat)
	}

	require.NotNil(t, result.Itinerary)
	assert.Contains(t, result.Itinerary.Summary, "Tokyo")
	assert.Contains(t, result.Itinerary.EstimatedBudget, "$4000")
	assert.Len(t, result.Itinerary.Sections, 4)

	assert.Equal(t, []trip.Status{
		trip.StatusNormalizing,
		trip.StatusExtracting,
		trip.StatusSearching,
		trip.StatusComposing,
		trip.StatusDone,
	}, statuses)
}

func TestPlanFromTextEmptyInput(t *testing.T) {
	ai := &fakeAI{extractFn: tokyoExtract, composeFn: okItinerary}
	provider := &fakeSearchProvider{name: "fake", fn: okSearch}
	planner := newTestPlanner(ai, provider)

	_, err := planner.PlanFromText(context.Background(), "   \n\t ")
	require.Error(t, err)
	assert.Equal(t, trip.ErrCodeInput, trip.CodeOf(err))

	// No downstream calls at all
	assert.Equal(t, 0, ai.extractCalls)
	assert.Equal(t, 0, ai.composeCalls)
	assert.Equal(t, 0, provider.callCount())
}

func TestPlanFailsFastWithoutDestination(t *testing.T) {
	ai := &fakeAI{
		extractFn: func(text string) (*trip.Request, error) {
			return &trip.Request{Destination: "  "}, nil
		},
		composeFn: okItinerary,
	}
	provider := &fakeSearchProvider{name: "fake", fn: okSearch}
	planner := newTestPlanner(ai, provider)

	var last trip.Status
	planner.OnStatus = func(planID string, s trip.Status) { last = s }

	_, err := planner.PlanFromText(context.Background(), "somewhere warm I guess")
	require.Error(t, err)
	assert.Equal(t, trip.ErrCodeExtraction, trip.CodeOf(err))
	assert.Equal(t, trip.StatusFailed, last)

	// The aggregator must never run without a destination
	assert.Equal(t, 0, provider.callCount())
	assert.Equal(t, 0, ai.composeCalls)
}

func TestPlanSurvivesSingleCategoryFailure(t *testing.T) {
	ai := &fakeAI{extractFn: tokyoExtract, composeFn: okItinerary}
	provider := &fakeSearchProvider{
		name: "fake",
		fn: func(query string, maxResults int) ([]search.Result, error) {
			if strings.HasPrefix(query, "Car rentals") {
				return nil, errors.New("quota exceeded")
			}
			return okSearch(query, maxResults)
		},
	}
	planner := newTestPlanner(ai, provider)

	result, err := planner.PlanFromText(context.Background(), "Tokyo for a week in March, budget $4000")
	require.NoError(t, err)

	require.Len(t, result.Results, 4)
	assert.False(t, result.Results[trip.CategoryCars].Available())
	assert.Equal(t, trip.ErrCodeSearch, trip.CodeOf(result.Results[trip.CategoryCars].Err))

	for _, cat := range []trip.Category{trip.CategoryFlights, trip.CategoryHotels, trip.CategoryPOIs} {
		assert.True(t, result.Results[cat].Available(), "category %s should be available", cat)
		assert.NotEmpty(t, result.Results[cat].Items)
	}

	// The itinerary explicitly calls out the missing category
	var carsText string
	for _, s := range result.Itinerary.Sections {
		if s.Category == trip.CategoryCars {
			carsText = s.Text
		}
	}
	assert.Contains(t, carsText, "unavailable")
}

func TestPlanAllCategoriesUnavailableStillComposes(t *testing.T) {
	ai := &fakeAI{extractFn: tokyoExtract, composeFn: okItinerary}
	provider := &fakeSearchProvider{
		name: "fake",
		fn: func(query string, maxResults int) ([]search.Result, error) {
			return nil, errors.New("service down")
		},
	}
	planner := newTestPlanner(ai, provider)

	result, err := planner.PlanFromText(context.Background(), "Tokyo for a week in March")
	require.NoError(t, err)
	assert.Equal(t, 1, ai.composeCalls)

	require.NotNil(t, result.Itinerary)
	assert.NotEmpty(t, result.Itinerary.Summary)
	assert.Len(t, result.Itinerary.Sections, 4)
	for _, s := range result.Itinerary.Sections {
		assert.Contains(t, s.Text, "unavailable")
	}
}

func TestPlanSecondProviderCoversFailure(t *testing.T) {
	ai := &fakeAI{extractFn: tokyoExtract, composeFn: okItinerary}
	broken := &fakeSearchProvider{
		name: "broken",
		fn: func(query string, maxResults int) ([]search.Result, error) {
			return nil, errors.New("auth failed")
		},
	}
	working := &fakeSearchProvider{name: "working", fn: okSearch}
	planner := newTestPlanner(ai, broken, working)

	result, err := planner.PlanFromText(context.Background(), "Tokyo in March")
	require.NoError(t, err)

	// A category only fails when every provider fails for it
	for _, cat := range trip.Categories() {
		assert.True(t, result.Results[cat].Available(), "category %s should be available", cat)
	}
}

func TestPlanExtractionFailureIsFatal(t *testing.T) {
	ai := &fakeAI{
		extractFn: func(text string) (*trip.Request, error) {
			return nil, trip.NewExtractionError("model call failed", errors.New("429 rate limited"))
		},
		composeFn: okItinerary,
	}
	provider := &fakeSearchProvider{name: "fake", fn: okSearch}
	planner := newTestPlanner(ai, provider)

	result, err := planner.PlanFromText(context.Background(), "Tokyo in March")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, trip.ErrCodeExtraction, trip.CodeOf(err))
	assert.Contains(t, err.Error(), "429 rate limited")
	assert.Equal(t, 0, provider.callCount())
}

func TestPlanCompositionFailureIsFatal(t *testing.T) {
	ai := &fakeAI{
		extractFn: tokyoExtract,
		composeFn: func(req *trip.Request, results map[trip.Category]trip.ResultSet) (*trip.Itinerary, error) {
			return nil, trip.NewCompositionError("model call failed", errors.New("boom"))
		},
	}
	planner := newTestPlanner(ai, &fakeSearchProvider{name: "fake", fn: okSearch})

	result, err := planner.PlanFromText(context.Background(), "Tokyo in March")
	require.Error(t, err)
	// No partial itinerary on fatal stage failure
	assert.Nil(t, result)
	assert.Equal(t, trip.ErrCodeComposition, trip.CodeOf(err))
}

func TestBuildQuery(t *testing.T) {
	req := &trip.Request{
		Origin:      "Berlin",
		Destination: "Tokyo, Japan",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-08",
	}

	assert.Equal(t, "Flights from Berlin to Tokyo, Japan 2026-03-01 to 2026-03-08", buildQuery(trip.CategoryFlights, req))
	assert.Equal(t, "Hotels in Tokyo, Japan 2026-03-01 to 2026-03-08", buildQuery(trip.CategoryHotels, req))
	assert.Equal(t, "Car rentals in Tokyo, Japan", buildQuery(trip.CategoryCars, req))
	assert.Equal(t, "Top attractions in Tokyo, Japan", buildQuery(trip.CategoryPOIs, req))

	// Dates are dropped from queries when either end is missing
	noDates := &trip.Request{Destination: "Tokyo"}
	assert.Equal(t, "Flights from San Francisco to Tokyo", buildQuery(trip.CategoryFlights, noDates))
}

func TestSearchCategoryCapsMergedResults(t *testing.T) {
	many := &fakeSearchProvider{
		name: "many",
		fn: func(query string, maxResults int) ([]search.Result, error) {
			out := make([]search.Result, maxResults)
			for i := range out {
				out[i] = search.Result{Title: fmt.Sprintf("r%d", i), URL: "https://example.com"}
			}
			return out, nil
		},
	}
	planner := newTestPlanner(&fakeAI{}, many, many)

	rs := planner.searchCategory(context.Background(), "test", &trip.Request{Destination: "Tokyo"}, trip.CategoryHotels)
	require.True(t, rs.Available())
	assert.Len(t, rs.Items, categoryLimits[trip.CategoryHotels])
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/amityadav/voyago/internal/trip"
)

// defaultDeparture is assumed when the user never named an origin
const defaultDeparture = "San Francisco"

// categoryLimits caps how many records per category feed the composer
var categoryLimits = map[trip.Category]int{
	trip.CategoryFlights: 3,
	trip.CategoryHotels:  3,
	trip.CategoryCars:    3,
	trip.CategoryPOIs:    5,
}

// searchAll fans out one query per category across all registered
// providers. The four categories have no data dependency on each other,
// so they run concurrently and join before composition. A failed
// category is recorded in its ResultSet, never dropped from the map.
func (p *Planner) searchAll(ctx context.Context, planID string, req *trip.Request) map[trip.Category]trip.ResultSet {
	results := make(map[trip.Category]trip.ResultSet, len(trip.Categories()))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, cat := range trip.Categories() {
		wg.Add(1)
		go func(cat trip.Category) {
			defer wg.Done()
			rs := p.searchCategory(ctx, planID, req, cat)
			mu.Lock()
			results[cat] = rs
			mu.Unlock()
		}(cat)
	}

	wg.Wait()
	return results
}

// searchCategory queries every provider for one category. The category
// only counts as unavailable when no provider produced anything.
func (p *Planner) searchCategory(ctx context.Context, planID string, req *trip.Request, cat trip.Category) trip.ResultSet {
	query := buildQuery(cat, req)
	limit := categoryLimits[cat]

	log.Printf("[Planner:%s] Searching %s: %q", planID, cat, query)

	var items []trip.Item
	var errs []error

	for _, provider := range p.registry.GetAll() {
		res, err := provider.SearchTravel(ctx, query, limit)
		if err != nil {
			log.Printf("[Planner:%s] Provider %s failed for %s: %v", planID, provider.Name(), cat, err)
			errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
			continue
		}
		for _, r := range res {
			items = append(items, trip.Item{
				Title:    r.Title,
				URL:      r.URL,
				Snippet:  r.Snippet,
				Price:    r.Price,
				Provider: r.Provider,
			})
		}
	}

	if len(items) == 0 && len(errs) > 0 {
		return trip.ResultSet{
			Category: cat,
			Err:      trip.NewSearchError(cat, errors.Join(errs...)),
		}
	}

	if len(items) > limit {
		items = items[:limit]
	}

	log.Printf("[Planner:%s] %s: %d results", planID, cat, len(items))
	return trip.ResultSet{Category: cat, Items: items}
}

// buildQuery constructs the category-specific query string from the
// trip request fields.
func buildQuery(cat trip.Category, req *trip.Request) string {
	departure := req.Origin
	if departure == "" {
		departure = defaultDeparture
	}

	var query string
	switch cat {
	case trip.CategoryFlights:
		query = fmt.Sprintf("Flights from %s to %s", departure, req.Destination)
		if req.StartDate != "" && req.EndDate != "" {
			query += fmt.Sprintf(" %s to %s", req.StartDate, req.EndDate)
		}
	case trip.CategoryHotels:
		query = fmt.Sprintf("Hotels in %s", req.Destination)
		if req.StartDate != "" && req.EndDate != "" {
			query += fmt.Sprintf(" %s to %s", req.StartDate, req.EndDate)
		}
	case trip.CategoryCars:
		query = fmt.Sprintf("Car rentals in %s", req.Destination)
	case trip.CategoryPOIs:
		query = fmt.Sprintf("Top attractions in %s", req.Destination)
	}
	return query
}

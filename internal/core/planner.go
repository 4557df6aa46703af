package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/amityadav/voyago/internal/ai"
	"github.com/amityadav/voyago/internal/normalize"
	"github.com/amityadav/voyago/internal/search"
	"github.com/amityadav/voyago/internal/trip"
)

// Planner runs the trip-planning pipeline:
// normalize -> extract -> search -> compose.
// Each invocation is independent and stateless.
type Planner struct {
	ai       ai.Provider
	registry *search.Registry
	norm     *normalize.Normalizer

	// OnStatus, when set, observes pipeline stage transitions
	OnStatus func(planID string, status trip.Status)
}

// NewPlanner creates a planner
func NewPlanner(provider ai.Provider, registry *search.Registry, norm *normalize.Normalizer) *Planner {
	return &Planner{
		ai:       provider,
		registry: registry,
		norm:     norm,
	}
}

// PlanResult is the output of one planning invocation. Results always
// carries an entry per category; unavailable ones have a non-nil Err.
type PlanResult struct {
	PlanID     string
	Transcript string
	Request    *trip.Request
	Results    map[trip.Category]trip.ResultSet
	Itinerary  *trip.Itinerary
}

// PlanFromText plans a trip from a typed description
func (p *Planner) PlanFromText(ctx context.Context, text string) (*PlanResult, error) {
	planID := newPlanID()
	p.setStatus(planID, trip.StatusNormalizing)

	canonical, err := p.norm.Normalize(text)
	if err != nil {
		p.setStatus(planID, trip.StatusFailed)
		return nil, err
	}

	return p.run(ctx, planID, canonical, "")
}

// PlanFromAudio plans a trip from recorded audio
func (p *Planner) PlanFromAudio(ctx context.Context, filename string, audio io.Reader) (*PlanResult, error) {
	planID := newPlanID()
	p.setStatus(planID, trip.StatusNormalizing)

	canonical, err := p.norm.NormalizeAudio(ctx, filename, audio)
	if err != nil {
		p.setStatus(planID, trip.StatusFailed)
		return nil, err
	}

	return p.run(ctx, planID, canonical, canonical)
}

// run executes extraction, search fan-out and composition. Search
// failures are per-category and non-fatal; every other stage failure
// aborts the plan with no partial itinerary.
func (p *Planner) run(ctx context.Context, planID, canonical, transcript string) (*PlanResult, error) {
	log.Printf("[Planner:%s] Planning trip from: %q", planID, canonical)

	p.setStatus(planID, trip.StatusExtracting)
	req, err := p.ai.ExtractTrip(ctx, canonical)
	if err != nil {
		p.setStatus(planID, trip.StatusFailed)
		return nil, err
	}
	if strings.TrimSpace(req.Destination) == "" {
		// Searching without a destination would burn quota on noise
		p.setStatus(planID, trip.StatusFailed)
		return nil, trip.NewExtractionError("no destination found in trip description", nil)
	}

	p.setStatus(planID, trip.StatusSearching)
	results := p.searchAll(ctx, planID, req)

	p.setStatus(planID, trip.StatusComposing)
	itinerary, err := p.ai.ComposeItinerary(ctx, req, results)
	if err != nil {
		p.setStatus(planID, trip.StatusFailed)
		return nil, err
	}
	ensureSections(itinerary, results)

	p.setStatus(planID, trip.StatusDone)
	log.Printf("[Planner:%s] Done: destination=%q sections=%d", planID, req.Destination, len(itinerary.Sections))

	return &PlanResult{
		PlanID:     planID,
		Transcript: transcript,
		Request:    req,
		Results:    results,
		Itinerary:  itinerary,
	}, nil
}

func (p *Planner) setStatus(planID string, status trip.Status) {
	log.Printf("[Planner:%s] Status: %s", planID, status)
	if p.OnStatus != nil {
		p.OnStatus(planID, status)
	}
}

func newPlanID() string {
	return uuid.NewString()[:8]
}

var categoryLabels = map[trip.Category]string{
	trip.CategoryFlights: "Flight",
	trip.CategoryHotels:  "Hotel",
	trip.CategoryCars:    "Car rental",
	trip.CategoryPOIs:    "Attraction",
}

// ensureSections rebuilds the itinerary sections in stable category
// order, filling in anything the model skipped. Unavailable categories
// always get an explicit note.
func ensureSections(it *trip.Itinerary, results map[trip.Category]trip.ResultSet) {
	byCategory := make(map[trip.Category]string, len(it.Sections))
	for _, s := range it.Sections {
		if strings.TrimSpace(s.Text) != "" {
			byCategory[s.Category] = s.Text
		}
	}

	sections := make([]trip.Section, 0, len(trip.Categories()))
	for _, cat := range trip.Categories() {
		text, ok := byCategory[cat]
		if !ok {
			text = fallbackSection(cat, results[cat])
		}
		sections = append(sections, trip.Section{Category: cat, Text: text})
	}
	it.Sections = sections
}

func fallbackSection(cat trip.Category, rs trip.ResultSet) string {
	label := categoryLabels[cat]
	if !rs.Available() {
		return fmt.Sprintf("%s information is unavailable for this trip.", label)
	}
	if len(rs.Items) == 0 {
		return fmt.Sprintf("No %s results were found.", strings.ToLower(label))
	}

	titles := make([]string, 0, len(rs.Items))
	for _, item := range rs.Items {
		titles = append(titles, item.Title)
	}
	return fmt.Sprintf("%s options: %s.", label, strings.Join(titles, "; "))
}

package trip

import (
	"regexp"
	"strconv"
	"strings"
)

// Category is one of the four travel search categories
type Category string

const (
	CategoryFlights Category = "flights"
	CategoryHotels  Category = "hotels"
	CategoryCars    Category = "cars"
	CategoryPOIs    Category = "points_of_interest"
)

// Categories returns all search categories in stable order
func Categories() []Category {
	return []Category{CategoryFlights, CategoryHotels, CategoryCars, CategoryPOIs}
}

// Request is the structured trip request extracted from user text.
// It is never mutated after extraction.
type Request struct {
	Origin      string   `json:"origin,omitempty"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	Nights      int      `json:"nights,omitempty"`
	Travelers   int      `json:"travelers,omitempty"`
	Budget      float64  `json:"budget,omitempty"` // parsed USD amount, 0 = unspecified
	BudgetRaw   string   `json:"budget_raw,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
	TripType    string   `json:"trip_type,omitempty"`
}

// Item is a single opaque provider record inside a result set
type Item struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Snippet  string  `json:"snippet"`
	Price    float64 `json:"price,omitempty"` // extracted from snippet, 0 = unknown
	Provider string  `json:"provider"`
}

// ResultSet holds the raw results for one search category.
// Err is non-nil when the category is unavailable; the set is still
// present in the results map so missing data is explicit.
type ResultSet struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
	Err      error    `json:"-"`
}

// Available reports whether the category returned usable results
func (rs ResultSet) Available() bool {
	return rs.Err == nil
}

// Section is one category block of the final itinerary
type Section struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Itinerary is the composed trip plan. EstimatedBudget is advisory
// model output, never a computed value.
type Itinerary struct {
	Summary         string    `json:"summary"`
	EstimatedBudget string    `json:"estimated_budget"`
	Sections        []Section `json:"sections"`
}

// Status tracks the pipeline stage of a single plan invocation
type Status string

const (
	StatusIdle        Status = "idle"
	StatusNormalizing Status = "normalizing"
	StatusExtracting  Status = "extracting"
	StatusSearching   Status = "searching"
	StatusComposing   Status = "composing"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
)

var budgetPattern = regexp.MustCompile(`\$([\d,]+(?:\.\d+)?)`)

// ParseBudget extracts a dollar amount like "$4,000" from free text.
// Returns false when no amount is present.
func ParseBudget(text string) (float64, bool) {
	m := budgetPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

package prompts

import (
	_ "embed"
)

//go:embed extract_trip.txt
var ExtractTrip string

//go:embed compose_itinerary.txt
var ComposeItinerary string

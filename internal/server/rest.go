package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/amityadav/voyago/internal/core"
	"github.com/amityadav/voyago/internal/trip"
)

// Services groups all service dependencies for REST handlers
type Services struct {
	Planner *core.Planner
}

// maxAudioUpload caps voice input uploads at 25 MB (the transcription
// endpoint's own limit)
const maxAudioUpload = 25 << 20

// CreateRESTHandler creates the REST API endpoints
func CreateRESTHandler(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch r.URL.Path {
		case "/api/plan":
			handlePlanText(w, r, services.Planner)
		case "/api/plan/audio":
			handlePlanAudio(w, r, services.Planner)
		case "/api/health":
			handleHealth(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

type planTextRequest struct {
	Text string `json:"text"`
}

// planResponse is the wire shape of a finished plan. Unavailable lists
// the categories whose searches failed.
type planResponse struct {
	PlanID      string                           `json:"plan_id"`
	Transcript  string                           `json:"transcript,omitempty"`
	Request     *trip.Request                    `json:"request"`
	Itinerary   *trip.Itinerary                  `json:"itinerary"`
	Unavailable []trip.Category                  `json:"unavailable,omitempty"`
	Results     map[trip.Category]trip.ResultSet `json:"results"`
}

func handlePlanText(w http.ResponseWriter, r *http.Request, planner *core.Planner) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req planTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	result, err := planner.PlanFromText(r.Context(), req.Text)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	writePlanResponse(w, result)
}

func handlePlanAudio(w http.ResponseWriter, r *http.Request, planner *core.Planner) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form", "")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "audio file is required", string(trip.ErrCodeInput))
		return
	}
	defer file.Close()

	result, err := planner.PlanFromAudio(r.Context(), header.Filename, file)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	writePlanResponse(w, result)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}

func writePlanResponse(w http.ResponseWriter, result *core.PlanResult) {
	resp := planResponse{
		PlanID:     result.PlanID,
		Transcript: result.Transcript,
		Request:    result.Request,
		Itinerary:  result.Itinerary,
		Results:    result.Results,
	}
	for _, cat := range trip.Categories() {
		if rs, ok := result.Results[cat]; ok && !rs.Available() {
			resp.Unavailable = append(resp.Unavailable, cat)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[REST] Failed to encode plan response: %v", err)
	}
}

// writePipelineError maps the error taxonomy onto HTTP statuses: bad
// input is the caller's fault, everything else is an upstream failure.
func writePipelineError(w http.ResponseWriter, err error) {
	code := trip.CodeOf(err)

	status := http.StatusBadGateway
	switch code {
	case trip.ErrCodeInput:
		status = http.StatusBadRequest
	case "":
		status = http.StatusInternalServerError
	}

	log.Printf("[REST] Plan failed (%s): %v", code, err)
	writeJSONError(w, status, err.Error(), string(code))
}

func writeJSONError(w http.ResponseWriter, status int, msg, stage string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"stage": stage,
	})
}

package normalize

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/amityadav/voyago/internal/ai"
	"github.com/amityadav/voyago/internal/trip"
)

// Normalizer turns raw text or recorded audio into a canonical
// trip-request string.
type Normalizer struct {
	transcriber ai.Transcriber
}

// NewNormalizer creates a normalizer. The transcriber is only needed
// for audio input.
func NewNormalizer(transcriber ai.Transcriber) *Normalizer {
	return &Normalizer{transcriber: transcriber}
}

// Normalize trims and collapses whitespace. Empty input fails with an
// input error; no other validation is performed.
func (n *Normalizer) Normalize(text string) (string, error) {
	canonical := strings.Join(strings.Fields(text), " ")
	if canonical == "" {
		return "", trip.NewInputError("trip description is empty")
	}
	return canonical, nil
}

// NormalizeAudio transcribes the audio stream and normalizes the
// transcript. The transcription call blocks with no retry.
func (n *Normalizer) NormalizeAudio(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if audio == nil {
		return "", trip.NewInputError("no audio supplied")
	}

	transcript, err := n.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		return "", trip.NewTranscriptionError(err)
	}

	log.Printf("[Normalizer] Transcript: %q", transcript)

	canonical, err := n.Normalize(transcript)
	if err != nil {
		return "", trip.NewInputError("transcript is empty")
	}
	return canonical, nil
}

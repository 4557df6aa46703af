package trip

import (
	"errors"
	"fmt"
)

// ErrorCode identifies which pipeline stage an error belongs to
type ErrorCode string

const (
	ErrCodeInput         ErrorCode = "INPUT_INVALID"
	ErrCodeTranscription ErrorCode = "TRANSCRIPTION_FAILED"
	ErrCodeExtraction    ErrorCode = "EXTRACTION_FAILED"
	ErrCodeSearch        ErrorCode = "SEARCH_FAILED"
	ErrCodeComposition   ErrorCode = "COMPOSITION_FAILED"
)

// Error is a stage-tagged pipeline error. Upstream API error text is
// preserved verbatim in the wrapped cause.
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewInputError reports empty or invalid user input
func NewInputError(msg string) *Error {
	return &Error{Code: ErrCodeInput, Msg: msg}
}

// NewTranscriptionError wraps a failed audio transcription call
func NewTranscriptionError(err error) *Error {
	return &Error{Code: ErrCodeTranscription, Msg: "audio transcription failed", Err: err}
}

// NewExtractionError wraps a failed or unparseable trip extraction
func NewExtractionError(msg string, err error) *Error {
	return &Error{Code: ErrCodeExtraction, Msg: msg, Err: err}
}

// NewSearchError wraps a per-category search failure (non-fatal)
func NewSearchError(category Category, err error) *Error {
	return &Error{Code: ErrCodeSearch, Msg: fmt.Sprintf("search failed for %s", category), Err: err}
}

// NewCompositionError wraps a failed itinerary synthesis
func NewCompositionError(msg string, err error) *Error {
	return &Error{Code: ErrCodeComposition, Msg: msg, Err: err}
}

// CodeOf returns the pipeline error code, or "" for untagged errors
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

package models

import (
	"errors"
	"fmt"
)

var ErrMalformedChapter = errors.New("malformed chapter")

var ErrRecognizerUnavailable = errors.New("recognizer unavailable")

// MalformedChapterError is returned when a chapter lacks the number and
// title blocks that precede its paragraphs.
type MalformedChapterError struct {
	Index  int
	Blocks int
}

func (e *MalformedChapterError) Error() string {
	return fmt.Sprintf(
		"malformed chapter %d: want at least 2 blank-line separated blocks, got %d",
		e.Index,
		e.Blocks,
	)
}

func (e *MalformedChapterError) Unwrap() error {
	return ErrMalformedChapter
}

func NewMalformedChapterError(index, blocks int) error {
	return &MalformedChapterError{Index: index, Blocks: blocks}
}

// RecognizerError carries a non-OK response from the NLP server.
type RecognizerError struct {
	StatusCode int
	Status     string
}

func (e *RecognizerError) Error() string {
	return fmt.Sprintf("recognizer returned %d - %s", e.StatusCode, e.Status)
}

func (e *RecognizerError) Unwrap() error {
	return ErrRecognizerUnavailable
}

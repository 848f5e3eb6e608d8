package models

import (
	"encoding/json"
	"fmt"
)

// Entity is a single recognizer hit. Adjacent sub-tokens are already merged
// into one group by the server when aggregation is enabled.
type Entity struct {
	Group string  `json:"entity_group"`
	Text  string  `json:"word"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// EntitySpan is a byte-offset interval into a text segment plus its label.
// It serializes as the 3-tuple [start, end, label].
type EntitySpan struct {
	Start int
	End   int
	Label string
}

// Valid reports whether the span lies inside text and is non-empty.
func (s EntitySpan) Valid(text string) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= len(text)
}

func (s EntitySpan) MarshalJSON() ([]byte, error) {
	return marshalNoEscape([]interface{}{s.Start, s.End, s.Label})
}

func (s *EntitySpan) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("entity span: want 3 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &s.Start); err != nil {
		return fmt.Errorf("entity span start: %w", err)
	}
	if err := json.Unmarshal(parts[1], &s.End); err != nil {
		return fmt.Errorf("entity span end: %w", err)
	}
	if err := json.Unmarshal(parts[2], &s.Label); err != nil {
		return fmt.Errorf("entity span label: %w", err)
	}
	return nil
}

type EntityRequestRecord struct {
	UUID     string `json:"uuid"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

type EntityRequest struct {
	Model string `json:"model"`
	// Aggregation is "simple" for grouped entities, "none" for raw spans.
	Aggregation string                `json:"aggregation"`
	Texts       []EntityRequestRecord `json:"texts"`
}

type EntityResponseRecord struct {
	UUID     string   `json:"uuid"`
	Entities []Entity `json:"entities"`
}

type EntityResponse struct {
	Texts []EntityResponseRecord `json:"texts"`
}

// HealthResponse is returned by the NLP server's /healthz endpoint.
type HealthResponse struct {
	Status string   `json:"status"`
	Models []string `json:"models"`
}

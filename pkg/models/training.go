package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Annotation holds the entity spans of one training example.
type Annotation struct {
	Entities []EntitySpan `json:"entities"`
}

// TrainingExample pairs a text segment with its annotation. It serializes as
// the 2-tuple [text, {"entities": [[start, end, label], ...]}], the layout
// spaCy's training scripts read.
type TrainingExample struct {
	Text       string
	Annotation Annotation
}

func NewTrainingExample(text string, spans []EntitySpan) TrainingExample {
	return TrainingExample{Text: text, Annotation: Annotation{Entities: spans}}
}

func (e TrainingExample) MarshalJSON() ([]byte, error) {
	ann := e.Annotation
	if ann.Entities == nil {
		ann.Entities = []EntitySpan{}
	}
	return marshalNoEscape([]interface{}{e.Text, ann})
}

func (e *TrainingExample) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("training example: want 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.Text); err != nil {
		return fmt.Errorf("training example text: %w", err)
	}
	if err := json.Unmarshal(parts[1], &e.Annotation); err != nil {
		return fmt.Errorf("training example annotation: %w", err)
	}
	return nil
}

// String is the compact one-line form printed as a sanity check.
func (e TrainingExample) String() string {
	b, err := e.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%q", e.Text)
	}
	return string(b)
}

// marshalNoEscape is json.Marshal without HTML escaping, so that texts
// containing <, > or & stay readable in the dataset file.
func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

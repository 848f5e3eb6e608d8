package models

import "context"

// Recognizer runs a pretrained NER model over text.
// Implementations must return entities in text order.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// BatchRecognizer is implemented by recognizers that can process many texts
// in one round trip. Results are returned in input order.
type BatchRecognizer interface {
	Recognizer
	RecognizeBatch(ctx context.Context, texts []string) ([][]Entity, error)
}

package dataset

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// NewTokenCounter returns a CountTokens func for the named tiktoken
// encoding, e.g. "cl100k_base".
func NewTokenCounter(encoding string) (func(string) int, error) {
	tkm, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("token encoding %s: %w", encoding, err)
	}
	return func(text string) int {
		return len(tkm.Encode(text, nil, nil))
	}, nil
}

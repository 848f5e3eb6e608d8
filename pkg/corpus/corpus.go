// Package corpus splits a chaptered novel into typed sections.
//
// A corpus is a run of chapters, each introduced by a literal marker
// ("CHAPTER" by default). Inside a chapter, blank lines separate blocks:
// the first block is the chapter number, the second its title, and every
// block after that is a paragraph.
package corpus

import (
	"strings"

	"github.com/getzep/nerkit/pkg/models"
)

const (
	DefaultMarker    = "CHAPTER"
	DefaultSeparator = "\n\n"
)

type Options struct {
	// Marker introduces each chapter. Matching is case-sensitive.
	Marker string
	// Separator splits a chapter into blocks.
	Separator string
}

func (o Options) withDefaults() Options {
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	return o
}

// Chapter is one parsed chapter. Paragraphs are kept raw; use Normalize
// before handing them to a recognizer.
type Chapter struct {
	Index      int
	Number     string
	Title      string
	Paragraphs []string
}

// Parse splits text into chapters. Text before the first marker is dropped.
// A chapter with fewer than two blocks yields a MalformedChapterError and no
// chapters at all.
func Parse(text string, opts Options) ([]Chapter, error) {
	opts = opts.withDefaults()
	text = strings.ReplaceAll(text, "\r\n", "\n")

	parts := strings.Split(text, opts.Marker)
	if len(parts) < 2 {
		return nil, nil
	}

	chapters := make([]Chapter, 0, len(parts)-1)
	for i, raw := range parts[1:] {
		blocks := strings.Split(raw, opts.Separator)
		if len(blocks) < 2 {
			return nil, models.NewMalformedChapterError(i, len(blocks))
		}
		chapters = append(chapters, Chapter{
			Index:      i,
			Number:     strings.TrimSpace(blocks[0]),
			Title:      strings.TrimSpace(blocks[1]),
			Paragraphs: blocks[2:],
		})
	}

	return chapters, nil
}

// Normalize trims a paragraph and folds its line breaks into single spaces.
func Normalize(segment string) string {
	return strings.ReplaceAll(strings.TrimSpace(segment), "\n", " ")
}

// Segments flattens the paragraphs of all chapters, in order.
func Segments(chapters []Chapter) []string {
	n := 0
	for _, c := range chapters {
		n += len(c.Paragraphs)
	}
	segments := make([]string, 0, n)
	for _, c := range chapters {
		segments = append(segments, c.Paragraphs...)
	}
	return segments
}

// Package dataset builds NER training data from a chaptered corpus by
// running every paragraph through a recognizer and keeping the paragraphs
// it finds entities in.
package dataset

import (
	"context"
	"fmt"
	"slices"
	"unicode/utf8"

	"dario.cat/mergo"

	"github.com/getzep/nerkit/internal"
	"github.com/getzep/nerkit/pkg/corpus"
	"github.com/getzep/nerkit/pkg/models"
)

var log = internal.GetLogger()

const (
	OffsetByte = "byte"
	OffsetRune = "rune"
)

type Options struct {
	Corpus corpus.Options
	// OffsetUnit selects byte or rune (character) offsets in the output.
	OffsetUnit string
	// MinScore drops entities the model is less confident about.
	MinScore float64
	// Labels, when non-empty, restricts the labels kept.
	Labels []string
	// CountTokens, when set, is used to report the token count of the
	// dataset in Stats.
	CountTokens func(string) int
}

var defaultOptions = Options{
	Corpus: corpus.Options{
		Marker:    corpus.DefaultMarker,
		Separator: corpus.DefaultSeparator,
	},
	OffsetUnit: OffsetByte,
}

type Stats struct {
	Chapters int
	Segments int
	Examples int
	Entities int
	Tokens   int
	Labels   map[string]int
}

type Builder struct {
	recognizer models.Recognizer
	opts       Options
}

func NewBuilder(recognizer models.Recognizer, opts Options) (*Builder, error) {
	if err := mergo.Merge(&opts, defaultOptions); err != nil {
		return nil, fmt.Errorf("dataset options: %w", err)
	}
	if opts.OffsetUnit != OffsetByte && opts.OffsetUnit != OffsetRune {
		return nil, fmt.Errorf("dataset options: unknown offset unit %q", opts.OffsetUnit)
	}
	return &Builder{recognizer: recognizer, opts: opts}, nil
}

// Build parses text and returns one TrainingExample per paragraph with at
// least one entity, in corpus order. Any parse or recognizer error aborts
// the whole build.
func (b *Builder) Build(ctx context.Context, text string) ([]models.TrainingExample, Stats, error) {
	stats := Stats{Labels: make(map[string]int)}

	chapters, err := corpus.Parse(text, b.opts.Corpus)
	if err != nil {
		return nil, stats, fmt.Errorf("parse corpus: %w", err)
	}
	stats.Chapters = len(chapters)

	examples := make([]models.TrainingExample, 0)
	for _, chapter := range chapters {
		log.Debugf("processing chapter %s: %s", chapter.Number, chapter.Title)

		segments := make([]string, len(chapter.Paragraphs))
		for i, p := range chapter.Paragraphs {
			segments[i] = corpus.Normalize(p)
		}
		stats.Segments += len(segments)

		results, err := b.recognize(ctx, segments)
		if err != nil {
			return nil, stats, fmt.Errorf("recognize chapter %s: %w", chapter.Number, err)
		}
		if len(results) != len(segments) {
			return nil, stats, fmt.Errorf("recognize chapter %s: %d results for %d segments",
				chapter.Number, len(results), len(segments))
		}

		for i, segment := range segments {
			spans := b.spans(segment, results[i])
			if len(spans) == 0 {
				continue
			}
			examples = append(examples, models.NewTrainingExample(segment, spans))
			stats.Entities += len(spans)
			for _, s := range spans {
				stats.Labels[s.Label]++
			}
			if b.opts.CountTokens != nil {
				stats.Tokens += b.opts.CountTokens(segment)
			}
		}
	}
	stats.Examples = len(examples)

	return examples, stats, nil
}

// recognize sends a chapter's segments in one round trip when the
// recognizer supports batching, one at a time otherwise.
func (b *Builder) recognize(ctx context.Context, segments []string) ([][]models.Entity, error) {
	if br, ok := b.recognizer.(models.BatchRecognizer); ok {
		return br.RecognizeBatch(ctx, segments)
	}

	results := make([][]models.Entity, len(segments))
	for i, segment := range segments {
		entities, err := b.recognizer.Recognize(ctx, segment)
		if err != nil {
			return nil, err
		}
		results[i] = entities
	}
	return results, nil
}

// spans converts recognizer hits into spans over segment, dropping filtered
// labels, low scores and offsets that fall outside the segment.
func (b *Builder) spans(segment string, entities []models.Entity) []models.EntitySpan {
	spans := make([]models.EntitySpan, 0, len(entities))
	for _, e := range entities {
		if len(b.opts.Labels) > 0 && !slices.Contains(b.opts.Labels, e.Group) {
			continue
		}
		if e.Score < b.opts.MinScore {
			continue
		}

		span := models.EntitySpan{Start: e.Start, End: e.End, Label: e.Group}
		if !span.Valid(segment) ||
			!utf8.RuneStart(byteAt(segment, span.Start)) ||
			!utf8.RuneStart(byteAt(segment, span.End)) {
			log.Warnf("dropping entity %q [%d:%d]: offsets outside segment of %d bytes",
				e.Text, e.Start, e.End, len(segment))
			continue
		}

		if b.opts.OffsetUnit == OffsetRune {
			span.Start = utf8.RuneCountInString(segment[:span.Start])
			span.End = span.Start + utf8.RuneCountInString(segment[e.Start:e.End])
		}
		spans = append(spans, span)
	}
	return spans
}

// byteAt returns the byte at i, or an ASCII byte at the end of s so that
// the end offset always counts as a rune boundary.
func byteAt(s string, i int) byte {
	if i >= len(s) {
		return ' '
	}
	return s[i]
}

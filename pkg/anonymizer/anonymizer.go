// Package anonymizer masks person and location names in a document using a
// grouped-entity recognizer.
//
// In literal mode (the default) every occurrence of a recognized surface
// string is replaced, wherever it appears. A name that also occurs inside
// an unrelated phrase is masked there too. Span mode replaces only the
// offsets the recognizer reported.
package anonymizer

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"dario.cat/mergo"

	"github.com/getzep/nerkit/internal"
	"github.com/getzep/nerkit/pkg/models"
)

var log = internal.GetLogger()

const (
	ModeLiteral = "literal"
	ModeSpan    = "span"

	PersonGroup   = "PER"
	LocationGroup = "LOC"
)

type Options struct {
	PersonGroup   string
	LocationGroup string
	PersonToken   string
	LocationToken string
	// ExemptLocations are location surface strings that are never masked.
	// nil takes the default list; an empty non-nil slice exempts nothing.
	ExemptLocations []string
	Mode            string
}

var defaultOptions = Options{
	PersonGroup:     PersonGroup,
	LocationGroup:   LocationGroup,
	PersonToken:     "<NOME>",
	LocationToken:   "<LUGAR>",
	ExemptLocations: []string{"São Paulo"},
	Mode:            ModeLiteral,
}

// Redaction records one masked surface string.
type Redaction struct {
	Group    string
	Original string
	Token    string
	// Count is the number of occurrences replaced.
	Count int
}

type Result struct {
	Text       string
	Redactions []Redaction
}

// Replaced returns the number of occurrences masked across all redactions.
func (r Result) Replaced() int {
	n := 0
	for _, red := range r.Redactions {
		n += red.Count
	}
	return n
}

type Anonymizer struct {
	recognizer models.Recognizer
	opts       Options
}

// New creates an Anonymizer. Zero fields of opts take their defaults.
func New(recognizer models.Recognizer, opts Options) (*Anonymizer, error) {
	exempt := opts.ExemptLocations
	if err := mergo.Merge(&opts, defaultOptions); err != nil {
		return nil, fmt.Errorf("anonymizer options: %w", err)
	}
	if exempt != nil {
		opts.ExemptLocations = exempt
	}
	if opts.Mode != ModeLiteral && opts.Mode != ModeSpan {
		return nil, fmt.Errorf("anonymizer options: unknown mode %q", opts.Mode)
	}
	return &Anonymizer{recognizer: recognizer, opts: opts}, nil
}

// Anonymize runs the recognizer once over text and masks the person and
// location entities it finds. With no entities the text is returned as is.
func (a *Anonymizer) Anonymize(ctx context.Context, text string) (Result, error) {
	entities, err := a.recognizer.Recognize(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("anonymize: %w", err)
	}
	log.Debugf("anonymizer: %d entities recognized", len(entities))

	if a.opts.Mode == ModeSpan {
		return a.replaceSpans(text, entities), nil
	}
	return a.replaceLiteral(text, entities), nil
}

// token returns the placeholder for e, or false if e stays in the text.
func (a *Anonymizer) token(e models.Entity) (string, bool) {
	switch e.Group {
	case a.opts.PersonGroup:
		return a.opts.PersonToken, true
	case a.opts.LocationGroup:
		if slices.Contains(a.opts.ExemptLocations, e.Text) {
			return "", false
		}
		return a.opts.LocationToken, true
	}
	return "", false
}

func (a *Anonymizer) replaceLiteral(text string, entities []models.Entity) Result {
	result := Result{Text: text}
	for _, e := range entities {
		tok, ok := a.token(e)
		if !ok || e.Text == "" {
			continue
		}
		n := strings.Count(result.Text, e.Text)
		if n == 0 {
			continue
		}
		result.Text = strings.ReplaceAll(result.Text, e.Text, tok)
		result.Redactions = append(result.Redactions, Redaction{
			Group:    e.Group,
			Original: e.Text,
			Token:    tok,
			Count:    n,
		})
	}
	return result
}

func (a *Anonymizer) replaceSpans(text string, entities []models.Entity) Result {
	type hit struct {
		span  models.EntitySpan
		token string
	}

	hits := make([]hit, 0, len(entities))
	for _, e := range entities {
		tok, ok := a.token(e)
		if !ok {
			continue
		}
		span := models.EntitySpan{Start: e.Start, End: e.End, Label: e.Group}
		if !span.Valid(text) || !isRuneBoundary(text, span.Start) || !isRuneBoundary(text, span.End) {
			log.Warnf("anonymizer: skipping entity %q with offsets [%d:%d]", e.Text, e.Start, e.End)
			continue
		}
		hits = append(hits, hit{span: span, token: tok})
	}

	// Apply right to left so earlier offsets stay valid. Overlapping spans
	// keep the one that starts last.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].span.Start > hits[j].span.Start })

	out := text
	applied := make([]hit, 0, len(hits))
	lastStart := -1
	for _, h := range hits {
		if lastStart != -1 && h.span.End > lastStart {
			continue
		}
		out = out[:h.span.Start] + h.token + out[h.span.End:]
		lastStart = h.span.Start
		applied = append(applied, h)
	}

	result := Result{Text: out}
	index := make(map[string]int)
	for i := len(applied) - 1; i >= 0; i-- {
		h := applied[i]
		original := text[h.span.Start:h.span.End]
		key := h.span.Label + "\x00" + original
		if j, ok := index[key]; ok {
			result.Redactions[j].Count++
			continue
		}
		index[key] = len(result.Redactions)
		result.Redactions = append(result.Redactions, Redaction{
			Group:    h.span.Label,
			Original: original,
			Token:    h.token,
			Count:    1,
		})
	}
	return result
}

func isRuneBoundary(s string, i int) bool {
	if i == 0 || i == len(s) {
		return true
	}
	return utf8.RuneStart(s[i])
}

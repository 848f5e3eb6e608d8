package testutils

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/getzep/nerkit/config"
	"github.com/getzep/nerkit/pkg/models"
)

// NewTestConfig returns a config with the same defaults config.yaml ships
// with, pointed at serverURL.
func NewTestConfig(serverURL string) *config.Config {
	return &config.Config{
		Log: config.LogConfig{Level: "debug"},
		NLP: config.NLPConfig{
			ServerURL: serverURL,
			Language:  "en",
			Timeout:   5 * time.Second,
		},
		Dataset: config.DatasetConfig{
			CorpusPath: "data/hp.txt",
			OutputPath: "data/hp_training_data.json",
			Model:      "hp_ner",
			Marker:     "CHAPTER",
			OffsetUnit: "byte",
		},
		Anonymizer: config.AnonymizerConfig{
			Model:           "Babelscape/wikineural-multilingual-ner",
			PersonToken:     "<NOME>",
			LocationToken:   "<LUGAR>",
			ExemptLocations: []string{"São Paulo"},
			Mode:            "literal",
		},
	}
}

var _ models.Recognizer = &StaticRecognizer{}

// StaticRecognizer is a gazetteer-backed Recognizer for tests. Every
// occurrence of a known surface string is reported with its group.
type StaticRecognizer struct {
	// Known maps surface text to entity group.
	Known map[string]string
	// Err, when set, is returned from every call.
	Err error

	mu    sync.Mutex
	texts []string
}

func NewStaticRecognizer(known map[string]string) *StaticRecognizer {
	return &StaticRecognizer{Known: known}
}

func (r *StaticRecognizer) Recognize(_ context.Context, text string) ([]models.Entity, error) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	var entities []models.Entity
	for surface, group := range r.Known {
		if surface == "" {
			continue
		}
		for offset := 0; ; {
			i := strings.Index(text[offset:], surface)
			if i < 0 {
				break
			}
			start := offset + i
			entities = append(entities, models.Entity{
				Group: group,
				Text:  surface,
				Start: start,
				End:   start + len(surface),
				Score: 1,
			})
			offset = start + len(surface)
		}
	}
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].End > entities[j].End
	})
	return entities, nil
}

// Texts returns every text passed to Recognize, in call order.
func (r *StaticRecognizer) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

// GenerateCorpus builds a chaptered novel from fake sentences. Every
// second paragraph mentions one of names. It returns the text and the
// number of paragraphs that mention a name.
func GenerateCorpus(seed int64, chapters, paragraphs int, names []string) (string, int) {
	faker := gofakeit.New(seed)

	var sb strings.Builder
	sb.WriteString(strings.ToLower(faker.Sentence(8)))
	mentions := 0
	for c := 0; c < chapters; c++ {
		fmt.Fprintf(&sb, "\n\nCHAPTER %d\n\n%s", c+1, strings.ToUpper(faker.BuzzWord()))
		for p := 0; p < paragraphs; p++ {
			sb.WriteString("\n\n")
			// lower-casing keeps fake words from colliding with names
			sb.WriteString(strings.ToLower(faker.Sentence(10)))
			if len(names) > 0 && p%2 == 0 {
				fmt.Fprintf(&sb, "\n%s %s", names[(c+p)%len(names)], strings.ToLower(faker.Sentence(6)))
				mentions++
			}
		}
	}
	sb.WriteString("\n")
	return sb.String(), mentions
}

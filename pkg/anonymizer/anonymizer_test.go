package anonymizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/nerkit/pkg/models"
	"github.com/getzep/nerkit/pkg/testutils"
)

type recognizerFunc func(ctx context.Context, text string) ([]models.Entity, error)

func (f recognizerFunc) Recognize(ctx context.Context, text string) ([]models.Entity, error) {
	return f(ctx, text)
}

func newAnonymizer(t *testing.T, r models.Recognizer, opts Options) *Anonymizer {
	t.Helper()
	a, err := New(r, opts)
	require.NoError(t, err)
	return a
}

var exampleNames = map[string]string{
	"Huno Molina Rodrigues dos Santos": "PER",
	"Rui Barbosa":                      "PER",
	"São Paulo":                        "LOC",
	"Rua dos Enforcados":               "LOC",
	"Viaduto do Chá":                   "LOC",
	"Município de São Paulo":           "ORG",
}

func TestAnonymizePerson(t *testing.T) {
	r := testutils.NewStaticRecognizer(map[string]string{"Rui Barbosa": "PER"})

	for _, mode := range []string{ModeLiteral, ModeSpan} {
		t.Run(mode, func(t *testing.T) {
			got, err := newAnonymizer(t, r, Options{Mode: mode}).
				Anonymize(context.Background(), "Rui Barbosa\nOAB/SP 12.345")
			require.NoError(t, err)

			assert.Equal(t, "<NOME>\nOAB/SP 12.345", got.Text)
			assert.NotContains(t, got.Text, "Rui Barbosa")
			assert.Equal(t, []Redaction{{Group: "PER", Original: "Rui Barbosa", Token: "<NOME>", Count: 1}}, got.Redactions)
		})
	}
}

func TestAnonymizeExemptLocation(t *testing.T) {
	r := testutils.NewStaticRecognizer(map[string]string{
		"São Paulo":      "LOC",
		"Viaduto do Chá": "LOC",
	})
	text := "Sede no Viaduto do Chá, São Paulo."

	for _, mode := range []string{ModeLiteral, ModeSpan} {
		t.Run(mode, func(t *testing.T) {
			got, err := newAnonymizer(t, r, Options{Mode: mode}).Anonymize(context.Background(), text)
			require.NoError(t, err)
			assert.Equal(t, "Sede no <LUGAR>, São Paulo.", got.Text)
		})
	}
}

func TestAnonymizeEmptyExemptList(t *testing.T) {
	r := testutils.NewStaticRecognizer(map[string]string{"São Paulo": "LOC"})
	text := "Comarca de São Paulo."

	for _, mode := range []string{ModeLiteral, ModeSpan} {
		t.Run(mode, func(t *testing.T) {
			got, err := newAnonymizer(t, r, Options{Mode: mode, ExemptLocations: []string{}}).
				Anonymize(context.Background(), text)
			require.NoError(t, err)
			assert.Equal(t, "Comarca de <LUGAR>.", got.Text)
		})
	}
}

func TestAnonymizeNoEntities(t *testing.T) {
	r := testutils.NewStaticRecognizer(nil)

	for _, mode := range []string{ModeLiteral, ModeSpan} {
		t.Run(mode, func(t *testing.T) {
			got, err := newAnonymizer(t, r, Options{Mode: mode}).Anonymize(context.Background(), ExampleDocument)
			require.NoError(t, err)
			assert.Equal(t, ExampleDocument, got.Text)
			assert.Empty(t, got.Redactions)
		})
	}
}

func TestAnonymizeExampleDocument(t *testing.T) {
	r := testutils.NewStaticRecognizer(exampleNames)

	got, err := newAnonymizer(t, r, Options{}).Anonymize(context.Background(), ExampleDocument)
	require.NoError(t, err)

	assert.NotContains(t, got.Text, "Huno Molina")
	assert.NotContains(t, got.Text, "Rui Barbosa")
	assert.NotContains(t, got.Text, "Rua dos Enforcados")
	assert.NotContains(t, got.Text, "Viaduto do Chá")
	assert.Contains(t, got.Text, "<NOME>, dentista")
	assert.Contains(t, got.Text, "domiciliado na <LUGAR>, nº 21")
	assert.Contains(t, got.Text, "com sede no <LUGAR>, s/ n.")
	assert.Contains(t, got.Text, "São Paulo, 30 de nov. de 24\n<NOME>\nOAB/SP 12.345")
	assert.Contains(t, got.Text, "Em face do Município de São Paulo")
	// identifiers are not names and stay put
	assert.Contains(t, got.Text, "CPF/MF sob nº 123.456.789-10")
}

func TestAnonymizeLiteralOverRedacts(t *testing.T) {
	text := "Paulo Freire nasceu em Recife. Mudou-se para São Paulo."
	r := recognizerFunc(func(context.Context, string) ([]models.Entity, error) {
		return []models.Entity{{Group: "PER", Text: "Paulo", Start: 0, End: 5}}, nil
	})

	literal, err := newAnonymizer(t, r, Options{Mode: ModeLiteral}).Anonymize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "<NOME> Freire nasceu em Recife. Mudou-se para São <NOME>.", literal.Text)
	assert.Equal(t, 2, literal.Redactions[0].Count)

	span, err := newAnonymizer(t, r, Options{Mode: ModeSpan}).Anonymize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "<NOME> Freire nasceu em Recife. Mudou-se para São Paulo.", span.Text)
	assert.Equal(t, 1, span.Redactions[0].Count)
}

func TestAnonymizeLiteralRepeatedEntity(t *testing.T) {
	r := testutils.NewStaticRecognizer(map[string]string{"Rui Barbosa": "PER"})
	text := "Rui Barbosa assina. Rui Barbosa, advogado."

	got, err := newAnonymizer(t, r, Options{}).Anonymize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "<NOME> assina. <NOME>, advogado.", got.Text)
	require.Len(t, got.Redactions, 1)
	assert.Equal(t, 2, got.Redactions[0].Count)
}

func TestResultReplaced(t *testing.T) {
	r := testutils.NewStaticRecognizer(map[string]string{"Rui Barbosa": "PER", "Recife": "LOC"})
	text := "Rui Barbosa assina em Recife. Rui Barbosa, advogado."

	for _, mode := range []string{ModeLiteral, ModeSpan} {
		t.Run(mode, func(t *testing.T) {
			got, err := newAnonymizer(t, r, Options{Mode: mode}).Anonymize(context.Background(), text)
			require.NoError(t, err)
			assert.Len(t, got.Redactions, 2)
			assert.Equal(t, 3, got.Replaced())
		})
	}
	assert.Equal(t, 0, Result{Text: text}.Replaced())
}

func TestAnonymizeIgnoresOtherGroups(t *testing.T) {
	r := testutils.NewStaticRecognizer(map[string]string{"Prefeitura": "ORG", "Lei 8.666": "MISC"})
	text := "A Prefeitura citou a Lei 8.666."

	got, err := newAnonymizer(t, r, Options{}).Anonymize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
}

func TestAnonymizeSkipsEmptySurface(t *testing.T) {
	r := recognizerFunc(func(context.Context, string) ([]models.Entity, error) {
		return []models.Entity{{Group: "PER", Text: "", Start: 0, End: 0}}, nil
	})

	for _, mode := range []string{ModeLiteral, ModeSpan} {
		got, err := newAnonymizer(t, r, Options{Mode: mode}).Anonymize(context.Background(), "Rui")
		require.NoError(t, err)
		assert.Equal(t, "Rui", got.Text)
	}
}

func TestAnonymizeSpanSkipsBadOffsets(t *testing.T) {
	text := "Dr. Grão assina."
	r := recognizerFunc(func(context.Context, string) ([]models.Entity, error) {
		return []models.Entity{
			{Group: "PER", Text: "Grão", Start: 4, End: 99},
			{Group: "PER", Text: "Gr", Start: 4, End: 7}, // splits ã
			{Group: "LOC", Text: "Dr", Start: -1, End: 2},
		}, nil
	})

	got, err := newAnonymizer(t, r, Options{Mode: ModeSpan}).Anonymize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
}

func TestAnonymizeSpanOverlaps(t *testing.T) {
	text := "Huno Molina Rodrigues"
	r := recognizerFunc(func(context.Context, string) ([]models.Entity, error) {
		return []models.Entity{
			{Group: "PER", Text: "Huno Molina", Start: 0, End: 11},
			{Group: "PER", Text: "Molina Rodrigues", Start: 5, End: 21},
		}, nil
	})

	got, err := newAnonymizer(t, r, Options{Mode: ModeSpan}).Anonymize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "Huno <NOME>", got.Text)
}

func TestAnonymizeCustomOptions(t *testing.T) {
	r := testutils.NewStaticRecognizer(map[string]string{
		"Ana":      "PERSON",
		"Brasília": "GPE",
		"Recife":   "GPE",
	})
	opts := Options{
		PersonGroup:     "PERSON",
		LocationGroup:   "GPE",
		PersonToken:     "[PESSOA]",
		LocationToken:   "[LOCAL]",
		ExemptLocations: []string{"Brasília"},
	}

	got, err := newAnonymizer(t, r, opts).Anonymize(context.Background(), "Ana foi de Recife a Brasília.")
	require.NoError(t, err)
	assert.Equal(t, "[PESSOA] foi de [LOCAL] a Brasília.", got.Text)
}

func TestAnonymizeRecognizerError(t *testing.T) {
	r := testutils.NewStaticRecognizer(exampleNames)
	r.Err = models.ErrRecognizerUnavailable

	_, err := newAnonymizer(t, r, Options{}).Anonymize(context.Background(), ExampleDocument)
	assert.True(t, errors.Is(err, models.ErrRecognizerUnavailable))
}

func TestAnonymizeCallsRecognizerOnce(t *testing.T) {
	r := testutils.NewStaticRecognizer(exampleNames)

	_, err := newAnonymizer(t, r, Options{}).Anonymize(context.Background(), ExampleDocument)
	require.NoError(t, err)
	assert.Equal(t, []string{ExampleDocument}, r.Texts())
}

func TestNewInvalidMode(t *testing.T) {
	_, err := New(testutils.NewStaticRecognizer(nil), Options{Mode: "fuzzy"})
	assert.Error(t, err)
}

package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/nerkit/pkg/models"
)

const novel = `Harry Potter and the Philosopher's Stone

CHAPTER ONE

THE BOY WHO LIVED

Mr. and Mrs. Dursley, of number four, Privet Drive,
were proud to say that they were perfectly normal.

Mr. Dursley was the director of a firm called Grunnings.

CHAPTER TWO

THE VANISHING GLASS

Nearly ten years had passed since the Dursleys had woken up.
`

func TestParse(t *testing.T) {
	chapters, err := Parse(novel, Options{})
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	assert.Equal(t, 0, chapters[0].Index)
	assert.Equal(t, "ONE", chapters[0].Number)
	assert.Equal(t, "THE BOY WHO LIVED", chapters[0].Title)
	assert.Equal(t, []string{
		"Mr. and Mrs. Dursley, of number four, Privet Drive,\nwere proud to say that they were perfectly normal.",
		"Mr. Dursley was the director of a firm called Grunnings.",
		"",
	}, chapters[0].Paragraphs)

	assert.Equal(t, "TWO", chapters[1].Number)
	assert.Equal(t, "THE VANISHING GLASS", chapters[1].Title)
	assert.Equal(t, []string{"Nearly ten years had passed since the Dursleys had woken up.\n"}, chapters[1].Paragraphs)
}

func TestParseDropsPreamble(t *testing.T) {
	chapters, err := Parse("Preamble about the book.\n\nCHAPTER 1\n\nTitle\n\nBody.", Options{})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.NotContains(t, strings.Join(Segments(chapters), " "), "Preamble")
}

func TestParseNoMarker(t *testing.T) {
	chapters, err := Parse("just some text\n\nwithout chapters", Options{})
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestParseMalformedChapter(t *testing.T) {
	text := "CHAPTER 1\n\nTitle\n\nBody.\n\nCHAPTER 2 with no blank lines at all"
	chapters, err := Parse(text, Options{})

	assert.Nil(t, chapters)
	assert.True(t, errors.Is(err, models.ErrMalformedChapter))

	var mce *models.MalformedChapterError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, 1, mce.Index)
	assert.Equal(t, 1, mce.Blocks)
}

func TestParseHeaderOnlyChapter(t *testing.T) {
	chapters, err := Parse("CHAPTER 7\n\nAn Empty Chapter", Options{})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "An Empty Chapter", chapters[0].Title)
	assert.Empty(t, chapters[0].Paragraphs)
}

func TestParseWindowsLineEndings(t *testing.T) {
	chapters, err := Parse("CHAPTER 1\r\n\r\nTitle\r\n\r\nLine one\r\nline two", Options{})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, []string{"Line one\nline two"}, chapters[0].Paragraphs)
}

func TestParseCustomMarker(t *testing.T) {
	text := "Chapter 1\n\nBeginnings\n\nOnce upon a time."
	chapters, err := Parse(text, Options{Marker: "Chapter"})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "1", chapters[0].Number)

	// the default marker is case-sensitive
	chapters, err = Parse(text, Options{})
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"Folds newlines", "line one\nline two", "line one line two"},
		{"Trims", "  \n padded text \n\n", "padded text"},
		{"Keeps inner spacing", "a  b\nc", "a  b c"},
		{"Empty", "\n\n", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestSegments(t *testing.T) {
	chapters := []Chapter{
		{Paragraphs: []string{"a", "b"}},
		{},
		{Paragraphs: []string{"c"}},
	}
	assert.Equal(t, []string{"a", "b", "c"}, Segments(chapters))
}

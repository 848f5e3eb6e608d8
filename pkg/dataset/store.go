package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/getzep/nerkit/pkg/models"
)

const indent = "    "

// Encode writes examples as a JSON array indented with four spaces.
// The output depends only on examples, so identical builds produce
// byte-identical files.
func Encode(w io.Writer, examples []models.TrainingExample) error {
	if examples == nil {
		examples = []models.TrainingExample{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(examples)
}

// Save writes the dataset to path in one call, creating parent directories.
// Nothing is written if encoding fails.
func Save(path string, examples []models.TrainingExample) error {
	var buf bytes.Buffer
	if err := Encode(&buf, examples); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	log.Infof("wrote %s (%d examples) to %s",
		humanize.Bytes(uint64(buf.Len())), len(examples), path)
	return nil
}

// Load reads a dataset written by Save.
func Load(path string) ([]models.TrainingExample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var examples []models.TrainingExample
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return examples, nil
}

// WriteSummary prints the example count and, when there is one, the first
// example.
func WriteSummary(w io.Writer, examples []models.TrainingExample) error {
	if _, err := fmt.Fprintln(w, len(examples)); err != nil {
		return err
	}
	if len(examples) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, examples[0].String())
	return err
}

// LogStats reports a finished build.
func LogStats(stats Stats) {
	fields := map[string]interface{}{
		"chapters": humanize.Comma(int64(stats.Chapters)),
		"segments": humanize.Comma(int64(stats.Segments)),
		"examples": humanize.Comma(int64(stats.Examples)),
		"entities": humanize.Comma(int64(stats.Entities)),
	}
	if stats.Tokens > 0 {
		fields["tokens"] = humanize.Comma(int64(stats.Tokens))
	}
	for label, n := range stats.Labels {
		fields["label_"+label] = n
	}
	log.WithFields(fields).Info("dataset built")
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getzep/nerkit/config"
	"github.com/getzep/nerkit/pkg/anonymizer"
	"github.com/getzep/nerkit/pkg/corpus"
	"github.com/getzep/nerkit/pkg/dataset"
	"github.com/getzep/nerkit/pkg/models"
	"github.com/getzep/nerkit/pkg/recognizer"
)

// NewAppState loads the config file / ENV and sets the log level.
func NewAppState() (*models.AppState, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error configuring nerkit: %w", err)
	}
	config.SetLogLevel(cfg)

	return &models.AppState{Config: cfg}, nil
}

// overrideString copies a flag into dst when the user set it.
func overrideString(cmd *cobra.Command, flag string, dst *string) {
	if cmd.Flags().Changed(flag) {
		*dst, _ = cmd.Flags().GetString(flag)
	}
}

func runBuildDataset(cmd *cobra.Command, _ []string) error {
	appState, err := NewAppState()
	if err != nil {
		return err
	}
	cfg := &appState.Config.Dataset
	overrideString(cmd, "corpus", &cfg.CorpusPath)
	overrideString(cmd, "output", &cfg.OutputPath)
	overrideString(cmd, "model", &cfg.Model)
	overrideString(cmd, "offset-unit", &cfg.OffsetUnit)

	ctx := cmd.Context()

	text, err := os.ReadFile(cfg.CorpusPath)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	client := recognizer.NewClient(appState, cfg.Model)
	if err := client.WaitReady(ctx); err != nil {
		return err
	}

	opts := dataset.Options{
		Corpus:     corpus.Options{Marker: cfg.Marker},
		OffsetUnit: cfg.OffsetUnit,
		MinScore:   cfg.MinScore,
		Labels:     cfg.Labels,
	}
	if cfg.TokenEncoding != "" {
		counter, err := dataset.NewTokenCounter(cfg.TokenEncoding)
		if err != nil {
			log.Warnf("token counting disabled: %s", err)
		} else {
			opts.CountTokens = counter
		}
	}

	builder, err := dataset.NewBuilder(client, opts)
	if err != nil {
		return err
	}

	log.Infof("building dataset from %s with %s", cfg.CorpusPath, cfg.Model)
	examples, stats, err := builder.Build(ctx, string(text))
	if err != nil {
		return err
	}
	dataset.LogStats(stats)

	if err := dataset.WriteSummary(cmd.OutOrStdout(), examples); err != nil {
		return err
	}
	return dataset.Save(cfg.OutputPath, examples)
}

func runAnonymize(cmd *cobra.Command, _ []string) error {
	appState, err := NewAppState()
	if err != nil {
		return err
	}
	cfg := &appState.Config.Anonymizer
	overrideString(cmd, "input", &cfg.InputPath)
	overrideString(cmd, "mode", &cfg.Mode)
	overrideString(cmd, "model", &cfg.Model)

	ctx := cmd.Context()

	input, err := readInput(cfg.InputPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	client := recognizer.NewClient(appState, cfg.Model)
	if err := client.WaitReady(ctx); err != nil {
		return err
	}

	a, err := anonymizer.New(client, anonymizer.Options{
		PersonToken:     cfg.PersonToken,
		LocationToken:   cfg.LocationToken,
		ExemptLocations: cfg.ExemptLocations,
		Mode:            cfg.Mode,
	})
	if err != nil {
		return err
	}

	result, err := a.Anonymize(ctx, input)
	if err != nil {
		return err
	}

	// originals are the sensitive values, so only counts are logged
	for _, r := range result.Redactions {
		log.WithFields(map[string]interface{}{
			"group": r.Group,
			"token": r.Token,
			"count": r.Count,
		}).Debug("redacted")
	}
	log.Infof("anonymized %d occurrences of %d distinct names", result.Replaced(), len(result.Redactions))

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return err
}

// readInput returns the document at path, stdin for "-", or the built-in
// example when path is empty.
func readInput(path string, stdin io.Reader) (string, error) {
	switch path {
	case "":
		return anonymizer.ExampleDocument, nil
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(b), nil
	}
}

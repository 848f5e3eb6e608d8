package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getzep/nerkit/config"
	"github.com/getzep/nerkit/internal"
)

var log = internal.GetLogger()

var (
	cfgFile     string
	showVersion bool
	dumpConfig  bool
)

var cmd = &cobra.Command{
	Use:   "nerkit",
	Short: "nerkit builds NER training data and anonymizes documents with pretrained recognizers",
	RunE: func(cmd *cobra.Command, args []string) error {
		handled, err := handleCLIOptions(cmd)
		if err != nil || handled {
			return err
		}
		return cmd.Help()
	},
	SilenceUsage: true,
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Training dataset utilities",
}

var buildDatasetCmd = &cobra.Command{
	Use:     "build",
	Short:   "Build a NER training dataset from a chaptered corpus",
	Example: "nerkit dataset build --corpus data/hp.txt --output data/hp_training_data.json",
	RunE:    runBuildDataset,
}

var anonymizeCmd = &cobra.Command{
	Use:     "anonymize",
	Short:   "Mask person and location names in a document",
	Example: "nerkit anonymize --input peticao.txt --mode span",
	RunE:    runAnonymize,
}

var dumpJSONSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for nerkit's configuration file",
	Example: "nerkit json-schema > nerkit_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return nil
	},
}

func init() {
	datasetCmd.AddCommand(buildDatasetCmd)
	cmd.AddCommand(datasetCmd)
	cmd.AddCommand(anonymizeCmd)
	cmd.AddCommand(dumpJSONSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.Flags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")

	buildDatasetCmd.Flags().String("corpus", "", "corpus text file (overrides dataset.corpus_path)")
	buildDatasetCmd.Flags().String("output", "", "dataset output file (overrides dataset.output_path)")
	buildDatasetCmd.Flags().String("model", "", "recognizer model (overrides dataset.model)")
	buildDatasetCmd.Flags().String("offset-unit", "", "byte or rune (overrides dataset.offset_unit)")

	anonymizeCmd.Flags().StringP("input", "i", "", "document to anonymize, - for stdin (default: built-in example)")
	anonymizeCmd.Flags().String("mode", "", "literal or span (overrides anonymizer.mode)")
	anonymizeCmd.Flags().String("model", "", "recognizer model (overrides anonymizer.model)")
}

// handleCLIOptions handles root options that don't run an operation
func handleCLIOptions(cmd *cobra.Command) (bool, error) {
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), config.VersionString)
		return true, nil
	}
	if dumpConfig {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return true, fmt.Errorf("error configuring nerkit: %w", err)
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return true, err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return true, nil
	}
	return false, nil
}

// Execute executes the root cobra command. SIGINT and SIGTERM cancel the
// running operation.
func Execute() {
	log.SetLevel(logrus.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}

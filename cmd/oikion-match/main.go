package main

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Oikion/mvp-sub017/config"
	"github.com/Oikion/mvp-sub017/pkg/logging"
	"github.com/Oikion/mvp-sub017/pkg/matching"
	"github.com/Oikion/mvp-sub017/pkg/preferences"
)

var (
	configPath string
	cfg        *config.Config
	zapLogger  *zap.Logger
	logger     ectologger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "oikion-match",
	Short:         "Client to property matching engine",
	Long:          "Scores CRM clients against MLS listings using structured criteria and preferences extracted from free-text notes.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		z, err := logging.NewZap(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		zapLogger = z
		zap.ReplaceGlobals(z)
		logger = logging.New(z)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLogger != nil {
			_ = zapLogger.Sync()
		}
	},
}

// newEngine builds the scoring engine from the matching config section
func newEngine(c *config.Config) (*matching.Engine, error) {
	table, err := preferences.LoadTable(c.Matching.PatternFile)
	if err != nil {
		return nil, err
	}
	extractor, err := preferences.NewExtractor(table)
	if err != nil {
		return nil, eris.Wrap(err, "build preference extractor")
	}
	if err := extractor.Validate(); err != nil {
		return nil, eris.Wrap(err, "check pattern table")
	}
	return matching.NewEngine(matching.NewScorer(extractor, c.Matching.Weights)), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

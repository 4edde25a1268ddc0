package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Oikion/mvp-sub017/pkg/matching"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/validation"
)

// rankInput is the YAML (or JSON) document read by the rank command
type rankInput struct {
	Profiles []models.RequirementProfile `yaml:"profiles" validate:"dive"`
	Listings []models.CandidateListing   `yaml:"listings" validate:"dive"`
}

var (
	rankFile      string
	rankThreshold int
	rankLimit     int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank profiles against listings from a file",
	Example: `  oikion-match rank --file pairs.yaml --threshold 60 --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readRankInput(rankFile)
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		req := cfg.DefaultRankRequest()
		if cmd.Flags().Changed("threshold") {
			req.Threshold = rankThreshold
		}
		if cmd.Flags().Changed("limit") {
			req.Limit = rankLimit
		}

		results, err := engine.RankRaw(input.Profiles, input.Listings, req)
		if err != nil {
			return err
		}

		logger.WithFields(map[string]any{
			"profiles": len(input.Profiles),
			"listings": len(input.Listings),
			"results":  len(results),
		}).Debug("Ranked file input")

		return writeJSON(cmd, results)
	},
}

func readRankInput(path string) (rankInput, error) {
	var input rankInput

	b, err := os.ReadFile(path)
	if err != nil {
		return input, eris.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(b, &input); err != nil {
		return input, eris.Wrapf(err, "parse %s", path)
	}
	if _, err := validation.Validate(input); err != nil {
		return input, eris.Wrapf(err, "invalid %s", path)
	}
	return input, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "YAML file with profiles and listings")
	rankCmd.Flags().IntVar(&rankThreshold, "threshold", 0, "minimum overall score (default from config)")
	rankCmd.Flags().IntVar(&rankLimit, "limit", matching.DefaultLimit, "maximum number of results (default from config)")
	_ = rankCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(rankCmd)
}

package main

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Oikion/mvp-sub017/pkg/models"
)

var extractFile string

var extractCmd = &cobra.Command{
	Use:   "extract [text...]",
	Short: "Extract preferences from client notes",
	Long:  "Extracts typed preferences from the given text, a file, or stdin when neither is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := extractText(cmd, args)
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		prefs := engine.Scorer().Extractor().Extract(text)
		if prefs == nil {
			prefs = []models.ExtractedPreference{}
		}
		return writeJSON(cmd, prefs)
	},
}

func extractText(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case extractFile != "":
		b, err := os.ReadFile(extractFile)
		if err != nil {
			return "", eris.Wrapf(err, "read %s", extractFile)
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(b), nil
	}
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "file with the notes to read")
	rootCmd.AddCommand(extractCmd)
}

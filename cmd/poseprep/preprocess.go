package main

import (
	"github.com/spf13/cobra"

	"github.com/openfluke/poseprep"
	"github.com/openfluke/poseprep/logger"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [dir]",
	Short: "Load and trim the extracted recordings",
	Long: `The preprocess command loads every subject_session_view.json recording in the
extracted directory, trims the sessions the interval table marks with "trim",
and reports the resulting shapes. A missing directory is skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recordings, err := loadRecordings(args)
		if err != nil {
			return err
		}
		trimmed := 0
		for _, rec := range recordings {
			if rec.Trimmed {
				trimmed++
			}
		}
		logger.Infof("loaded %d recordings, %d trimmed", len(recordings), trimmed)
		return nil
	},
}

func loadRecordings(args []string) ([]poseprep.Recording, error) {
	return cfg.Preprocessor().ProcessExtractedFiles(extractedDir(args))
}

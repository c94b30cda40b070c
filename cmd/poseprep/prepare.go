package main

import (
	"github.com/spf13/cobra"

	"github.com/openfluke/poseprep"
	"github.com/openfluke/poseprep/logger"
)

var manifestPath string

var prepareCmd = &cobra.Command{
	Use:   "prepare [dir]",
	Short: "Run preprocessing, build the dataset and partition it",
	Long: `The prepare command runs the whole pipeline: it loads and trims recordings,
windows and transforms them into fixed-length samples, partitions the samples
into train, test and validation subsets and, with --out, writes the partition
as a split manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := buildDataset(args)
		if err != nil {
			return err
		}
		sc, err := cfg.SplitConfig()
		if err != nil {
			return err
		}
		train, test, val, err := poseprep.CreateSamplers(ds.Len(), sc)
		if err != nil {
			return err
		}
		log := logger.With().
			Int("samples", ds.Len()).
			Int("train", train.Len()).
			Int("test", test.Len()).
			Int("validation", val.Len()).
			Logger()
		log.Info().Msg("dataset partitioned")

		if manifestPath == "" {
			return nil
		}
		m := poseprep.NewSplitManifest(sc, ds.Len(), train, test, val, ds.Keys())
		if err := m.Verify(ds.Len()); err != nil {
			return err
		}
		if err := poseprep.SaveSplitManifest(manifestPath, m); err != nil {
			return err
		}
		logger.Infof("wrote split manifest %s (run %s)", manifestPath, m.RunID)
		return nil
	},
}

func init() {
	prepareCmd.Flags().StringVarP(&manifestPath, "out", "o", "", "write the split manifest to this file")
}

func buildDataset(args []string) (*poseprep.Dataset, error) {
	recordings, err := loadRecordings(args)
	if err != nil {
		return nil, err
	}
	return poseprep.NewDataset(recordings, cfg.DatasetOptions())
}

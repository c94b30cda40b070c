package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfluke/poseprep"
)

var inspectIndex int

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Print one prepared sample",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := buildDataset(args)
		if err != nil {
			return err
		}
		s, err := ds.Get(inspectIndex)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), poseprep.DescribeSample(s))
		return nil
	},
}

func init() {
	inspectCmd.Flags().IntVarP(&inspectIndex, "index", "i", 0, "flat dataset index")
}

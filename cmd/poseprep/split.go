package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfluke/poseprep"
)

var (
	splitLen  int
	splitShow bool
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Partition a dataset of the given length into train/test/validation",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := cfg.SplitConfig()
		if err != nil {
			return err
		}
		train, test, val, err := poseprep.CreateSamplers(splitLen, sc)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "strategy=%s shuffle=%t seed=%d\n", sc.Strategy, sc.Shuffle, sc.Seed)
		printSubset(cmd, "train", train)
		printSubset(cmd, "test", test)
		printSubset(cmd, "validation", val)
		return nil
	},
}

func init() {
	splitCmd.Flags().IntVarP(&splitLen, "len", "n", 0, "dataset length")
	splitCmd.Flags().BoolVar(&splitShow, "show", false, "print the indices of every subset")
}

func printSubset(cmd *cobra.Command, name string, sel *poseprep.Selector) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %d\n", name, sel.Len())
	if splitShow {
		fmt.Fprintf(out, "  %v\n", sel.Indices())
	}
}

package main

import (
	"os"

	"github.com/openfluke/poseprep/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("poseprep: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftbench/takeoff/pkg/version"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "takeoff",
	Short: "Measure distances, areas and volumes on PDF construction drawings",
	Long: `takeoff inspects rasterized PDF sheets and computes real-world measurements
from document-space points and a two-point calibration. Points are stored in a
zoom- and rotation-invariant coordinate space, so a measurement recorded at one
viewport renders and recalculates identically at any other.`,
	Version: version.Version,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

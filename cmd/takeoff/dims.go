package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftbench/takeoff/internal/sheet"
)

var dimsCmd = &cobra.Command{
	Use:   "dims [file]",
	Short: "Print the page dimensions of a PDF",
	Long:  "Show every page's intrinsic width and height in PDF points, the pixel reference for calibration at scale 1.",
	Args:  cobra.ExactArgs(1),
	Run:   runDims,
}

func init() {
	rootCmd.AddCommand(dimsCmd)
}

func runDims(cmd *cobra.Command, args []string) {
	pdfPath := args[0]

	sizes, err := sheet.LoadPageSizes(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", pdfPath, err)
		os.Exit(1)
	}

	fmt.Printf("Analyzing PDF: %s\n", pdfPath)
	provider := sheet.NewProvider(sizes)
	for pageNum := 1; pageNum <= provider.PageCount(); pageNum++ {
		base, err := provider.GetViewport(pageNum, 1, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error on page %d: %v\n", pageNum, err)
			os.Exit(1)
		}
		rotated, _ := provider.GetViewport(pageNum, 1, 90)

		fmt.Printf("\nPage %d:\n", pageNum)
		fmt.Printf("  Base (rotation 0): %.3f x %.3f points\n", base.Width, base.Height)
		fmt.Printf("  Rotated (90/270):  %.3f x %.3f points\n", rotated.Width, rotated.Height)
	}
}

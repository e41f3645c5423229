package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftbench/takeoff/internal/sheet"
)

var renderPage int

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Rasterize a PDF page to PNG",
	Long:  "Render one page to a PNG the host can display behind the measurement overlay.",
	Args:  cobra.ExactArgs(1),
	Run:   runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().IntVar(&renderPage, "page", 1, "page number to render (from 1)")
}

func runRender(cmd *cobra.Command, args []string) {
	log := newLogger()
	cfg := loadConfig(log)

	renderer, err := sheet.NewRenderer(cfg.RenderOutputDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	imagePath, err := renderer.RenderPage(context.Background(), args[0], renderPage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering page %d: %v\n", renderPage, err)
		os.Exit(1)
	}

	fmt.Printf("Rendered page %d to %s\n", renderPage, imagePath)
}

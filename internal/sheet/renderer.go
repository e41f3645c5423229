package sheet

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/draftbench/takeoff/pkg/logger"
)

// Renderer rasterizes document pages so the host can display them behind the
// measurement overlay.
type Renderer struct {
	outputDir string
	log       *logger.Logger
}

// NewRenderer creates the output directory if needed.
func NewRenderer(outputDir string, log *logger.Logger) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Renderer{outputDir: outputDir, log: log}, nil
}

// RenderPage rasterizes one page (numbered from 1) to a PNG in the output
// directory and returns the image path.
func (r *Renderer) RenderPage(ctx context.Context, pdfPath string, pageNum int) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	// fitz pages are zero indexed
	if pageNum < 1 || pageNum > doc.NumPage() {
		return "", fmt.Errorf("page %d out of range 1..%d", pageNum, doc.NumPage())
	}

	img, err := doc.Image(pageNum - 1)
	if err != nil {
		return "", fmt.Errorf("failed to rasterize page %d: %w", pageNum, err)
	}

	filename := fmt.Sprintf("page_%d_%s.png", pageNum, filepath.Base(pdfPath))
	imagePath := filepath.Join(r.outputDir, filename)
	if err := saveImage(img, imagePath); err != nil {
		return "", fmt.Errorf("failed to save page %d: %w", pageNum, err)
	}

	r.log.Debug("rendered page %d of %s to %s", pageNum, pdfPath, imagePath)
	return imagePath, nil
}

func saveImage(img *image.RGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// Package sheet supplies page geometry and raster images for the measurement
// core. Page dimensions come from the PDF itself; viewports are derived per
// request so the core never holds an ambient per-page cache.
package sheet

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/draftbench/takeoff/internal/transform"
	"github.com/draftbench/takeoff/pkg/models"
)

// LoadPageSizes reads every page's intrinsic dimensions (in PDF points) from
// a file. Pages are numbered from 1.
func LoadPageSizes(pdfPath string) (map[int]models.PageSize, error) {
	dims, err := api.PageDimsFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions from %s: %w", pdfPath, err)
	}

	sizes := make(map[int]models.PageSize, len(dims))
	for i, dim := range dims {
		sizes[i+1] = models.PageSize{Width: dim.Width, Height: dim.Height}
	}
	return sizes, nil
}

// Provider answers viewport queries for the pages of one document.
type Provider struct {
	sizes map[int]models.PageSize
}

// NewProvider wraps a page-size table, usually from LoadPageSizes.
func NewProvider(sizes map[int]models.PageSize) *Provider {
	return &Provider{sizes: sizes}
}

// PageCount reports how many pages the provider knows about.
func (p *Provider) PageCount() int { return len(p.sizes) }

// GetViewport returns the displayed viewport for a page at the given zoom
// and rotation. For 90 and 270 the width and height are swapped: a rotated
// page is displayed with swapped aspect.
func (p *Provider) GetViewport(pageNum int, scale float64, rotation int) (models.ViewportDescriptor, error) {
	size, ok := p.sizes[pageNum]
	if !ok {
		return models.ViewportDescriptor{}, fmt.Errorf("no dimensions for page %d", pageNum)
	}
	if scale <= 0 {
		return models.ViewportDescriptor{}, fmt.Errorf("scale must be positive, got %g", scale)
	}

	r := transform.NormalizeRotation(rotation)
	w, h := size.Width, size.Height
	if r == 90 || r == 270 {
		w, h = h, w
	}
	return models.ViewportDescriptor{
		Width:    w * scale,
		Height:   h * scale,
		Scale:    scale,
		Rotation: r,
	}, nil
}

// BaseViewport returns a calibration-friendly closure yielding the page's
// scale-1 viewport for any rotation.
func (p *Provider) BaseViewport(pageNum int) func(rotation int) models.ViewportDescriptor {
	return func(rotation int) models.ViewportDescriptor {
		vp, err := p.GetViewport(pageNum, 1, rotation)
		if err != nil {
			return models.ViewportDescriptor{}
		}
		return vp
	}
}

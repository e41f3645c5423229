// Package transform maps between view space (pixels in the currently
// displayed viewport, already at the live zoom and rotation) and document
// space (normalized [0,1] coordinates relative to the page's base
// orientation). Document space is what gets stored; it never changes when
// the user zooms or rotates, which is what makes annotations stick to the
// page across viewport changes and sessions.
package transform

import (
	"fmt"

	"github.com/draftbench/takeoff/pkg/models"
)

// Epsilon bounds the round-trip error of ToDocumentSpace(ToViewSpace(p)).
const Epsilon = 1e-9

// NormalizeRotation maps any raw rotation in degrees onto the canonical set
// {0, 90, 180, 270}: reduce mod 360 (shifting negatives into [0,360)), then
// round to the nearest multiple of 90. Every other function in this package
// assumes its rotation input has been through here.
func NormalizeRotation(raw int) int {
	r := raw % 360
	if r < 0 {
		r += 360
	}
	r = ((r + 45) / 90) * 90
	return r % 360
}

// ToDocumentSpace converts a view-space pixel coordinate into a document
// point. The viewport's rotation must already be normalized; its width and
// height are the displayed dimensions, so for 90/270 they are swapped
// relative to the base orientation.
func ToDocumentSpace(vp models.ViewPoint, viewport models.ViewportDescriptor) (models.DocumentPoint, error) {
	if viewport.Width <= 0 || viewport.Height <= 0 {
		return models.DocumentPoint{}, fmt.Errorf("invalid viewport %gx%g", viewport.Width, viewport.Height)
	}

	nx := vp.X / viewport.Width
	ny := vp.Y / viewport.Height

	switch NormalizeRotation(viewport.Rotation) {
	case 0:
		return models.DocumentPoint{X: nx, Y: ny}, nil
	case 90:
		return models.DocumentPoint{X: ny, Y: 1 - nx}, nil
	case 180:
		return models.DocumentPoint{X: 1 - nx, Y: 1 - ny}, nil
	case 270:
		return models.DocumentPoint{X: 1 - ny, Y: nx}, nil
	}
	// unreachable: NormalizeRotation only yields the four cases above
	return models.DocumentPoint{}, fmt.Errorf("unsupported rotation %d", viewport.Rotation)
}

// ToViewSpace converts a stored document point into a pixel coordinate in
// the given viewport. Exact inverse of ToDocumentSpace for every canonical
// rotation.
func ToViewSpace(dp models.DocumentPoint, viewport models.ViewportDescriptor) models.ViewPoint {
	w, h := viewport.Width, viewport.Height

	switch NormalizeRotation(viewport.Rotation) {
	case 90:
		return models.ViewPoint{X: w * (1 - dp.Y), Y: h * dp.X}
	case 180:
		return models.ViewPoint{X: w * (1 - dp.X), Y: h * (1 - dp.Y)}
	case 270:
		return models.ViewPoint{X: w * dp.Y, Y: h * (1 - dp.X)}
	default:
		return models.ViewPoint{X: w * dp.X, Y: h * dp.Y}
	}
}

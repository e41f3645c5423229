// Package measure computes real-world values from document-space point sets
// and a calibration record. All functions are pure: they scale normalized
// coordinates into base-viewport pixels using the calibration record's stored
// base dimensions, never the live viewport's.
package measure

import (
	"errors"
	"fmt"
	"math"

	"github.com/draftbench/takeoff/pkg/models"
)

// ErrInsufficientPoints is returned when a point set is below the structural
// minimum for the requested calculation.
var ErrInsufficientPoints = errors.New("insufficient points")

// DegenerateEpsilon is the pixel-space threshold below which a computed area
// or length is flagged as degenerate (collinear or coincident points). The
// value is still returned; degeneracy is a warning, not an error.
const DegenerateEpsilon = 1e-6

// Linear returns the total polyline length in real-world units: the sum of
// consecutive segment lengths in base-viewport pixels times the scale factor.
func Linear(points []models.DocumentPoint, calib models.CalibrationRecord) (float64, error) {
	if len(points) < models.TypeLinear.MinPoints() {
		return 0, fmt.Errorf("linear needs at least 2 points, got %d: %w", len(points), ErrInsufficientPoints)
	}
	return pathPixels(points, calib, false) * calib.ScaleFactor, nil
}

// Area returns the polygon area in squared real-world units using the
// shoelace formula in base-viewport pixel space. Area scales with the square
// of the scale factor.
func Area(points []models.DocumentPoint, calib models.CalibrationRecord) (float64, error) {
	if len(points) < models.TypeArea.MinPoints() {
		return 0, fmt.Errorf("area needs at least 3 points, got %d: %w", len(points), ErrInsufficientPoints)
	}
	return pixelArea(points, calib) * calib.ScaleFactor * calib.ScaleFactor, nil
}

// Perimeter returns the closed-loop boundary length of a polygon in
// real-world units.
func Perimeter(points []models.DocumentPoint, calib models.CalibrationRecord) (float64, error) {
	if len(points) < models.TypeArea.MinPoints() {
		return 0, fmt.Errorf("perimeter needs at least 3 points, got %d: %w", len(points), ErrInsufficientPoints)
	}
	return pathPixels(points, calib, true) * calib.ScaleFactor, nil
}

// Volume returns area times depth. Depth is expressed in the same unit as
// the calibration record.
func Volume(points []models.DocumentPoint, calib models.CalibrationRecord, depth float64) (float64, error) {
	area, err := Area(points, calib)
	if err != nil {
		return 0, err
	}
	return area * depth, nil
}

// Count is the value of a count measurement. Each placed marker counts one.
func Count() float64 {
	return 1
}

// IsDegenerate reports whether a point set would produce a near-zero value
// for the given type: collinear points for an area, coincident points for a
// length. Callers surface this as a warning rather than blocking.
func IsDegenerate(t models.MeasurementType, points []models.DocumentPoint, calib models.CalibrationRecord) bool {
	switch t {
	case models.TypeArea, models.TypeVolume:
		if len(points) < 3 {
			return true
		}
		return pixelArea(points, calib) < DegenerateEpsilon
	case models.TypeLinear:
		if len(points) < 2 {
			return true
		}
		return pathPixels(points, calib, false) < DegenerateEpsilon
	default:
		return false
	}
}

func pathPixels(points []models.DocumentPoint, calib models.CalibrationRecord, closed bool) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += segmentPixels(points[i-1], points[i], calib)
	}
	if closed && len(points) > 2 {
		total += segmentPixels(points[len(points)-1], points[0], calib)
	}
	return total
}

func segmentPixels(a, b models.DocumentPoint, calib models.CalibrationRecord) float64 {
	dx := (b.X - a.X) * calib.BaseWidth
	dy := (b.Y - a.Y) * calib.BaseHeight
	return math.Sqrt(dx*dx + dy*dy)
}

func pixelArea(points []models.DocumentPoint, calib models.CalibrationRecord) float64 {
	signed := 0.0
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi := points[i].X * calib.BaseWidth
		yi := points[i].Y * calib.BaseHeight
		xj := points[j].X * calib.BaseWidth
		yj := points[j].Y * calib.BaseHeight
		signed += xi*yj - xj*yi
	}
	return math.Abs(signed) / 2
}

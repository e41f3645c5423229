package models

import (
	"time"
)

// MeasurementType identifies what a set of points is measuring.
type MeasurementType string

const (
	TypeLinear MeasurementType = "linear"
	TypeArea   MeasurementType = "area"
	TypeVolume MeasurementType = "volume"
	TypeCount  MeasurementType = "count"
)

// CalibrationScope decides how widely a calibration record applies.
// A page-scoped record overrides a document-scoped one for that page only.
type CalibrationScope string

const (
	ScopePage     CalibrationScope = "page"
	ScopeDocument CalibrationScope = "document"
)

// DocumentPoint is a point in document space: normalized [0,1] coordinates
// relative to the page at rotation 0 and scale 1. Once created it is never
// mutated; viewport changes reinterpret it through the transform package.
type DocumentPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewPoint is a pixel coordinate in whatever viewport is currently displayed.
type ViewPoint struct {
	X float64
	Y float64
}

// PageSize holds a page's intrinsic dimensions in PDF points at rotation 0.
type PageSize struct {
	Width  float64
	Height float64
}

// ViewportDescriptor describes the live viewport for a page: its pixel
// dimensions at the current zoom and rotation. Ephemeral; recomputed whenever
// zoom, rotation or page changes. Rotation is always one of 0, 90, 180, 270.
type ViewportDescriptor struct {
	Width    float64
	Height   float64
	Scale    float64
	Rotation int
}

// CalibrationRecord converts pixel distances into real-world units.
// ScaleFactor is real-world units per pixel of the base viewport (scale=1)
// at RotationAtCalibration. BaseWidth/BaseHeight are the dimensions of that
// base viewport; ScaleFactor is meaningless without them, so consumers must
// always recompute pixel distances from these stored dimensions, never from
// the current viewport.
type CalibrationRecord struct {
	ScaleFactor           float64          `json:"scale_factor"`
	Unit                  string           `json:"unit"`
	BaseWidth             float64          `json:"base_width"`
	BaseHeight            float64          `json:"base_height"`
	RotationAtCalibration int              `json:"rotation_at_calibration"`
	Scope                 CalibrationScope `json:"scope"`
}

// Cutout is a polygon subtracted from its parent measurement, e.g. a door
// opening subtracted from a wall area. Owned by exactly one Measurement.
type Cutout struct {
	ID              string          `json:"id"`
	Points          []DocumentPoint `json:"points"`
	CalculatedValue float64         `json:"calculated_value"`
}

// Measurement is a finished takeoff recorded in document space. Created on
// drawing-session completion; mutated only by cutout attach/detach or deleted
// outright.
type Measurement struct {
	ID                 string          `json:"id"`
	PageNum            int             `json:"page_num"`
	Type               MeasurementType `json:"type"`
	Points             []DocumentPoint `json:"points"`
	CalculatedValue    float64         `json:"calculated_value"`
	Unit               string          `json:"unit"`
	Depth              float64         `json:"depth,omitempty"`
	PerimeterValue     float64         `json:"perimeter_value,omitempty"`
	HasPerimeter       bool            `json:"has_perimeter,omitempty"`
	Cutouts            []Cutout        `json:"cutouts,omitempty"`
	NetCalculatedValue float64         `json:"net_calculated_value,omitempty"`
	HasNet             bool            `json:"has_net,omitempty"`
	Degenerate         bool            `json:"degenerate,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Net returns the value a host should display: the net value when cutouts
// exist, the gross value otherwise.
func (m Measurement) Net() float64 {
	if m.HasNet {
		return m.NetCalculatedValue
	}
	return m.CalculatedValue
}

// MinPoints is the structural minimum point count for a measurement type.
func (t MeasurementType) MinPoints() int {
	switch t {
	case TypeLinear:
		return 2
	case TypeArea, TypeVolume:
		return 3
	case TypeCount:
		return 1
	default:
		return 0
	}
}

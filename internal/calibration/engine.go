// Package calibration derives a real-world-units-per-pixel scale factor from
// two user-picked points and a known distance. The resulting record is the
// anchor every later measurement on the page is computed against.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/draftbench/takeoff/internal/transform"
	"github.com/draftbench/takeoff/pkg/logger"
	"github.com/draftbench/takeoff/pkg/models"
)

// State of the two-point calibration flow.
type State int

const (
	Idle State = iota
	AwaitingSecondPoint
	Complete
)

const (
	// Hard limits on the derived scale factor. Outside this range the picked
	// points are so close or so far apart the result cannot be meaningful.
	MinScaleFactor = 1e-4
	MaxScaleFactor = 1e4

	// Relative error above which the calibration is rejected outright.
	MaxRelativeError = 0.10

	// Accuracy below this emits a non-blocking warning.
	AccuracyWarnThreshold = 0.95

	// Typical architectural-drawing range in units per pixel. Outside it the
	// calibration still succeeds but the host is warned.
	TypicalScaleMin = 0.005
	TypicalScaleMax = 0.2
)

// ErrCoincidentPoints means the two calibration points are the same pixel.
var ErrCoincidentPoints = errors.New("calibration points coincide")

// ErrNotCalibrating is returned when a point arrives with no Begin in flight.
var ErrNotCalibrating = errors.New("no calibration in progress")

// RangeError reports a scale factor outside the hard limits.
type RangeError struct {
	ScaleFactor float64
}

func (e *RangeError) Error() string {
	if e.ScaleFactor < MinScaleFactor {
		return fmt.Sprintf("scale factor %g too small: calibration points too far apart", e.ScaleFactor)
	}
	return fmt.Sprintf("scale factor %g too large: calibration points too close together", e.ScaleFactor)
}

// AccuracyError reports a calibration whose re-derived distance misses the
// known distance by more than the hard floor.
type AccuracyError struct {
	RelativeError float64
}

func (e *AccuracyError) Error() string {
	return fmt.Sprintf("calibration accuracy too low: relative error %.2f%%", e.RelativeError*100)
}

// Warning is a non-blocking advisory emitted alongside a successful record.
type Warning string

// BaseViewportFunc returns the page's viewport at scale 1 for the given
// canonical rotation. Supplied by the host's geometry layer.
type BaseViewportFunc func(rotation int) models.ViewportDescriptor

// Engine runs the Idle -> AwaitingSecondPoint -> Complete point-capture flow
// and finalizes a CalibrationRecord from the second point. One engine exists
// per active page.
type Engine struct {
	baseViewport BaseViewportFunc
	log          *logger.Logger

	typicalMin float64
	typicalMax float64

	state         State
	knownDistance float64
	unit          string
	scope         models.CalibrationScope
	points        []models.DocumentPoint
	record        *models.CalibrationRecord
}

// Option configures an Engine.
type Option func(*Engine)

// WithTypicalRange overrides the units-per-pixel range that triggers the
// "unusual scale" warning, e.g. for site plans rather than floor plans.
func WithTypicalRange(min, max float64) Option {
	return func(e *Engine) {
		e.typicalMin = min
		e.typicalMax = max
	}
}

// NewEngine builds an engine over the host's base-viewport source.
func NewEngine(baseViewport BaseViewportFunc, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		baseViewport: baseViewport,
		log:          log,
		state:        Idle,
		typicalMin:   TypicalScaleMin,
		typicalMax:   TypicalScaleMax,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State reports where the capture flow currently is.
func (e *Engine) State() State { return e.state }

// Record returns the finalized record, or nil before completion.
func (e *Engine) Record() *models.CalibrationRecord { return e.record }

// Begin starts a calibration attempt for a known real-world distance,
// discarding any points from a previous attempt.
func (e *Engine) Begin(knownDistance float64, unit string, scope models.CalibrationScope) error {
	if knownDistance <= 0 {
		return fmt.Errorf("known distance must be positive, got %g", knownDistance)
	}
	e.knownDistance = knownDistance
	e.unit = unit
	e.scope = scope
	e.points = e.points[:0]
	e.record = nil
	e.state = Idle
	e.log.Debug("calibration started: %g %s (%s scope)", knownDistance, unit, scope)
	return nil
}

// AddPoint appends a document-space calibration point. The first point moves
// the engine to AwaitingSecondPoint; the second finalizes. On a fatal
// finalization error the engine resets to Idle and nothing is recorded.
func (e *Engine) AddPoint(p models.DocumentPoint, currentRotation int) (*models.CalibrationRecord, []Warning, error) {
	if e.knownDistance == 0 {
		return nil, nil, ErrNotCalibrating
	}

	switch e.state {
	case Idle:
		e.points = append(e.points[:0], p)
		e.state = AwaitingSecondPoint
		return nil, nil, nil
	case AwaitingSecondPoint:
		e.points = append(e.points, p)
		record, warnings, err := e.finalize(currentRotation)
		if err != nil {
			e.reset()
			return nil, nil, err
		}
		e.record = &record
		e.state = Complete
		return &record, warnings, nil
	default:
		return nil, nil, fmt.Errorf("calibration already complete")
	}
}

// Reset abandons the attempt and returns to Idle.
func (e *Engine) Reset() {
	e.reset()
	e.knownDistance = 0
}

func (e *Engine) reset() {
	e.points = e.points[:0]
	e.record = nil
	e.state = Idle
}

func (e *Engine) finalize(currentRotation int) (models.CalibrationRecord, []Warning, error) {
	rotation := transform.NormalizeRotation(currentRotation)
	base := e.baseViewport(rotation)

	p1, p2 := e.points[0], e.points[1]
	dx := (p2.X - p1.X) * base.Width
	dy := (p2.Y - p1.Y) * base.Height
	pixelDistance := math.Sqrt(dx*dx + dy*dy)

	if pixelDistance == 0 {
		return models.CalibrationRecord{}, nil, ErrCoincidentPoints
	}

	scaleFactor := e.knownDistance / pixelDistance
	if scaleFactor < MinScaleFactor || scaleFactor > MaxScaleFactor {
		return models.CalibrationRecord{}, nil, &RangeError{ScaleFactor: scaleFactor}
	}

	relErr := math.Abs(pixelDistance*scaleFactor-e.knownDistance) / e.knownDistance
	if relErr >= MaxRelativeError {
		return models.CalibrationRecord{}, nil, &AccuracyError{RelativeError: relErr}
	}

	var warnings []Warning
	if accuracy := 1 - relErr; accuracy < AccuracyWarnThreshold {
		warnings = append(warnings, Warning(fmt.Sprintf("calibration accuracy %.1f%% below %.0f%%", accuracy*100, AccuracyWarnThreshold*100)))
	}
	if scaleFactor < e.typicalMin || scaleFactor > e.typicalMax {
		warnings = append(warnings, Warning(fmt.Sprintf("scale factor %g outside the typical range %g-%g units/px", scaleFactor, e.typicalMin, e.typicalMax)))
	}
	for _, w := range warnings {
		e.log.Warn("%s", w)
	}

	record := models.CalibrationRecord{
		ScaleFactor:           scaleFactor,
		Unit:                  e.unit,
		BaseWidth:             base.Width,
		BaseHeight:            base.Height,
		RotationAtCalibration: rotation,
		Scope:                 e.scope,
	}
	e.log.Info("calibrated: %g %s/px over %gpx", scaleFactor, e.unit, pixelDistance)
	return record, warnings, nil
}

// Resolve picks the calibration record that applies to a page: a page-scoped
// record wins over the document-wide fallback.
func Resolve(pageRecord, documentRecord *models.CalibrationRecord) *models.CalibrationRecord {
	if pageRecord != nil && pageRecord.Scope == models.ScopePage {
		return pageRecord
	}
	return documentRecord
}

// Package session runs the interactive point-capture state machine for a
// single in-progress measurement. The host feeds it document-space points
// (already converted from pointer events by the transform package) and asks
// for completion on the gesture that ends the type: first click for counts,
// double-click or an explicit finish for everything else.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/draftbench/takeoff/internal/measure"
	"github.com/draftbench/takeoff/pkg/logger"
	"github.com/draftbench/takeoff/pkg/models"
)

// State of a drawing session.
type State int

// Completion is not a resting state: emitting the measurement transitions
// straight back to Idle so the next gesture can begin.
const (
	Idle State = iota
	Active
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CompletionWindow is how long after a completion a second completion of the
// same gesture is treated as a duplicate. A double-click is two close clicks,
// so the host will often deliver the finishing event twice.
const CompletionWindow = 100 * time.Millisecond

// ErrInsufficientPoints wraps measure.ErrInsufficientPoints for callers that
// only import this package.
var ErrInsufficientPoints = measure.ErrInsufficientPoints

// Preview is what the host renders while the pointer hovers: the captured
// points plus the snapped candidate, and the length the polyline would have.
type Preview struct {
	Points []models.DocumentPoint
	Length float64
}

// Session accumulates document-space points for one measurement. Ephemeral:
// it exists between start and complete/cancel, and a page has at most one.
type Session struct {
	log   *logger.Logger
	typ   models.MeasurementType
	calib models.CalibrationRecord

	pageNum       int
	depth         float64
	wantPerimeter bool
	orthoSnapping bool

	state         State
	points        []models.DocumentPoint
	runningLength float64

	now           func() time.Time
	completedAt   time.Time
	lastCompleted *models.Measurement
}

// Option configures a Session.
type Option func(*Session)

// WithPage records which page the measurement belongs to.
func WithPage(pageNum int) Option {
	return func(s *Session) { s.pageNum = pageNum }
}

// WithDepth sets the extrusion depth for volume measurements, in the
// calibration record's unit.
func WithDepth(depth float64) Option {
	return func(s *Session) { s.depth = depth }
}

// WithPerimeter also computes the closed-loop boundary length for area
// measurements.
func WithPerimeter() Option {
	return func(s *Session) { s.wantPerimeter = true }
}

// WithOrthoSnapping starts the session with axis snapping on.
func WithOrthoSnapping() Option {
	return func(s *Session) { s.orthoSnapping = true }
}

// WithClock substitutes the time source. Test hook for the duplicate
// completion window.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session for one measurement of the given type.
func New(typ models.MeasurementType, calib models.CalibrationRecord, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		log:   log,
		typ:   typ,
		calib: calib,
		state: Idle,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current machine state.
func (s *Session) State() State { return s.state }

// Points returns the captured points. The returned slice is the session's
// own; callers must not hold it across transitions.
func (s *Session) Points() []models.DocumentPoint { return s.points }

// RunningLength is the length of the captured polyline so far, in the
// calibration record's unit.
func (s *Session) RunningLength() float64 { return s.runningLength }

// SetOrthoSnapping toggles axis snapping mid-session, e.g. from a modifier
// key.
func (s *Session) SetOrthoSnapping(on bool) { s.orthoSnapping = on }

// Click captures a point. Count measurements complete immediately on the
// first click and return the finished measurement; every other type returns
// nil until Complete is called.
func (s *Session) Click(p models.DocumentPoint) (*models.Measurement, error) {
	if s.state != Idle && s.state != Active {
		return nil, fmt.Errorf("session is %s, not accepting points", s.state)
	}

	p = s.snap(p)

	if s.typ == models.TypeCount {
		s.points = append(s.points[:0], p)
		return s.complete()
	}

	s.points = append(s.points, p)
	s.state = Active
	s.recomputeRunningLength()
	s.log.Trace("point %d captured at (%.4f, %.4f)", len(s.points), p.X, p.Y)
	return nil, nil
}

// Move produces the hover preview for a candidate pointer position without
// mutating the captured points.
func (s *Session) Move(p models.DocumentPoint) Preview {
	if s.state != Active {
		return Preview{}
	}
	candidate := s.snap(p)
	points := make([]models.DocumentPoint, len(s.points), len(s.points)+1)
	copy(points, s.points)
	points = append(points, candidate)

	length := 0.0
	if len(points) >= 2 {
		length, _ = measure.Linear(points, s.calib)
	}
	return Preview{Points: points, Length: length}
}

// Escape undoes the most recent point. Removing the last remaining point
// cancels the session.
func (s *Session) Escape() State {
	if s.state != Active || len(s.points) == 0 {
		return s.state
	}
	s.points = s.points[:len(s.points)-1]
	s.recomputeRunningLength()
	if len(s.points) == 0 {
		s.state = Idle
		s.log.Debug("session cancelled by undo")
	}
	return s.state
}

// Cancel abandons the session outright.
func (s *Session) Cancel() {
	s.points = s.points[:0]
	s.runningLength = 0
	s.state = Cancelled
}

// Complete finishes the session and emits the measurement. A repeat call
// within CompletionWindow returns the same measurement, so the two physical
// clicks of a double-click produce one logical completion. With fewer than
// the type's minimum points the session stays Active and the error wraps
// ErrInsufficientPoints.
func (s *Session) Complete() (*models.Measurement, error) {
	if s.state == Idle && s.lastCompleted != nil && s.now().Sub(s.completedAt) < CompletionWindow {
		return s.lastCompleted, nil
	}
	if s.state != Active {
		return nil, fmt.Errorf("cannot complete a %s session", s.state)
	}
	if len(s.points) < s.typ.MinPoints() {
		return nil, fmt.Errorf("%s needs at least %d points, got %d: %w",
			s.typ, s.typ.MinPoints(), len(s.points), ErrInsufficientPoints)
	}
	return s.complete()
}

func (s *Session) complete() (*models.Measurement, error) {
	value, err := s.calculate()
	if err != nil {
		return nil, err
	}

	m := &models.Measurement{
		ID:              uuid.NewString(),
		PageNum:         s.pageNum,
		Type:            s.typ,
		Points:          append([]models.DocumentPoint(nil), s.points...),
		CalculatedValue: value,
		Unit:            s.calib.Unit,
		Depth:           s.depth,
		CreatedAt:       s.now(),
	}

	if s.wantPerimeter && (s.typ == models.TypeArea || s.typ == models.TypeVolume) {
		perimeter, err := measure.Perimeter(s.points, s.calib)
		if err != nil {
			return nil, err
		}
		m.PerimeterValue = perimeter
		m.HasPerimeter = true
	}

	if measure.IsDegenerate(s.typ, s.points, s.calib) {
		m.Degenerate = true
		s.log.Warn("%s measurement is degenerate: value %g", s.typ, value)
	}

	s.lastCompleted = m
	s.completedAt = s.now()
	s.points = s.points[:0]
	s.runningLength = 0
	s.state = Idle
	s.log.Debug("session completed: %s = %g %s", s.typ, value, m.Unit)
	return m, nil
}

func (s *Session) calculate() (float64, error) {
	switch s.typ {
	case models.TypeLinear:
		return measure.Linear(s.points, s.calib)
	case models.TypeArea:
		return measure.Area(s.points, s.calib)
	case models.TypeVolume:
		return measure.Volume(s.points, s.calib, s.depth)
	case models.TypeCount:
		return measure.Count(), nil
	default:
		return 0, fmt.Errorf("unknown measurement type %q", s.typ)
	}
}

func (s *Session) snap(p models.DocumentPoint) models.DocumentPoint {
	if !s.orthoSnapping || len(s.points) == 0 {
		return p
	}
	return Snap(p, s.points[len(s.points)-1])
}

func (s *Session) recomputeRunningLength() {
	if len(s.points) < 2 {
		s.runningLength = 0
		return
	}
	length, err := measure.Linear(s.points, s.calib)
	if err != nil && !errors.Is(err, measure.ErrInsufficientPoints) {
		s.log.Warn("running length: %v", err)
		return
	}
	s.runningLength = length
}

// Package takeoff is the host-facing seam of the measurement core: it turns
// finished drawing sessions into persisted measurements and routes cutout
// edits through the store.
package takeoff

import (
	"fmt"

	"github.com/draftbench/takeoff/internal/measure"
	"github.com/draftbench/takeoff/internal/session"
	"github.com/draftbench/takeoff/pkg/logger"
	"github.com/draftbench/takeoff/pkg/models"
)

// Service wires sessions, the cutout engine and persistence together.
type Service struct {
	store   Store
	cutouts measure.CutoutEngine
	log     *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClampedNet floors net values at zero when cutouts exceed the gross
// value.
func WithClampedNet() Option {
	return func(s *Service) { s.cutouts.ClampNetAtZero = true }
}

// NewService builds a service over the host's store.
func NewService(store Store, log *logger.Logger, opts ...Option) *Service {
	s := &Service{store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompleteSession finishes the drawing session and persists the result.
// Persistence is fire-and-forget: a save failure is logged, not returned,
// so the session loop keeps accepting input either way.
func (s *Service) CompleteSession(sess *session.Session) (*models.Measurement, error) {
	m, err := sess.Complete()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Save(*m); err != nil {
		s.log.Warn("failed to persist measurement %s: %v", m.ID, err)
	}
	return m, nil
}

// AttachCutout subtracts a hole polygon from a stored measurement and
// persists the updated net value.
func (s *Service) AttachCutout(measurementID string, points []models.DocumentPoint, calib models.CalibrationRecord) (models.Measurement, error) {
	m, err := s.store.Get(measurementID)
	if err != nil {
		return models.Measurement{}, err
	}

	cutout, err := s.cutouts.AddCutout(&m, points, calib)
	if err != nil {
		return models.Measurement{}, err
	}
	if err := s.store.Update(m.ID, m); err != nil {
		return models.Measurement{}, fmt.Errorf("failed to persist cutout %s: %w", cutout.ID, err)
	}
	s.log.Debug("cutout %s attached to %s, net %g", cutout.ID, m.ID, m.NetCalculatedValue)
	return m, nil
}

// DetachCutout removes a cutout and persists the recomputed net value.
func (s *Service) DetachCutout(measurementID, cutoutID string) (models.Measurement, error) {
	m, err := s.store.Get(measurementID)
	if err != nil {
		return models.Measurement{}, err
	}

	if err := s.cutouts.RemoveCutout(&m, cutoutID); err != nil {
		return models.Measurement{}, err
	}
	if err := s.store.Update(m.ID, m); err != nil {
		return models.Measurement{}, fmt.Errorf("failed to persist cutout removal: %w", err)
	}
	return m, nil
}

// DeleteMeasurement removes a measurement and its cutouts outright.
func (s *Service) DeleteMeasurement(id string) error {
	return s.store.Delete(id)
}

// PageMeasurements lists the persisted measurements on a page.
func (s *Service) PageMeasurements(pageNum int) []models.Measurement {
	return s.store.QueryByPage(pageNum)
}
